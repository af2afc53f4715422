package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/repository"
	testhelpers "github.com/smarturl/smarturl/testing"
)

func TestClickEventRepository_SaveAndCount(t *testing.T) {
	tdb := testhelpers.MustSetupTestDB(t)
	fixtures := testhelpers.NewTestFixtures(tdb)
	repo := repository.NewClickEventRepository(tdb.DB)

	link, err := fixtures.CreateTestLink("https://example.com/page", nil)
	require.NoError(t, err)
	code := *link.ShortCode

	event := &models.ClickEvent{
		ShortCode:     code,
		DeviceType:    "Desktop",
		Browser:       "Chrome",
		RefererDomain: "twitter.com",
		Country:       "Unknown",
	}
	require.NoError(t, repo.Save(context.Background(), event))
	assert.NotZero(t, event.ID)

	count, err := repo.CountByShortCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Other codes stay untouched
	count, err = repo.CountByShortCode(context.Background(), "zzzzzz")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClickEventRepository_GroupedCounts(t *testing.T) {
	tdb := testhelpers.MustSetupTestDB(t)
	fixtures := testhelpers.NewTestFixtures(tdb)
	repo := repository.NewClickEventRepository(tdb.DB)

	link, err := fixtures.CreateTestLink("https://example.com/page", nil)
	require.NoError(t, err)
	code := *link.ShortCode

	for _, device := range []string{"Desktop", "Desktop", "Desktop", "Mobile"} {
		event := &models.ClickEvent{ShortCode: code, DeviceType: device, Browser: "Chrome", RefererDomain: "Direct", Country: "Unknown"}
		require.NoError(t, repo.Save(context.Background(), event))
	}

	rows, err := repo.CountByDeviceType(context.Background(), code)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Descending by count
	assert.Equal(t, "Desktop", rows[0].Key)
	assert.Equal(t, int64(3), rows[0].Count)
	assert.Equal(t, "Mobile", rows[1].Key)
	assert.Equal(t, int64(1), rows[1].Count)
}

func TestClickEventRepository_CountByDay(t *testing.T) {
	tdb := testhelpers.MustSetupTestDB(t)
	fixtures := testhelpers.NewTestFixtures(tdb)
	repo := repository.NewClickEventRepository(tdb.DB)

	link, err := fixtures.CreateTestLink("https://example.com/page", nil)
	require.NoError(t, err)
	code := *link.ShortCode

	// One click today, one yesterday, one the day before
	_, err = fixtures.CreateTestClicks(code, 3)
	require.NoError(t, err)

	rows, err := repo.CountByDay(context.Background(), code)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Chronological order
	assert.True(t, rows[0].Day.Before(rows[1].Day))
	assert.True(t, rows[1].Day.Before(rows[2].Day))
	for _, row := range rows {
		assert.Equal(t, int64(1), row.Count)
	}
}

func TestClickEventRepository_SaveBatch(t *testing.T) {
	tdb := testhelpers.MustSetupTestDB(t)
	fixtures := testhelpers.NewTestFixtures(tdb)
	repo := repository.NewClickEventRepository(tdb.DB)

	link, err := fixtures.CreateTestLink("https://example.com/page", nil)
	require.NoError(t, err)
	code := *link.ShortCode

	events := make([]*models.ClickEvent, 0, 5)
	for i := 0; i < 5; i++ {
		events = append(events, &models.ClickEvent{ShortCode: code, DeviceType: "Desktop", Browser: "Other", RefererDomain: "Direct", Country: "Unknown"})
	}
	require.NoError(t, repo.SaveBatch(context.Background(), events))

	count, err := repo.CountByShortCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
