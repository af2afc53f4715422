package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarturl/smarturl/app/dto"
	"github.com/smarturl/smarturl/app/services"
	"github.com/smarturl/smarturl/config"
	"github.com/smarturl/smarturl/utils"
)

func testShortLinkConfig() config.ShortLinkConfig {
	return config.ShortLinkConfig{
		BaseURL:      "http://localhost:8080",
		CacheTTL:     utils.RedirectCacheTTL,
		AnonymousTTL: utils.AnonymousLinkTTL,
	}
}

func newShortenFixture(screener services.SafetyScreener) (*ShortenFlowImpl, *fakeLinkRepo, *fakeCache) {
	linkRepo := newFakeLinkRepo()
	cache := newFakeCache()
	flow := NewShortenFlow(linkRepo, cache, screener, nil, testShortLinkConfig())
	return flow.(*ShortenFlowImpl), linkRepo, cache
}

func TestShorten_AcceptsSafeURL(t *testing.T) {
	screener := services.NewMockScreener()
	screener.Result = &services.ScreenResult{IsMalicious: false, Confidence: 0.97}
	flow, linkRepo, cache := newShortenFixture(screener)

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://example.com/page"})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.Safe)
	assert.Equal(t, "000001", resp.ShortCode)
	assert.Equal(t, "http://localhost:8080/r/000001", resp.ShortURL)
	assert.Equal(t, "https://example.com/page", resp.OriginalURL)
	assert.InDelta(t, 0.97, resp.MLConfidence, 1e-9)

	link, err := linkRepo.ByShortCode(context.Background(), resp.ShortCode)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "https://example.com/page", link.OriginalURL)
	assert.InDelta(t, 0.97, link.MLConfidence, 1e-9)

	cached, ok := cache.cached(resp.ShortCode)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/page", cached)
}

func TestShorten_PrependsSchemeWhenMissing(t *testing.T) {
	flow, _, _ := newShortenFixture(services.NewMockScreener())

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "example.com/path"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", resp.OriginalURL)
}

func TestShorten_KeepsExplicitHTTPScheme(t *testing.T) {
	flow, _, _ := newShortenFixture(services.NewMockScreener())

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "http://plain.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "http://plain.example.com", resp.OriginalURL)
}

func TestShorten_RejectsBlankURL(t *testing.T) {
	flow, linkRepo, _ := newShortenFixture(services.NewMockScreener())

	_, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "   "})
	require.Error(t, err)
	assert.True(t, IsEmptyURL(err))

	n, _ := linkRepo.Count(context.Background(), linkFilterAll())
	assert.Zero(t, n)
}

func TestShorten_BlocksMaliciousWithoutPersisting(t *testing.T) {
	screener := services.NewMockScreener()
	screener.Result = &services.ScreenResult{IsMalicious: true, Confidence: 0.91}
	flow, linkRepo, cache := newShortenFixture(screener)

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://evil.example.com"})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.False(t, resp.Safe)
	assert.Empty(t, resp.ShortCode)
	assert.Empty(t, resp.ShortURL)
	assert.InDelta(t, 0.91, resp.MLConfidence, 1e-9)

	n, _ := linkRepo.Count(context.Background(), linkFilterAll())
	assert.Zero(t, n)
	_, ok := cache.cached("000001")
	assert.False(t, ok)
}

func TestShorten_FailsOpenWhenScreenerDown(t *testing.T) {
	screener := services.NewMockScreener()
	screener.Err = errors.New("connection refused")
	flow, linkRepo, _ := newShortenFixture(screener)

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)
	assert.True(t, resp.Safe)
	assert.NotEmpty(t, resp.ShortCode)
	assert.Zero(t, resp.MLConfidence)

	link, err := linkRepo.ByShortCode(context.Background(), resp.ShortCode)
	require.NoError(t, err)
	require.NotNil(t, link)
}

func TestShorten_AnonymousLinkGetsExpiry(t *testing.T) {
	flow, linkRepo, _ := newShortenFixture(services.NewMockScreener())

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ExpiresAt)

	link, err := linkRepo.ByShortCode(context.Background(), resp.ShortCode)
	require.NoError(t, err)
	require.NotNil(t, link.ExpiresAt)

	expected := time.Now().UTC().Add(utils.AnonymousLinkTTL)
	assert.WithinDuration(t, expected, *link.ExpiresAt, time.Minute)
}

func TestShorten_OwnedLinkNeverExpires(t *testing.T) {
	flow, linkRepo, _ := newShortenFixture(services.NewMockScreener())
	owner := "user-42"

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://example.com", OwnerID: &owner})
	require.NoError(t, err)
	assert.Empty(t, resp.ExpiresAt)

	link, err := linkRepo.ByShortCode(context.Background(), resp.ShortCode)
	require.NoError(t, err)
	assert.Nil(t, link.ExpiresAt)
}

func TestShorten_SurvivesCacheWriteFailure(t *testing.T) {
	flow, _, cache := newShortenFixture(services.NewMockScreener())
	cache.setErr = errors.New("redis down")

	resp, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)
	assert.True(t, resp.Safe)
	assert.NotEmpty(t, resp.ShortCode)
}

func TestShorten_PropagatesStoreFailure(t *testing.T) {
	flow, linkRepo, _ := newShortenFixture(services.NewMockScreener())
	linkRepo.saveErr = errors.New("connection reset")

	_, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://example.com"})
	require.Error(t, err)

	var bizErr *BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, "SHORTEN_FAILED", bizErr.Code)
}

func TestListByOwner_ReturnsOnlyOwnersLinks(t *testing.T) {
	flow, _, _ := newShortenFixture(services.NewMockScreener())
	owner := "user-42"
	other := "user-99"

	_, err := flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://one.example.com", OwnerID: &owner})
	require.NoError(t, err)
	_, err = flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://two.example.com", OwnerID: &owner})
	require.NoError(t, err)
	_, err = flow.Shorten(context.Background(), &dto.ShortenRequest{OriginalURL: "https://three.example.com", OwnerID: &other})
	require.NoError(t, err)

	links, err := flow.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	for _, link := range links {
		require.NotNil(t, link.OwnerID)
		assert.Equal(t, owner, *link.OwnerID)
	}
}
