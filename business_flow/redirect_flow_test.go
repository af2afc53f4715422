package businessflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/utils"
)

func newRedirectFixture() (*RedirectFlowImpl, *fakeLinkRepo, *fakeClickRepo, *fakeCache) {
	linkRepo := newFakeLinkRepo()
	clickRepo := newFakeClickRepo()
	cache := newFakeCache()
	flow := NewRedirectFlow(linkRepo, clickRepo, cache, testShortLinkConfig())
	return flow.(*RedirectFlowImpl), linkRepo, clickRepo, cache
}

func storeLink(t *testing.T, repo *fakeLinkRepo, url string, expiresAt *time.Time) string {
	t.Helper()
	link := &models.Link{OriginalURL: url, ExpiresAt: expiresAt}
	require.NoError(t, repo.Save(context.Background(), link))
	code := utils.EncodeShortCode(link.ID)
	require.NoError(t, repo.UpdateShortCode(context.Background(), link.ID, code))
	return code
}

func TestResolve_CacheMissFallsBackToStore(t *testing.T) {
	flow, linkRepo, clickRepo, cache := newRedirectFixture()
	code := storeLink(t, linkRepo, "https://example.com/target", nil)

	destination, err := flow.Resolve(context.Background(), code, NewClickMetadata("Mozilla/5.0 Chrome Safari", "https://twitter.com/x", "203.0.113.7"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/target", destination)

	// Miss warms the cache for the next redirect
	cached, ok := cache.cached(code)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/target", cached)

	// Recording is detached; wait for it to land
	require.Eventually(t, func() bool {
		return clickRepo.eventCount() == 1 && linkRepo.clickCount(code) == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := clickRepo.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, code, event.ShortCode)
	assert.Equal(t, "Desktop", event.DeviceType)
	assert.Equal(t, "Chrome", event.Browser)
	assert.Equal(t, "twitter.com", event.RefererDomain)
	assert.Equal(t, utils.CountryPlaceholder, event.Country)
}

func TestResolve_CacheHitSkipsStoreAndSlidesTTL(t *testing.T) {
	flow, linkRepo, clickRepo, cache := newRedirectFixture()
	code := storeLink(t, linkRepo, "https://example.com/target", nil)
	require.NoError(t, cache.Set(context.Background(), code, "https://example.com/target", time.Hour))
	linkRepo.byCodeErr = errors.New("store must not be consulted on a cache hit")

	destination, err := flow.Resolve(context.Background(), code, NewClickMetadata("", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/target", destination)
	assert.Equal(t, 1, cache.refreshCount(code))

	require.Eventually(t, func() bool {
		return clickRepo.eventCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResolve_CacheHitServesBusinessExpiredLink(t *testing.T) {
	// A cached entry outliving the link's expiry is still served; expiry is
	// only enforced on the store path.
	flow, linkRepo, _, cache := newRedirectFixture()
	expired := time.Now().UTC().Add(-time.Hour)
	code := storeLink(t, linkRepo, "https://example.com/old", &expired)
	require.NoError(t, cache.Set(context.Background(), code, "https://example.com/old", time.Hour))

	destination, err := flow.Resolve(context.Background(), code, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/old", destination)
}

func TestResolve_UnknownCode(t *testing.T) {
	flow, _, clickRepo, _ := newRedirectFixture()

	_, err := flow.Resolve(context.Background(), "zzzzzz", nil)
	require.Error(t, err)
	assert.True(t, IsLinkNotFound(err))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, clickRepo.eventCount())
}

func TestResolve_ExpiredLinkOnStorePath(t *testing.T) {
	flow, linkRepo, clickRepo, cache := newRedirectFixture()
	expired := time.Now().UTC().Add(-time.Minute)
	code := storeLink(t, linkRepo, "https://example.com/old", &expired)

	_, err := flow.Resolve(context.Background(), code, nil)
	require.Error(t, err)
	assert.True(t, IsLinkExpired(err))

	_, ok := cache.cached(code)
	assert.False(t, ok)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, clickRepo.eventCount())
}

func TestResolve_CacheErrorTreatedAsMiss(t *testing.T) {
	flow, linkRepo, _, cache := newRedirectFixture()
	code := storeLink(t, linkRepo, "https://example.com/target", nil)
	cache.getErr = errors.New("redis down")

	destination, err := flow.Resolve(context.Background(), code, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/target", destination)
}

func TestResolve_ClickRecordingFailureDoesNotAffectRedirect(t *testing.T) {
	flow, linkRepo, clickRepo, _ := newRedirectFixture()
	code := storeLink(t, linkRepo, "https://example.com/target", nil)
	clickRepo.saveErr = errors.New("insert failed")

	destination, err := flow.Resolve(context.Background(), code, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/target", destination)

	// Counter must not move when the event insert failed
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, linkRepo.clickCount(code))
}

func TestResolve_ConcurrentClicksAllCounted(t *testing.T) {
	flow, linkRepo, clickRepo, _ := newRedirectFixture()
	code := storeLink(t, linkRepo, "https://example.com/target", nil)

	const redirects = 50
	var wg sync.WaitGroup
	for i := 0; i < redirects; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meta := NewClickMetadata("Mozilla/5.0 Chrome Safari", fmt.Sprintf("https://ref%d.example.com/", i), "203.0.113.7")
			_, err := flow.Resolve(context.Background(), code, meta)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return linkRepo.clickCount(code) == redirects && clickRepo.eventCount() == redirects
	}, 5*time.Second, 10*time.Millisecond)
}
