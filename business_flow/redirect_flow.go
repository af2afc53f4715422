package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/smarturl/smarturl/cache"
	"github.com/smarturl/smarturl/config"
	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/repository"
	"github.com/smarturl/smarturl/utils"
)

// clickRecordTimeout bounds the detached click-recording writes so a stalled
// store cannot pile up goroutines.
const clickRecordTimeout = 10 * time.Second

// RedirectFlow resolves short codes to destinations on the hot path
type RedirectFlow interface {
	Resolve(ctx context.Context, code string, meta *ClickMetadata) (string, error)
}

type RedirectFlowImpl struct {
	linkRepo  repository.LinkRepository
	clickRepo repository.ClickEventRepository
	cache     cache.RedirectCache
	cfg       config.ShortLinkConfig
}

func NewRedirectFlow(
	linkRepo repository.LinkRepository,
	clickRepo repository.ClickEventRepository,
	redirectCache cache.RedirectCache,
	cfg config.ShortLinkConfig,
) RedirectFlow {
	return &RedirectFlowImpl{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
		cache:     redirectCache,
		cfg:       cfg,
	}
}

// Resolve returns the destination URL for a code. Cache hits are served
// without consulting the store; a hit also slides the cache entry's TTL
// forward. Click recording is detached from the request on both paths and
// never delays or fails the redirect.
func (f *RedirectFlowImpl) Resolve(ctx context.Context, code string, meta *ClickMetadata) (string, error) {
	destination, hit, err := f.cache.Get(ctx, code)
	if err != nil {
		// A degraded cache is a miss, not a failure
		log.Printf("redirect cache lookup failed for %s: %v", code, err)
	}
	if hit {
		redirectCacheLookups.WithLabelValues("hit").Inc()
		if err := f.cache.RefreshTTL(ctx, code, f.cfg.CacheTTL); err != nil {
			log.Printf("failed to refresh cache TTL for %s: %v", code, err)
		}
		f.recordClickAsync(code, meta)
		return destination, nil
	}
	redirectCacheLookups.WithLabelValues("miss").Inc()

	link, err := f.linkRepo.ByShortCode(ctx, code)
	if err != nil {
		return "", NewBusinessError("REDIRECT_FAILED", "Failed to look up short link", err)
	}
	if link == nil {
		return "", ErrLinkNotFound
	}
	if utils.IsExpiredPtr(link.ExpiresAt) {
		return "", ErrLinkExpired
	}

	if err := f.cache.Set(ctx, code, link.OriginalURL, f.cfg.CacheTTL); err != nil {
		log.Printf("failed to warm redirect cache for %s: %v", code, err)
	}
	f.recordClickAsync(code, meta)
	return link.OriginalURL, nil
}

// recordClickAsync hands the click off to a goroutine with its own deadline
// so recording survives the request context being canceled at redirect time.
func (f *RedirectFlowImpl) recordClickAsync(code string, meta *ClickMetadata) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), clickRecordTimeout)
		defer cancel()
		f.recordClick(ctx, code, meta)
	}()
}

// recordClick inserts the click event and bumps the link's counter. The
// counter increment is a store-level atomic add, so concurrent redirects
// never lose updates. Failures are logged and swallowed.
func (f *RedirectFlowImpl) recordClick(ctx context.Context, code string, meta *ClickMetadata) {
	event := &models.ClickEvent{
		ShortCode: code,
		Country:   utils.CountryPlaceholder,
	}
	if meta != nil {
		event.DeviceType = utils.DeviceType(meta.UserAgent)
		event.Browser = utils.Browser(meta.UserAgent)
		event.RefererDomain = utils.RefererDomain(meta.Referer)
		event.IPAddress = meta.IPAddress
	} else {
		event.DeviceType = utils.DeviceType("")
		event.Browser = utils.Browser("")
		event.RefererDomain = utils.RefererDomain("")
	}

	if err := f.clickRepo.Save(ctx, event); err != nil {
		clickRecordings.WithLabelValues("dropped").Inc()
		log.Printf("failed to record click for %s: %v", code, err)
		return
	}
	if err := f.linkRepo.IncrementClickCount(ctx, code); err != nil {
		clickRecordings.WithLabelValues("dropped").Inc()
		log.Printf("failed to increment click count for %s: %v", code, err)
		return
	}
	clickRecordings.WithLabelValues("recorded").Inc()
}
