package businessflow

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/smarturl/smarturl/app/dto"
	"github.com/smarturl/smarturl/app/services"
	"github.com/smarturl/smarturl/cache"
	"github.com/smarturl/smarturl/config"
	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/repository"
	"github.com/smarturl/smarturl/utils"
)

const (
	safetyMessageAccepted = "URL accepted"
	safetyMessageBlocked  = "URL rejected: flagged as potentially malicious"
)

// ShortenFlow handles short link creation and owner-facing listing
type ShortenFlow interface {
	Shorten(ctx context.Context, req *dto.ShortenRequest) (*dto.ShortenResponse, error)
	ListByOwner(ctx context.Context, ownerID string) ([]dto.LinkDTO, error)
}

type ShortenFlowImpl struct {
	linkRepo repository.LinkRepository
	cache    cache.RedirectCache
	screener services.SafetyScreener
	db       *gorm.DB
	cfg      config.ShortLinkConfig
}

func NewShortenFlow(
	linkRepo repository.LinkRepository,
	redirectCache cache.RedirectCache,
	screener services.SafetyScreener,
	db *gorm.DB,
	cfg config.ShortLinkConfig,
) ShortenFlow {
	return &ShortenFlowImpl{
		linkRepo: linkRepo,
		cache:    redirectCache,
		screener: screener,
		db:       db,
		cfg:      cfg,
	}
}

// Shorten screens the submitted URL, persists it, and derives the short code
// from the store-assigned ID. A malicious verdict is a terminal outcome, not
// an error: nothing is persisted and the caller gets the verdict back.
func (f *ShortenFlowImpl) Shorten(ctx context.Context, req *dto.ShortenRequest) (*dto.ShortenResponse, error) {
	originalURL := strings.TrimSpace(req.OriginalURL)
	if originalURL == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(originalURL, "http://") && !strings.HasPrefix(originalURL, "https://") {
		originalURL = "https://" + originalURL
	}

	// The screener fails open: an unreachable or erroring screener is
	// treated as no opinion and the URL proceeds with zero confidence.
	confidence := 0.0
	verdict, err := f.screener.Classify(ctx, originalURL)
	if err != nil {
		log.Printf("safety screener unavailable, accepting URL unscreened: %v", err)
	} else if verdict != nil {
		confidence = verdict.Confidence
		if verdict.IsMalicious {
			linksBlocked.Inc()
			return &dto.ShortenResponse{
				Safe:          false,
				OriginalURL:   originalURL,
				MLConfidence:  confidence,
				SafetyMessage: safetyMessageBlocked,
			}, nil
		}
	}

	link := &models.Link{
		OriginalURL:  originalURL,
		OwnerID:      req.OwnerID,
		MLConfidence: confidence,
	}
	if req.OwnerID == nil {
		link.ExpiresAt = utils.UTCNowAddPtr(f.cfg.AnonymousTTL)
	}

	// Insert first, then attach the code computed from the assigned ID.
	var code string
	txErr := f.withTx(ctx, func(txCtx context.Context) error {
		if err := f.linkRepo.Save(txCtx, link); err != nil {
			return err
		}
		code = utils.EncodeShortCode(link.ID)
		return f.linkRepo.UpdateShortCode(txCtx, link.ID, code)
	})
	if txErr != nil {
		return nil, NewBusinessError("SHORTEN_FAILED", "Failed to create short link", txErr)
	}
	link.ShortCode = &code

	// Warm the redirect cache. The store stays the source of truth, so a
	// cache failure does not fail the request.
	if err := f.cache.Set(ctx, code, originalURL, f.cfg.CacheTTL); err != nil {
		log.Printf("failed to warm redirect cache for %s: %v", code, err)
	}

	resp := &dto.ShortenResponse{
		Safe:          true,
		ShortCode:     code,
		ShortURL:      f.cfg.BaseURL + "/r/" + code,
		OriginalURL:   originalURL,
		MLConfidence:  confidence,
		SafetyMessage: safetyMessageAccepted,
	}
	if link.ExpiresAt != nil {
		resp.ExpiresAt = link.ExpiresAt.Format(time.RFC3339)
	}
	return resp, nil
}

// ListByOwner returns the owner's links, newest first.
func (f *ShortenFlowImpl) ListByOwner(ctx context.Context, ownerID string) ([]dto.LinkDTO, error) {
	links, err := f.linkRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewBusinessError("LIST_LINKS_FAILED", "Failed to list links", err)
	}
	out := make([]dto.LinkDTO, 0, len(links))
	for _, link := range links {
		out = append(out, ToLinkDTO(link))
	}
	return out, nil
}

// withTx wraps fn in a database transaction when a shared handle is
// available. Flows constructed without one (mock-backed) run unwrapped.
func (f *ShortenFlowImpl) withTx(ctx context.Context, fn func(context.Context) error) error {
	if f.db == nil {
		return fn(ctx)
	}
	return repository.WithTransaction(ctx, f.db, fn)
}
