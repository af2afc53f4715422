package businessflow

import (
	"context"
	"time"

	"github.com/smarturl/smarturl/app/dto"
	"github.com/smarturl/smarturl/repository"
	"github.com/smarturl/smarturl/utils"
)

const neverExpires = "Never"

// AnalyticsFlow summarizes recorded click activity for a short link
type AnalyticsFlow interface {
	Summarize(ctx context.Context, code string) (*dto.AnalyticsResponse, error)
}

type AnalyticsFlowImpl struct {
	linkRepo  repository.LinkRepository
	clickRepo repository.ClickEventRepository
}

func NewAnalyticsFlow(linkRepo repository.LinkRepository, clickRepo repository.ClickEventRepository) AnalyticsFlow {
	return &AnalyticsFlowImpl{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
	}
}

// Summarize builds the per-link analytics view. The total comes from the
// link's counter, not from counting events, so it stays cheap on links with
// large click histories.
func (f *AnalyticsFlowImpl) Summarize(ctx context.Context, code string) (*dto.AnalyticsResponse, error) {
	link, err := f.linkRepo.ByShortCode(ctx, code)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to look up short link", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	byCountry, err := f.clickRepo.CountByCountry(ctx, code)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to aggregate clicks by country", err)
	}
	byDevice, err := f.clickRepo.CountByDeviceType(ctx, code)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to aggregate clicks by device", err)
	}
	byReferer, err := f.clickRepo.CountByReferer(ctx, code)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to aggregate clicks by referer", err)
	}
	byDay, err := f.clickRepo.CountByDay(ctx, code)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to aggregate clicks over time", err)
	}

	resp := &dto.AnalyticsResponse{
		ShortCode:       code,
		OriginalURL:     link.OriginalURL,
		TotalClicks:     link.ClickCount,
		CreatedAt:       link.CreatedAt.Format(time.RFC3339),
		ExpiresAt:       neverExpires,
		ClicksByCountry: toBuckets(byCountry),
		ClicksByDevice:  toBuckets(byDevice),
		ClicksByReferer: toBuckets(byReferer),
		ClicksOverTime:  toTimePoints(byDay),
	}
	if link.ExpiresAt != nil {
		resp.ExpiresAt = link.ExpiresAt.Format(time.RFC3339)
	}
	return resp, nil
}

// toBuckets maps aggregation rows to the API shape, turning empty group keys
// into the "Unknown" placeholder.
func toBuckets(rows []repository.GroupCount) []dto.BucketDTO {
	out := make([]dto.BucketDTO, 0, len(rows))
	for _, row := range rows {
		label := row.Key
		if label == "" {
			label = utils.UnknownLabel
		}
		out = append(out, dto.BucketDTO{Label: label, Count: row.Count})
	}
	return out
}

func toTimePoints(rows []repository.DayCount) []dto.TimePointDTO {
	out := make([]dto.TimePointDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TimePointDTO{Date: row.Day.Format("2006-01-02"), Clicks: row.Count})
	}
	return out
}
