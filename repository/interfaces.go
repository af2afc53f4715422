// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/smarturl/smarturl/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint64) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// LinkRepository defines operations for shortened links.
// Save assigns the identifier; UpdateShortCode attaches the derived code in a
// second write (the code depends on the store-generated identifier).
// IncrementClickCount must be a store-level atomic add, never a
// read-modify-write from the caller.
type LinkRepository interface {
	Repository[models.Link, models.LinkFilter]
	ByShortCode(ctx context.Context, code string) (*models.Link, error)
	UpdateShortCode(ctx context.Context, id uint64, code string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error)
	IncrementClickCount(ctx context.Context, code string) error
}

// GroupCount is one row of a grouped click aggregation
type GroupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

// DayCount is one point of the clicks-over-time series
type DayCount struct {
	Day   time.Time `gorm:"column:day"`
	Count int64     `gorm:"column:count"`
}

// ClickEventRepository defines operations for click events.
// Events are append-only; the grouped counts back the analytics summaries.
type ClickEventRepository interface {
	Repository[models.ClickEvent, any]
	CountByShortCode(ctx context.Context, code string) (int64, error)
	CountByCountry(ctx context.Context, code string) ([]GroupCount, error)
	CountByDeviceType(ctx context.Context, code string) ([]GroupCount, error)
	CountByReferer(ctx context.Context, code string) ([]GroupCount, error)
	CountByDay(ctx context.Context, code string) ([]DayCount, error)
}
