package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/smarturl/smarturl/models"
	"gorm.io/gorm"
)

// LinkRepositoryImpl implements LinkRepository
type LinkRepositoryImpl struct {
	*BaseRepository[models.Link, models.LinkFilter]
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &LinkRepositoryImpl{BaseRepository: NewBaseRepository[models.Link, models.LinkFilter](db)}
}

func (r *LinkRepositoryImpl) ByID(ctx context.Context, id uint64) (*models.Link, error) {
	db := r.getDB(ctx)
	var row models.Link
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *LinkRepositoryImpl) ByShortCode(ctx context.Context, code string) (*models.Link, error) {
	filter := models.LinkFilter{ShortCode: &code}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// UpdateShortCode attaches the derived code to a freshly inserted link.
// The code column is written exactly once per row.
func (r *LinkRepositoryImpl) UpdateShortCode(ctx context.Context, id uint64, code string) error {
	db := r.getDB(ctx)
	res := db.Model(&models.Link{}).
		Where("id = ? AND short_code IS NULL", id).
		Update("short_code", code)
	if res.Error != nil {
		return fmt.Errorf("failed to update short code for link %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("link %d not found or short code already assigned", id)
	}
	return nil
}

func (r *LinkRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error) {
	filter := models.LinkFilter{OwnerID: &ownerID}
	return r.ByFilter(ctx, filter, "created_at DESC, id DESC", 0, 0)
}

// IncrementClickCount performs a store-level atomic add so concurrent
// redirects for the same code never lose updates.
func (r *LinkRepositoryImpl) IncrementClickCount(ctx context.Context, code string) error {
	db := r.getDB(ctx)
	res := db.Model(&models.Link{}).
		Where("short_code = ?", code).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment click count for %s: %w", code, res.Error)
	}
	return nil
}

func (r *LinkRepositoryImpl) applyFilter(db *gorm.DB, f models.LinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ShortCode != nil {
		db = db.Where("short_code = ?", *f.ShortCode)
	}
	if f.OwnerID != nil {
		db = db.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Malicious != nil {
		db = db.Where("malicious = ?", *f.Malicious)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *LinkRepositoryImpl) ByFilter(ctx context.Context, filter models.LinkFilter, orderBy string, limit, offset int) ([]*models.Link, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Link
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LinkRepositoryImpl) Count(ctx context.Context, filter models.LinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LinkRepositoryImpl) Exists(ctx context.Context, filter models.LinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
