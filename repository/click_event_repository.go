package repository

import (
	"context"
	"errors"

	"github.com/smarturl/smarturl/models"
	"gorm.io/gorm"
)

// ClickEventRepositoryImpl implements ClickEventRepository
type ClickEventRepositoryImpl struct {
	*BaseRepository[models.ClickEvent, any]
}

func NewClickEventRepository(db *gorm.DB) ClickEventRepository {
	return &ClickEventRepositoryImpl{BaseRepository: NewBaseRepository[models.ClickEvent, any](db)}
}

func (r *ClickEventRepositoryImpl) ByID(ctx context.Context, id uint64) (*models.ClickEvent, error) {
	db := r.getDB(ctx)
	var row models.ClickEvent
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ByFilter: since no filter is defined, return with order/limit/offset only
func (r *ClickEventRepositoryImpl) ByFilter(ctx context.Context, _ any, orderBy string, limit, offset int) ([]*models.ClickEvent, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ClickEvent{})
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ClickEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClickEventRepositoryImpl) Count(ctx context.Context, _ any) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := db.Model(&models.ClickEvent{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ClickEventRepositoryImpl) Exists(ctx context.Context, filter any) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *ClickEventRepositoryImpl) CountByShortCode(ctx context.Context, code string) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := db.Model(&models.ClickEvent{}).Where("short_code = ?", code).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ClickEventRepositoryImpl) countGrouped(ctx context.Context, code, column string) ([]GroupCount, error) {
	db := r.getDB(ctx)
	var rows []GroupCount
	err := db.Model(&models.ClickEvent{}).
		Select(column+" AS key, COUNT(*) AS count").
		Where("short_code = ?", code).
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClickEventRepositoryImpl) CountByCountry(ctx context.Context, code string) ([]GroupCount, error) {
	return r.countGrouped(ctx, code, "country")
}

func (r *ClickEventRepositoryImpl) CountByDeviceType(ctx context.Context, code string) ([]GroupCount, error) {
	return r.countGrouped(ctx, code, "device_type")
}

func (r *ClickEventRepositoryImpl) CountByReferer(ctx context.Context, code string) ([]GroupCount, error) {
	return r.countGrouped(ctx, code, "referer_domain")
}

// CountByDay returns the clicks-over-time series in chronological order
func (r *ClickEventRepositoryImpl) CountByDay(ctx context.Context, code string) ([]DayCount, error) {
	db := r.getDB(ctx)
	var rows []DayCount
	err := db.Model(&models.ClickEvent{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("short_code = ?", code).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
