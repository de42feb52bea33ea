package storage

import (
	"context"
	"errors"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"gorm.io/gorm"
)

// casUpdate applies patch to the row with id only if it is still in one of
// expect.Statuses at expect.Version, and bumps the version.
func casUpdate[M any](ctx context.Context, db *gorm.DB, id string, expect services.Expect, patch map[string]interface{}) error {
	updates := make(map[string]interface{}, len(patch)+1)
	for k, v := range patch {
		updates[k] = v
	}
	updates["version"] = gorm.Expr("version + 1")

	query := conn(ctx, db).Model(new(M)).Where("id = ?", id)
	if len(expect.Statuses) > 0 {
		query = query.Where("approval_status IN ?", expect.Statuses)
	}
	if expect.Version > 0 {
		query = query.Where("version = ?", expect.Version)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrStaleWrite
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrRecordNotFound
	}
	return err
}

func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
