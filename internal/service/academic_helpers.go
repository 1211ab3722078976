package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/academic-admin-api/internal/models"
	"github.com/noah-isme/academic-admin-api/pkg/database"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// paginate mirrors the window the repositories apply so responses report the page actually served.
func paginate(filter models.ListFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = defaultPage
	}
	if page > models.MaxPage {
		page = models.MaxPage
	}
	size := filter.PageSize
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

// activeOr resolves an optional active flag against the stored value.
func activeOr(active *bool, fallback bool) bool {
	if active == nil {
		return fallback
	}
	return *active
}

func notFound(entity string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
}

// loadError converts a repository read failure into a typed error.
func loadError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

// writeError converts a repository write failure into a typed error. Constraint violations
// raised by a concurrent writer surface with the same status as the pre-checks.
func writeError(err error, entity, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	if _, ok := database.UniqueViolation(err); ok {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" already exists")
	}
	if _, ok := database.ForeignKeyViolation(err); ok {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "referenced record not found")
	}
	if v, ok := database.NotNullViolation(err); ok {
		field := v.Column
		if field == "" {
			field = "a required field"
		}
		return appErrors.Validation(err, entity+": "+field+" is required")
	}
	return appErrors.Internal(err, "failed to "+action+" "+entity)
}

// deleteError converts a failed delete. Rows still pointing at the entity block the delete.
func deleteError(err error, entity string) error {
	if v, ok := database.ForeignKeyViolation(err); ok {
		message := entity + " is still referenced"
		if v.Table != "" {
			message += " by " + v.Table
		}
		return appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, message)
	}
	return writeError(err, entity, "delete")
}

// cachedRead serves key from the cache when possible and fills it from load otherwise.
// Cache failures never fail the read.
func cachedRead[T any](ctx context.Context, cache *CacheService, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if hit, _ := cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	_ = cache.Set(ctx, key, value, 0)
	return value, nil
}

// writeHooks runs the side effects of a committed write.
type writeHooks struct {
	cache   *CacheService
	metrics *MetricsService
}

func (h writeHooks) committed(ctx context.Context, entity, operation string) {
	h.cache.InvalidateAcademic(ctx)
	h.metrics.RecordWrite(entity, operation)
}
