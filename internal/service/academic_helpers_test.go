package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

func TestPaginateDefaults(t *testing.T) {
	p := paginate(models.ListFilter{PageSize: 500}, 7)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: defaultPageSize, TotalCount: 7}, p)
}

func TestPaginateClampsPage(t *testing.T) {
	p := paginate(models.ListFilter{Page: 922337203685477581, PageSize: 20}, 3)
	assert.Equal(t, models.MaxPage, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestWriteErrorMapsNotNullToValidation(t *testing.T) {
	err := writeError(fmt.Errorf("insert student: %w", &pq.Error{Code: "23502", Table: "students", Column: "address"}), "student", "create")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "student: address is required", appErr.Message)
}

func TestDeleteErrorNamesReferencingTable(t *testing.T) {
	err := deleteError(&pq.Error{Code: "23503", Table: "students"}, "faculty")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, "faculty is still referenced by students", appErr.Message)
}
