package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

func queryID(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// listFilter reads the query knobs shared by every list endpoint. Malformed paging values fall back to defaults;
// pages beyond models.MaxPage are rejected.
func listFilter(c *gin.Context) (models.ListFilter, error) {
	filter := models.ListFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if active := c.Query("active"); active != "" {
		v, err := strconv.ParseBool(active)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "active must be true or false")
		}
		filter.Active = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		if page > models.MaxPage {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("page must not exceed %d", models.MaxPage))
		}
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	return filter, nil
}

func studentFilter(c *gin.Context) (models.StudentFilter, error) {
	base, err := listFilter(c)
	if err != nil {
		return models.StudentFilter{}, err
	}
	filter := models.StudentFilter{ListFilter: base}
	if filter.FacultyID, err = queryID(c, "faculty_id"); err != nil {
		return filter, err
	}
	if filter.DepartmentID, err = queryID(c, "department_id"); err != nil {
		return filter, err
	}
	return filter, nil
}

func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	return nil
}
