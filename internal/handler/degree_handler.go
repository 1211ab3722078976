package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-admin-api/internal/models"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/response"
)

type degreeService interface {
	List(ctx context.Context, filter models.DegreeFilter) ([]models.DegreeDetail, *models.Pagination, error)
	Overview(ctx context.Context) ([]models.DegreeDetail, error)
	Get(ctx context.Context, id int64) (*models.DegreeDetail, error)
	Count(ctx context.Context) (*models.Count, error)
	CountByLevel(ctx context.Context, level string) (*models.Count, error)
	Create(ctx context.Context, req service.DegreeRequest) (*models.DegreeDetail, error)
	Update(ctx context.Context, id int64, req service.DegreeRequest) (*models.DegreeDetail, error)
	Delete(ctx context.Context, id int64) error
}

// DegreeHandler exposes degree endpoints.
type DegreeHandler struct {
	degrees degreeService
}

// NewDegreeHandler constructs DegreeHandler.
func NewDegreeHandler(degrees degreeService) *DegreeHandler {
	return &DegreeHandler{degrees: degrees}
}

// List godoc
// @Summary List degrees
// @Tags Degrees
// @Produce json
// @Param search query string false "Search by name or short code"
// @Param department_id query int false "Filter by department"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /degrees [get]
func (h *DegreeHandler) List(c *gin.Context) {
	base, err := listFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.DegreeFilter{ListFilter: base}
	if filter.DepartmentID, err = queryID(c, "department_id"); err != nil {
		response.Error(c, err)
		return
	}
	degrees, pagination, err := h.degrees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, degrees, pagination)
}

// Overview godoc
// @Summary Degrees with department and faculty
// @Tags Degrees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /degrees/overview [get]
func (h *DegreeHandler) Overview(c *gin.Context) {
	rows, err := h.degrees.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Get godoc
// @Summary Get degree
// @Tags Degrees
// @Produce json
// @Param id path int true "Degree ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /degrees/{id} [get]
func (h *DegreeHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	degree, err := h.degrees.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, degree, nil)
}

// Count godoc
// @Summary Count degrees
// @Tags Degrees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /degrees/count [get]
func (h *DegreeHandler) Count(c *gin.Context) {
	count, err := h.degrees.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// CountByLevel godoc
// @Summary Count degrees offering a level
// @Tags Degrees
// @Produce json
// @Param level path string true "Level, e.g. BSc"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /degrees/count/level/{level} [get]
func (h *DegreeHandler) CountByLevel(c *gin.Context) {
	count, err := h.degrees.CountByLevel(c.Request.Context(), c.Param("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// Create godoc
// @Summary Create degree
// @Tags Degrees
// @Accept json
// @Produce json
// @Param payload body service.DegreeRequest true "Degree payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /degrees [post]
func (h *DegreeHandler) Create(c *gin.Context) {
	var req service.DegreeRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	degree, err := h.degrees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, degree, "degree created")
}

// Update godoc
// @Summary Update degree
// @Tags Degrees
// @Accept json
// @Produce json
// @Param id path int true "Degree ID"
// @Param payload body service.DegreeRequest true "Degree payload"
// @Success 200 {object} response.Envelope
// @Router /degrees/{id} [put]
func (h *DegreeHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.DegreeRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	degree, err := h.degrees.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, degree, "degree updated")
}

// Delete godoc
// @Summary Delete degree
// @Tags Degrees
// @Param id path int true "Degree ID"
// @Success 204
// @Router /degrees/{id} [delete]
func (h *DegreeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.degrees.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
