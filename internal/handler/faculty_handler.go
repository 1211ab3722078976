package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-admin-api/internal/models"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/response"
)

type facultyService interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error)
	Overview(ctx context.Context) ([]models.FacultyOverview, error)
	Get(ctx context.Context, id int64) (*models.FacultyDetail, error)
	Count(ctx context.Context) (*models.Count, error)
	CountDepartments(ctx context.Context, id int64) (*models.Count, error)
	Create(ctx context.Context, req service.FacultyRequest) (*models.FacultyDetail, error)
	Update(ctx context.Context, id int64, req service.FacultyRequest) (*models.FacultyDetail, error)
	Delete(ctx context.Context, id int64) error
}

type facultyDepartmentLister interface {
	ListByFaculty(ctx context.Context, facultyID int64) ([]models.Department, error)
}

// FacultyHandler exposes faculty endpoints.
type FacultyHandler struct {
	faculties   facultyService
	departments facultyDepartmentLister
}

// NewFacultyHandler constructs FacultyHandler.
func NewFacultyHandler(faculties facultyService, departments facultyDepartmentLister) *FacultyHandler {
	return &FacultyHandler{faculties: faculties, departments: departments}
}

// List godoc
// @Summary List faculties
// @Tags Faculties
// @Produce json
// @Param search query string false "Search by name or email"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "name, email, created_at"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /faculties [get]
func (h *FacultyHandler) List(c *gin.Context) {
	base, err := listFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	faculties, pagination, err := h.faculties.List(c.Request.Context(), models.FacultyFilter{ListFilter: base})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculties, pagination)
}

// Overview godoc
// @Summary Faculties with department and degree totals
// @Tags Faculties
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculties/overview [get]
func (h *FacultyHandler) Overview(c *gin.Context) {
	rows, err := h.faculties.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Get godoc
// @Summary Get faculty with its dean
// @Tags Faculties
// @Produce json
// @Param id path int true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculties/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	faculty, err := h.faculties.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Count godoc
// @Summary Count faculties
// @Tags Faculties
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculties/count [get]
func (h *FacultyHandler) Count(c *gin.Context) {
	count, err := h.faculties.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// Departments godoc
// @Summary Departments of a faculty
// @Tags Faculties
// @Produce json
// @Param id path int true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculties/{id}/departments [get]
func (h *FacultyHandler) Departments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	departments, err := h.departments.ListByFaculty(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// CountDepartments godoc
// @Summary Count departments of a faculty
// @Tags Faculties
// @Produce json
// @Param id path int true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculties/{id}/departments/count [get]
func (h *FacultyHandler) CountDepartments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	count, err := h.faculties.CountDepartments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// Create godoc
// @Summary Create faculty
// @Tags Faculties
// @Accept json
// @Produce json
// @Param payload body service.FacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /faculties [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req service.FacultyRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	faculty, err := h.faculties.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty, "faculty created")
}

// Update godoc
// @Summary Update faculty
// @Tags Faculties
// @Accept json
// @Produce json
// @Param id path int true "Faculty ID"
// @Param payload body service.FacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Router /faculties/{id} [put]
func (h *FacultyHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.FacultyRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	faculty, err := h.faculties.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, faculty, "faculty updated")
}

// Delete godoc
// @Summary Delete faculty
// @Tags Faculties
// @Param id path int true "Faculty ID"
// @Success 204
// @Failure 412 {object} response.Envelope
// @Router /faculties/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.faculties.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
