package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-admin-api/internal/models"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/response"
)

type departmentService interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentDetail, *models.Pagination, error)
	Overview(ctx context.Context) ([]models.DepartmentOverview, error)
	Get(ctx context.Context, id int64) (*models.DepartmentDetail, error)
	Count(ctx context.Context) (*models.Count, error)
	CountDegrees(ctx context.Context, id int64) (*models.Count, error)
	Create(ctx context.Context, req service.DepartmentRequest) (*models.DepartmentDetail, error)
	Update(ctx context.Context, id int64, req service.DepartmentRequest) (*models.DepartmentDetail, error)
	Delete(ctx context.Context, id int64) error
}

type departmentDegreeLister interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Degree, error)
}

// DepartmentHandler exposes department endpoints.
type DepartmentHandler struct {
	departments departmentService
	degrees     departmentDegreeLister
}

// NewDepartmentHandler constructs DepartmentHandler.
func NewDepartmentHandler(departments departmentService, degrees departmentDegreeLister) *DepartmentHandler {
	return &DepartmentHandler{departments: departments, degrees: degrees}
}

// List godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Param search query string false "Search by name or email"
// @Param faculty_id query int false "Filter by faculty"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	base, err := listFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.DepartmentFilter{ListFilter: base}
	if filter.FacultyID, err = queryID(c, "faculty_id"); err != nil {
		response.Error(c, err)
		return
	}
	departments, pagination, err := h.departments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, pagination)
}

// Overview godoc
// @Summary Departments with faculty, head and degree totals
// @Tags Departments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments/overview [get]
func (h *DepartmentHandler) Overview(c *gin.Context) {
	rows, err := h.departments.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Get godoc
// @Summary Get department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	department, err := h.departments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

// Count godoc
// @Summary Count departments
// @Tags Departments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments/count [get]
func (h *DepartmentHandler) Count(c *gin.Context) {
	count, err := h.departments.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// Degrees godoc
// @Summary Degrees offered by a department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /departments/{id}/degrees [get]
func (h *DepartmentHandler) Degrees(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	degrees, err := h.degrees.ListByDepartment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, degrees, nil)
}

// CountDegrees godoc
// @Summary Count degrees of a department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/degrees/count [get]
func (h *DepartmentHandler) CountDegrees(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	count, err := h.departments.CountDegrees(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}

// Create godoc
// @Summary Create department
// @Tags Departments
// @Accept json
// @Produce json
// @Param payload body service.DepartmentRequest true "Department payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.DepartmentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	department, err := h.departments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, department, "department created")
}

// Update godoc
// @Summary Update department
// @Tags Departments
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param payload body service.DepartmentRequest true "Department payload"
// @Success 200 {object} response.Envelope
// @Router /departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.DepartmentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	department, err := h.departments.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, department, "department updated")
}

// Delete godoc
// @Summary Delete department
// @Tags Departments
// @Param id path int true "Department ID"
// @Success 204
// @Failure 412 {object} response.Envelope
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.departments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
