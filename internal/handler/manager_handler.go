package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-admin-api/internal/models"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/response"
)

type managerService interface {
	List(ctx context.Context, filter models.ManagerFilter) ([]models.Manager, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Manager, error)
	Create(ctx context.Context, req service.ManagerRequest) (*models.Manager, error)
	Update(ctx context.Context, id int64, req service.ManagerRequest) (*models.Manager, error)
}

// ManagerHandler exposes the people eligible to lead faculties and departments.
type ManagerHandler struct {
	managers managerService
}

// NewManagerHandler constructs ManagerHandler.
func NewManagerHandler(managers managerService) *ManagerHandler {
	return &ManagerHandler{managers: managers}
}

// List godoc
// @Summary List managers
// @Tags Managers
// @Produce json
// @Param search query string false "Search by name or email"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /managers [get]
func (h *ManagerHandler) List(c *gin.Context) {
	base, err := listFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	managers, pagination, err := h.managers.List(c.Request.Context(), models.ManagerFilter{ListFilter: base})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, managers, pagination)
}

// Get godoc
// @Summary Get manager
// @Tags Managers
// @Produce json
// @Param id path int true "Manager ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /managers/{id} [get]
func (h *ManagerHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	manager, err := h.managers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, manager, nil)
}

// Create godoc
// @Summary Create manager
// @Tags Managers
// @Accept json
// @Produce json
// @Param payload body service.ManagerRequest true "Manager payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /managers [post]
func (h *ManagerHandler) Create(c *gin.Context) {
	var req service.ManagerRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	manager, err := h.managers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, manager, "manager created")
}

// Update godoc
// @Summary Update manager
// @Tags Managers
// @Accept json
// @Produce json
// @Param id path int true "Manager ID"
// @Param payload body service.ManagerRequest true "Manager payload"
// @Success 200 {object} response.Envelope
// @Router /managers/{id} [put]
func (h *ManagerHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ManagerRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	manager, err := h.managers.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, manager, "manager updated")
}
