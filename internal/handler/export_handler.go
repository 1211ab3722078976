package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-admin-api/internal/models"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, resource service.ExportResource, rawFormat string, filter models.StudentFilter) (*service.ExportFile, error)
}

// ExportHandler streams CSV and PDF renditions of academic tables.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Resource returns a handler exporting the given table. Student exports honour the list filters.
//
// @Summary Export faculties, departments, degrees or students
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /faculties/export [get]
// @Router /departments/export [get]
// @Router /degrees/export [get]
// @Router /students/export [get]
func (h *ExportHandler) Resource(resource service.ExportResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.StudentFilter
		if resource == service.ExportStudents {
			var err error
			if filter, err = studentFilter(c); err != nil {
				response.Error(c, err)
				return
			}
		}
		file, err := h.exports.Export(c.Request.Context(), resource, c.Query("format"), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Attachment(c, file.Filename, file.ContentType, file.Payload)
	}
}
