package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
	"github.com/noah-isme/academic-admin-api/pkg/export"
)

// ExportResource names an exportable table.
type ExportResource string

const (
	ExportFaculties   ExportResource = "faculties"
	ExportDepartments ExportResource = "departments"
	ExportDegrees     ExportResource = "degrees"
	ExportStudents    ExportResource = "students"
)

type facultyOverviewSource interface {
	Overview(ctx context.Context) ([]models.FacultyOverview, error)
}

type departmentOverviewSource interface {
	Overview(ctx context.Context) ([]models.DepartmentOverview, error)
}

type degreeOverviewSource interface {
	Overview(ctx context.Context) ([]models.DegreeDetail, error)
}

type studentSource interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
}

// ExportFile is a rendered document ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders academic tables as CSV or PDF documents.
type ExportService struct {
	faculties   facultyOverviewSource
	departments departmentOverviewSource
	degrees     degreeOverviewSource
	students    studentSource
	renderer    func(export.Format) export.Renderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(faculties facultyOverviewSource, departments departmentOverviewSource, degrees degreeOverviewSource, students studentSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		faculties:   faculties,
		departments: departments,
		degrees:     degrees,
		students:    students,
		renderer:    export.Format.Renderer,
		logger:      logger,
		now:         time.Now,
	}
}

// Export renders resource in the requested format.
func (s *ExportService) Export(ctx context.Context, resource ExportResource, rawFormat string, filter models.StudentFilter) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Validation(err, err.Error())
	}

	dataset, err := s.buildDataset(ctx, resource, filter)
	if err != nil {
		return nil, err
	}

	payload, err := s.renderer(format).Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("export rendered", zap.String("resource", string(resource)), zap.String("format", string(format)), zap.Int("rows", len(dataset.Rows)))
	return &ExportFile{
		Filename:    format.Filename(string(resource), s.now()),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, resource ExportResource, filter models.StudentFilter) (export.Dataset, error) {
	switch resource {
	case ExportFaculties:
		return s.facultyDataset(ctx)
	case ExportDepartments:
		return s.departmentDataset(ctx)
	case ExportDegrees:
		return s.degreeDataset(ctx)
	case ExportStudents:
		return s.studentDataset(ctx, filter)
	default:
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export resource %q", resource))
	}
}

func (s *ExportService) facultyDataset(ctx context.Context) (export.Dataset, error) {
	rows, err := s.faculties.Overview(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load faculties")
	}
	data := export.Dataset{Title: "Faculties", Headers: []string{"ID", "Name", "Email", "Contact", "Dean", "Departments", "Degrees", "Active"}}
	for _, row := range rows {
		data.AddRow(
			strconv.FormatInt(row.ID, 10),
			row.Name,
			row.Email,
			row.ContactNo,
			deref(row.ManagerName),
			strconv.Itoa(row.DepartmentCount),
			strconv.Itoa(row.DegreeCount),
			yesNo(row.Active),
		)
	}
	return data, nil
}

func (s *ExportService) departmentDataset(ctx context.Context) (export.Dataset, error) {
	rows, err := s.departments.Overview(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load departments")
	}
	data := export.Dataset{Title: "Departments", Headers: []string{"ID", "Name", "Email", "Contact", "Faculty", "Head", "Degrees", "Active"}}
	for _, row := range rows {
		data.AddRow(
			strconv.FormatInt(row.ID, 10),
			row.Name,
			row.Email,
			row.ContactNo,
			deref(row.FacultyName),
			deref(row.ManagerName),
			strconv.Itoa(row.DegreeCount),
			yesNo(row.Active),
		)
	}
	return data, nil
}

func (s *ExportService) degreeDataset(ctx context.Context) (export.Dataset, error) {
	rows, err := s.degrees.Overview(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load degrees")
	}
	data := export.Dataset{Title: "Degrees", Headers: []string{"ID", "Name", "Short Code", "Levels", "Department", "Faculty", "Active"}}
	for _, row := range rows {
		data.AddRow(
			strconv.FormatInt(row.ID, 10),
			row.Name,
			row.ShortCode,
			strings.Join(row.Levels, ", "),
			deref(row.DepartmentName),
			deref(row.FacultyName),
			yesNo(row.Active),
		)
	}
	return data, nil
}

// studentDataset pages through every student matching the filter.
func (s *ExportService) studentDataset(ctx context.Context, filter models.StudentFilter) (export.Dataset, error) {
	data := export.Dataset{Title: "Students", Headers: []string{"ID", "Name", "Username", "Email", "Contact", "Faculty", "Department", "Active"}}
	filter.PageSize = maxPageSize
	for page := 1; page <= models.MaxPage; page++ {
		filter.Page = page
		students, total, err := s.students.List(ctx, filter)
		if err != nil {
			return export.Dataset{}, appErrors.Internal(err, "failed to load students")
		}
		for _, st := range students {
			data.AddRow(
				strconv.FormatInt(st.ID, 10),
				st.Name,
				st.Username,
				st.Email,
				st.ContactNo,
				deref(st.FacultyName),
				deref(st.DepartmentName),
				yesNo(st.Active),
			)
		}
		if len(students) == 0 || len(data.Rows) >= total {
			break
		}
	}
	return data, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
