package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentDetail, int, error)
	ListByFaculty(ctx context.Context, facultyID int64) ([]models.Department, error)
	Overview(ctx context.Context) ([]models.DepartmentOverview, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	FindDetailByID(ctx context.Context, id int64) (*models.DepartmentDetail, error)
	ExistsByNameOrEmail(ctx context.Context, name, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, department *models.Department, facultyID, managerID int64) error
	Update(ctx context.Context, department *models.Department, facultyID, managerID int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountDegrees(ctx context.Context, departmentID int64) (int, error)
	CountStudents(ctx context.Context, departmentID int64) (int, error)
}

// departmentLookup is the slice of the department repository other services rely on.
type departmentLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	BelongsToFaculty(ctx context.Context, departmentID, facultyID int64) (bool, error)
}

// DepartmentRequest is the payload for creating or updating a department.
type DepartmentRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=150"`
	ContactNo string `json:"contact_no" validate:"required,max=30"`
	Active    *bool  `json:"active"`
	FacultyID int64  `json:"faculty_id" validate:"required,gt=0"`
	ManagerID int64  `json:"manager_id" validate:"required,gt=0"`
}

func (r *DepartmentRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactNo = strings.TrimSpace(r.ContactNo)
}

// DepartmentService handles department use-cases.
type DepartmentService struct {
	repo      departmentRepository
	faculties facultyLookup
	managers  managerLookup
	cache     *CacheService
	hooks     writeHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(repo departmentRepository, faculties facultyLookup, managers managerLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{
		repo:      repo,
		faculties: faculties,
		managers:  managers,
		cache:     cache,
		hooks:     writeHooks{cache: cache, metrics: metrics},
		validator: validate,
		logger:    logger,
	}
}

// List returns departments and pagination metadata.
func (s *DepartmentService) List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentDetail, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list departments")
	}
	return departments, paginate(filter.ListFilter, total), nil
}

// ListByFaculty returns the departments of a faculty. An existing faculty without departments
// yields an empty list.
func (s *DepartmentService) ListByFaculty(ctx context.Context, facultyID int64) ([]models.Department, error) {
	if _, err := s.faculties.FindByID(ctx, facultyID); err != nil {
		return nil, loadError(err, "faculty")
	}
	departments, err := s.repo.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list faculty departments")
	}
	return departments, nil
}

// Overview returns every department with its faculty, degree total and head.
func (s *DepartmentService) Overview(ctx context.Context) ([]models.DepartmentOverview, error) {
	rows, err := cachedRead(ctx, s.cache, s.cache.Key("departments", "overview"), s.repo.Overview)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load department overview")
	}
	return rows, nil
}

// Get returns a department with its faculty and head.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.DepartmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "department")
	}
	return detail, nil
}

// Count returns the number of departments.
func (s *DepartmentService) Count(ctx context.Context) (*models.Count, error) {
	count, err := cachedRead(ctx, s.cache, s.cache.Key("departments", "count"), s.repo.Count)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count departments")
	}
	return &models.Count{Count: count}, nil
}

// CountDegrees returns the number of degrees a department offers.
func (s *DepartmentService) CountDegrees(ctx context.Context, id int64) (*models.Count, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, loadError(err, "department")
	}
	count, err := s.repo.CountDegrees(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count department degrees")
	}
	return &models.Count{Count: count}, nil
}

// Create registers a department under a faculty with its head.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest) (*models.DepartmentDetail, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid department payload")
	}
	if err := s.ensureUnique(ctx, req, 0); err != nil {
		return nil, err
	}
	faculty, manager, err := s.resolveLinks(ctx, req)
	if err != nil {
		return nil, err
	}

	department := &models.Department{
		Name:      req.Name,
		Email:     req.Email,
		ContactNo: req.ContactNo,
		Active:    activeOr(req.Active, false),
	}
	if err := s.repo.Create(ctx, department, faculty.ID, manager.ID); err != nil {
		return nil, writeError(err, "department", "create")
	}
	s.hooks.committed(ctx, "department", "create")
	s.logger.Info("department created", zap.Int64("department_id", department.ID), zap.Int64("faculty_id", faculty.ID))
	return detailOf(department, faculty, manager), nil
}

// Update modifies a department and its links. Moving a department to another faculty moves
// its students along with it.
func (s *DepartmentService) Update(ctx context.Context, id int64, req DepartmentRequest) (*models.DepartmentDetail, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid department payload")
	}
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "department")
	}
	if err := s.ensureUnique(ctx, req, id); err != nil {
		return nil, err
	}
	faculty, manager, err := s.resolveLinks(ctx, req)
	if err != nil {
		return nil, err
	}

	department.Name = req.Name
	department.Email = req.Email
	department.ContactNo = req.ContactNo
	department.Active = activeOr(req.Active, department.Active)
	if err := s.repo.Update(ctx, department, faculty.ID, manager.ID); err != nil {
		return nil, writeError(err, "department", "update")
	}
	s.hooks.committed(ctx, "department", "update")
	return detailOf(department, faculty, manager), nil
}

// Delete removes a department that no longer offers degrees or holds students.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "department")
	}
	degrees, err := s.repo.CountDegrees(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to count department degrees")
	}
	if degrees > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "department still offers degrees")
	}
	students, err := s.repo.CountStudents(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to count department students")
	}
	if students > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "department still has students")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "department")
	}
	s.hooks.committed(ctx, "department", "delete")
	return nil
}

func (s *DepartmentService) ensureUnique(ctx context.Context, req DepartmentRequest, excludeID int64) error {
	exists, err := s.repo.ExistsByNameOrEmail(ctx, req.Name, req.Email, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to validate department")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "department name or email already used")
	}
	return nil
}

func (s *DepartmentService) resolveLinks(ctx context.Context, req DepartmentRequest) (*models.Faculty, *models.Manager, error) {
	faculty, err := s.faculties.FindByID(ctx, req.FacultyID)
	if err != nil {
		return nil, nil, loadError(err, "faculty")
	}
	manager, err := s.managers.FindByID(ctx, req.ManagerID)
	if err != nil {
		return nil, nil, loadError(err, "manager")
	}
	return faculty, manager, nil
}

func detailOf(department *models.Department, faculty *models.Faculty, manager *models.Manager) *models.DepartmentDetail {
	return &models.DepartmentDetail{
		Department:  *department,
		FacultyID:   &faculty.ID,
		FacultyName: &faculty.Name,
		ManagerID:   &manager.ID,
		ManagerName: &manager.Name,
	}
}
