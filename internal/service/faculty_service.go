package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	Overview(ctx context.Context) ([]models.FacultyOverview, error)
	FindByID(ctx context.Context, id int64) (*models.Faculty, error)
	FindDetailByID(ctx context.Context, id int64) (*models.FacultyDetail, error)
	ExistsByNameOrEmail(ctx context.Context, name, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, faculty *models.Faculty, managerID int64) error
	Update(ctx context.Context, faculty *models.Faculty, managerID int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountDepartments(ctx context.Context, facultyID int64) (int, error)
	CountStudents(ctx context.Context, facultyID int64) (int, error)
}

// facultyLookup is the slice of the faculty repository other services rely on.
type facultyLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Faculty, error)
}

// FacultyRequest is the payload for creating or updating a faculty.
type FacultyRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=150"`
	ContactNo string `json:"contact_no" validate:"required,max=30"`
	Active    *bool  `json:"active"`
	ManagerID int64  `json:"manager_id" validate:"required,gt=0"`
}

func (r *FacultyRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactNo = strings.TrimSpace(r.ContactNo)
}

// FacultyService handles faculty use-cases.
type FacultyService struct {
	repo      facultyRepository
	managers  managerLookup
	cache     *CacheService
	hooks     writeHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs the faculty service.
func NewFacultyService(repo facultyRepository, managers managerLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{
		repo:      repo,
		managers:  managers,
		cache:     cache,
		hooks:     writeHooks{cache: cache, metrics: metrics},
		validator: validate,
		logger:    logger,
	}
}

// List returns faculties and pagination metadata.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error) {
	faculties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list faculties")
	}
	return faculties, paginate(filter.ListFilter, total), nil
}

// Overview returns every faculty with department and degree totals and the dean name.
func (s *FacultyService) Overview(ctx context.Context) ([]models.FacultyOverview, error) {
	rows, err := cachedRead(ctx, s.cache, s.cache.Key("faculties", "overview"), s.repo.Overview)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load faculty overview")
	}
	return rows, nil
}

// Get returns a faculty together with its dean.
func (s *FacultyService) Get(ctx context.Context, id int64) (*models.FacultyDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "faculty")
	}
	return detail, nil
}

// Count returns the number of faculties.
func (s *FacultyService) Count(ctx context.Context) (*models.Count, error) {
	count, err := cachedRead(ctx, s.cache, s.cache.Key("faculties", "count"), s.repo.Count)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count faculties")
	}
	return &models.Count{Count: count}, nil
}

// CountDepartments returns the number of departments a faculty owns.
func (s *FacultyService) CountDepartments(ctx context.Context, id int64) (*models.Count, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, loadError(err, "faculty")
	}
	count, err := s.repo.CountDepartments(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count faculty departments")
	}
	return &models.Count{Count: count}, nil
}

// Create registers a faculty and its dean. A missing active flag stores an inactive faculty.
func (s *FacultyService) Create(ctx context.Context, req FacultyRequest) (*models.FacultyDetail, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid faculty payload")
	}
	if err := s.ensureUnique(ctx, req, 0); err != nil {
		return nil, err
	}
	manager, err := s.managers.FindByID(ctx, req.ManagerID)
	if err != nil {
		return nil, loadError(err, "manager")
	}

	faculty := &models.Faculty{
		Name:      req.Name,
		Email:     req.Email,
		ContactNo: req.ContactNo,
		Active:    activeOr(req.Active, false),
	}
	if err := s.repo.Create(ctx, faculty, manager.ID); err != nil {
		return nil, writeError(err, "faculty", "create")
	}
	s.hooks.committed(ctx, "faculty", "create")
	s.logger.Info("faculty created", zap.Int64("faculty_id", faculty.ID), zap.Int64("manager_id", manager.ID))
	return &models.FacultyDetail{Faculty: *faculty, ManagerID: &manager.ID, ManagerName: &manager.Name}, nil
}

// Update modifies a faculty and re-points its dean. An omitted active flag keeps the stored value.
func (s *FacultyService) Update(ctx context.Context, id int64, req FacultyRequest) (*models.FacultyDetail, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid faculty payload")
	}
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "faculty")
	}
	if err := s.ensureUnique(ctx, req, id); err != nil {
		return nil, err
	}
	manager, err := s.managers.FindByID(ctx, req.ManagerID)
	if err != nil {
		return nil, loadError(err, "manager")
	}

	faculty.Name = req.Name
	faculty.Email = req.Email
	faculty.ContactNo = req.ContactNo
	faculty.Active = activeOr(req.Active, faculty.Active)
	if err := s.repo.Update(ctx, faculty, manager.ID); err != nil {
		return nil, writeError(err, "faculty", "update")
	}
	s.hooks.committed(ctx, "faculty", "update")
	return &models.FacultyDetail{Faculty: *faculty, ManagerID: &manager.ID, ManagerName: &manager.Name}, nil
}

// Delete removes a faculty that no longer owns departments or students.
func (s *FacultyService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "faculty")
	}
	departments, err := s.repo.CountDepartments(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to count faculty departments")
	}
	if departments > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "faculty still has departments")
	}
	students, err := s.repo.CountStudents(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to count faculty students")
	}
	if students > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "faculty still has students")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "faculty")
	}
	s.hooks.committed(ctx, "faculty", "delete")
	return nil
}

func (s *FacultyService) ensureUnique(ctx context.Context, req FacultyRequest, excludeID int64) error {
	exists, err := s.repo.ExistsByNameOrEmail(ctx, req.Name, req.Email, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to validate faculty")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "faculty name or email already used")
	}
	return nil
}
