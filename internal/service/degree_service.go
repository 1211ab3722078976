package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

type degreeRepository interface {
	List(ctx context.Context, filter models.DegreeFilter) ([]models.DegreeDetail, int, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Degree, error)
	Overview(ctx context.Context) ([]models.DegreeDetail, error)
	FindDetailByID(ctx context.Context, id int64) (*models.DegreeDetail, error)
	ExistsByNameOrShortCode(ctx context.Context, name, shortCode string, excludeID int64) (bool, error)
	Create(ctx context.Context, degree *models.Degree, departmentID int64) error
	Update(ctx context.Context, degree *models.Degree, departmentID int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountByLevel(ctx context.Context, level string) (int, error)
}

// DegreeRequest is the payload for creating or updating a degree.
type DegreeRequest struct {
	Name         string   `json:"name" validate:"required,max=150"`
	ShortCode    string   `json:"short_code" validate:"required,max=20"`
	Levels       []string `json:"levels" validate:"required,min=1,dive,required,max=50"`
	Active       *bool    `json:"active"`
	DepartmentID int64    `json:"department_id" validate:"required,gt=0"`
}

// normalize trims input and drops repeated levels while keeping their order.
func (r *DegreeRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ShortCode = strings.TrimSpace(r.ShortCode)
	seen := make(map[string]struct{}, len(r.Levels))
	levels := make([]string, 0, len(r.Levels))
	for _, level := range r.Levels {
		level = strings.TrimSpace(level)
		key := strings.ToLower(level)
		if _, ok := seen[key]; ok && level != "" {
			continue
		}
		seen[key] = struct{}{}
		levels = append(levels, level)
	}
	r.Levels = levels
}

func (r DegreeRequest) checkLevels() error {
	for _, level := range r.Levels {
		if strings.Contains(level, models.LevelSeparator) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("level %q may not contain %q", level, models.LevelSeparator))
		}
	}
	return nil
}

// DegreeService handles degree use-cases.
type DegreeService struct {
	repo        degreeRepository
	departments departmentLookup
	cache       *CacheService
	hooks       writeHooks
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDegreeService constructs the degree service.
func NewDegreeService(repo degreeRepository, departments departmentLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DegreeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DegreeService{
		repo:        repo,
		departments: departments,
		cache:       cache,
		hooks:       writeHooks{cache: cache, metrics: metrics},
		validator:   validate,
		logger:      logger,
	}
}

// List returns degrees and pagination metadata.
func (s *DegreeService) List(ctx context.Context, filter models.DegreeFilter) ([]models.DegreeDetail, *models.Pagination, error) {
	degrees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list degrees")
	}
	return degrees, paginate(filter.ListFilter, total), nil
}

// ListByDepartment returns the degrees a department offers.
func (s *DegreeService) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Degree, error) {
	if _, err := s.departments.FindByID(ctx, departmentID); err != nil {
		return nil, loadError(err, "department")
	}
	degrees, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list department degrees")
	}
	return degrees, nil
}

// Overview returns every degree with its department and faculty.
func (s *DegreeService) Overview(ctx context.Context) ([]models.DegreeDetail, error) {
	rows, err := cachedRead(ctx, s.cache, s.cache.Key("degrees", "overview"), s.repo.Overview)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load degree overview")
	}
	return rows, nil
}

// Get returns a degree with its department, faculty and levels.
func (s *DegreeService) Get(ctx context.Context, id int64) (*models.DegreeDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "degree")
	}
	return detail, nil
}

// Count returns the number of degrees.
func (s *DegreeService) Count(ctx context.Context) (*models.Count, error) {
	count, err := cachedRead(ctx, s.cache, s.cache.Key("degrees", "count"), s.repo.Count)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count degrees")
	}
	return &models.Count{Count: count}, nil
}

// CountByLevel returns how many degrees are offered at level. Matching is case-insensitive
// and on whole levels only.
func (s *DegreeService) CountByLevel(ctx context.Context, level string) (*models.Count, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "level is required")
	}
	if strings.Contains(level, models.LevelSeparator) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "level may not contain "+models.LevelSeparator)
	}
	key := s.cache.Key("degrees", "count", "level", strings.ToLower(level))
	count, err := cachedRead(ctx, s.cache, key, func(ctx context.Context) (int, error) {
		return s.repo.CountByLevel(ctx, level)
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count degrees by level")
	}
	return &models.Count{Count: count}, nil
}

// Create registers a degree under a department. A missing active flag stores an inactive degree.
func (s *DegreeService) Create(ctx context.Context, req DegreeRequest) (*models.DegreeDetail, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, req, 0); err != nil {
		return nil, err
	}
	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, loadError(err, "department")
	}

	degree := &models.Degree{
		Name:      req.Name,
		ShortCode: req.ShortCode,
		Levels:    models.Levels(req.Levels),
		Active:    activeOr(req.Active, false),
	}
	if err := s.repo.Create(ctx, degree, department.ID); err != nil {
		return nil, writeError(err, "degree", "create")
	}
	s.hooks.committed(ctx, "degree", "create")
	s.logger.Info("degree created", zap.Int64("degree_id", degree.ID), zap.Int64("department_id", department.ID))
	return s.reload(ctx, degree)
}

// Update modifies a degree and moves it to the requested department.
func (s *DegreeService) Update(ctx context.Context, id int64, req DegreeRequest) (*models.DegreeDetail, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	current, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "degree")
	}
	if err := s.ensureUnique(ctx, req, id); err != nil {
		return nil, err
	}
	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, loadError(err, "department")
	}

	degree := current.Degree
	degree.Name = req.Name
	degree.ShortCode = req.ShortCode
	degree.Levels = models.Levels(req.Levels)
	degree.Active = activeOr(req.Active, degree.Active)
	if err := s.repo.Update(ctx, &degree, department.ID); err != nil {
		return nil, writeError(err, "degree", "update")
	}
	s.hooks.committed(ctx, "degree", "update")
	return s.reload(ctx, &degree)
}

// Delete removes a degree and its department link.
func (s *DegreeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindDetailByID(ctx, id); err != nil {
		return loadError(err, "degree")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "degree")
	}
	s.hooks.committed(ctx, "degree", "delete")
	return nil
}

func (s *DegreeService) validate(req *DegreeRequest) error {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid degree payload")
	}
	return req.checkLevels()
}

func (s *DegreeService) ensureUnique(ctx context.Context, req DegreeRequest, excludeID int64) error {
	exists, err := s.repo.ExistsByNameOrShortCode(ctx, req.Name, req.ShortCode, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to validate degree")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "degree name or short code already used")
	}
	return nil
}

// reload returns the stored view including department and faculty names. The write already
// committed, so a failed reload falls back to the written row.
func (s *DegreeService) reload(ctx context.Context, degree *models.Degree) (*models.DegreeDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, degree.ID)
	if err != nil {
		s.logger.Warn("failed to reload degree", zap.Int64("degree_id", degree.ID), zap.Error(err))
		return &models.DegreeDetail{Degree: *degree}, nil
	}
	return detail, nil
}
