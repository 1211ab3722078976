package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

type managerRepository interface {
	List(ctx context.Context, filter models.ManagerFilter) ([]models.Manager, int, error)
	FindByID(ctx context.Context, id int64) (*models.Manager, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, manager *models.Manager) error
	Update(ctx context.Context, manager *models.Manager) error
}

// managerLookup is the slice of the manager repository other services rely on.
type managerLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Manager, error)
}

// ManagerRequest is the payload for creating or updating a manager.
type ManagerRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=150"`
	ContactNo string `json:"contact_no" validate:"required,max=30"`
	Active    *bool  `json:"active"`
}

func (r *ManagerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactNo = strings.TrimSpace(r.ContactNo)
}

// ManagerService handles deans and heads of department.
type ManagerService struct {
	repo      managerRepository
	hooks     writeHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewManagerService constructs the manager service.
func NewManagerService(repo managerRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ManagerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManagerService{repo: repo, hooks: writeHooks{cache: cache, metrics: metrics}, validator: validate, logger: logger}
}

// List returns managers and pagination metadata.
func (s *ManagerService) List(ctx context.Context, filter models.ManagerFilter) ([]models.Manager, *models.Pagination, error) {
	managers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list managers")
	}
	return managers, paginate(filter.ListFilter, total), nil
}

// Get returns a manager by ID.
func (s *ManagerService) Get(ctx context.Context, id int64) (*models.Manager, error) {
	manager, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "manager")
	}
	return manager, nil
}

// Create registers a manager. Managers are active unless stated otherwise.
func (s *ManagerService) Create(ctx context.Context, req ManagerRequest) (*models.Manager, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid manager payload")
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, 0); err != nil {
		return nil, err
	}
	manager := &models.Manager{
		Name:      req.Name,
		Email:     req.Email,
		ContactNo: req.ContactNo,
		Active:    activeOr(req.Active, true),
	}
	if err := s.repo.Create(ctx, manager); err != nil {
		return nil, writeError(err, "manager", "create")
	}
	s.hooks.committed(ctx, "manager", "create")
	return manager, nil
}

// Update modifies a manager.
func (s *ManagerService) Update(ctx context.Context, id int64, req ManagerRequest) (*models.Manager, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid manager payload")
	}
	manager, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "manager")
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, id); err != nil {
		return nil, err
	}
	manager.Name = req.Name
	manager.Email = req.Email
	manager.ContactNo = req.ContactNo
	manager.Active = activeOr(req.Active, manager.Active)
	if err := s.repo.Update(ctx, manager); err != nil {
		return nil, writeError(err, "manager", "update")
	}
	s.hooks.committed(ctx, "manager", "update")
	return manager, nil
}

func (s *ManagerService) ensureUniqueEmail(ctx context.Context, email string, excludeID int64) error {
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to validate manager email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "manager email already used")
	}
	return nil
}
