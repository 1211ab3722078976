package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	Count(ctx context.Context, filter models.StudentFilter) (int, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id int64) error
}

// StudentRequest holds the payload for creating or updating students.
type StudentRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	Username     string `json:"username" validate:"required,max=60"`
	Email        string `json:"email" validate:"required,email,max=150"`
	ContactNo    string `json:"contact_no" validate:"required,max=30"`
	Address      string `json:"address" validate:"required,max=255"`
	FacultyID    int64  `json:"faculty_id" validate:"required,gt=0"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
	Active       *bool  `json:"active"`
}

func (r *StudentRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactNo = strings.TrimSpace(r.ContactNo)
	r.Address = strings.TrimSpace(r.Address)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo        studentRepository
	faculties   facultyLookup
	departments departmentLookup
	hooks       writeHooks
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, faculties facultyLookup, departments departmentLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:        repo,
		faculties:   faculties,
		departments: departments,
		hooks:       writeHooks{cache: cache, metrics: metrics},
		validator:   validate,
		logger:      logger,
	}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	return students, paginate(filter.ListFilter, total), nil
}

// Count returns how many students match the filter.
func (s *StudentService) Count(ctx context.Context, filter models.StudentFilter) (*models.Count, error) {
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count students")
	}
	return &models.Count{Count: count}, nil
}

// Get returns detailed student information.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "student")
	}
	return student, nil
}

// Create registers a new student. Students are active unless stated otherwise.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.StudentDetail, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	if err := s.ensureUnique(ctx, req, 0); err != nil {
		return nil, err
	}
	faculty, department, err := s.resolvePlacement(ctx, req)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		ContactNo:    req.ContactNo,
		Address:      req.Address,
		FacultyID:    faculty.ID,
		DepartmentID: department.ID,
		Active:       activeOr(req.Active, true),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, writeError(err, "student", "create")
	}
	s.hooks.committed(ctx, "student", "create")
	return &models.StudentDetail{Student: *student, FacultyName: &faculty.Name, DepartmentName: &department.Name}, nil
}

// Update modifies an existing student record.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.StudentDetail, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "student")
	}
	if err := s.ensureUnique(ctx, req, id); err != nil {
		return nil, err
	}
	faculty, department, err := s.resolvePlacement(ctx, req)
	if err != nil {
		return nil, err
	}

	student := detail.Student
	student.Name = req.Name
	student.Username = req.Username
	student.Email = req.Email
	student.ContactNo = req.ContactNo
	student.Address = req.Address
	student.FacultyID = faculty.ID
	student.DepartmentID = department.ID
	student.Active = activeOr(req.Active, student.Active)
	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, writeError(err, "student", "update")
	}
	s.hooks.committed(ctx, "student", "update")
	return &models.StudentDetail{Student: student, FacultyName: &faculty.Name, DepartmentName: &department.Name}, nil
}

// Deactivate marks student inactive.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "student")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return writeError(err, "student", "deactivate")
	}
	s.hooks.committed(ctx, "student", "deactivate")
	return nil
}

func (s *StudentService) ensureUnique(ctx context.Context, req StudentRequest, excludeID int64) error {
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to validate student")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "username or email already used")
	}
	return nil
}

// resolvePlacement checks the faculty and department exist and that the department belongs
// to the faculty.
func (s *StudentService) resolvePlacement(ctx context.Context, req StudentRequest) (*models.Faculty, *models.Department, error) {
	faculty, err := s.faculties.FindByID(ctx, req.FacultyID)
	if err != nil {
		return nil, nil, loadError(err, "faculty")
	}
	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, nil, loadError(err, "department")
	}
	ok, err := s.departments.BelongsToFaculty(ctx, department.ID, faculty.ID)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to validate student department")
	}
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "department does not belong to faculty")
	}
	return faculty, department, nil
}
