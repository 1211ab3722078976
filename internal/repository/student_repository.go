package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-admin-api/internal/models"
)

const studentDetailQuery = `SELECT s.id, s.name, s.username, s.email, s.contact_no, s.address, s.faculty_id, s.department_id, s.active, s.created_at, s.updated_at,
        f.name AS faculty_name, d.name AS department_name
        FROM students s
        LEFT JOIN faculties f ON f.id = s.faculty_id
        LEFT JOIN departments d ON d.id = s.department_id`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func studentWhere(filter models.StudentFilter) whereBuilder {
	var where whereBuilder
	if filter.FacultyID > 0 {
		where.add("s.faculty_id = $%d", filter.FacultyID)
	}
	if filter.DepartmentID > 0 {
		where.add("s.department_id = $%d", filter.DepartmentID)
	}
	if filter.Active != nil {
		where.add("s.active = $%d", *filter.Active)
	}
	where.search(filter.Search, "s.name", "s.username", "s.email")
	return where
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	where := studentWhere(filter)
	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"name":       "s.name",
		"username":   "s.username",
		"email":      "s.email",
		"faculty":    "f.name",
		"department": "d.name",
		"created_at": "s.created_at",
	}, "s.name")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s %s ORDER BY %s LIMIT %d OFFSET %d", studentDetailQuery, where.clause(), order, limit, offset)
	students := []models.StudentDetail{}
	if err := r.db.SelectContext(ctx, &students, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Count returns how many students match the filter, ignoring paging.
func (r *StudentRepository) Count(ctx context.Context, filter models.StudentFilter) (int, error) {
	where := studentWhere(filter)
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students s "+where.clause(), where.args...); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, studentDetailQuery+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByUsernameOrEmail checks whether another student already holds the username or email.
func (r *StudentRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM students WHERE (LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2)) AND id <> $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username, email, excludeID); err != nil {
		return false, fmt.Errorf("check student uniqueness: %w", err)
	}
	return exists, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (name, username, email, contact_no, address, faculty_id, department_id, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		student.Name, student.Username, student.Email, student.ContactNo, student.Address,
		student.FacultyID, student.DepartmentID, student.Active, student.CreatedAt, student.UpdatedAt,
	).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, username = :username, email = :email, contact_no = :contact_no, address = :address,
        faculty_id = :faculty_id, department_id = :department_id, active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireRow(res)
}

// Deactivate marks a student as inactive.
func (r *StudentRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE students SET active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return requireRow(res)
}
