package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-admin-api/internal/models"
)

const departmentColumns = "d.id, d.name, d.email, d.contact_no, d.active, d.created_at, d.updated_at"

// DepartmentRepository manages departments with their faculty and head-of-department links.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns departments matching the filter together with their links.
func (r *DepartmentRepository) List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentDetail, int, error) {
	base := `FROM departments d
LEFT JOIN faculty_departments fd ON fd.department_id = d.id
LEFT JOIN faculties f ON f.id = fd.faculty_id
LEFT JOIN department_heads dh ON dh.department_id = d.id
LEFT JOIN managers m ON m.id = dh.manager_id`

	var where whereBuilder
	if filter.FacultyID > 0 {
		where.add("fd.faculty_id = $%d", filter.FacultyID)
	}
	if filter.Active != nil {
		where.add("d.active = $%d", *filter.Active)
	}
	where.search(filter.Search, "d.name", "d.email")

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"name":       "d.name",
		"email":      "d.email",
		"faculty":    "f.name",
		"created_at": "d.created_at",
	}, "d.id")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT %s, fd.faculty_id, f.name AS faculty_name, dh.manager_id, m.name AS manager_name
%s %s ORDER BY %s LIMIT %d OFFSET %d`, departmentColumns, base, where.clause(), order, limit, offset)
	departments := []models.DepartmentDetail{}
	if err := r.db.SelectContext(ctx, &departments, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s %s", base, where.clause()), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}
	return departments, total, nil
}

// ListByFaculty returns the departments attached to a faculty.
func (r *DepartmentRepository) ListByFaculty(ctx context.Context, facultyID int64) ([]models.Department, error) {
	const query = `SELECT ` + departmentColumns + ` FROM departments d
JOIN faculty_departments fd ON fd.department_id = d.id
WHERE fd.faculty_id = $1
ORDER BY d.name ASC`
	departments := []models.Department{}
	if err := r.db.SelectContext(ctx, &departments, query, facultyID); err != nil {
		return nil, fmt.Errorf("list faculty departments: %w", err)
	}
	return departments, nil
}

// Overview returns every department with faculty name, degree total and head name.
func (r *DepartmentRepository) Overview(ctx context.Context) ([]models.DepartmentOverview, error) {
	const query = `
SELECT d.id, d.name, d.email, d.contact_no, d.active, d.created_at, d.updated_at,
       fd.faculty_id, f.name AS faculty_name,
       COUNT(DISTINCT dd.degree_id) AS degree_count,
       m.name AS manager_name
FROM departments d
LEFT JOIN faculty_departments fd ON fd.department_id = d.id
LEFT JOIN faculties f ON f.id = fd.faculty_id
LEFT JOIN department_degrees dd ON dd.department_id = d.id
LEFT JOIN department_heads dh ON dh.department_id = d.id
LEFT JOIN managers m ON m.id = dh.manager_id
GROUP BY d.id, fd.faculty_id, f.name, m.name
ORDER BY d.name ASC`
	rows := []models.DepartmentOverview{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("department overview: %w", err)
	}
	return rows, nil
}

// FindByID returns a bare department row.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	var department models.Department
	if err := r.db.GetContext(ctx, &department, "SELECT "+departmentColumns+" FROM departments d WHERE d.id = $1", id); err != nil {
		return nil, err
	}
	return &department, nil
}

// FindDetailByID returns a department with its faculty and head.
func (r *DepartmentRepository) FindDetailByID(ctx context.Context, id int64) (*models.DepartmentDetail, error) {
	const query = `SELECT ` + departmentColumns + `, fd.faculty_id, f.name AS faculty_name, dh.manager_id, m.name AS manager_name
FROM departments d
LEFT JOIN faculty_departments fd ON fd.department_id = d.id
LEFT JOIN faculties f ON f.id = fd.faculty_id
LEFT JOIN department_heads dh ON dh.department_id = d.id
LEFT JOIN managers m ON m.id = dh.manager_id
WHERE d.id = $1`
	var detail models.DepartmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByNameOrEmail reports whether another department already uses the name or email.
func (r *DepartmentRepository) ExistsByNameOrEmail(ctx context.Context, name, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM departments WHERE (LOWER(name) = LOWER($1) OR LOWER(email) = LOWER($2)) AND id <> $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, email, excludeID); err != nil {
		return false, fmt.Errorf("check department uniqueness: %w", err)
	}
	return exists, nil
}

// BelongsToFaculty reports whether the department is attached to the faculty.
func (r *DepartmentRepository) BelongsToFaculty(ctx context.Context, departmentID, facultyID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM faculty_departments WHERE department_id = $1 AND faculty_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, departmentID, facultyID); err != nil {
		return false, fmt.Errorf("check department faculty: %w", err)
	}
	return ok, nil
}

// Create inserts the department with its head and faculty links in one transaction.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department, facultyID, managerID int64) error {
	now := time.Now().UTC()
	department.CreatedAt = now
	department.UpdatedAt = now

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO departments (name, email, contact_no, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := tx.QueryRowxContext(ctx, insert, department.Name, department.Email, department.ContactNo, department.Active, department.CreatedAt, department.UpdatedAt).Scan(&department.ID); err != nil {
			return fmt.Errorf("insert department: %w", err)
		}
		if err := upsertHead(ctx, tx, department.ID, managerID); err != nil {
			return err
		}
		return upsertFacultyLink(ctx, tx, department.ID, facultyID)
	})
}

// Update modifies the department and its links. Students follow the department when it moves
// to another faculty so their faculty stays consistent with their department.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department, facultyID, managerID int64) error {
	department.UpdatedAt = time.Now().UTC()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const update = `UPDATE departments SET name = :name, email = :email, contact_no = :contact_no, active = :active, updated_at = :updated_at WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, update, department)
		if err != nil {
			return fmt.Errorf("update department: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		if err := upsertHead(ctx, tx, department.ID, managerID); err != nil {
			return err
		}
		if err := upsertFacultyLink(ctx, tx, department.ID, facultyID); err != nil {
			return err
		}
		const moveStudents = `UPDATE students SET faculty_id = $1, updated_at = $3 WHERE department_id = $2 AND faculty_id <> $1`
		if _, err := tx.ExecContext(ctx, moveStudents, facultyID, department.ID, department.UpdatedAt); err != nil {
			return fmt.Errorf("move department students: %w", err)
		}
		return nil
	})
}

// Delete removes the department and its links.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM department_heads WHERE department_id = $1`, id); err != nil {
			return fmt.Errorf("delete department head: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM faculty_departments WHERE department_id = $1`, id); err != nil {
			return fmt.Errorf("delete department faculty link: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete department: %w", err)
		}
		return requireRow(res)
	})
}

// Count returns the number of departments.
func (r *DepartmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM departments`); err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return count, nil
}

// CountDegrees returns how many degrees a department offers.
func (r *DepartmentRepository) CountDegrees(ctx context.Context, departmentID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(DISTINCT degree_id) FROM department_degrees WHERE department_id = $1`, departmentID); err != nil {
		return 0, fmt.Errorf("count department degrees: %w", err)
	}
	return count, nil
}

// CountStudents returns how many students are registered against a department.
func (r *DepartmentRepository) CountStudents(ctx context.Context, departmentID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE department_id = $1`, departmentID); err != nil {
		return 0, fmt.Errorf("count department students: %w", err)
	}
	return count, nil
}

func upsertHead(ctx context.Context, tx *sqlx.Tx, departmentID, managerID int64) error {
	const query = `INSERT INTO department_heads (department_id, manager_id) VALUES ($1, $2) ON CONFLICT (department_id) DO UPDATE SET manager_id = EXCLUDED.manager_id`
	if _, err := tx.ExecContext(ctx, query, departmentID, managerID); err != nil {
		return fmt.Errorf("link department head: %w", err)
	}
	return nil
}

func upsertFacultyLink(ctx context.Context, tx *sqlx.Tx, departmentID, facultyID int64) error {
	const query = `INSERT INTO faculty_departments (department_id, faculty_id) VALUES ($1, $2) ON CONFLICT (department_id) DO UPDATE SET faculty_id = EXCLUDED.faculty_id`
	if _, err := tx.ExecContext(ctx, query, departmentID, facultyID); err != nil {
		return fmt.Errorf("link department faculty: %w", err)
	}
	return nil
}
