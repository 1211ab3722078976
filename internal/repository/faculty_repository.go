package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-admin-api/internal/models"
)

const facultyColumns = "f.id, f.name, f.email, f.contact_no, f.active, f.created_at, f.updated_at"

// FacultyRepository manages faculties and their dean link.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculties matching the filter.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	var where whereBuilder
	if filter.Active != nil {
		where.add("f.active = $%d", *filter.Active)
	}
	where.search(filter.Search, "f.name", "f.email")

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"name":       "f.name",
		"email":      "f.email",
		"created_at": "f.created_at",
	}, "f.id")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM faculties f %s ORDER BY %s LIMIT %d OFFSET %d", facultyColumns, where.clause(), order, limit, offset)
	faculties := []models.Faculty{}
	if err := r.db.SelectContext(ctx, &faculties, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list faculties: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM faculties f "+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count faculties: %w", err)
	}
	return faculties, total, nil
}

// Overview returns every faculty with its department and degree totals and dean name.
func (r *FacultyRepository) Overview(ctx context.Context) ([]models.FacultyOverview, error) {
	const query = `
SELECT f.id, f.name, f.email, f.contact_no, f.active, f.created_at, f.updated_at,
       COUNT(DISTINCT fd.department_id) AS department_count,
       COUNT(DISTINCT dd.degree_id) AS degree_count,
       m.name AS manager_name
FROM faculties f
LEFT JOIN faculty_departments fd ON fd.faculty_id = f.id
LEFT JOIN department_degrees dd ON dd.department_id = fd.department_id
LEFT JOIN faculty_deans fdn ON fdn.faculty_id = f.id
LEFT JOIN managers m ON m.id = fdn.manager_id
GROUP BY f.id, m.name
ORDER BY f.name ASC`
	rows := []models.FacultyOverview{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("faculty overview: %w", err)
	}
	return rows, nil
}

// FindByID returns a bare faculty row.
func (r *FacultyRepository) FindByID(ctx context.Context, id int64) (*models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, "SELECT "+facultyColumns+" FROM faculties f WHERE f.id = $1", id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindDetailByID returns a faculty with its dean.
func (r *FacultyRepository) FindDetailByID(ctx context.Context, id int64) (*models.FacultyDetail, error) {
	const query = `SELECT ` + facultyColumns + `, fdn.manager_id, m.name AS manager_name
FROM faculties f
LEFT JOIN faculty_deans fdn ON fdn.faculty_id = f.id
LEFT JOIN managers m ON m.id = fdn.manager_id
WHERE f.id = $1`
	var detail models.FacultyDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByNameOrEmail reports whether another faculty already uses the name or email.
func (r *FacultyRepository) ExistsByNameOrEmail(ctx context.Context, name, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM faculties WHERE (LOWER(name) = LOWER($1) OR LOWER(email) = LOWER($2)) AND id <> $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, email, excludeID); err != nil {
		return false, fmt.Errorf("check faculty uniqueness: %w", err)
	}
	return exists, nil
}

// Create inserts the faculty and its dean link atomically.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty, managerID int64) error {
	now := time.Now().UTC()
	faculty.CreatedAt = now
	faculty.UpdatedAt = now

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO faculties (name, email, contact_no, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := tx.QueryRowxContext(ctx, insert, faculty.Name, faculty.Email, faculty.ContactNo, faculty.Active, faculty.CreatedAt, faculty.UpdatedAt).Scan(&faculty.ID); err != nil {
			return fmt.Errorf("insert faculty: %w", err)
		}
		if err := upsertDean(ctx, tx, faculty.ID, managerID); err != nil {
			return err
		}
		return nil
	})
}

// Update modifies the faculty and re-points its dean atomically.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty, managerID int64) error {
	faculty.UpdatedAt = time.Now().UTC()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const update = `UPDATE faculties SET name = :name, email = :email, contact_no = :contact_no, active = :active, updated_at = :updated_at WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, update, faculty)
		if err != nil {
			return fmt.Errorf("update faculty: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return upsertDean(ctx, tx, faculty.ID, managerID)
	})
}

// Delete removes the faculty and its dean link.
func (r *FacultyRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM faculty_deans WHERE faculty_id = $1`, id); err != nil {
			return fmt.Errorf("delete faculty dean: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM faculties WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete faculty: %w", err)
		}
		return requireRow(res)
	})
}

// Count returns the number of faculties.
func (r *FacultyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM faculties`); err != nil {
		return 0, fmt.Errorf("count faculties: %w", err)
	}
	return count, nil
}

// CountDepartments returns how many departments a faculty owns.
func (r *FacultyRepository) CountDepartments(ctx context.Context, facultyID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(DISTINCT department_id) FROM faculty_departments WHERE faculty_id = $1`, facultyID); err != nil {
		return 0, fmt.Errorf("count faculty departments: %w", err)
	}
	return count, nil
}

// CountStudents returns how many students are registered against a faculty.
func (r *FacultyRepository) CountStudents(ctx context.Context, facultyID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE faculty_id = $1`, facultyID); err != nil {
		return 0, fmt.Errorf("count faculty students: %w", err)
	}
	return count, nil
}

func upsertDean(ctx context.Context, tx *sqlx.Tx, facultyID, managerID int64) error {
	const query = `INSERT INTO faculty_deans (faculty_id, manager_id) VALUES ($1, $2) ON CONFLICT (faculty_id) DO UPDATE SET manager_id = EXCLUDED.manager_id`
	if _, err := tx.ExecContext(ctx, query, facultyID, managerID); err != nil {
		return fmt.Errorf("link faculty dean: %w", err)
	}
	return nil
}
