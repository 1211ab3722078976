package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-admin-api/internal/models"
)

const (
	degreeColumns = "g.id, g.name, g.short_code, g.levels, g.active, g.created_at, g.updated_at"
	degreeJoins   = `FROM degrees g
LEFT JOIN department_degrees dd ON dd.degree_id = g.id
LEFT JOIN departments d ON d.id = dd.department_id
LEFT JOIN faculty_departments fd ON fd.department_id = d.id
LEFT JOIN faculties f ON f.id = fd.faculty_id`
	degreeDetailColumns = degreeColumns + `, dd.department_id, d.name AS department_name, fd.faculty_id, f.name AS faculty_name`
)

// DegreeRepository manages degrees and the department that offers them.
type DegreeRepository struct {
	db *sqlx.DB
}

// NewDegreeRepository constructs a DegreeRepository.
func NewDegreeRepository(db *sqlx.DB) *DegreeRepository {
	return &DegreeRepository{db: db}
}

// List returns degrees matching the filter with their department and faculty.
func (r *DegreeRepository) List(ctx context.Context, filter models.DegreeFilter) ([]models.DegreeDetail, int, error) {
	var where whereBuilder
	if filter.DepartmentID > 0 {
		where.add("dd.department_id = $%d", filter.DepartmentID)
	}
	if filter.Active != nil {
		where.add("g.active = $%d", *filter.Active)
	}
	where.search(filter.Search, "g.name", "g.short_code")

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"name":       "g.name",
		"short_code": "g.short_code",
		"department": "d.name",
		"created_at": "g.created_at",
	}, "g.id")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s %s ORDER BY %s LIMIT %d OFFSET %d", degreeDetailColumns, degreeJoins, where.clause(), order, limit, offset)
	degrees := []models.DegreeDetail{}
	if err := r.db.SelectContext(ctx, &degrees, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list degrees: %w", err)
	}
	hydrateDetails(degrees)

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s %s", degreeJoins, where.clause()), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count degrees: %w", err)
	}
	return degrees, total, nil
}

// Overview returns every degree with department and faculty names.
func (r *DegreeRepository) Overview(ctx context.Context) ([]models.DegreeDetail, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY g.name ASC", degreeDetailColumns, degreeJoins)
	degrees := []models.DegreeDetail{}
	if err := r.db.SelectContext(ctx, &degrees, query); err != nil {
		return nil, fmt.Errorf("degree overview: %w", err)
	}
	hydrateDetails(degrees)
	return degrees, nil
}

// ListByDepartment returns the degrees offered by a department.
func (r *DegreeRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Degree, error) {
	const query = `SELECT ` + degreeColumns + ` FROM degrees g
JOIN department_degrees dd ON dd.degree_id = g.id
WHERE dd.department_id = $1
ORDER BY g.name ASC`
	degrees := []models.Degree{}
	if err := r.db.SelectContext(ctx, &degrees, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department degrees: %w", err)
	}
	for i := range degrees {
		degrees[i].Hydrate()
	}
	return degrees, nil
}

// FindDetailByID returns a degree with its department and faculty.
func (r *DegreeRepository) FindDetailByID(ctx context.Context, id int64) (*models.DegreeDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE g.id = $1", degreeDetailColumns, degreeJoins)
	var detail models.DegreeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	detail.Hydrate()
	return &detail, nil
}

// ExistsByNameOrShortCode reports whether another degree already uses the name or short code.
func (r *DegreeRepository) ExistsByNameOrShortCode(ctx context.Context, name, shortCode string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM degrees WHERE (LOWER(name) = LOWER($1) OR LOWER(short_code) = LOWER($2)) AND id <> $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, shortCode, excludeID); err != nil {
		return false, fmt.Errorf("check degree uniqueness: %w", err)
	}
	return exists, nil
}

// Create inserts the degree and its department link in one transaction.
func (r *DegreeRepository) Create(ctx context.Context, degree *models.Degree, departmentID int64) error {
	now := time.Now().UTC()
	degree.CreatedAt = now
	degree.UpdatedAt = now
	degree.RawLevels = degree.Levels.Join()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO degrees (name, short_code, levels, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := tx.QueryRowxContext(ctx, insert, degree.Name, degree.ShortCode, degree.RawLevels, degree.Active, degree.CreatedAt, degree.UpdatedAt).Scan(&degree.ID); err != nil {
			return fmt.Errorf("insert degree: %w", err)
		}
		return upsertDepartmentLink(ctx, tx, degree.ID, departmentID)
	})
}

// Update modifies the degree and moves it to departmentID when it changed.
func (r *DegreeRepository) Update(ctx context.Context, degree *models.Degree, departmentID int64) error {
	degree.UpdatedAt = time.Now().UTC()
	degree.RawLevels = degree.Levels.Join()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const update = `UPDATE degrees SET name = :name, short_code = :short_code, levels = :levels, active = :active, updated_at = :updated_at WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, update, degree)
		if err != nil {
			return fmt.Errorf("update degree: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return upsertDepartmentLink(ctx, tx, degree.ID, departmentID)
	})
}

// Delete removes the degree and its department link.
func (r *DegreeRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM department_degrees WHERE degree_id = $1`, id); err != nil {
			return fmt.Errorf("delete degree department link: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM degrees WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete degree: %w", err)
		}
		return requireRow(res)
	})
}

// Count returns the number of degrees.
func (r *DegreeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM degrees`); err != nil {
		return 0, fmt.Errorf("count degrees: %w", err)
	}
	return count, nil
}

// CountByLevel returns how many degrees list level among their levels.
func (r *DegreeRepository) CountByLevel(ctx context.Context, level string) (int, error) {
	const query = `SELECT COUNT(*) FROM degrees WHERE LOWER($1) = ANY(string_to_array(LOWER(levels), ':'))`
	var count int
	if err := r.db.GetContext(ctx, &count, query, level); err != nil {
		return 0, fmt.Errorf("count degrees by level: %w", err)
	}
	return count, nil
}

func upsertDepartmentLink(ctx context.Context, tx *sqlx.Tx, degreeID, departmentID int64) error {
	const query = `INSERT INTO department_degrees (degree_id, department_id) VALUES ($1, $2) ON CONFLICT (degree_id) DO UPDATE SET department_id = EXCLUDED.department_id`
	if _, err := tx.ExecContext(ctx, query, degreeID, departmentID); err != nil {
		return fmt.Errorf("link degree department: %w", err)
	}
	return nil
}

func hydrateDetails(degrees []models.DegreeDetail) {
	for i := range degrees {
		degrees[i].Hydrate()
	}
}
