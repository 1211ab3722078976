package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-admin-api/internal/models"
)

const managerColumns = "id, name, email, contact_no, active, created_at, updated_at"

// ManagerRepository manages persistence for deans and heads of department.
type ManagerRepository struct {
	db *sqlx.DB
}

// NewManagerRepository constructs a ManagerRepository.
func NewManagerRepository(db *sqlx.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

// List returns managers matching the filter.
func (r *ManagerRepository) List(ctx context.Context, filter models.ManagerFilter) ([]models.Manager, int, error) {
	var where whereBuilder
	if filter.Active != nil {
		where.add("active = $%d", *filter.Active)
	}
	where.search(filter.Search, "name", "email")

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	}, "name")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM managers %s ORDER BY %s LIMIT %d OFFSET %d", managerColumns, where.clause(), order, limit, offset)
	managers := []models.Manager{}
	if err := r.db.SelectContext(ctx, &managers, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list managers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM managers "+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count managers: %w", err)
	}
	return managers, total, nil
}

// FindByID returns a manager by ID.
func (r *ManagerRepository) FindByID(ctx context.Context, id int64) (*models.Manager, error) {
	var manager models.Manager
	if err := r.db.GetContext(ctx, &manager, "SELECT "+managerColumns+" FROM managers WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &manager, nil
}

// ExistsByEmail checks if another manager already uses the email.
func (r *ManagerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM managers WHERE LOWER(email) = LOWER($1) AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, email, excludeID); err != nil {
		return false, fmt.Errorf("check manager email: %w", err)
	}
	return exists, nil
}

// Create inserts a manager.
func (r *ManagerRepository) Create(ctx context.Context, manager *models.Manager) error {
	now := time.Now().UTC()
	manager.CreatedAt = now
	manager.UpdatedAt = now
	const query = `INSERT INTO managers (name, email, contact_no, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, manager.Name, manager.Email, manager.ContactNo, manager.Active, manager.CreatedAt, manager.UpdatedAt).Scan(&manager.ID); err != nil {
		return fmt.Errorf("create manager: %w", err)
	}
	return nil
}

// Update modifies a manager.
func (r *ManagerRepository) Update(ctx context.Context, manager *models.Manager) error {
	manager.UpdatedAt = time.Now().UTC()
	const query = `UPDATE managers SET name = :name, email = :email, contact_no = :contact_no, active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, manager)
	if err != nil {
		return fmt.Errorf("update manager: %w", err)
	}
	return requireRow(res)
}

// requireRow turns an UPDATE that touched nothing into sql.ErrNoRows.
func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
