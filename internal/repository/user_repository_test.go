package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-admin-api/internal/models"
)

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "role", "active", "last_login", "created_at", "updated_at"}).
		AddRow("u-1", "admin@uni.test", "hash", "Admin", "ADMIN", true, nil, now, now)
	mock.ExpectQuery("FROM users WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").WithArgs("Admin@Uni.test").WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "Admin@Uni.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Nil(t, user.LastLogin)
}

func TestUserRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@uni.test")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryUpsertAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users .* ON CONFLICT").
		WithArgs(sqlmock.AnyArg(), "admin@uni.test", "hash", "Admin", models.RoleSuperAdmin, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-id"))

	user := &models.User{Email: "admin@uni.test", PasswordHash: "hash", FullName: "Admin", Role: models.RoleSuperAdmin, Active: true}
	require.NoError(t, repo.Upsert(context.Background(), user))
	assert.Equal(t, "existing-id", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
