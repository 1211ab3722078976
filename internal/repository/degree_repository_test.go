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

var degreeDetailRows = []string{"id", "name", "short_code", "levels", "active", "created_at", "updated_at", "department_id", "department_name", "faculty_id", "faculty_name"}

func TestDegreeRepositoryCreateJoinsLevels(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDegreeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO degrees").
		WithArgs("Computer Science", "CS", "BSc:MSc:PhD", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectExec("INSERT INTO department_degrees").WithArgs(int64(21), int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	degree := &models.Degree{Name: "Computer Science", ShortCode: "CS", Levels: models.Levels{"BSc", "MSc", "PhD"}, Active: true}
	require.NoError(t, repo.Create(context.Background(), degree, 3))
	assert.Equal(t, int64(21), degree.ID)
	assert.Equal(t, "BSc:MSc:PhD", degree.RawLevels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDegreeRepositoryFindDetailSplitsLevels(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDegreeRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT g.id, .* WHERE g.id = \\$1").
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows(degreeDetailRows).
			AddRow(21, "Computer Science", "CS", "BSc:MSc", true, now, now, 3, "Computing", 1, "Science"))

	detail, err := repo.FindDetailByID(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, models.Levels{"BSc", "MSc"}, detail.Levels)
	require.NotNil(t, detail.FacultyID)
	assert.Equal(t, int64(1), *detail.FacultyID)
}

func TestDegreeRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDegreeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE degrees SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Degree{ID: 1, Levels: models.Levels{"BSc"}}, 2)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDegreeRepositoryCountByLevel(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDegreeRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM degrees WHERE LOWER\\(\\$1\\) = ANY\\(string_to_array\\(LOWER\\(levels\\), ':'\\)\\)").
		WithArgs("MSc").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByLevel(context.Background(), "MSc")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDegreeRepositoryCountByLevelComparesWholeLevels(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDegreeRepository(db)

	mock.ExpectQuery("FROM degrees WHERE LOWER\\(\\$1\\) = ANY").
		WithArgs("%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err := repo.CountByLevel(context.Background(), "%")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDegreeRepositoryListByDepartment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDegreeRepository(db)

	now := time.Now()
	mock.ExpectQuery("JOIN department_degrees dd ON dd.degree_id = g.id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "short_code", "levels", "active", "created_at", "updated_at"}).
			AddRow(1, "Physics", "PHY", "BSc", true, now, now))

	degrees, err := repo.ListByDepartment(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, degrees, 1)
	assert.Equal(t, models.Levels{"BSc"}, degrees[0].Levels)
}
