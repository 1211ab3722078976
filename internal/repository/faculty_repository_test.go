package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-admin-api/internal/models"
)

func TestFacultyRepositoryCreateLinksDean(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO faculties").
		WithArgs("Science", "science@uni.test", "0800", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO faculty_deans").
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	faculty := &models.Faculty{Name: "Science", Email: "science@uni.test", ContactNo: "0800", Active: true}
	require.NoError(t, repo.Create(context.Background(), faculty, 3))
	assert.Equal(t, int64(7), faculty.ID)
	assert.False(t, faculty.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryCreateRollsBackWhenDeanFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO faculties").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO faculty_deans").
		WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Faculty{Name: "Science"}, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link faculty dean")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE faculties SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Faculty{ID: 404, Name: "Ghost"}, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryUpdateUpsertsDean(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE faculties SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO faculty_deans .* ON CONFLICT \\(faculty_id\\) DO UPDATE").
		WithArgs(int64(5), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Faculty{ID: 5, Name: "Arts"}, 8)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryOverview(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "contact_no", "active", "created_at", "updated_at", "department_count", "degree_count", "manager_name"}).
		AddRow(1, "Science", "sci@uni.test", "1", true, now, now, 2, 5, "Dr. Dean").
		AddRow(2, "Arts", "arts@uni.test", "2", false, now, now, 0, 0, nil)
	mock.ExpectQuery("SELECT f.id, .* COUNT\\(DISTINCT fd.department_id\\) AS department_count").WillReturnRows(rows)

	overview, err := repo.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, 2, overview[0].DepartmentCount)
	assert.Equal(t, 5, overview[0].DegreeCount)
	require.NotNil(t, overview[0].ManagerName)
	assert.Equal(t, "Dr. Dean", *overview[0].ManagerName)
	assert.Nil(t, overview[1].ManagerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryListFiltersAndCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	active := true
	now := time.Now()
	mock.ExpectQuery("SELECT f.id, .* FROM faculties f WHERE f.active = \\$1 AND \\(LOWER\\(f.name\\) LIKE \\$2 ESCAPE .* OR LOWER\\(f.email\\) LIKE \\$2 ESCAPE .*\\) ORDER BY f.name DESC LIMIT 10 OFFSET 10").
		WithArgs(true, "%sci%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "contact_no", "active", "created_at", "updated_at"}).
			AddRow(1, "Science", "sci@uni.test", "1", true, now, now))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM faculties f WHERE").
		WithArgs(true, "%sci%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	filter := models.FacultyFilter{ListFilter: models.ListFilter{Search: "Sci", Active: &active, Page: 2, PageSize: 10, SortBy: "name", SortOrder: "desc"}}
	faculties, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, faculties, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryFindDetailMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectQuery("FROM faculties f").WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDetailByID(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFacultyRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM faculty_deans").WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM faculties").WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryCountDepartments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(DISTINCT department_id\\) FROM faculty_departments").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountDepartments(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
