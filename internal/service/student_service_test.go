package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

func newStudentFixture() (*StudentService, *mockStudentRepo) {
	faculties := newMockFacultyRepo(
		models.Faculty{ID: 1, Name: "Science"},
		models.Faculty{ID: 2, Name: "Arts"},
	)
	departments := newMockDepartmentRepo()
	departments.add(models.Department{ID: 3, Name: "Physics"}, 1)
	departments.add(models.Department{ID: 4, Name: "History"}, 2)
	repo := newMockStudentRepo()
	repo.students[41] = models.Student{ID: 41, Name: "Ada", Username: "ada", Email: "ada@uni.test", FacultyID: 1, DepartmentID: 3, Active: true}
	return NewStudentService(repo, faculties, departments, nil, nil, validator.New(), zap.NewNop()), repo
}

func validStudentRequest() StudentRequest {
	return StudentRequest{
		Name:         "Grace",
		Username:     "grace",
		Email:        "grace@uni.test",
		ContactNo:    "0800",
		Address:      "1 Main St",
		FacultyID:    1,
		DepartmentID: 3,
	}
}

func TestStudentServiceList(t *testing.T) {
	svc, repo := newStudentFixture()
	repo.listTotal = 1

	filter := models.StudentFilter{ListFilter: models.ListFilter{Page: 2, PageSize: 500}, FacultyID: 1}
	students, pagination, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, int64(1), repo.lastFilter.FacultyID)
}

func TestStudentServiceListError(t *testing.T) {
	svc, repo := newStudentFixture()
	repo.err = errors.New("db down")

	_, _, err := svc.List(context.Background(), models.StudentFilter{})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestStudentServiceCreate(t *testing.T) {
	svc, repo := newStudentFixture()

	detail, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.True(t, detail.Active)
	require.NotNil(t, detail.DepartmentName)
	assert.Equal(t, "Physics", *detail.DepartmentName)
	assert.Contains(t, repo.students, detail.ID)
}

func TestStudentServiceCreateRequiresAllFields(t *testing.T) {
	svc, _ := newStudentFixture()

	req := validStudentRequest()
	req.Address = "   "
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestStudentServiceCreateDuplicateUsername(t *testing.T) {
	svc, _ := newStudentFixture()

	req := validStudentRequest()
	req.Username = "ADA"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestStudentServiceCreateDepartmentOutsideFaculty(t *testing.T) {
	svc, _ := newStudentFixture()

	req := validStudentRequest()
	req.DepartmentID = 4
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "department does not belong to faculty", appErr.Message)
}

func TestStudentServiceCreateMissingDepartment(t *testing.T) {
	svc, _ := newStudentFixture()

	req := validStudentRequest()
	req.DepartmentID = 99
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceUpdate(t *testing.T) {
	svc, repo := newStudentFixture()

	req := StudentRequest{Name: "Ada L.", Username: "ada", Email: "ada@uni.test", ContactNo: "1", Address: "2 Side St", FacultyID: 2, DepartmentID: 4}
	detail, err := svc.Update(context.Background(), 41, req)
	require.NoError(t, err)
	assert.True(t, detail.Active)
	assert.Equal(t, int64(4), repo.students[41].DepartmentID)

	_, err = svc.Update(context.Background(), 404, req)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceDeactivate(t *testing.T) {
	svc, repo := newStudentFixture()

	require.NoError(t, svc.Deactivate(context.Background(), 41))
	assert.False(t, repo.students[41].Active)
	assert.Equal(t, []int64{41}, repo.deactivated)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), 404), appErrors.ErrNotFound)
}

func TestStudentServiceCount(t *testing.T) {
	svc, repo := newStudentFixture()
	repo.listTotal = 12

	count, err := svc.Count(context.Background(), models.StudentFilter{DepartmentID: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, count.Count)
	assert.Equal(t, int64(3), repo.lastFilter.DepartmentID)
}
