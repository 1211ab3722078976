package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

func newFacultyFixture() (*FacultyService, *mockFacultyRepo, *mockCacheRepo) {
	repo := newMockFacultyRepo(models.Faculty{ID: 1, Name: "Science", Email: "sci@uni.test", ContactNo: "1", Active: true})
	managers := newMockManagerRepo(models.Manager{ID: 7, Name: "Dr. Dean", Email: "dean@uni.test"})
	cache, cacheRepo := newTestCache()
	return NewFacultyService(repo, managers, cache, nil, nil, nil), repo, cacheRepo
}

func validFacultyRequest() FacultyRequest {
	return FacultyRequest{Name: " Arts ", Email: "arts@uni.test", ContactNo: "0800", ManagerID: 7}
}

func TestFacultyServiceCreate(t *testing.T) {
	svc, repo, cacheRepo := newFacultyFixture()

	detail, err := svc.Create(context.Background(), validFacultyRequest())
	require.NoError(t, err)
	assert.Equal(t, "Arts", detail.Name)
	assert.False(t, detail.Active, "missing active flag stores an inactive faculty")
	require.NotNil(t, detail.ManagerName)
	assert.Equal(t, "Dr. Dean", *detail.ManagerName)
	assert.Equal(t, int64(7), repo.deans[detail.ID])
	assert.Equal(t, []string{"academic:*"}, cacheRepo.invalidated)
}

func TestFacultyServiceCreateValidation(t *testing.T) {
	svc, _, _ := newFacultyFixture()

	req := validFacultyRequest()
	req.Email = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestFacultyServiceCreateConflictIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newFacultyFixture()

	req := validFacultyRequest()
	req.Name = "SCIENCE"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 409, appErrors.FromError(err).Status)
}

func TestFacultyServiceCreateMissingManager(t *testing.T) {
	svc, _, _ := newFacultyFixture()

	req := validFacultyRequest()
	req.ManagerID = 99
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestFacultyServiceCreateUniqueRaceMapsToConflict(t *testing.T) {
	svc, repo, _ := newFacultyFixture()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "faculties_name_key"}

	_, err := svc.Create(context.Background(), validFacultyRequest())
	require.Error(t, err)
	assert.Equal(t, 409, appErrors.FromError(err).Status)
}

func TestFacultyServiceUpdateKeepsActiveWhenOmitted(t *testing.T) {
	svc, repo, _ := newFacultyFixture()

	req := FacultyRequest{Name: "Science", Email: "science@uni.test", ContactNo: "2", ManagerID: 7}
	detail, err := svc.Update(context.Background(), 1, req)
	require.NoError(t, err)
	assert.True(t, detail.Active)
	assert.Equal(t, "science@uni.test", repo.faculties[1].Email)

	req.Active = boolPtr(false)
	detail, err = svc.Update(context.Background(), 1, req)
	require.NoError(t, err)
	assert.False(t, detail.Active)
}

func TestFacultyServiceUpdateMissing(t *testing.T) {
	svc, _, _ := newFacultyFixture()

	_, err := svc.Update(context.Background(), 404, validFacultyRequest())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestFacultyServiceOverviewIsCached(t *testing.T) {
	svc, repo, cacheRepo := newFacultyFixture()
	repo.overview = []models.FacultyOverview{{Faculty: models.Faculty{ID: 1, Name: "Science"}, DepartmentCount: 2, DegreeCount: 3, ManagerName: strPtr("Dr. Dean")}}

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	second, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.overviewHit)
	assert.Contains(t, cacheRepo.entries, "academic:faculties:overview")
}

func TestFacultyServiceDeleteBlockedByDepartments(t *testing.T) {
	svc, repo, _ := newFacultyFixture()
	repo.departments[1] = 2

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 412, appErrors.FromError(err).Status)
	assert.Empty(t, repo.deleted)
}

func TestFacultyServiceDeleteBlockedByStudents(t *testing.T) {
	svc, repo, _ := newFacultyFixture()
	repo.students[1] = 5

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
}

func TestFacultyServiceDelete(t *testing.T) {
	svc, repo, _ := newFacultyFixture()

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []int64{1}, repo.deleted)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), appErrors.ErrNotFound)
}

func TestFacultyServiceCountDepartments(t *testing.T) {
	svc, repo, _ := newFacultyFixture()
	repo.departments[1] = 4

	count, err := svc.CountDepartments(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, count.Count)

	_, err = svc.CountDepartments(context.Background(), 2)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
