package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
)

type mockCacheRepo struct {
	entries     map[string][]byte
	invalidated []string
	sets        int
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{entries: map[string][]byte{}}
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.entries[key] = raw
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func newTestCache() (*CacheService, *mockCacheRepo) {
	repo := newMockCacheRepo()
	return NewCacheService(repo, nil, time.Minute, "academic", nil, true), repo
}

type mockManagerRepo struct {
	managers map[int64]models.Manager
	nextID   int64
}

func newMockManagerRepo(managers ...models.Manager) *mockManagerRepo {
	m := &mockManagerRepo{managers: map[int64]models.Manager{}, nextID: 100}
	for _, mg := range managers {
		m.managers[mg.ID] = mg
	}
	return m
}

func (m *mockManagerRepo) List(ctx context.Context, filter models.ManagerFilter) ([]models.Manager, int, error) {
	out := make([]models.Manager, 0, len(m.managers))
	for _, mg := range m.managers {
		out = append(out, mg)
	}
	return out, len(out), nil
}

func (m *mockManagerRepo) FindByID(ctx context.Context, id int64) (*models.Manager, error) {
	mg, ok := m.managers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &mg, nil
}

func (m *mockManagerRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for id, mg := range m.managers {
		if id != excludeID && strings.EqualFold(mg.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockManagerRepo) Create(ctx context.Context, manager *models.Manager) error {
	m.nextID++
	manager.ID = m.nextID
	m.managers[manager.ID] = *manager
	return nil
}

func (m *mockManagerRepo) Update(ctx context.Context, manager *models.Manager) error {
	if _, ok := m.managers[manager.ID]; !ok {
		return sql.ErrNoRows
	}
	m.managers[manager.ID] = *manager
	return nil
}

type mockFacultyRepo struct {
	faculties   map[int64]models.Faculty
	deans       map[int64]int64
	departments map[int64]int
	students    map[int64]int
	overview    []models.FacultyOverview
	overviewHit int
	count       int
	createErr   error
	deleted     []int64
	nextID      int64
}

func newMockFacultyRepo(faculties ...models.Faculty) *mockFacultyRepo {
	m := &mockFacultyRepo{
		faculties:   map[int64]models.Faculty{},
		deans:       map[int64]int64{},
		departments: map[int64]int{},
		students:    map[int64]int{},
		nextID:      10,
	}
	for _, f := range faculties {
		m.faculties[f.ID] = f
	}
	return m
}

func (m *mockFacultyRepo) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	out := make([]models.Faculty, 0, len(m.faculties))
	for _, f := range m.faculties {
		out = append(out, f)
	}
	return out, len(out), nil
}

func (m *mockFacultyRepo) Overview(ctx context.Context) ([]models.FacultyOverview, error) {
	m.overviewHit++
	return m.overview, nil
}

func (m *mockFacultyRepo) FindByID(ctx context.Context, id int64) (*models.Faculty, error) {
	f, ok := m.faculties[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (m *mockFacultyRepo) FindDetailByID(ctx context.Context, id int64) (*models.FacultyDetail, error) {
	f, ok := m.faculties[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	detail := &models.FacultyDetail{Faculty: f}
	if managerID, ok := m.deans[id]; ok {
		detail.ManagerID = &managerID
	}
	return detail, nil
}

func (m *mockFacultyRepo) ExistsByNameOrEmail(ctx context.Context, name, email string, excludeID int64) (bool, error) {
	for id, f := range m.faculties {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(f.Name, name) || strings.EqualFold(f.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFacultyRepo) Create(ctx context.Context, faculty *models.Faculty, managerID int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	faculty.ID = m.nextID
	m.faculties[faculty.ID] = *faculty
	m.deans[faculty.ID] = managerID
	return nil
}

func (m *mockFacultyRepo) Update(ctx context.Context, faculty *models.Faculty, managerID int64) error {
	if _, ok := m.faculties[faculty.ID]; !ok {
		return sql.ErrNoRows
	}
	m.faculties[faculty.ID] = *faculty
	m.deans[faculty.ID] = managerID
	return nil
}

func (m *mockFacultyRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.faculties, id)
	delete(m.deans, id)
	return nil
}

func (m *mockFacultyRepo) Count(ctx context.Context) (int, error) {
	return m.count, nil
}

func (m *mockFacultyRepo) CountDepartments(ctx context.Context, facultyID int64) (int, error) {
	return m.departments[facultyID], nil
}

func (m *mockFacultyRepo) CountStudents(ctx context.Context, facultyID int64) (int, error) {
	return m.students[facultyID], nil
}

type mockDepartmentRepo struct {
	departments map[int64]models.Department
	faculty     map[int64]int64
	heads       map[int64]int64
	degrees     map[int64]int
	students    map[int64]int
	overview    []models.DepartmentOverview
	deleted     []int64
	nextID      int64
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: map[int64]models.Department{},
		faculty:     map[int64]int64{},
		heads:       map[int64]int64{},
		degrees:     map[int64]int{},
		students:    map[int64]int{},
		nextID:      20,
	}
}

func (m *mockDepartmentRepo) add(department models.Department, facultyID int64) {
	m.departments[department.ID] = department
	m.faculty[department.ID] = facultyID
}

func (m *mockDepartmentRepo) List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentDetail, int, error) {
	out := []models.DepartmentDetail{}
	for id, d := range m.departments {
		facultyID := m.faculty[id]
		if filter.FacultyID > 0 && facultyID != filter.FacultyID {
			continue
		}
		out = append(out, models.DepartmentDetail{Department: d, FacultyID: &facultyID})
	}
	return out, len(out), nil
}

func (m *mockDepartmentRepo) ListByFaculty(ctx context.Context, facultyID int64) ([]models.Department, error) {
	out := []models.Department{}
	for id, d := range m.departments {
		if m.faculty[id] == facultyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDepartmentRepo) Overview(ctx context.Context) ([]models.DepartmentOverview, error) {
	return m.overview, nil
}

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (m *mockDepartmentRepo) FindDetailByID(ctx context.Context, id int64) (*models.DepartmentDetail, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	facultyID := m.faculty[id]
	return &models.DepartmentDetail{Department: d, FacultyID: &facultyID}, nil
}

func (m *mockDepartmentRepo) ExistsByNameOrEmail(ctx context.Context, name, email string, excludeID int64) (bool, error) {
	for id, d := range m.departments {
		if id != excludeID && (strings.EqualFold(d.Name, name) || strings.EqualFold(d.Email, email)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDepartmentRepo) BelongsToFaculty(ctx context.Context, departmentID, facultyID int64) (bool, error) {
	return m.faculty[departmentID] == facultyID, nil
}

func (m *mockDepartmentRepo) Create(ctx context.Context, department *models.Department, facultyID, managerID int64) error {
	m.nextID++
	department.ID = m.nextID
	m.departments[department.ID] = *department
	m.faculty[department.ID] = facultyID
	m.heads[department.ID] = managerID
	return nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, department *models.Department, facultyID, managerID int64) error {
	if _, ok := m.departments[department.ID]; !ok {
		return sql.ErrNoRows
	}
	m.departments[department.ID] = *department
	m.faculty[department.ID] = facultyID
	m.heads[department.ID] = managerID
	return nil
}

func (m *mockDepartmentRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) Count(ctx context.Context) (int, error) {
	return len(m.departments), nil
}

func (m *mockDepartmentRepo) CountDegrees(ctx context.Context, departmentID int64) (int, error) {
	return m.degrees[departmentID], nil
}

func (m *mockDepartmentRepo) CountStudents(ctx context.Context, departmentID int64) (int, error) {
	return m.students[departmentID], nil
}

type mockDegreeRepo struct {
	degrees    map[int64]models.Degree
	department map[int64]int64
	overview   []models.DegreeDetail
	lastLevel  string
	levelCount int
	deleted    []int64
	nextID     int64
}

func newMockDegreeRepo() *mockDegreeRepo {
	return &mockDegreeRepo{degrees: map[int64]models.Degree{}, department: map[int64]int64{}, nextID: 30}
}

func (m *mockDegreeRepo) List(ctx context.Context, filter models.DegreeFilter) ([]models.DegreeDetail, int, error) {
	out := []models.DegreeDetail{}
	for id, d := range m.degrees {
		departmentID := m.department[id]
		out = append(out, models.DegreeDetail{Degree: d, DepartmentID: &departmentID})
	}
	return out, len(out), nil
}

func (m *mockDegreeRepo) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Degree, error) {
	out := []models.Degree{}
	for id, d := range m.degrees {
		if m.department[id] == departmentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDegreeRepo) Overview(ctx context.Context) ([]models.DegreeDetail, error) {
	return m.overview, nil
}

func (m *mockDegreeRepo) FindDetailByID(ctx context.Context, id int64) (*models.DegreeDetail, error) {
	d, ok := m.degrees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	departmentID := m.department[id]
	return &models.DegreeDetail{Degree: d, DepartmentID: &departmentID}, nil
}

func (m *mockDegreeRepo) ExistsByNameOrShortCode(ctx context.Context, name, shortCode string, excludeID int64) (bool, error) {
	for id, d := range m.degrees {
		if id != excludeID && (strings.EqualFold(d.Name, name) || strings.EqualFold(d.ShortCode, shortCode)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDegreeRepo) Create(ctx context.Context, degree *models.Degree, departmentID int64) error {
	m.nextID++
	degree.ID = m.nextID
	degree.RawLevels = degree.Levels.Join()
	m.degrees[degree.ID] = *degree
	m.department[degree.ID] = departmentID
	return nil
}

func (m *mockDegreeRepo) Update(ctx context.Context, degree *models.Degree, departmentID int64) error {
	if _, ok := m.degrees[degree.ID]; !ok {
		return sql.ErrNoRows
	}
	degree.RawLevels = degree.Levels.Join()
	m.degrees[degree.ID] = *degree
	m.department[degree.ID] = departmentID
	return nil
}

func (m *mockDegreeRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.degrees, id)
	return nil
}

func (m *mockDegreeRepo) Count(ctx context.Context) (int, error) {
	return len(m.degrees), nil
}

func (m *mockDegreeRepo) CountByLevel(ctx context.Context, level string) (int, error) {
	m.lastLevel = level
	return m.levelCount, nil
}

type mockStudentRepo struct {
	students    map[int64]models.Student
	deactivated []int64
	lastFilter  models.StudentFilter
	pages       [][]models.StudentDetail
	listTotal   int
	err         error
	nextID      int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: map[int64]models.Student{}, nextID: 40}
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	if m.pages != nil {
		if filter.Page-1 < len(m.pages) {
			return m.pages[filter.Page-1], m.listTotal, nil
		}
		return []models.StudentDetail{}, m.listTotal, nil
	}
	details := make([]models.StudentDetail, 0, len(m.students))
	for _, s := range m.students {
		details = append(details, models.StudentDetail{Student: s})
	}
	return details, m.listTotal, nil
}

func (m *mockStudentRepo) Count(ctx context.Context, filter models.StudentFilter) (int, error) {
	m.lastFilter = filter
	return m.listTotal, m.err
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &models.StudentDetail{Student: s}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	for id, s := range m.students {
		if id != excludeID && (strings.EqualFold(s.Username, username) || strings.EqualFold(s.Email, email)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.nextID++
	student.ID = m.nextID
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Deactivate(ctx context.Context, id int64) error {
	m.deactivated = append(m.deactivated, id)
	if s, ok := m.students[id]; ok {
		s.Active = false
		m.students[id] = s
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}

func strPtr(v string) *string {
	return &v
}
