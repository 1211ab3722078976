package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
	"github.com/noah-isme/academic-admin-api/pkg/export"
)

func newExportFixture() (*ExportService, *mockFacultyRepo, *mockStudentRepo) {
	faculties := newMockFacultyRepo()
	faculties.overview = []models.FacultyOverview{
		{Faculty: models.Faculty{ID: 1, Name: "Science", Email: "sci@uni.test", Active: true}, DepartmentCount: 2, DegreeCount: 4, ManagerName: strPtr("Dr. Dean")},
	}
	departments := newMockDepartmentRepo()
	degrees := newMockDegreeRepo()
	degrees.overview = []models.DegreeDetail{
		{Degree: models.Degree{ID: 5, Name: "Physics", ShortCode: "PHY", Levels: models.Levels{"BSc", "MSc"}}, DepartmentName: strPtr("Physics")},
	}
	students := newMockStudentRepo()
	svc := NewExportService(faculties, departments, degrees, students, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }
	return svc, faculties, students
}

func readCSV(t *testing.T, payload []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportServiceFacultiesCSV(t *testing.T) {
	svc, _, _ := newExportFixture()

	file, err := svc.Export(context.Background(), ExportFaculties, "csv", models.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "faculties_20240501_103000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records := readCSV(t, file.Payload)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"1", "Science", "sci@uni.test", "", "Dr. Dean", "2", "4", "Yes"}, records[1])
}

func TestExportServiceDegreesPDF(t *testing.T) {
	svc, _, _ := newExportFixture()

	file, err := svc.Export(context.Background(), ExportDegrees, "PDF", models.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF-")))
}

func TestExportServiceStudentsPagesThroughAll(t *testing.T) {
	svc, _, students := newExportFixture()
	students.listTotal = 3
	students.pages = [][]models.StudentDetail{
		{{Student: models.Student{ID: 1, Name: "A"}}, {Student: models.Student{ID: 2, Name: "B"}}},
		{{Student: models.Student{ID: 3, Name: "C"}}},
	}

	file, err := svc.Export(context.Background(), ExportStudents, "", models.StudentFilter{FacultyID: 1})
	require.NoError(t, err)
	records := readCSV(t, file.Payload)
	assert.Len(t, records, 4)
	assert.Equal(t, 2, students.lastFilter.Page)
	assert.Equal(t, int64(1), students.lastFilter.FacultyID)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _, _ := newExportFixture()

	_, err := svc.Export(context.Background(), ExportFaculties, "xlsx", models.StudentFilter{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceRejectsUnknownResource(t *testing.T) {
	svc, _, _ := newExportFixture()

	_, err := svc.Export(context.Background(), ExportResource("managers"), "csv", models.StudentFilter{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) {
	return nil, errors.New("disk full")
}

func TestExportServiceRenderFailureIsInternal(t *testing.T) {
	svc, _, _ := newExportFixture()
	var selected export.Format
	svc.renderer = func(f export.Format) export.Renderer {
		selected = f
		return failingRenderer{}
	}

	_, err := svc.Export(context.Background(), ExportFaculties, "pdf", models.StudentFilter{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, export.FormatPDF, selected)
}
