package models

import (
	"strings"
	"time"
)

// LevelSeparator joins degree levels in storage.
const LevelSeparator = ":"

// Levels is the ordered list of study levels a degree is offered at. It is persisted as a
// colon-delimited string.
type Levels []string

// Join renders the levels for storage.
func (l Levels) Join() string {
	return strings.Join(l, LevelSeparator)
}

// SplitLevels parses the stored representation.
func SplitLevels(raw string) Levels {
	if raw == "" {
		return Levels{}
	}
	return strings.Split(raw, LevelSeparator)
}

// Degree is a programme offered by exactly one department.
type Degree struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ShortCode string    `db:"short_code" json:"short_code"`
	RawLevels string    `db:"levels" json:"-"`
	Levels    Levels    `db:"-" json:"levels"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Hydrate fills Levels from the stored column.
func (d *Degree) Hydrate() {
	d.Levels = SplitLevels(d.RawLevels)
}

// DegreeDetail adds the owning department and faculty.
type DegreeDetail struct {
	Degree
	DepartmentID   *int64  `db:"department_id" json:"department_id"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
	FacultyID      *int64  `db:"faculty_id" json:"faculty_id"`
	FacultyName    *string `db:"faculty_name" json:"faculty_name,omitempty"`
}

// DegreeFilter captures filtering options for listing degrees.
type DegreeFilter struct {
	ListFilter
	DepartmentID int64
}
