package models

import "time"

// Faculty is the top level academic unit.
type Faculty struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	ContactNo string    `db:"contact_no" json:"contact_no"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyDetail adds the dean link to a faculty.
type FacultyDetail struct {
	Faculty
	ManagerID   *int64  `db:"manager_id" json:"manager_id"`
	ManagerName *string `db:"manager_name" json:"manager_name,omitempty"`
}

// FacultyOverview is the table row used by the faculty dashboard.
type FacultyOverview struct {
	Faculty
	DepartmentCount int     `db:"department_count" json:"department_count"`
	DegreeCount     int     `db:"degree_count" json:"degree_count"`
	ManagerName     *string `db:"manager_name" json:"manager_name,omitempty"`
}

// FacultyFilter captures filtering options for listing faculties.
type FacultyFilter struct {
	ListFilter
}
