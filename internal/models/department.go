package models

import "time"

// Department belongs to exactly one faculty and is led by a head of department.
type Department struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	ContactNo string    `db:"contact_no" json:"contact_no"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentDetail adds the faculty and head-of-department links.
type DepartmentDetail struct {
	Department
	FacultyID   *int64  `db:"faculty_id" json:"faculty_id"`
	FacultyName *string `db:"faculty_name" json:"faculty_name,omitempty"`
	ManagerID   *int64  `db:"manager_id" json:"manager_id"`
	ManagerName *string `db:"manager_name" json:"manager_name,omitempty"`
}

// DepartmentOverview is the table row used by the department dashboard.
type DepartmentOverview struct {
	Department
	FacultyID   *int64  `db:"faculty_id" json:"faculty_id"`
	FacultyName *string `db:"faculty_name" json:"faculty_name,omitempty"`
	DegreeCount int     `db:"degree_count" json:"degree_count"`
	ManagerName *string `db:"manager_name" json:"manager_name,omitempty"`
}

// DepartmentFilter captures filtering options for listing departments.
type DepartmentFilter struct {
	ListFilter
	FacultyID int64
}
