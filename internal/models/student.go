package models

import "time"

// Student is a learner enrolled in a department of a faculty.
type Student struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	ContactNo    string    `db:"contact_no" json:"contact_no"`
	Address      string    `db:"address" json:"address"`
	FacultyID    int64     `db:"faculty_id" json:"faculty_id"`
	DepartmentID int64     `db:"department_id" json:"department_id"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail contains student information with faculty and department names.
type StudentDetail struct {
	Student
	FacultyName    *string `db:"faculty_name" json:"faculty_name,omitempty"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	ListFilter
	FacultyID    int64
	DepartmentID int64
}
