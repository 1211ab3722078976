package models

import "time"

// Manager is a staff member that can lead a faculty as dean or a department as head.
type Manager struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	ContactNo string    `db:"contact_no" json:"contact_no"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ManagerFilter captures filtering options for listing managers.
type ManagerFilter struct {
	ListFilter
}
