package database

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes surfaced by constraint checks.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
)

// Violation describes a constraint failure reported by Postgres.
type Violation struct {
	Table  string
	Column string
}

func pqError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// UniqueViolation reports whether err is a unique constraint failure.
func UniqueViolation(err error) (Violation, bool) {
	return violation(err, codeUniqueViolation)
}

// ForeignKeyViolation reports whether err references a missing parent row.
func ForeignKeyViolation(err error) (Violation, bool) {
	return violation(err, codeForeignKeyViolation)
}

// NotNullViolation reports whether a required column was left empty.
func NotNullViolation(err error) (Violation, bool) {
	return violation(err, codeNotNullViolation)
}

func violation(err error, code string) (Violation, bool) {
	pqErr, ok := pqError(err)
	if !ok || string(pqErr.Code) != code {
		return Violation{}, false
	}
	return Violation{Table: pqErr.Table, Column: pqErr.Column}, true
}
