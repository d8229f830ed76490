// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the error values shared by every
// repository function.
//
// Error semantics:
//   - Missing rows are reported as gorm.ErrRecordNotFound (exported here as
//     ErrNotFound).
//   - Unique-constraint violations are reported as ErrDuplicate, whatever
//     driver produced them.
//   - Everything else is the raw driver/GORM error.
package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that an insert or update violated a unique index.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation recognizes unique violations from GORM's translated
// errors as well as the plain-text errors some SQLite builds return.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value")
}

// translate maps unique violations to ErrDuplicate and passes other errors through.
func translate(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
