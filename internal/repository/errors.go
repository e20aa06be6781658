package repository

import (
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"
)

// isUniqueViolation classifies driver errors raised by unique indexes.
// Duplicates are detected by the constraint itself rather than a pre-check,
// so concurrent inserts cannot race past it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pgErr, ok := err.(pgdriver.Error); ok {
		return pgErr.Field('C') == "23505"
	}
	// modernc sqlite reports constraint violations in the error text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
