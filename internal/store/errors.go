package store

import (
	"errors"
	"strings"

	"github.com/roach88/veto/internal/booking"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrNotFound re-exports the domain sentinel so store callers can match
// without importing booking. Store reads wrap it with context.
var ErrNotFound = booking.ErrNotFound

// ErrNameTaken signals a unique-name collision on resources or
// constraints.
var ErrNameTaken = errors.New("name already taken")

// mapUniqueError converts a SQLite unique-constraint failure on a name
// column into ErrNameTaken; other errors pass through unchanged.
func mapUniqueError(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) &&
		se.ExtendedCode == sqlite3.ErrConstraintUnique &&
		strings.Contains(se.Error(), ".name") {
		return ErrNameTaken
	}
	return err
}
