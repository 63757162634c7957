package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound means no row matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means an equivalent record already exists.
	ErrConflict = errors.New("record already exists")
)

// translate maps driver errors onto the store's error taxonomy so callers
// never have to inspect pq internals.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrConflict
	}
	return err
}
