package store

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a mutation targets a row that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotActive is returned when consuming or editing an item that was
	// already used or wasted.
	ErrNotActive = errors.New("item is no longer active")
	// ErrInsufficientQuantity is returned when consuming more than is left.
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	// ErrLocationInUse is returned when deleting a location that still holds items.
	ErrLocationInUse = errors.New("location still holds items")
	// ErrUsernameTaken is returned when an active member already uses the name.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrLastAdmin is returned when an operation would leave the household
	// without an administrator.
	ErrLastAdmin = errors.New("cannot remove the last admin")
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
