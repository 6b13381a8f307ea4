package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

const userColumns = `id, username, password_hash, role, created_at, deleted_at`

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// findUser runs a single-row user query; a missing row is nil, nil.
func findUser(ctx context.Context, q queryer, where string, args ...any) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// CreateUser adds a household member. Names of soft-deleted members can be
// taken again; a name held by an active member fails with ErrUsernameTaken.
func CreateUser(ctx context.Context, db *sql.DB, username, passwordHash, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := findUser(ctx, tx, `username = ? AND deleted_at IS NULL`, username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		username, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	u, err := findUser(ctx, tx, `id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("reading new user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing user: %w", err)
	}
	return u, nil
}

// GetUser returns a member by ID. Soft-deleted members are included so
// history rows can still name who recorded them.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u, err := findUser(ctx, db, `id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByUsername returns the active member signed in under username.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u, err := findUser(ctx, db, `username = ? AND deleted_at IS NULL`, username)
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}
	return u, nil
}

// ListUsers returns active members, admins first.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL
		 ORDER BY role = 'admin' DESC, username`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUserRole changes a member's role. Demoting the last admin fails with
// ErrLastAdmin.
func UpdateUserRole(ctx context.Context, db *sql.DB, id int64, role string) error {
	if !model.ValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	return withAdminGuard(ctx, db, id, role != model.RoleAdmin,
		`UPDATE users SET role = ? WHERE id = ? AND deleted_at IS NULL`, role, id)
}

// UpdateUserPassword stores a new password hash for an active member.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating password of user %d: %w", id, err)
	}
	return requireAffected(result, ErrNotFound)
}

// DeleteUser soft-deletes a member. Deleting the last admin fails with
// ErrLastAdmin.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	return withAdminGuard(ctx, db, id, true,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id)
}

// withAdminGuard runs a single-row user mutation in a transaction. When guard
// is set, the mutation is refused if id is the only active admin.
func withAdminGuard(ctx context.Context, db *sql.DB, id int64, guard bool, query string, args ...any) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if guard {
		var isAdmin, admins int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(id = ?), 0), COUNT(*)
			 FROM users WHERE role = 'admin' AND deleted_at IS NULL`, id,
		).Scan(&isAdmin, &admins)
		if err != nil {
			return fmt.Errorf("counting admins: %w", err)
		}
		if isAdmin == 1 && admins == 1 {
			return ErrLastAdmin
		}
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating user %d: %w", id, err)
	}
	if err := requireAffected(result, ErrNotFound); err != nil {
		return err
	}
	return tx.Commit()
}
