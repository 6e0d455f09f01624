// ABOUTME: User store methods: creation, lookup by handle and solved-problem updates
// ABOUTME: Handles are unique; duplicate inserts surface as ErrDuplicateHandle

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const userColumns = `id, handle, solved_count, solved_problems, last_check_time, last_update_time`

// AddUser inserts a new user with no solved problems and returns its id.
// Both timestamps are set to the current time.
func (s *SQLiteStore) AddUser(ctx context.Context, handle string) (int64, error) {
	if strings.TrimSpace(handle) == "" {
		return 0, ErrInvalidHandle
	}

	empty, err := EncodeSolvedProblems(nil)
	if err != nil {
		return 0, err
	}
	now := formatTime(time.Now())

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO Users (handle, solved_count, solved_problems, last_check_time, last_update_time)
			VALUES (?, 0, ?, ?, ?)
		`, handle, empty, now, now)
		if err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("%w: %q", ErrDuplicateHandle, handle)
			}
			return fmt.Errorf("inserting user: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("added user", "id", id, "handle", handle)
	return id, nil
}

// GetUser returns the user with the given handle.
// Returns ErrNotFound if the handle is unknown.
func (s *SQLiteStore) GetUser(ctx context.Context, handle string) (*User, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM Users WHERE handle = ?`, handle)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

// GetUserIDByHandle looks up the surrogate id for handle. The boolean is false
// when no such user exists; that case is not an error.
func (s *SQLiteStore) GetUserIDByHandle(ctx context.Context, handle string) (int64, bool, error) {
	if err := s.checkOpen(); err != nil {
		return 0, false, err
	}
	return lookupUserID(ctx, s.db, handle)
}

// ListUsers returns every user ordered by id
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM Users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// UpdateUserSolvedProblems replaces the user's solved list, recomputes
// solved_count and refreshes last_update_time. It reports whether a user with
// that handle existed; an unknown handle updates nothing and returns false, nil.
func (s *SQLiteStore) UpdateUserSolvedProblems(ctx context.Context, handle string, solved []int) (bool, error) {
	encoded, err := EncodeSolvedProblems(solved)
	if err != nil {
		return false, err
	}
	now := formatTime(time.Now())

	var affected int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE Users
			SET solved_count = ?, solved_problems = ?, last_update_time = ?
			WHERE handle = ?
		`, len(solved), encoded, now, handle)
		if err != nil {
			return fmt.Errorf("updating solved problems: %w", err)
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}

	if affected == 0 {
		s.logger.Warn("solved problems update matched no user", "handle", handle)
		return false, nil
	}
	s.logger.Debug("updated solved problems", "handle", handle, "count", len(solved))
	return true, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lookupUserID(ctx context.Context, q querier, handle string) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM Users WHERE handle = ?`, handle).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up user id: %w", err)
	}
	return id, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var (
		user                  User
		solvedText            string
		checkText, updateText string
	)
	if err := row.Scan(&user.ID, &user.Handle, &user.SolvedCount, &solvedText, &checkText, &updateText); err != nil {
		return nil, err
	}

	var err error
	if user.SolvedProblems, err = DecodeSolvedProblems(solvedText); err != nil {
		return nil, fmt.Errorf("user %q: %w", user.Handle, err)
	}
	if user.LastCheckTime, err = parseTime(checkText); err != nil {
		return nil, fmt.Errorf("parsing last_check_time: %w", err)
	}
	if user.LastUpdateTime, err = parseTime(updateText); err != nil {
		return nil, fmt.Errorf("parsing last_update_time: %w", err)
	}
	return &user, nil
}

func collectUsers(rows *sql.Rows) ([]*User, error) {
	users := []*User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}
