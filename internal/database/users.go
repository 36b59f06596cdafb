package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moviecatalog/internal/types"
)

const userColumns = `id, full_name, email, password_hash, image, is_admin, created_at, updated_at`

func scanUser(row scanner) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Image, &u.IsAdmin, &u.Created, &u.Updated)
	if err != nil {
		return nil, err
	}
	u.LikedMovies = []string{}
	return &u, nil
}

// CreateUser inserts u and fills in its ID and timestamps. A taken email
// returns ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *types.User) (err error) {
	defer s.track("create_user")(&err)

	now := s.now()
	u.ID = newID()
	u.Created, u.Updated = now, now
	if u.LikedMovies == nil {
		u.LikedMovies = []string{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, full_name, email, password_hash, image, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.FullName, u.Email, u.PasswordHash, u.Image, u.IsAdmin, u.Created, u.Updated)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (u *types.User, err error) {
	defer s.track("get_user")(&err)
	return s.getUser(ctx, s.db, "id = ?", id)
}

// GetUserByEmail matches email case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (u *types.User, err error) {
	defer s.track("get_user_by_email")(&err)
	return s.getUser(ctx, s.db, "email = ?", email)
}

func (s *Store) getUser(ctx context.Context, q querier, where string, arg any) (*types.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	liked, err := likedMovieIDs(ctx, q, u.ID)
	if err != nil {
		return nil, err
	}
	u.LikedMovies = liked
	return u, nil
}

// UpdateProfile loads the user and applies apply in one transaction, then
// writes back the profile columns only. Password and admin flag changes made
// concurrently are kept. A taken email returns ErrDuplicate and a missing
// user ErrNotFound.
func (s *Store) UpdateProfile(ctx context.Context, id string, apply func(u *types.User) error) (u *types.User, err error) {
	defer s.track("update_profile")(&err)

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getUser(ctx, tx, "id = ?", id)
		if err != nil {
			return err
		}
		if err := apply(current); err != nil {
			return err
		}

		current.Updated = s.now()
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET full_name = ?, email = ?, image = ?, updated_at = ?
			WHERE id = ?
		`, current.FullName, current.Email, current.Image, current.Updated, id)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		u = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword replaces the password hash of user id with the hash that
// apply returns for the current one. Reading and writing share a
// transaction, so apply always sees the latest hash.
func (s *Store) UpdatePassword(ctx context.Context, id string, apply func(currentHash string) (string, error)) (err error) {
	defer s.track("update_password")(&err)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		next, err := apply(current)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, next, s.now(), id); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) (users []types.User, err error) {
	defer s.track("list_users")(&err)

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users = []types.User{}
	index := map[string]int{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		index[u.ID] = len(users)
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	likedRows, err := s.db.QueryContext(ctx, `SELECT user_id, movie_id FROM user_liked_movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked movies: %w", err)
	}
	defer likedRows.Close()
	for likedRows.Next() {
		var userID, movieID string
		if err := likedRows.Scan(&userID, &movieID); err != nil {
			return nil, fmt.Errorf("failed to scan liked movie: %w", err)
		}
		if i, ok := index[userID]; ok {
			users[i].LikedMovies = append(users[i].LikedMovies, movieID)
		}
	}
	return users, likedRows.Err()
}

// DeleteUser removes a user and their liked set. With protectAdmin set an
// admin account is left in place and ErrProtected is returned.
func (s *Store) DeleteUser(ctx context.Context, id string, protectAdmin bool) (err error) {
	defer s.track("delete_user")(&err)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var isAdmin bool
		err := tx.QueryRowContext(ctx, `SELECT is_admin FROM users WHERE id = ?`, id).Scan(&isAdmin)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if isAdmin && protectAdmin {
			return ErrProtected
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// SetAdmin grants or revokes admin rights for the user with email.
func (s *Store) SetAdmin(ctx context.Context, email string, admin bool) (u *types.User, err error) {
	defer s.track("set_admin")(&err)

	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_admin = ?, updated_at = ? WHERE email = ?`, admin, s.now(), email)
	if err != nil {
		return nil, fmt.Errorf("failed to update admin flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.getUser(ctx, s.db, "email = ?", email)
}
