package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddLikedMovie appends movieID to the user's liked set. The movie must
// exist (ErrNotFound otherwise) and must not already be in the set
// (ErrDuplicate). The membership check and the append are one statement
// against UNIQUE(user_id, movie_id), so concurrent adds cannot both succeed.
func (s *Store) AddLikedMovie(ctx context.Context, userID, movieID string) (err error) {
	defer s.track("add_liked_movie")(&err)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, movieID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check movie: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO user_liked_movies (user_id, movie_id, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT (user_id, movie_id) DO NOTHING
		`, userID, movieID, s.now())
		if err != nil {
			return fmt.Errorf("failed to add liked movie: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to add liked movie: %w", err)
		}
		if n == 0 {
			return ErrDuplicate
		}
		return nil
	})
}

// LikedMovieIDs returns the user's liked set in insertion order. Ids of
// deleted movies are kept.
func (s *Store) LikedMovieIDs(ctx context.Context, userID string) (ids []string, err error) {
	defer s.track("liked_movie_ids")(&err)
	return likedMovieIDs(ctx, s.db, userID)
}

func likedMovieIDs(ctx context.Context, q querier, userID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT movie_id FROM user_liked_movies WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked movies: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked movie: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ClearLikedMovies empties the user's liked set.
func (s *Store) ClearLikedMovies(ctx context.Context, userID string) (err error) {
	defer s.track("clear_liked_movies")(&err)

	if _, err = s.db.ExecContext(ctx, `DELETE FROM user_liked_movies WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear liked movies: %w", err)
	}
	return nil
}
