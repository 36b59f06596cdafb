package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moviecatalog/internal/types"
)

// AggregateFunc computes a movie's rate and review count from all of its
// review ratings and the rate stored before the change.
type AggregateFunc func(ratings []float64, prior float64) (rate float64, count int)

// AddReview appends r to the movie and recomputes its aggregate with agg.
// The insert, the recompute and the update run in one immediate transaction,
// so concurrent submissions for the same movie are serialized and none of
// them is lost. A second review by the same user returns ErrDuplicate and
// leaves the movie unchanged.
func (s *Store) AddReview(ctx context.Context, movieID string, r *types.Review, agg AggregateFunc) (m *types.Movie, err error) {
	defer s.track("add_review")(&err)

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var prior float64
		err := tx.QueryRowContext(ctx, `SELECT rate FROM movies WHERE id = ?`, movieID).Scan(&prior)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load movie: %w", err)
		}

		now := s.now()
		r.ID = newID()
		r.Created, r.Updated = now, now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO movie_reviews (id, movie_id, user_id, user_name, user_image, rating, comment, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, movieID, r.UserID, r.UserName, r.UserImage, r.Rating, r.Comment, r.Created, r.Updated)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to insert review: %w", err)
		}

		ratings, err := reviewRatings(ctx, tx, movieID)
		if err != nil {
			return err
		}
		rate, count := agg(ratings, prior)

		_, err = tx.ExecContext(ctx, `
			UPDATE movies SET rate = ?, number_of_reviews = ?, updated_at = ? WHERE id = ?
		`, rate, count, now, movieID)
		if err != nil {
			return fmt.Errorf("failed to update movie aggregate: %w", err)
		}

		m, err = s.getMovie(ctx, tx, movieID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func reviewRatings(ctx context.Context, q querier, movieID string) ([]float64, error) {
	rows, err := q.QueryContext(ctx, `SELECT rating FROM movie_reviews WHERE movie_id = ? ORDER BY created_at, rowid`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []float64
	for rows.Next() {
		var rating float64
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
