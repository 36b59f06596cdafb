package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"moviecatalog/internal/types"
)

const movieColumns = `id, COALESCE(user_id, ''), name, description, title_image, image, category, language,
	year, time, video, rate, number_of_reviews, created_at, updated_at`

// newestFirst orders by creation time, then insertion order for rows created
// in the same instant.
const newestFirst = `created_at DESC, rowid DESC`

func scanMovie(row scanner) (*types.Movie, error) {
	var m types.Movie
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Desc, &m.TitleImage, &m.Image, &m.Category, &m.Language,
		&m.Year, &m.Time, &m.Video, &m.Rate, &m.NumberOfReviews, &m.Created, &m.Updated)
	if err != nil {
		return nil, err
	}
	m.Reviews = []types.Review{}
	m.Casts = []types.Cast{}
	return &m, nil
}

func buildMovieFilter(f types.MovieFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Language != "" {
		conds = append(conds, "language = ?")
		args = append(args, f.Language)
	}
	if f.Time != nil {
		conds = append(conds, "time = ?")
		args = append(args, *f.Time)
	}
	if f.Rate != nil {
		conds = append(conds, "rate = ?")
		args = append(args, *f.Rate)
	}
	if f.Year != nil {
		conds = append(conds, "year = ?")
		args = append(args, *f.Year)
	}
	if f.Search != "" {
		conds = append(conds, `name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListMovies returns one page of movies matching f, newest first, and the
// total number of matches.
func (s *Store) ListMovies(ctx context.Context, f types.MovieFilter, limit, offset int) (movies []types.Movie, total int, err error) {
	defer s.track("list_movies")(&err)

	where, args := buildMovieFilter(f)

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	query := `SELECT ` + movieColumns + ` FROM movies` + where + ` ORDER BY ` + newestFirst + ` LIMIT ? OFFSET ?`
	movies, err = s.queryMovies(ctx, s.db, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// TopRatedMovies returns every movie ordered by rate, highest first.
func (s *Store) TopRatedMovies(ctx context.Context) (movies []types.Movie, err error) {
	defer s.track("top_rated_movies")(&err)
	return s.queryMovies(ctx, s.db, `SELECT `+movieColumns+` FROM movies ORDER BY rate DESC, `+newestFirst)
}

// RandomMovies returns up to n distinct movies in random order.
func (s *Store) RandomMovies(ctx context.Context, n int) (movies []types.Movie, err error) {
	defer s.track("random_movies")(&err)
	return s.queryMovies(ctx, s.db, `SELECT `+movieColumns+` FROM movies ORDER BY RANDOM() LIMIT ?`, n)
}

func (s *Store) GetMovie(ctx context.Context, id string) (m *types.Movie, err error) {
	defer s.track("get_movie")(&err)
	return s.getMovie(ctx, s.db, id)
}

func (s *Store) getMovie(ctx context.Context, q querier, id string) (*types.Movie, error) {
	movies, err := s.queryMovies(ctx, q, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, ErrNotFound
	}
	return &movies[0], nil
}

func (s *Store) queryMovies(ctx context.Context, q querier, query string, args ...any) ([]types.Movie, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []types.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := loadMovieChildren(ctx, q, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// loadMovieChildren fills Reviews and Casts for movies with one query each.
func loadMovieChildren(ctx context.Context, q querier, movies []types.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	index := make(map[string]int, len(movies))
	ids := make([]any, len(movies))
	for i, m := range movies {
		index[m.ID] = i
		ids[i] = m.ID
	}
	in := placeholders(len(ids))

	rows, err := q.QueryContext(ctx, `
		SELECT movie_id, id, user_id, user_name, user_image, rating, comment, created_at, updated_at
		FROM movie_reviews WHERE movie_id IN (`+in+`)
		ORDER BY created_at, rowid
	`, ids...)
	if err != nil {
		return fmt.Errorf("failed to query reviews: %w", err)
	}
	for rows.Next() {
		var movieID string
		var r types.Review
		if err := rows.Scan(&movieID, &r.ID, &r.UserID, &r.UserName, &r.UserImage, &r.Rating, &r.Comment, &r.Created, &r.Updated); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan review: %w", err)
		}
		i := index[movieID]
		movies[i].Reviews = append(movies[i].Reviews, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = q.QueryContext(ctx, `
		SELECT movie_id, id, name, image FROM movie_casts
		WHERE movie_id IN (`+in+`)
		ORDER BY movie_id, position
	`, ids...)
	if err != nil {
		return fmt.Errorf("failed to query casts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var movieID string
		var c types.Cast
		if err := rows.Scan(&movieID, &c.ID, &c.Name, &c.Image); err != nil {
			return fmt.Errorf("failed to scan cast: %w", err)
		}
		i := index[movieID]
		movies[i].Casts = append(movies[i].Casts, c)
	}
	return rows.Err()
}

// CreateMovie inserts m with its casts and fills in generated ids and
// timestamps. Reviews on m are ignored.
func (s *Store) CreateMovie(ctx context.Context, m *types.Movie) (err error) {
	defer s.track("create_movie")(&err)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.insertMovie(ctx, tx, m)
	})
}

func (s *Store) insertMovie(ctx context.Context, q querier, m *types.Movie) error {
	now := s.now()
	m.ID = newID()
	m.Created, m.Updated = now, now
	m.Reviews = []types.Review{}

	var userID any
	if m.UserID != "" {
		userID = m.UserID
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO movies (id, user_id, name, description, title_image, image, category, language,
			year, time, video, rate, number_of_reviews, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, userID, m.Name, m.Desc, m.TitleImage, m.Image, m.Category, m.Language,
		m.Year, m.Time, m.Video, m.Rate, m.NumberOfReviews, m.Created, m.Updated)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return writeCasts(ctx, q, m)
}

// writeCasts replaces the stored casts of m with m.Casts, keeping ids that
// are already set.
func writeCasts(ctx context.Context, q querier, m *types.Movie) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM movie_casts WHERE movie_id = ?`, m.ID); err != nil {
		return fmt.Errorf("failed to clear casts: %w", err)
	}
	if m.Casts == nil {
		m.Casts = []types.Cast{}
	}
	for i := range m.Casts {
		if m.Casts[i].ID == "" {
			m.Casts[i].ID = newID()
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO movie_casts (id, movie_id, position, name, image) VALUES (?, ?, ?, ?, ?)
		`, m.Casts[i].ID, m.ID, i, m.Casts[i].Name, m.Casts[i].Image)
		if err != nil {
			return fmt.Errorf("failed to insert cast: %w", err)
		}
	}
	return nil
}

// UpdateMovie loads the movie, lets apply modify it and writes it back in one
// transaction. Reviews are read-only here; apply may inspect them.
func (s *Store) UpdateMovie(ctx context.Context, id string, apply func(m *types.Movie) error) (m *types.Movie, err error) {
	defer s.track("update_movie")(&err)

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getMovie(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := apply(current); err != nil {
			return err
		}

		current.Updated = s.now()
		_, err = tx.ExecContext(ctx, `
			UPDATE movies
			SET name = ?, description = ?, title_image = ?, image = ?, category = ?, language = ?,
				year = ?, time = ?, video = ?, rate = ?, number_of_reviews = ?, updated_at = ?
			WHERE id = ?
		`, current.Name, current.Desc, current.TitleImage, current.Image, current.Category, current.Language,
			current.Year, current.Time, current.Video, current.Rate, current.NumberOfReviews, current.Updated, id)
		if err != nil {
			return fmt.Errorf("failed to update movie: %w", err)
		}
		if err := writeCasts(ctx, tx, current); err != nil {
			return err
		}
		m = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMovie removes a movie with its reviews and casts. Liked sets that
// reference it are left alone.
func (s *Store) DeleteMovie(ctx context.Context, id string) (err error) {
	defer s.track("delete_movie")(&err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllMovies empties the catalog and returns how many movies were removed.
func (s *Store) DeleteAllMovies(ctx context.Context) (n int64, err error) {
	defer s.track("delete_all_movies")(&err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete movies: %w", err)
	}
	return res.RowsAffected()
}

// ReplaceAllMovies deletes every movie and inserts movies in their place in
// a single transaction. On error the catalog is unchanged.
func (s *Store) ReplaceAllMovies(ctx context.Context, movies []*types.Movie) (err error) {
	defer s.track("replace_all_movies")(&err)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
			return fmt.Errorf("failed to delete movies: %w", err)
		}
		for _, m := range movies {
			if err := s.insertMovie(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// MovieExists reports whether a movie with id is stored.
func (s *Store) MovieExists(ctx context.Context, id string) (ok bool, err error) {
	defer s.track("movie_exists")(&err)

	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check movie: %w", err)
	}
	return true, nil
}
