package services

import (
	"context"
	"errors"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/database"
)

type FavoritesStore interface {
	AddLikedMovie(ctx context.Context, userID, movieID string) error
	LikedMovieIDs(ctx context.Context, userID string) ([]string, error)
	ClearLikedMovies(ctx context.Context, userID string) error
}

// FavoritesService manages a user's liked movies. The list keeps insertion
// order and may reference movies that were deleted since.
type FavoritesService struct {
	store FavoritesStore
}

func NewFavoritesService(store FavoritesStore) *FavoritesService {
	return &FavoritesService{store: store}
}

func (s *FavoritesService) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.store.LikedMovieIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load liked movies", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Add appends movieID to the user's liked movies and returns the list.
func (s *FavoritesService) Add(ctx context.Context, userID, movieID string) ([]string, error) {
	movieID, err := parseID(movieID, "movie")
	if err != nil {
		return nil, err
	}

	err = s.store.AddLikedMovie(ctx, userID, movieID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, apperr.NotFound("Movie not found")
	case errors.Is(err, database.ErrDuplicate):
		return nil, apperr.Duplicate("Movie already liked")
	case err != nil:
		return nil, apperr.Internal("failed to like movie", err)
	}
	return s.List(ctx, userID)
}

func (s *FavoritesService) Clear(ctx context.Context, userID string) error {
	if err := s.store.ClearLikedMovies(ctx, userID); err != nil {
		return apperr.Internal("failed to clear liked movies", err)
	}
	return nil
}
