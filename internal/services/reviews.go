package services

import (
	"context"
	"errors"
	"strings"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/database"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/metrics"
	"moviecatalog/internal/types"
	"moviecatalog/internal/validation"
)

type ReviewStore interface {
	AddReview(ctx context.Context, movieID string, r *types.Review, agg database.AggregateFunc) (*types.Movie, error)
}

type ReviewService struct {
	store ReviewStore
}

func NewReviewService(store ReviewStore) *ReviewService {
	return &ReviewService{store: store}
}

// Submit adds author's review to a movie and returns the movie with its
// recomputed rate. A user can review a movie once.
func (s *ReviewService) Submit(ctx context.Context, movieID string, author *types.User, req types.ReviewRequest) (*types.Movie, error) {
	movieID, err := parseID(movieID, "movie")
	if err != nil {
		return nil, err
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := validation.Check(req); err != nil {
		metrics.RecordReview("invalid")
		return nil, err
	}

	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = author.Image
	}
	review := &types.Review{
		UserID:    author.ID,
		UserName:  author.FullName,
		UserImage: image,
		Rating:    *req.Rating,
		Comment:   req.Comment,
	}

	m, err := s.store.AddReview(ctx, movieID, review, ComputeAggregate)
	switch {
	case errors.Is(err, database.ErrNotFound):
		metrics.RecordReview("not_found")
		return nil, apperr.NotFound("Movie not found")
	case errors.Is(err, database.ErrDuplicate):
		metrics.RecordReview("duplicate")
		return nil, apperr.Duplicate("User already reviewed this movie")
	case err != nil:
		metrics.RecordReview("error")
		return nil, apperr.Internal("failed to add review", err)
	}

	metrics.RecordReview("accepted")
	logging.Ctx(ctx).Info().
		Str("movie_id", movieID).
		Str("user_id", author.ID).
		Float64("rate", m.Rate).
		Int("reviews", m.NumberOfReviews).
		Msg("Review added")
	return m, nil
}
