package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/config"
	"moviecatalog/internal/database"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/metrics"
	"moviecatalog/internal/types"
	"moviecatalog/internal/validation"
)

// MovieStore is the part of the store the catalog needs.
type MovieStore interface {
	ListMovies(ctx context.Context, f types.MovieFilter, limit, offset int) ([]types.Movie, int, error)
	TopRatedMovies(ctx context.Context) ([]types.Movie, error)
	RandomMovies(ctx context.Context, n int) ([]types.Movie, error)
	GetMovie(ctx context.Context, id string) (*types.Movie, error)
	CreateMovie(ctx context.Context, m *types.Movie) error
	UpdateMovie(ctx context.Context, id string, apply func(m *types.Movie) error) (*types.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
	DeleteAllMovies(ctx context.Context) (int64, error)
	ReplaceAllMovies(ctx context.Context, movies []*types.Movie) error
}

type CatalogService struct {
	store MovieStore
	cfg   config.CatalogConfig
}

func NewCatalogService(store MovieStore, cfg config.CatalogConfig) *CatalogService {
	return &CatalogService{store: store, cfg: cfg}
}

// ParseMovieQuery reads the catalog filter and page number from query
// parameters. Empty parameters are not applied. A page number that is
// missing, not a number or below 1 becomes 1.
func ParseMovieQuery(q url.Values) (types.MovieFilter, int, error) {
	f := types.MovieFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Language: strings.TrimSpace(q.Get("language")),
		Search:   strings.TrimSpace(q.Get("search")),
	}

	var err error
	if f.Time, err = intParam(q, "time"); err != nil {
		return f, 0, err
	}
	if f.Year, err = intParam(q, "year"); err != nil {
		return f, 0, err
	}
	if v := strings.TrimSpace(q.Get("rate")); v != "" {
		rate, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return f, 0, apperr.Validation("rate must be a number")
		}
		f.Rate = &rate
	}

	page, perr := strconv.Atoi(strings.TrimSpace(q.Get("pageNumber")))
	if perr != nil || page < 1 {
		page = 1
	}
	return f, page, nil
}

func intParam(q url.Values, name string) (*int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperr.Validation(name + " must be a number")
	}
	return &n, nil
}

// List returns one page of movies matching f, newest first.
func (s *CatalogService) List(ctx context.Context, f types.MovieFilter, page int) (*types.MoviePage, error) {
	if page < 1 {
		page = 1
	}
	size := s.cfg.PageSize

	movies, total, err := s.store.ListMovies(ctx, f, size, (page-1)*size)
	if err != nil {
		return nil, apperr.Internal("failed to list movies", err)
	}
	return &types.MoviePage{
		Movies:      movies,
		Page:        page,
		Pages:       (total + size - 1) / size,
		TotalMovies: total,
	}, nil
}

func (s *CatalogService) TopRated(ctx context.Context) ([]types.Movie, error) {
	movies, err := s.store.TopRatedMovies(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load top rated movies", err)
	}
	return movies, nil
}

// Random returns a sample of distinct movies.
func (s *CatalogService) Random(ctx context.Context) ([]types.Movie, error) {
	movies, err := s.store.RandomMovies(ctx, s.cfg.RandomSampleSize)
	if err != nil {
		return nil, apperr.Internal("failed to load random movies", err)
	}
	return movies, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*types.Movie, error) {
	id, err := parseID(id, "movie")
	if err != nil {
		return nil, err
	}
	m, err := s.store.GetMovie(ctx, id)
	if err != nil {
		return nil, movieErr(err, "failed to load movie")
	}
	return m, nil
}

// Create stores a new movie owned by userID.
func (s *CatalogService) Create(ctx context.Context, userID string, in types.MovieInput) (*types.Movie, error) {
	m, err := newMovie(in)
	if err != nil {
		return nil, err
	}
	m.UserID = userID

	if err := s.store.CreateMovie(ctx, m); err != nil {
		return nil, apperr.Internal("failed to create movie", err)
	}
	logging.Ctx(ctx).Info().Str("movie_id", m.ID).Str("name", m.Name).Msg("Movie created")
	return m, nil
}

// Update applies patch to a movie. rate and numberOfReviews can only be
// changed while the movie has no reviews.
func (s *CatalogService) Update(ctx context.Context, id string, patch types.MoviePatch) (*types.Movie, error) {
	id, err := parseID(id, "movie")
	if err != nil {
		return nil, err
	}
	trimPatch(&patch)
	if err := validation.Check(patch); err != nil {
		return nil, err
	}

	m, err := s.store.UpdateMovie(ctx, id, func(m *types.Movie) error {
		return applyPatch(m, patch)
	})
	if err != nil {
		return nil, movieErr(err, "failed to update movie")
	}
	return m, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	id, err := parseID(id, "movie")
	if err != nil {
		return err
	}
	if err := s.store.DeleteMovie(ctx, id); err != nil {
		return movieErr(err, "failed to delete movie")
	}
	logging.Ctx(ctx).Info().Str("movie_id", id).Msg("Movie deleted")
	return nil
}

// DeleteAll empties the catalog and returns the number of removed movies.
func (s *CatalogService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAllMovies(ctx)
	if err != nil {
		return 0, apperr.Internal("failed to delete movies", err)
	}
	logging.Ctx(ctx).Warn().Int64("count", n).Msg("Catalog emptied")
	return n, nil
}

// Import replaces the whole catalog with the movies from src. Every record
// is validated first; a single invalid record aborts the import and leaves
// the catalog unchanged.
func (s *CatalogService) Import(ctx context.Context, src Source) ([]types.Movie, error) {
	if !s.cfg.ImportEnabled {
		return nil, apperr.Forbidden("Movie import is disabled")
	}

	inputs, err := src.Movies(ctx)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperr.Internal("failed to read "+src.Name()+" import source", err)
	}

	movies := make([]*types.Movie, 0, len(inputs))
	for i, in := range inputs {
		m, err := newMovie(in)
		if err != nil {
			return nil, apperr.Validation("movie " + strconv.Itoa(i+1) + ": " + apperr.PublicMessage(err))
		}
		movies = append(movies, m)
	}

	if err := s.store.ReplaceAllMovies(ctx, movies); err != nil {
		return nil, apperr.Internal("failed to import movies", err)
	}

	metrics.RecordImport(src.Name(), len(movies))
	logging.Ctx(ctx).Info().Str("source", src.Name()).Int("count", len(movies)).Msg("Catalog imported")

	out := make([]types.Movie, len(movies))
	for i, m := range movies {
		out[i] = *m
	}
	return out, nil
}

// newMovie validates in and converts it to a movie with defaults applied.
func newMovie(in types.MovieInput) (*types.Movie, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Desc = strings.TrimSpace(in.Desc)
	in.Category = strings.TrimSpace(in.Category)
	in.Language = strings.TrimSpace(in.Language)
	for i := range in.Casts {
		in.Casts[i].Name = strings.TrimSpace(in.Casts[i].Name)
		in.Casts[i].Image = strings.TrimSpace(in.Casts[i].Image)
	}
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	m := &types.Movie{
		Name:            in.Name,
		Desc:            in.Desc,
		TitleImage:      imageOrDefault(in.TitleImage),
		Image:           imageOrDefault(in.Image),
		Category:        in.Category,
		Language:        in.Language,
		Year:            in.Year,
		Time:            in.Time,
		Video:           strings.TrimSpace(in.Video),
		Rate:            in.Rate,
		NumberOfReviews: in.NumberOfReviews,
		Casts:           castsFromInput(in.Casts),
	}
	return m, nil
}

func castsFromInput(in []types.CastInput) []types.Cast {
	casts := make([]types.Cast, len(in))
	for i, c := range in {
		casts[i] = types.Cast{Name: c.Name, Image: c.Image}
	}
	return casts
}

func imageOrDefault(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return config.DefaultImage
	}
	return s
}

func trimPatch(p *types.MoviePatch) {
	for _, f := range []*string{p.Name, p.Desc, p.TitleImage, p.Image, p.Category, p.Language, p.Video} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	for i := range p.Casts {
		p.Casts[i].Name = strings.TrimSpace(p.Casts[i].Name)
		p.Casts[i].Image = strings.TrimSpace(p.Casts[i].Image)
	}
}

func applyPatch(m *types.Movie, p types.MoviePatch) error {
	if len(m.Reviews) > 0 {
		if p.Rate != nil && *p.Rate != m.Rate {
			return apperr.Validation("rate cannot be changed on a movie with reviews")
		}
		if p.NumberOfReviews != nil && *p.NumberOfReviews != m.NumberOfReviews {
			return apperr.Validation("numberOfReviews cannot be changed on a movie with reviews")
		}
	}

	setString(&m.Name, p.Name)
	setString(&m.Desc, p.Desc)
	setString(&m.Category, p.Category)
	setString(&m.Language, p.Language)
	setString(&m.Video, p.Video)
	if p.TitleImage != nil {
		m.TitleImage = imageOrDefault(*p.TitleImage)
	}
	if p.Image != nil {
		m.Image = imageOrDefault(*p.Image)
	}
	if p.Year != nil {
		m.Year = *p.Year
	}
	if p.Time != nil {
		m.Time = *p.Time
	}
	if p.Rate != nil {
		m.Rate = *p.Rate
	}
	if p.NumberOfReviews != nil {
		m.NumberOfReviews = *p.NumberOfReviews
	}
	if p.Casts != nil {
		m.Casts = mergeCasts(m.Casts, p.Casts)
	}
	return nil
}

// mergeCasts keeps the id of an existing cast member whose name and image
// are unchanged.
func mergeCasts(current []types.Cast, in []types.CastInput) []types.Cast {
	next := castsFromInput(in)
	used := make([]bool, len(current))
	for i := range next {
		for j, c := range current {
			if !used[j] && c.Name == next[i].Name && c.Image == next[i].Image {
				next[i].ID = c.ID
				used[j] = true
				break
			}
		}
	}
	return next
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// movieErr translates store errors for movie lookups.
func movieErr(err error, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("Movie not found")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal(msg, err)
}
