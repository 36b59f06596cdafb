package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/LukeHagar/plexgo"
	"github.com/LukeHagar/plexgo/models/operations"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/config"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/types"
)

// PlexMovie is a movie entry of a Plex library section.
type PlexMovie struct {
	Title string
	GUID  string
	Year  *int
}

// plexPlaceholderRuntime is used for imported movies; the library listing
// does not carry a runtime we rely on.
const plexPlaceholderRuntime = 90

// PlexSource imports the movies of one Plex library section.
type PlexSource struct {
	cfg   config.PlexConfig
	fetch func(ctx context.Context) ([]PlexMovie, error)
}

func NewPlexSource(cfg config.PlexConfig) (*PlexSource, error) {
	if !cfg.Enabled {
		return nil, apperr.Forbidden("Plex import is not configured")
	}
	s := &PlexSource{cfg: cfg}
	s.fetch = s.libraryMovies
	return s, nil
}

func (s *PlexSource) Name() string {
	return "plex"
}

func (s *PlexSource) Movies(ctx context.Context) ([]types.MovieInput, error) {
	items, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	movies := make([]types.MovieInput, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" || item.Year == nil {
			logging.Ctx(ctx).Debug().Str("guid", item.GUID).Msg("Skipping Plex item without title or year")
			continue
		}
		movies = append(movies, types.MovieInput{
			Name:     title,
			Desc:     fmt.Sprintf("%s (%d), imported from Plex.", title, *item.Year),
			Category: s.cfg.Category,
			Language: s.cfg.Language,
			Year:     *item.Year,
			Time:     plexPlaceholderRuntime,
		})
	}
	if len(movies) == 0 {
		return nil, apperr.Validation("Plex library has no importable movies")
	}
	return movies, nil
}

func (s *PlexSource) libraryMovies(ctx context.Context) ([]PlexMovie, error) {
	client := plexgo.New(
		plexgo.WithSecurity(s.cfg.Token),
		plexgo.WithServerURL(s.cfg.URL),
	)

	res, err := client.Library.GetLibraryItems(ctx, operations.GetLibraryItemsRequest{
		SectionKey: s.cfg.LibraryKey,
		Tag:        operations.Tag("all"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get library items: %w", err)
	}

	var movies []PlexMovie
	if res.Object != nil && res.Object.MediaContainer != nil {
		for _, metadata := range res.Object.MediaContainer.Metadata {
			if metadata.Type != operations.GetLibraryItemsTypeMovie {
				continue
			}
			movies = append(movies, PlexMovie{
				Title: metadata.Title,
				GUID:  metadata.GUID,
				Year:  metadata.Year,
			})
		}
	}

	logging.Ctx(ctx).Info().
		Int("library_key", s.cfg.LibraryKey).
		Int("movies", len(movies)).
		Msg("Fetched Plex library")
	return movies, nil
}
