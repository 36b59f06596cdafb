package services

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/types"
)

// Source supplies the dataset for a catalog import.
type Source interface {
	Name() string
	Movies(ctx context.Context) ([]types.MovieInput, error)
}

// JSONSource decodes a JSON array of movies. It backs the embedded seed
// dataset and datasets posted to the import endpoint.
type JSONSource struct {
	name string
	data []byte
}

func NewJSONSource(name string, data []byte) *JSONSource {
	return &JSONSource{name: name, data: data}
}

// NewSeedSource returns the dataset compiled into the binary.
func NewSeedSource(data []byte) *JSONSource {
	return NewJSONSource("seed", data)
}

func (s *JSONSource) Name() string {
	return s.name
}

func (s *JSONSource) Movies(_ context.Context) ([]types.MovieInput, error) {
	return decodeMovies(s.data)
}

// FileSource reads a JSON array of movies from disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Movies(_ context.Context) ([]types.MovieInput, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return decodeMovies(data)
}

func decodeMovies(data []byte) ([]types.MovieInput, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, apperr.Validation("Import dataset is empty")
	}

	var movies []types.MovieInput
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, apperr.Validation("Import dataset must be a JSON array of movies")
	}
	if len(movies) == 0 {
		return nil, apperr.Validation("Import dataset is empty")
	}
	return movies, nil
}
