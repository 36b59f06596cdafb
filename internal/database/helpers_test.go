package database

import (
	"testing"

	"moviecatalog/internal/types"
)

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":    "plain",
		"50%":      `50\%`,
		"a_b":      `a\_b`,
		`back\one`: `back\\one`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildMovieFilter(t *testing.T) {
	year := 2001
	where, args := buildMovieFilter(types.MovieFilter{Category: "Drama", Year: &year, Search: "lord"})

	want := ` WHERE category = ? AND year = ? AND name LIKE ? ESCAPE '\'`
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 3 || args[0] != "Drama" || args[1] != 2001 || args[2] != "%lord%" {
		t.Errorf("args = %v", args)
	}

	if where, args := buildMovieFilter(types.MovieFilter{}); where != "" || args != nil {
		t.Errorf("empty filter = %q %v", where, args)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "?, ?, ?" {
		t.Errorf("placeholders(3) = %q", got)
	}
	if got := placeholders(0); got != "" {
		t.Errorf("placeholders(0) = %q", got)
	}
}
