package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/types"
)

func TestFavorites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "fan@x.com")
	first := env.createMovie(t, "First")
	second := env.createMovie(t, "Second")

	empty, err := env.favorites.List(ctx, u.ID)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("List() = %v, %v, want empty list", empty, err)
	}

	if _, err := env.favorites.Add(ctx, u.ID, second.ID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	liked, err := env.favorites.Add(ctx, u.ID, first.ID)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(liked) != 2 || liked[0] != second.ID || liked[1] != first.ID {
		t.Errorf("liked = %v, want insertion order [%s %s]", liked, second.ID, first.ID)
	}

	_, err = env.favorites.Add(ctx, u.ID, first.ID)
	wantKind(t, err, apperr.ErrDuplicate, "Movie already liked")

	_, err = env.favorites.Add(ctx, u.ID, uuid.NewString())
	wantKind(t, err, apperr.ErrNotFound, "Movie not found")

	_, err = env.favorites.Add(ctx, u.ID, "42")
	wantKind(t, err, apperr.ErrValidation, "Invalid movie id")

	// Deleting a liked movie leaves the entry in place.
	if err := env.catalog.Delete(ctx, second.ID); err != nil {
		t.Fatal(err)
	}
	liked, err = env.favorites.List(ctx, u.ID)
	if err != nil || len(liked) != 2 {
		t.Errorf("List() after movie delete = %v, %v", liked, err)
	}

	if err := env.favorites.Clear(ctx, u.ID); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := env.favorites.Clear(ctx, u.ID); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
	liked, _ = env.favorites.List(ctx, u.ID)
	if len(liked) != 0 {
		t.Errorf("List() after clear = %v", liked)
	}
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	drama, err := env.categories.Create(ctx, types.CategoryRequest{Title: " Drama "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if drama.Title != "Drama" {
		t.Errorf("title = %q, want trimmed", drama.Title)
	}
	if _, err := env.categories.Create(ctx, types.CategoryRequest{Title: "Comedy"}); err != nil {
		t.Fatal(err)
	}

	_, err = env.categories.Create(ctx, types.CategoryRequest{Title: "drama"})
	wantKind(t, err, apperr.ErrDuplicate, "Category already exists")

	_, err = env.categories.Create(ctx, types.CategoryRequest{Title: "   "})
	wantKind(t, err, apperr.ErrValidation, "title is required")

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err = env.categories.Create(ctx, types.CategoryRequest{Title: string(long)})
	wantKind(t, err, apperr.ErrValidation, "title must be at most 50 characters")

	list, err := env.categories.List(ctx)
	if err != nil || len(list) != 2 || list[0].Title != "Drama" {
		t.Fatalf("List() = %+v, %v", list, err)
	}

	updated, err := env.categories.Update(ctx, drama.ID, types.CategoryRequest{Title: "Thriller"})
	if err != nil || updated.Title != "Thriller" {
		t.Fatalf("Update() = %+v, %v", updated, err)
	}
	_, err = env.categories.Update(ctx, drama.ID, types.CategoryRequest{Title: "Comedy"})
	wantKind(t, err, apperr.ErrDuplicate, "Category already exists")
	_, err = env.categories.Update(ctx, uuid.NewString(), types.CategoryRequest{Title: "X"})
	wantKind(t, err, apperr.ErrNotFound, "Category not found")

	if err := env.categories.Delete(ctx, drama.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	wantKind(t, env.categories.Delete(ctx, drama.ID), apperr.ErrNotFound, "Category not found")
}
