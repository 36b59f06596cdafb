package services

import (
	"context"
	"errors"
	"strings"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/database"
	"moviecatalog/internal/types"
	"moviecatalog/internal/validation"
)

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]types.Category, error)
	CreateCategory(ctx context.Context, c *types.Category) error
	UpdateCategory(ctx context.Context, id, title string) (*types.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]types.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}
	if categories == nil {
		categories = []types.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, req types.CategoryRequest) (*types.Category, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.Check(req); err != nil {
		return nil, err
	}

	c := &types.Category{Title: req.Title}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, categoryErr(err, "failed to create category")
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req types.CategoryRequest) (*types.Category, error) {
	id, err := parseID(id, "category")
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.Check(req); err != nil {
		return nil, err
	}

	c, err := s.store.UpdateCategory(ctx, id, req.Title)
	if err != nil {
		return nil, categoryErr(err, "failed to update category")
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	id, err := parseID(id, "category")
	if err != nil {
		return err
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return categoryErr(err, "failed to delete category")
	}
	return nil
}

func categoryErr(err error, msg string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return apperr.NotFound("Category not found")
	case errors.Is(err, database.ErrDuplicate):
		return apperr.Duplicate("Category already exists")
	default:
		return apperr.Internal(msg, err)
	}
}
