package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/auth"
	"moviecatalog/internal/config"
	"moviecatalog/internal/database"
	"moviecatalog/internal/database/dbtest"
	"moviecatalog/internal/types"
)

type testEnv struct {
	store      *database.Store
	tokens     *auth.TokenManager
	accounts   *AccountService
	catalog    *CatalogService
	reviews    *ReviewService
	favorites  *FavoritesService
	categories *CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	security := config.SecurityConfig{
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		TokenTTL:      time.Hour,
		TokenIssuer:   "moviecatalog",
		TokenAudience: "moviecatalog-api",
		BcryptCost:    bcrypt.MinCost,
	}
	tokens, err := auth.NewTokenManager(security)
	if err != nil {
		t.Fatal(err)
	}

	store := dbtest.NewStore(t)
	catalogCfg := config.CatalogConfig{PageSize: 2, RandomSampleSize: 8, ImportEnabled: true}
	return &testEnv{
		store:      store,
		tokens:     tokens,
		accounts:   NewAccountService(store, tokens, security),
		catalog:    NewCatalogService(store, catalogCfg),
		reviews:    NewReviewService(store),
		favorites:  NewFavoritesService(store),
		categories: NewCategoryService(store),
	}
}

func movieInput(name string) types.MovieInput {
	return types.MovieInput{
		Name:     name,
		Desc:     name + " plot",
		Category: "Drama",
		Language: "English",
		Year:     2021,
		Time:     100,
		Casts:    []types.CastInput{{Name: "Lead", Image: "lead.png"}},
	}
}

func (e *testEnv) createMovie(t *testing.T, name string) *types.Movie {
	t.Helper()
	m, err := e.catalog.Create(context.Background(), "", movieInput(name))
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	return m
}

func (e *testEnv) register(t *testing.T, email string) *types.User {
	t.Helper()
	res, err := e.accounts.Register(context.Background(), types.RegisterRequest{
		FullName: "User " + email,
		Email:    email,
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return res.User
}

func wantKind(t *testing.T, err error, target *apperr.Error, msg string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want kind %v", err, target.Kind)
	}
	if msg != "" && apperr.PublicMessage(err) != msg {
		t.Errorf("message = %q, want %q", apperr.PublicMessage(err), msg)
	}
}

func ptr[T any](v T) *T {
	return &v
}
