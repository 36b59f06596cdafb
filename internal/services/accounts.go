package services

import (
	"context"
	"errors"
	"strings"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/auth"
	"moviecatalog/internal/config"
	"moviecatalog/internal/database"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/metrics"
	"moviecatalog/internal/types"
	"moviecatalog/internal/validation"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *types.User) error
	GetUserByID(ctx context.Context, id string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateProfile(ctx context.Context, id string, apply func(u *types.User) error) (*types.User, error)
	UpdatePassword(ctx context.Context, id string, apply func(currentHash string) (string, error)) error
	ListUsers(ctx context.Context) ([]types.User, error)
	DeleteUser(ctx context.Context, id string, protectAdmin bool) error
	SetAdmin(ctx context.Context, email string, admin bool) (*types.User, error)
}

// AccountService handles registration, login and profile management.
type AccountService struct {
	store      UserStore
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewAccountService(store UserStore, tokens *auth.TokenManager, cfg config.SecurityConfig) *AccountService {
	return &AccountService{store: store, tokens: tokens, bcryptCost: cfg.BcryptCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = normalizeEmail(req.Email)
	req.Image = strings.TrimSpace(req.Image)
	if err := validation.Check(req); err != nil {
		metrics.RecordAuth("register", "invalid")
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	u := &types.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Image:        imageOrDefault(req.Image),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			metrics.RecordAuth("register", "duplicate")
			return nil, apperr.Duplicate("User already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	metrics.RecordAuth("register", "success")
	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("User registered")
	return s.authResponse(u)
}

// Login verifies credentials. An unknown email and a wrong password fail
// with the same error.
func (s *AccountService) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Check(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, apperr.Internal("failed to load user", err)
	}

	hash := ""
	if u != nil {
		hash = u.PasswordHash
	}
	if !auth.CheckPasswordOrDummy(hash, req.Password) {
		metrics.RecordAuth("login", "failure")
		return nil, apperr.InvalidCredentials("Invalid email or password")
	}

	metrics.RecordAuth("login", "success")
	return s.authResponse(u)
}

// CurrentUser loads the user a verified token belongs to.
func (s *AccountService) CurrentUser(ctx context.Context, id string) (*types.User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, userErr(err, "failed to load user")
	}
	return u, nil
}

// UpdateProfile applies the fields present in req and returns the user with
// a fresh token.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, req types.UpdateProfileRequest) (*types.AuthResponse, error) {
	if req.FullName != nil {
		*req.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		*req.Email = normalizeEmail(*req.Email)
	}
	if err := validation.Check(req); err != nil {
		return nil, err
	}

	u, err := s.store.UpdateProfile(ctx, userID, func(u *types.User) error {
		if req.FullName != nil {
			u.FullName = *req.FullName
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Image != nil {
			u.Image = imageOrDefault(*req.Image)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Duplicate("Email already in use")
		}
		return nil, userErr(err, "failed to update user")
	}
	return s.authResponse(u)
}

func (s *AccountService) ChangePassword(ctx context.Context, userID string, req types.ChangePasswordRequest) error {
	if err := validation.Check(req); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	err = s.store.UpdatePassword(ctx, userID, func(current string) (string, error) {
		if !auth.CheckPassword(current, req.OldPassword) {
			return "", apperr.InvalidCredentials("Invalid old password")
		}
		return hash, nil
	})
	if err != nil {
		return userErr(err, "failed to update password")
	}
	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("Password changed")
	return nil
}

// DeleteSelf removes the caller's account. Admin accounts cannot be deleted.
func (s *AccountService) DeleteSelf(ctx context.Context, u *types.User) error {
	if u.IsAdmin {
		return apperr.Forbidden("Can't delete admin user")
	}
	return s.deleteUser(ctx, u.ID)
}

func (s *AccountService) ListUsers(ctx context.Context) ([]types.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

// DeleteUser removes another user. Admin accounts are kept.
func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	id, err := parseID(id, "user")
	if err != nil {
		return err
	}
	return s.deleteUser(ctx, id)
}

func (s *AccountService) deleteUser(ctx context.Context, id string) error {
	err := s.store.DeleteUser(ctx, id, true)
	if errors.Is(err, database.ErrProtected) {
		return apperr.Forbidden("Can't delete admin user")
	}
	if err != nil {
		return userErr(err, "failed to delete user")
	}
	logging.Ctx(ctx).Info().Str("user_id", id).Msg("User deleted")
	return nil
}

// SetAdmin grants or revokes admin rights by email.
func (s *AccountService) SetAdmin(ctx context.Context, email string, admin bool) (*types.User, error) {
	u, err := s.store.SetAdmin(ctx, normalizeEmail(email), admin)
	if err != nil {
		return nil, userErr(err, "failed to update admin flag")
	}
	return u, nil
}

func (s *AccountService) authResponse(u *types.User) (*types.AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	return &types.AuthResponse{User: u, Token: token}, nil
}

func userErr(err error, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal(msg, err)
}
