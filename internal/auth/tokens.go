package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"

	"moviecatalog/internal/config"
)

// TokenManager issues and verifies HS256 session tokens whose subject is the
// user id.
type TokenManager struct {
	issuer    string
	audience  string
	ttl       time.Duration
	signer    jose.Signer
	validator *validator.Validator
	now       func() time.Time
}

func NewTokenManager(cfg config.SecurityConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	secret := []byte(cfg.JWTSecret)

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token signer: %w", err)
	}

	keyFunc := func(context.Context) (interface{}, error) {
		return secret, nil
	}
	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.TokenIssuer,
		[]string{cfg.TokenAudience},
		validator.WithAllowedClockSkew(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT validator: %w", err)
	}

	return &TokenManager{
		issuer:    cfg.TokenIssuer,
		audience:  cfg.TokenAudience,
		ttl:       cfg.TokenTTL,
		signer:    signer,
		validator: jwtValidator,
		now:       time.Now,
	}, nil
}

// Issue returns a signed token for userID that expires after the configured
// TTL.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()
	claims := jwt.Claims{
		Issuer:    m.issuer,
		Subject:   userID,
		Audience:  jwt.Audience{m.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Expiry:    jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.Signed(m.signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ValidateToken checks signature, issuer, audience and expiry. It matches
// the jwtmiddleware.ValidateToken signature.
func (m *TokenManager) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	return m.validator.ValidateToken(ctx, token)
}

// Verify validates token and returns its subject.
func (m *TokenManager) Verify(ctx context.Context, token string) (string, error) {
	claims, err := m.ValidateToken(ctx, token)
	if err != nil {
		return "", err
	}
	return subject(claims)
}

func subject(claims interface{}) (string, error) {
	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}
	if validated.RegisteredClaims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return validated.RegisteredClaims.Subject, nil
}
