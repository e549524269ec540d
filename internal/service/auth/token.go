package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/uuid"
)

const issuer = "smartrash"

// Claims are the operator token claims
type Claims struct {
	Role types.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates operator tokens signed with HS256.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for subject with the given role.
func (s *TokenService) Issue(ctx context.Context, subject string, role types.UserRole) (string, time.Time, error) {
	ctx = wrap.WithAction(wrap.WithSubject(ctx, subject), "issue_token")

	if subject == "" {
		return "", time.Time{}, wrap.Error(ctx, errors.New("subject is empty"))
	}

	id, err := uuid.New()
	if err != nil {
		return "", time.Time{}, wrap.Error(ctx, fmt.Errorf("failed to generate token id: %w", err))
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, wrap.Error(ctx, fmt.Errorf("failed to sign token: %w", err))
	}

	return token, expiresAt, nil
}

// Validate parses token and returns its claims.
func (s *TokenService) Validate(ctx context.Context, token string) (*Claims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, wrap.Error(ctx, types.ErrExpiredToken)
	case err != nil || !parsed.Valid:
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing subject", types.ErrInvalidToken))
	}

	return claims, nil
}

// RoleCheck validates token and returns the operator it was issued to.
func (s *TokenService) RoleCheck(ctx context.Context, token string) (*models.Operator, error) {
	claims, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	return &models.Operator{Subject: claims.Subject, Role: claims.Role}, nil
}
