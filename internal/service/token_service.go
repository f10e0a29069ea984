package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"resumeflow/internal/config"
	"resumeflow/internal/domain"
)

const accessAudience = "access"

// Claims are the access-token claims issued by the auth service. OwnerID
// scopes every candidate operation.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID uuid.UUID `json:"owner_id"`
	Email   string    `json:"email"`
}

// TokenService verifies access tokens. Issue exists for tooling and tests;
// end users obtain tokens from the auth service.
type TokenService interface {
	Issue(ownerID uuid.UUID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type tokenService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewTokenService creates a new HS256 TokenService.
func NewTokenService(cfg config.JWTConfig) TokenService {
	return &tokenService{cfg: cfg, now: time.Now}
}

func (s *tokenService) Issue(ownerID uuid.UUID, email string) (string, error) {
	now := s.now()
	expiry := s.cfg.AccessTokenExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{accessAudience},
		},
		OwnerID: ownerID,
		Email:   email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithAudience(accessAudience), jwt.WithTimeFunc(s.now)}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid || claims.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
