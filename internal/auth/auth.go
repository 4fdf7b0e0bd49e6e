// Package auth provides operator authentication for the evaluation API
// Compliant with GLI-19 §B.2: Access Control
//
// Authentication is stateless: the operator exchanges a shared key for a
// signed JWT; no session state is stored server-side.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexbotov/rnglab/internal/audit"
	"github.com/alexbotov/rnglab/internal/config"
	"github.com/alexbotov/rnglab/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidKey   = errors.New("invalid operator key")
	ErrAuthDisabled = errors.New("operator authentication is not configured")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Service provides operator token issuance and validation
type Service struct {
	config *config.Config
	audit  *audit.Service
}

// New creates a new auth service
func New(cfg *config.Config, auditSvc *audit.Service) *Service {
	return &Service{
		config: cfg,
		audit:  auditSvc,
	}
}

// Claims carries the validated token identity.
type Claims struct {
	TokenID  string
	IssuedAt time.Time
}

// IssueToken verifies the operator key against the configured bcrypt hash
// and returns a signed token with its expiry.
// GLI-19 §B.2.3: credentials are stored hashed, never in clear
func (s *Service) IssueToken(ctx context.Context, operatorKey, ip string) (string, time.Time, error) {
	if s.config.Auth.OperatorKeyHash == "" {
		return "", time.Time{}, ErrAuthDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.config.Auth.OperatorKeyHash), []byte(operatorKey)); err != nil {
		s.audit.Log(ctx, audit.EventTokenRejected, domain.SeverityWarning,
			"Operator key rejected", nil, audit.WithIP(ip), audit.WithComponent("auth"))
		return "", time.Time{}, ErrInvalidKey
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.config.Auth.TokenExpiry)
	tokenID := uuid.New().String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti": tokenID,
		"sub": "operator",
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.audit.Log(ctx, audit.EventTokenIssued, domain.SeverityInfo,
		"Operator token issued", map[string]string{"token_id": tokenID},
		audit.WithIP(ip), audit.WithComponent("auth"))

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT and returns its claims
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub != "operator" {
		return nil, ErrInvalidToken
	}

	out := &Claims{}
	if jti, ok := claims["jti"].(string); ok {
		out.TokenID = jti
	}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	return out, nil
}

// HashOperatorKey produces the bcrypt hash stored in configuration.
func HashOperatorKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash operator key: %w", err)
	}
	return string(hash), nil
}
