package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"wizard/internal/domain"
	"wizard/internal/domain/models"
)

// JWKSVerifier implements JWTVerifier using a remote JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier creates a new JWT verifier that fetches public keys from the
// identity provider's JWKS endpoint. Keys are cached and refreshed based on
// HTTP cache headers.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT token and extracts its claims.
// Returns an error if the token is invalid, expired, or has incorrect claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AuthClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, &domain.UnauthorizedError{Message: "invalid token"}
	}

	if !token.Valid {
		return nil, &domain.UnauthorizedError{Message: "invalid token"}
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
		// allowed
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, &domain.UnauthorizedError{Message: "unexpected signing algorithm"}
	}

	claims, ok := token.Claims.(*models.AuthClaims)
	if !ok {
		return nil, &domain.UnauthorizedError{Message: "invalid token claims"}
	}

	// The subject claim is the user id; reject tokens without one
	if claims.Subject == "" {
		return nil, &domain.UnauthorizedError{Message: "token missing subject"}
	}

	// Reject anonymous tokens
	if claims.Role != "authenticated" {
		v.logger.Debug("token has invalid role", "role", claims.Role)
		return nil, &domain.UnauthorizedError{Message: "token role not permitted"}
	}

	return claims, nil
}

// Close releases resources held by the JWT verifier. The keyfunc library
// manages its own refresh lifecycle, so this is a no-op kept for graceful
// shutdown compatibility.
func (v *JWKSVerifier) Close() error {
	return nil
}
