package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ledgerbook/internal/config"
	"ledgerbook/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token is expired")
	ErrInvalidIssuer     = errors.New("invalid issuer")
	ErrInvalidTokenType  = errors.New("invalid token type")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
)

// TokenService signs and verifies the service's RS256 token pair. Access
// tokens carry the user's email for the handlers; refresh tokens carry only
// the subject ID. Both are pinned to the configured issuer.
type TokenService struct {
	cfg config.JWTConfig
}

// NewTokenService creates a new token service from JWT configuration
func NewTokenService(jwtConfig *config.JWTConfig) TokenServiceInterface {
	return &TokenService{cfg: *jwtConfig}
}

// GenerateAccessToken issues a short-lived access token for a user
func (s *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("user cannot be nil")
	}
	return s.issue(TokenTypeAccess, user.Email, user.ID.String(), user.Email, s.cfg.AccessTokenDuration)
}

// GenerateRefreshToken issues a long-lived refresh token for a user ID
func (s *TokenService) GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error) {
	if userID == uuid.Nil {
		return "", time.Time{}, errors.New("user ID cannot be nil")
	}
	return s.issue(TokenTypeRefresh, userID.String(), userID.String(), "", s.cfg.RefreshTokenDuration)
}

// issue builds and signs a token of the given kind and returns it with its
// expiry. Every token gets a fresh JTI so revocation can target it alone.
func (s *TokenService) issue(kind, subject, userID, email string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   subject,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		Email:     email,
		TokenType: kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.cfg.PrivateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing %s token: %w", kind, err)
	}

	return signed, expiresAt, nil
}

// ValidateAccessToken validates and parses an access token
func (s *TokenService) ValidateAccessToken(tokenString string) (*models.CustomClaims, error) {
	return s.verify(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates and parses a refresh token
func (s *TokenService) ValidateRefreshToken(tokenString string) (*models.CustomClaims, error) {
	return s.verify(tokenString, TokenTypeRefresh)
}

// verify checks the RS256 signature against the configured public key, then
// pins issuer and token kind so the two token kinds cannot stand in for each
// other.
func (s *TokenService) verify(tokenString, kind string) (*models.CustomClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.PublicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != s.cfg.Issuer {
		return nil, ErrInvalidIssuer
	}
	if claims.TokenType != kind {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

// ExtractTokenFromHeader pulls the raw token out of an Authorization header
func (s *TokenService) ExtractTokenFromHeader(authHeader string) (string, error) {
	const bearerPrefix = "bearer "
	if len(authHeader) <= len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

// GetJTI returns the token's ID without verifying the signature. Logout uses
// it to blacklist tokens that no longer verify, such as expired ones.
func (s *TokenService) GetJTI(tokenString string) (string, error) {
	claims, err := peekClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.ID, nil
}

// GetTokenExpiry returns the token's expiry without verifying the signature
func (s *TokenService) GetTokenExpiry(tokenString string) (time.Time, error) {
	claims, err := peekClaims(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

func peekClaims(tokenString string) (*models.CustomClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &models.CustomClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.CustomClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
