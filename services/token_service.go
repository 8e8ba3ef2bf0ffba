package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ella-marsh/handyhub-api/models"
)

var (
	// ErrTokenInvalid is returned when a token fails signature or claim checks
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned when a token is past its expiry
	ErrTokenExpired = errors.New("token is expired")
)

// TokenClaims is what the API needs to know about an authenticated caller
type TokenClaims struct {
	UserID   uint
	Username string
	Role     models.Role
}

// TokenService issues and validates the HS256 JWTs used for API auth
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

var tokenServiceInstance *TokenService

// NewTokenService creates a token service signing with the given secret
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    24 * time.Hour,
	}
}

// InitTokenService initializes the global token service
func InitTokenService(secret string) *TokenService {
	tokenServiceInstance = NewTokenService(secret)
	return tokenServiceInstance
}

// GetTokenService returns the initialized token service instance
func GetTokenService() *TokenService {
	return tokenServiceInstance
}

// GenerateToken issues a signed token for the given user
func (t *TokenService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(t.ttl).Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the signature and expiry of a token and extracts its
// claims
func (t *TokenService) ValidateToken(tokenString string) (*TokenClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if !models.Role(role).IsValid() {
		return nil, ErrTokenInvalid
	}

	return &TokenClaims{
		UserID:   uint(userID),
		Username: username,
		Role:     models.Role(role),
	}, nil
}
