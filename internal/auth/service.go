package auth

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"starfield-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by admin tokens. The only protected surface is universe
// registry mutation, so a single role claim is enough.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

const RoleAdmin = "admin"

// Service issues and validates admin tokens. Tokens are obtained by
// exchanging the deployment's admin key at /auth/token.
type Service struct {
	secret     []byte
	adminKey   string
	expiration time.Duration
	logger     *slog.Logger
}

func NewService(cfg config.AuthConfig, logger *slog.Logger) *Service {
	logger.Debug("Initializing auth service", "admin_key_configured", cfg.AdminKey != "")

	return &Service{
		secret:     []byte(cfg.JWTSecret),
		adminKey:   cfg.AdminKey,
		expiration: cfg.TokenExpiration,
		logger:     logger,
	}
}

// CheckAdminKey compares the presented key in constant time. An empty
// configured key disables admin access entirely.
func (s *Service) CheckAdminKey(key string) bool {
	if s.adminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) == 1
}

// IssueAdminToken signs a fresh admin token.
func (s *Service) IssueAdminToken() (string, error) {
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   RoleAdmin,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a token string.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
