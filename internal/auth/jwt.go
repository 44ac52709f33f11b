package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pulsefeed/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// JWTProvider resolves identities from HS256 bearer tokens, backed by the
// profiles table for fresh display names.
type JWTProvider struct {
	secret []byte
	db     *gorm.DB
}

// NewJWTProvider creates a JWT-backed identity provider
func NewJWTProvider(secret []byte, db *gorm.DB) *JWTProvider {
	return &JWTProvider{secret: secret, db: db}
}

var _ Provider = (*JWTProvider)(nil)

// IdentityFromRequest verifies the Authorization bearer token and loads the
// matching profile. Any parse, signature, expiry, or lookup failure resolves
// to ErrUnauthenticated; callers never learn which.
func (p *JWTProvider) IdentityFromRequest(ctx context.Context, r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrUnauthenticated
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrUnauthenticated
	}

	var profile models.Profile
	if err := p.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, ErrUnauthenticated
	}

	return &Identity{ID: profile.ID, DisplayName: profile.Username}, nil
}

// MintToken signs a 24h token for the given profile. Used by the seeder and
// dev tooling; production tokens come from the external auth service.
func (p *JWTProvider) MintToken(profile *models.Profile) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  profile.ID,
		"username": profile.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// HashPassword hashes a seeded credential with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
