package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))
	return db
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestJWTProviderRoundtrip(t *testing.T) {
	db := setupAuthDB(t)
	profile := &models.Profile{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, db.Create(profile).Error)

	provider := NewJWTProvider([]byte("test-secret"), db)
	token, err := provider.MintToken(profile)
	require.NoError(t, err)

	identity, err := provider.IdentityFromRequest(context.Background(), requestWithToken(token))
	require.NoError(t, err)
	assert.Equal(t, profile.ID, identity.ID)
	assert.Equal(t, "alice", identity.DisplayName)
}

func TestJWTProviderRejections(t *testing.T) {
	db := setupAuthDB(t)
	profile := &models.Profile{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, db.Create(profile).Error)

	provider := NewJWTProvider([]byte("test-secret"), db)

	t.Run("missing header", func(t *testing.T) {
		_, err := provider.IdentityFromRequest(context.Background(), requestWithToken(""))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := provider.IdentityFromRequest(context.Background(), requestWithToken("not.a.jwt"))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTProvider([]byte("other-secret"), db)
		token, err := other.MintToken(profile)
		require.NoError(t, err)

		_, err = provider.IdentityFromRequest(context.Background(), requestWithToken(token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id": profile.ID,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = provider.IdentityFromRequest(context.Background(), requestWithToken(token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost := &models.Profile{ID: "99999999-9999-9999-9999-999999999999", Username: "ghost"}
		token, err := provider.MintToken(ghost)
		require.NoError(t, err)

		_, err = provider.IdentityFromRequest(context.Background(), requestWithToken(token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestStaticProvider(t *testing.T) {
	provider := NewStaticProvider(Identity{ID: "u1", DisplayName: "user_one"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-User-ID", "u1")
	identity, err := provider.IdentityFromRequest(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "user_one", identity.DisplayName)

	r.Header.Set("X-User-ID", "unknown")
	_, err = provider.IdentityFromRequest(context.Background(), r)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.NotEmpty(t, hash)
}
