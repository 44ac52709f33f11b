package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/backend/internal/auth"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	aliceID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	bobID   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.InitializeForTests()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Post{}, &models.Like{}))

	for _, p := range []models.Profile{
		{ID: aliceID, Username: "alice", Email: "alice@example.com"},
		{ID: bobID, Username: "bob", Email: "bob@example.com"},
	} {
		require.NoError(t, db.Create(&p).Error)
	}

	provider := auth.NewStaticProvider(
		auth.Identity{ID: aliceID, DisplayName: "alice"},
		auth.Identity{ID: bobID, DisplayName: "bob"},
	)

	h := New(db, provider)
	router := gin.New()
	h.SetupRoutes(router)
	return router, db
}

func doRequest(t *testing.T, router *gin.Engine, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMutation(t *testing.T, w *httptest.ResponseRecorder) util.MutationResponse {
	t.Helper()
	var resp util.MutationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func seedPost(t *testing.T, db *gorm.DB, authorID, content string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Content: content, CreatedAt: createdAt, UpdatedAt: createdAt}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRoutesRequireAuthentication(t *testing.T) {
	router, _ := setupTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/posts"},
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodPut, "/api/v1/posts/some-id"},
		{http.MethodDelete, "/api/v1/posts/some-id"},
		{http.MethodPost, "/api/v1/posts/some-id/like"},
		{http.MethodGet, "/api/v1/users/me"},
	} {
		w := doRequest(t, router, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)

		resp := decodeMutation(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "UNAUTHENTICATED", resp.Code)
	}
}

func TestListPostsOrderingAndShape(t *testing.T) {
	router, db := setupTestServer(t)
	base := time.Now().UTC()
	seedPost(t, db, aliceID, "older", base.Add(-time.Hour))
	seedPost(t, db, bobID, "newer", base)

	w := doRequest(t, router, http.MethodGet, "/api/v1/posts", aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    ListPostsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data.Posts, 2)
	assert.Equal(t, "newer", resp.Data.Posts[0].Content)
	assert.Equal(t, "bob", resp.Data.Posts[0].Profile.Username)
	assert.False(t, resp.Data.HasMore)
	assert.NotEmpty(t, resp.Data.NextCursor)
}

func TestListPostsPagination(t *testing.T) {
	router, db := setupTestServer(t)
	base := time.Now().UTC()
	for i := 0; i < 12; i++ {
		seedPost(t, db, aliceID, fmt.Sprintf("post %d", i), base.Add(-time.Duration(i)*time.Minute))
	}

	w := doRequest(t, router, http.MethodGet, "/api/v1/posts", aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var first struct {
		Data ListPostsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Len(t, first.Data.Posts, 10)
	require.True(t, first.Data.HasMore)

	w = doRequest(t, router, http.MethodGet, "/api/v1/posts?cursor="+first.Data.NextCursor, aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var second struct {
		Data ListPostsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Len(t, second.Data.Posts, 2)
	assert.False(t, second.Data.HasMore)

	// No overlap across the page boundary
	seen := make(map[string]bool)
	for _, p := range first.Data.Posts {
		seen[p.ID] = true
	}
	for _, p := range second.Data.Posts {
		assert.False(t, seen[p.ID], "post %s repeated across pages", p.ID)
	}
}

func TestListPostsFilterAndSearch(t *testing.T) {
	router, db := setupTestServer(t)
	base := time.Now().UTC()
	seedPost(t, db, aliceID, "Alice on Go", base)
	seedPost(t, db, bobID, "Bob on Go", base.Add(-time.Minute))
	seedPost(t, db, bobID, "Bob on cooking", base.Add(-2*time.Minute))

	var resp struct {
		Data ListPostsResponse `json:"data"`
	}

	w := doRequest(t, router, http.MethodGet, "/api/v1/posts?filter=mine", aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Posts, 1)
	assert.Equal(t, "Alice on Go", resp.Data.Posts[0].Content)

	w = doRequest(t, router, http.MethodGet, "/api/v1/posts?query=go", aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Posts, 2)

	// A non-matching search excludes everything
	w = doRequest(t, router, http.MethodGet, "/api/v1/posts?query=xyz", aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Posts)

	w = doRequest(t, router, http.MethodGet, "/api/v1/posts?filter=bogus", aliceID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/posts?cursor=not-a-time", aliceID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePostEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/posts", aliceID, CreatePostRequest{Content: "  hello world  "})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeMutation(t, w)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello world", data["content"])
	assert.Equal(t, aliceID, data["author_id"])
	assert.NotEmpty(t, data["id"])
}

func TestCreatePostValidation(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/posts", aliceID, CreatePostRequest{Content: "   "})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decodeMutation(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, "content", resp.Field)

	// Over the rune limit
	long := make([]rune, 281)
	for i := range long {
		long[i] = 'x'
	}
	w = doRequest(t, router, http.MethodPost, "/api/v1/posts", aliceID, CreatePostRequest{Content: string(long)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Malformed body
	w = doRequest(t, router, http.MethodPost, "/api/v1/posts", aliceID, gin.H{"nope": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePostEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	post := seedPost(t, db, aliceID, "original", time.Now().UTC())

	w := doRequest(t, router, http.MethodPut, "/api/v1/posts/"+post.ID, aliceID, UpdatePostRequest{Content: "edited"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeMutation(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "edited", data["content"])

	// Someone else's post reads as not found
	w = doRequest(t, router, http.MethodPut, "/api/v1/posts/"+post.ID, bobID, UpdatePostRequest{Content: "hijacked"})
	require.Equal(t, http.StatusNotFound, w.Code)
	resp = decodeMutation(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestDeletePostEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	post := seedPost(t, db, aliceID, "doomed", time.Now().UTC())

	w := doRequest(t, router, http.MethodDelete, "/api/v1/posts/"+post.ID, bobID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/posts/"+post.ID, aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeMutation(t, w).Success)

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleLikeEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	post := seedPost(t, db, aliceID, "likeable", time.Now().UTC())

	w := doRequest(t, router, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", bobID, ToggleLikeRequest{WasLiked: false})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeMutation(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["liked"])

	var count int64
	db.Model(&models.Like{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Retry of the same direction is swallowed, still exactly one row
	w = doRequest(t, router, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", bobID, ToggleLikeRequest{WasLiked: false})
	require.Equal(t, http.StatusOK, w.Code)
	db.Model(&models.Like{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Unlike removes it
	w = doRequest(t, router, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", bobID, ToggleLikeRequest{WasLiked: true})
	require.Equal(t, http.StatusOK, w.Code)
	db.Model(&models.Like{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListPostsIncludesLikeState(t *testing.T) {
	router, db := setupTestServer(t)
	post := seedPost(t, db, aliceID, "liked by both", time.Now().UTC())
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: aliceID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: bobID}).Error)

	var resp struct {
		Data ListPostsResponse `json:"data"`
	}
	w := doRequest(t, router, http.MethodGet, "/api/v1/posts", bobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Posts, 1)
	assert.Equal(t, 2, resp.Data.Posts[0].LikeCount)
	assert.True(t, resp.Data.Posts[0].IsLiked)
}

func TestGetMeEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/users/me", aliceID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeMutation(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, aliceID, data["id"])
}
