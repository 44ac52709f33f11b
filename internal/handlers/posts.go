package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/pulsefeed/backend/internal/util"
)

// ListPostsResponse is the feed page payload
type ListPostsResponse struct {
	Posts      []models.PostView `json:"posts"`
	NextCursor string            `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

// CreatePostRequest is the body for POST /posts
type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdatePostRequest is the body for PUT /posts/:id
type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// ToggleLikeRequest carries the client's pre-toggle like state so the server
// knows which direction to flip.
type ToggleLikeRequest struct {
	WasLiked bool `json:"was_liked"`
}

// ListPosts serves one feed page: newest first, optionally scoped to the
// viewer's own posts and a content search, paginated by created_at cursor.
func (h *Handlers) ListPosts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	filter := c.DefaultQuery("filter", "all")
	if filter != "all" && filter != "mine" {
		util.RespondBadRequest(c, "filter must be 'all' or 'mine'")
		return
	}

	cursor, err := util.ParseCursor(c.Query("cursor"))
	if err != nil {
		util.RespondBadRequest(c, "invalid cursor, expected RFC 3339 timestamp")
		return
	}

	params := repository.ListParams{
		Query:  c.Query("query"),
		Filter: filter,
		Cursor: cursor,
		Limit:  repository.DefaultPageSize,
	}

	start := time.Now()
	views, err := h.repo.List(c.Request.Context(), userID, params)
	metrics.RecordFeedPage(filter, time.Since(start), err)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	resp := ListPostsResponse{
		Posts:   views,
		HasMore: len(views) == repository.DefaultPageSize,
	}
	if len(views) > 0 {
		resp.NextCursor = util.FormatCursor(views[len(views)-1].CreatedAt)
	}

	util.RespondSuccess(c, http.StatusOK, resp)
}

// CreatePost inserts a new post authored by the viewer
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	post, err := h.repo.Create(c.Request.Context(), userID, req.Content)
	metrics.RecordPostMutation("create", err)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.RespondSuccess(c, http.StatusCreated, post)
}

// UpdatePost rewrites a post's content. Scoped to the viewer's own posts;
// anything else 404s.
func (h *Handlers) UpdatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	post, err := h.repo.Update(c.Request.Context(), userID, c.Param("id"), req.Content)
	metrics.RecordPostMutation("update", err)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.RespondSuccess(c, http.StatusOK, post)
}

// DeletePost removes a post, scoped to the viewer's own posts
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := h.repo.Delete(c.Request.Context(), userID, c.Param("id"))
	metrics.RecordPostMutation("delete", err)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.RespondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// ToggleLike flips the viewer's like on a post. The direction comes from the
// client's pre-toggle state; both directions are idempotent under retry.
func (h *Handlers) ToggleLike(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	err := h.repo.ToggleLike(c.Request.Context(), userID, c.Param("id"), req.WasLiked)
	metrics.RecordLikeToggle(req.WasLiked, err)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.RespondSuccess(c, http.StatusOK, gin.H{"liked": !req.WasLiked})
}
