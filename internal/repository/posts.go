package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	apierrors "github.com/pulsefeed/backend/internal/errors"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultPageSize is the fixed feed page size
const DefaultPageSize = 10

// ListParams are the feed query parameters at the boundary
type ListParams struct {
	Query  string     // case-insensitive substring match against content
	Filter string     // "all" (default) or "mine"
	Cursor *time.Time // strict created_at < cursor
	Limit  int        // defaults to DefaultPageSize
}

// PostRepository translates feed intents into backend queries. Every method
// requires a resolved viewer identity; ownership is enforced in the query,
// never in client code.
type PostRepository interface {
	List(ctx context.Context, viewerID string, params ListParams) ([]models.PostView, error)
	Create(ctx context.Context, viewerID, content string) (*models.Post, error)
	Update(ctx context.Context, viewerID, postID, content string) (*models.Post, error)
	Delete(ctx context.Context, viewerID, postID string) error
	ToggleLike(ctx context.Context, viewerID, postID string, wasLiked bool) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// postRepository implements PostRepository on gorm
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns at most params.Limit posts ordered created_at descending,
// each assembled into a PostView for the viewer. Profile resolution failures
// are fatal; like resolution failures degrade like_count/is_liked to 0/false
// for this response only.
func (r *postRepository) List(ctx context.Context, viewerID string, params ListParams) ([]models.PostView, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Order("created_at DESC").
		Limit(limit)

	if params.Filter == "mine" {
		q = q.Where("author_id = ?", viewerID)
	}

	if search := strings.TrimSpace(params.Query); search != "" {
		q = q.Where("LOWER(content) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if params.Cursor != nil {
		// Strict less-than so the boundary row is never repeated
		q = q.Where("created_at < ?", *params.Cursor)
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, apierrors.Persistence(err.Error())
	}

	if len(posts) == 0 {
		return []models.PostView{}, nil
	}

	authorIDs := distinctAuthorIDs(posts)
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&profiles).Error; err != nil {
		return nil, apierrors.Persistence(err.Error())
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&likes).Error; err != nil {
		// Non-fatal: the list still renders with degraded like data
		logger.Log.Warn("likes sub-query failed, degrading like data",
			zap.Int("posts", len(posts)),
			zap.Error(err))
		likes = nil
	}

	return assembleViews(posts, profiles, likes, viewerID), nil
}

// Create validates and inserts a new post for the viewer. The returned row
// has no profile or like aggregate attached; a just-created post always has
// like_count=0 and is_liked=false.
func (r *postRepository) Create(ctx context.Context, viewerID, content string) (*models.Post, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: viewerID,
		Content:  strings.TrimSpace(content),
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, apierrors.Persistence(err.Error())
	}

	return post, nil
}

// Update rewrites a post's content if and only if the viewer owns it. Zero
// affected rows means the post is missing or owned by someone else; both
// surface as the same not-found failure.
func (r *postRepository) Update(ctx context.Context, viewerID, postID, content string) (*models.Post, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND author_id = ?", postID, viewerID).
		Updates(map[string]interface{}{
			"content":    strings.TrimSpace(content),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, apierrors.Persistence(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return nil, apierrors.NotFound("post")
	}

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		return nil, apierrors.Persistence(err.Error())
	}
	return &post, nil
}

// Delete removes a post if and only if the viewer owns it, with the same
// zero-row semantics as Update.
func (r *postRepository) Delete(ctx context.Context, viewerID, postID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", postID, viewerID).
		Delete(&models.Post{})
	if res.Error != nil {
		return apierrors.Persistence(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return apierrors.NotFound("post")
	}
	return nil
}

// ToggleLike inserts or removes the viewer's like row. Both directions are
// idempotent under retry: deleting an absent row is a no-op, and a duplicate
// insert trips the (post_id, user_id) uniqueness constraint, which is
// swallowed here rather than reported.
func (r *postRepository) ToggleLike(ctx context.Context, viewerID, postID string, wasLiked bool) error {
	if wasLiked {
		res := r.db.WithContext(ctx).
			Where("post_id = ? AND user_id = ?", postID, viewerID).
			Delete(&models.Like{})
		if res.Error != nil {
			return apierrors.Persistence(res.Error.Error())
		}
		return nil
	}

	like := &models.Like{PostID: postID, UserID: viewerID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return apierrors.Persistence(err.Error())
	}
	return nil
}

// GetProfile loads a profile by id
func (r *postRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.NotFound("profile")
	}
	if err != nil {
		return nil, apierrors.Persistence(err.Error())
	}
	return &profile, nil
}

// distinctAuthorIDs collects the unique author ids of a post page
func distinctAuthorIDs(posts []models.Post) []string {
	seen := make(map[string]bool, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	return ids
}

// assembleViews is the pure join over the three fetched collections, keyed
// by id. Posts whose author profile row is missing get an "Unknown User"
// placeholder rather than dropping out of the feed.
func assembleViews(posts []models.Post, profiles []models.Profile, likes []models.Like, viewerID string) []models.PostView {
	profilesByID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.ID] = p
	}

	likeCounts := make(map[string]int, len(posts))
	likedByViewer := make(map[string]bool)
	for _, l := range likes {
		likeCounts[l.PostID]++
		if l.UserID == viewerID {
			likedByViewer[l.PostID] = true
		}
	}

	views := make([]models.PostView, len(posts))
	for i, post := range posts {
		profile, ok := profilesByID[post.AuthorID]
		if !ok {
			profile = models.Profile{
				ID:        post.AuthorID,
				Username:  "Unknown User",
				CreatedAt: time.Now().UTC(),
			}
		}

		views[i] = models.PostView{
			Post:      post,
			Profile:   profile,
			LikeCount: likeCounts[post.ID],
			IsLiked:   likedByViewer[post.ID],
		}
	}
	return views
}
