package feed

import (
	"context"
	"time"

	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
)

// Params are the search/filter parameters a feed is scoped to. Every fetch
// is tagged with the params it was issued for; results arriving for stale
// params are discarded.
type Params struct {
	Query  string
	Filter string // "all" or "mine"
}

// Backend is the server-authoritative side of the feed as the Session sees
// it. The repository adapter implements it in-process; an HTTP client or a
// test fake implements it equally well.
type Backend interface {
	FetchPage(ctx context.Context, params Params, cursor *time.Time, limit int) ([]models.PostView, error)
	CreatePost(ctx context.Context, content string) (*models.Post, error)
	UpdatePost(ctx context.Context, postID, content string) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	ToggleLike(ctx context.Context, postID string, wasLiked bool) error
}

// RepositoryBackend adapts a PostRepository bound to one viewer identity
type RepositoryBackend struct {
	repo     repository.PostRepository
	viewerID string
}

// NewRepositoryBackend creates a Backend over the given repository for the
// given viewer.
func NewRepositoryBackend(repo repository.PostRepository, viewerID string) *RepositoryBackend {
	return &RepositoryBackend{repo: repo, viewerID: viewerID}
}

var _ Backend = (*RepositoryBackend)(nil)

// FetchPage lists one feed page for the bound viewer
func (b *RepositoryBackend) FetchPage(ctx context.Context, params Params, cursor *time.Time, limit int) ([]models.PostView, error) {
	return b.repo.List(ctx, b.viewerID, repository.ListParams{
		Query:  params.Query,
		Filter: params.Filter,
		Cursor: cursor,
		Limit:  limit,
	})
}

// CreatePost inserts a post authored by the bound viewer
func (b *RepositoryBackend) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	return b.repo.Create(ctx, b.viewerID, content)
}

// UpdatePost rewrites a post the bound viewer owns
func (b *RepositoryBackend) UpdatePost(ctx context.Context, postID, content string) (*models.Post, error) {
	return b.repo.Update(ctx, b.viewerID, postID, content)
}

// DeletePost removes a post the bound viewer owns
func (b *RepositoryBackend) DeletePost(ctx context.Context, postID string) error {
	return b.repo.Delete(ctx, b.viewerID, postID)
}

// ToggleLike flips the bound viewer's like row for a post
func (b *RepositoryBackend) ToggleLike(ctx context.Context, postID string, wasLiked bool) error {
	return b.repo.ToggleLike(ctx, b.viewerID, postID, wasLiked)
}
