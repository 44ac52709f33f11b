package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulsefeed/backend/internal/auth"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/validation"
	"go.uber.org/zap"
)

// DefaultPageSize matches the fixed server page size
const DefaultPageSize = 10

var (
	// ErrFetchInFlight is returned when a pagination fetch is requested
	// while another is still pending. Fetches are serialized, not queued.
	ErrFetchInFlight = errors.New("feed: fetch already in flight")

	// ErrMutationInFlight is returned when a second mutation is requested
	// for a post whose previous mutation has not settled.
	ErrMutationInFlight = errors.New("feed: mutation already in flight for post")

	// ErrPostNotInFeed is returned when the target post is not in the
	// currently loaded list.
	ErrPostNotInFeed = errors.New("feed: post not in loaded feed")
)

// Session owns the client-held feed list: an ordered newest-first sequence
// of PostViews plus pagination state. Like toggles apply optimistically and
// reconcile against the authoritative result; every reconciliation step is
// keyed on post id, never list index.
//
// All exported methods are safe for concurrent use. Network calls run
// outside the lock; a request generation counter makes results arriving for
// superseded search/filter parameters no-ops.
type Session struct {
	mu      sync.Mutex
	backend Backend
	viewer  auth.Identity
	log     *zap.Logger

	params Params
	gen    uint64

	posts []models.PostView
	pager pager

	inFlight map[string]struct{} // post ids with an unsettled mutation

	pageSize         int
	optimisticCreate bool
}

// Option configures a Session
type Option func(*Session)

// WithPageSize overrides the fixed page size (tests only)
func WithPageSize(n int) Option {
	return func(s *Session) { s.pageSize = n }
}

// WithOptimisticCreate selects the placeholder strategy for post creation:
// a locally synthesized pending row is shown immediately and replaced by the
// confirmed row. The default is confirmed-only insertion, with the composer
// keeping the draft on failure.
func WithOptimisticCreate(enabled bool) Option {
	return func(s *Session) { s.optimisticCreate = enabled }
}

// WithLogger attaches a logger for degradation events
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession creates a feed session for the given viewer
func NewSession(backend Backend, viewer auth.Identity, opts ...Option) *Session {
	s := &Session{
		backend:  backend,
		viewer:   viewer,
		log:      zap.NewNop(),
		params:   Params{Filter: "all"},
		inFlight: make(map[string]struct{}),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Posts returns a snapshot of the current projection
func (s *Session) Posts() []models.PostView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PostView, len(s.posts))
	copy(out, s.posts)
	return out
}

// HasMore reports whether another page is believed to exist
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.hasMore
}

// Loading reports whether the initial/param-change fetch is pending
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.loading
}

// LoadingMore reports whether a load-more fetch is pending
func (s *Session) LoadingMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.loadingMore
}

// Params returns the search/filter parameters the list is scoped to
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Refresh loads page 1 for the current parameters. Rejected while any fetch
// is pending.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.pager.busy() {
		s.mu.Unlock()
		return ErrFetchInFlight
	}
	s.pager.loading = true
	gen, params := s.gen, s.params
	s.mu.Unlock()

	return s.fetchFirstPage(ctx, gen, params)
}

// SetParams changes the search/filter scope: the cursor resets, the loaded
// list is discarded, and page 1 is refetched. Any prior in-flight fetch is
// superseded; its result is discarded on arrival rather than mixed in.
func (s *Session) SetParams(ctx context.Context, params Params) error {
	if params.Filter == "" {
		params.Filter = "all"
	}

	s.mu.Lock()
	s.params = params
	s.gen++
	gen := s.gen
	s.posts = nil
	s.pager.reset()
	s.pager.loading = true
	s.mu.Unlock()

	return s.fetchFirstPage(ctx, gen, params)
}

// SetQuery changes the search text, keeping the current filter
func (s *Session) SetQuery(ctx context.Context, query string) error {
	s.mu.Lock()
	params := s.params
	s.mu.Unlock()
	params.Query = query
	return s.SetParams(ctx, params)
}

// SetFilter changes the scope filter, keeping the current search text
func (s *Session) SetFilter(ctx context.Context, filter string) error {
	s.mu.Lock()
	params := s.params
	s.mu.Unlock()
	params.Filter = filter
	return s.SetParams(ctx, params)
}

// fetchFirstPage runs the page-1 fetch issued for the given generation and
// installs the result unless the generation has moved on.
func (s *Session) fetchFirstPage(ctx context.Context, gen uint64, params Params) error {
	page, err := s.backend.FetchPage(ctx, params, nil, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Superseded by a later SetParams; the newer fetch owns the state now
		return nil
	}
	s.pager.loading = false
	if err != nil {
		return err
	}

	s.posts = dedupeByID(page)
	s.pager.completePage(len(page), lastCreatedAt(page), s.pageSize)
	return nil
}

// LoadMore fetches the next page and appends it. No-op once the feed is
// exhausted; rejected while any fetch is pending.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if !s.pager.hasMore {
		s.mu.Unlock()
		return nil
	}
	if s.pager.busy() {
		s.mu.Unlock()
		return ErrFetchInFlight
	}
	s.pager.loadingMore = true
	gen, params, cursor := s.gen, s.params, s.pager.cursor
	s.mu.Unlock()

	page, err := s.backend.FetchPage(ctx, params, cursor, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.pager.loadingMore = false
	if err != nil {
		return err
	}

	s.posts = appendDeduped(s.posts, page)
	s.pager.completePage(len(page), lastCreatedAt(page), s.pageSize)
	return nil
}

// ToggleLike flips the viewer's like on a post: the projection changes
// immediately, the backend call settles afterwards. On failure the specific
// post's like state is reverted to its pre-toggle values; the revert is
// skipped if the post has left the list or the list was rebuilt for new
// parameters. A second toggle on the same post while one is pending is
// rejected, mirroring the disabled control.
func (s *Session) ToggleLike(ctx context.Context, postID string) error {
	s.mu.Lock()
	if _, busy := s.inFlight[postID]; busy {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	idx := s.indexOf(postID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrPostNotInFeed
	}

	wasLiked := s.posts[idx].IsLiked
	prevCount := s.posts[idx].LikeCount

	// Optimistic flip: self-consistent delta, no re-fetch needed on success
	s.posts[idx].IsLiked = !wasLiked
	if wasLiked {
		s.posts[idx].LikeCount--
	} else {
		s.posts[idx].LikeCount++
	}

	s.inFlight[postID] = struct{}{}
	gen := s.gen
	s.mu.Unlock()

	err := s.backend.ToggleLike(ctx, postID, wasLiked)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, postID)
	if err == nil {
		return nil
	}

	s.log.Warn("like toggle failed, rolling back",
		zap.String("post_id", postID),
		zap.Error(err))

	if gen == s.gen {
		if idx := s.indexOf(postID); idx >= 0 {
			s.posts[idx].IsLiked = wasLiked
			s.posts[idx].LikeCount = prevCount
		}
	}
	return err
}

// CreatePost submits new content. With optimistic creation enabled a pending
// placeholder appears at the head immediately and is replaced by the
// confirmed row (or removed on failure); otherwise the confirmed row is
// prepended only after success and the caller keeps the draft on failure.
// Either way the list never holds two entries for one created post, and a
// failed creation leaves it exactly as it was.
func (s *Session) CreatePost(ctx context.Context, content string) (*models.PostView, error) {
	// Validate before touching the projection so a rejected draft cannot
	// leave a placeholder behind.
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	var placeholderID string
	s.mu.Lock()
	gen := s.gen
	if s.optimisticCreate {
		placeholderID = uuid.New().String()
		now := time.Now().UTC()
		placeholder := models.PostView{
			Post: models.Post{
				ID:        placeholderID,
				AuthorID:  s.viewer.ID,
				Content:   strings.TrimSpace(content),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Profile: s.viewerProfile(),
			Pending: true,
		}
		s.posts = append([]models.PostView{placeholder}, s.posts...)
	}
	s.mu.Unlock()

	post, err := s.backend.CreatePost(ctx, content)

	s.mu.Lock()
	defer s.mu.Unlock()

	if placeholderID != "" {
		s.removeLocked(placeholderID)
	}
	if err != nil {
		return nil, err
	}

	view := models.PostView{
		Post:      *post,
		Profile:   s.viewerProfile(),
		LikeCount: 0,
		IsLiked:   false,
	}
	// A params change mid-flight rebuilt the list for a different scope;
	// the confirmed row must not leak into it.
	if gen == s.gen && s.indexOf(post.ID) < 0 {
		s.posts = append([]models.PostView{view}, s.posts...)
	}
	return &view, nil
}

// UpdatePost edits a post's content. Applied to the list only after server
// confirmation, since ownership can fail server-side; the confirmed row
// replaces the matching entry in place without re-sorting.
func (s *Session) UpdatePost(ctx context.Context, postID, content string) error {
	s.mu.Lock()
	if _, busy := s.inFlight[postID]; busy {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	s.inFlight[postID] = struct{}{}
	s.mu.Unlock()

	post, err := s.backend.UpdatePost(ctx, postID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, postID)
	if err != nil {
		return err
	}

	if idx := s.indexOf(postID); idx >= 0 {
		// Keep position and like aggregate; only the row data changes
		s.posts[idx].Post = *post
	}
	return nil
}

// DeletePost removes a post, confirmed-only like UpdatePost
func (s *Session) DeletePost(ctx context.Context, postID string) error {
	s.mu.Lock()
	if _, busy := s.inFlight[postID]; busy {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	s.inFlight[postID] = struct{}{}
	s.mu.Unlock()

	err := s.backend.DeletePost(ctx, postID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, postID)
	if err != nil {
		return err
	}

	s.removeLocked(postID)
	return nil
}

// viewerProfile synthesizes the viewer's profile for rows the server has not
// described yet; a just-created post always starts unliked with zero likes.
func (s *Session) viewerProfile() models.Profile {
	return models.Profile{
		ID:       s.viewer.ID,
		Username: s.viewer.DisplayName,
	}
}

// indexOf finds a post by id in the projection. Caller holds the lock.
func (s *Session) indexOf(postID string) int {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

// removeLocked drops a post by id, preserving order. Caller holds the lock.
func (s *Session) removeLocked(postID string) {
	if idx := s.indexOf(postID); idx >= 0 {
		s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	}
}

// dedupeByID drops later duplicates, keeping first occurrence order
func dedupeByID(views []models.PostView) []models.PostView {
	seen := make(map[string]bool, len(views))
	out := make([]models.PostView, 0, len(views))
	for _, v := range views {
		if !seen[v.ID] {
			seen[v.ID] = true
			out = append(out, v)
		}
	}
	return out
}

// appendDeduped appends a page, skipping ids already present
func appendDeduped(existing []models.PostView, page []models.PostView) []models.PostView {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v.ID] = true
	}
	for _, v := range page {
		if !seen[v.ID] {
			seen[v.ID] = true
			existing = append(existing, v)
		}
	}
	return existing
}

// lastCreatedAt returns the created_at of the last item of a server page;
// the zero time for an empty page.
func lastCreatedAt(page []models.PostView) time.Time {
	if len(page) == 0 {
		return time.Time{}
	}
	return page[len(page)-1].CreatedAt
}
