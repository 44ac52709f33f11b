package feed

import "time"

// pager is the pagination state machine: cursor, has-more detection, and the
// two loading flags. It never touches the list itself; the Session owns that.
type pager struct {
	cursor      *time.Time
	hasMore     bool
	loading     bool
	loadingMore bool
}

// reset returns the pager to its pre-first-load state
func (p *pager) reset() {
	p.cursor = nil
	p.hasMore = false
	p.loadingMore = false
}

// busy reports whether any fetch is currently pending
func (p *pager) busy() bool {
	return p.loading || p.loadingMore
}

// completePage records the outcome of a settled fetch. "More available" is
// inferred from a full page; an empty page forces hasMore false even when
// the prior page was full.
func (p *pager) completePage(returned int, lastCreatedAt time.Time, pageSize int) {
	p.hasMore = returned == pageSize
	if returned == 0 {
		p.hasMore = false
		return
	}
	t := lastCreatedAt
	p.cursor = &t
}
