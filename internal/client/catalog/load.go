package catalog

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
)

func (c *Controller) loadInitial(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen
	c.inflight++
	c.state.Phase = models.PhaseLoadingInitial
	c.state.IsLoading = true
	c.publish()
	c.mu.Unlock()

	if cached, ok := c.cache.Load(ctx); ok && len(cached) > 0 {
		c.mu.Lock()
		if gen == c.gen && len(c.state.Items) == 0 {
			c.state.Items = c.normalize(cached)
			c.state.Page = 1
			// Pagination waits for the first remote page.
			c.state.HasMore = false
			c.state.FromCache = true
			c.state.IsLoading = false
			c.publish()
			c.log.Debug(ctx, "serving cached snapshot", "items", len(c.state.Items))
		}
		c.mu.Unlock()
	}

	page, err := c.remote.FetchPage(ctx, 1, c.opts.PageSize)
	return c.applyFirstPage(ctx, gen, "", page, err)
}

// LoadMore appends the next page of the unfiltered list. It is a no-op while
// a query is active, while any list request is in flight or when the last
// page has been reached. A list still served from the cache, for instance
// after the first remote page failed, is replaced by the first remote page
// instead.
func (c *Controller) LoadMore(ctx context.Context) error {
	if !c.verified() {
		return ErrUnverified
	}

	c.mu.Lock()
	s := &c.state
	if s.Query != "" || s.IsLoading || s.IsRefreshing || c.inflight > 0 || c.searchTimer != nil {
		c.mu.Unlock()
		return nil
	}
	if s.FromCache {
		gen := c.gen
		c.inflight++
		s.IsLoading = true
		s.Phase = models.PhaseLoadingInitial
		c.publish()
		c.mu.Unlock()

		page, err := c.remote.FetchPage(ctx, 1, c.opts.PageSize)
		return c.applyFirstPage(ctx, gen, "", page, err)
	}
	if !s.HasMore {
		c.mu.Unlock()
		return nil
	}
	next := s.Page + 1
	gen := c.gen
	c.inflight++
	s.IsLoading = true
	s.Phase = models.PhaseLoadingMore
	c.publish()
	c.mu.Unlock()

	page, err := c.remote.FetchPage(ctx, next, c.opts.PageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if gen != c.gen {
		c.log.Debug(ctx, "discarding superseded page", "page", next)
		return nil
	}
	if err != nil {
		c.fail(err)
		c.log.Error(ctx, "load more failed", "page", next, "error", err)
		return err
	}

	s.Items = appendUnique(s.Items, c.normalize(page.Items))
	s.Page = next
	s.HasMore = !page.IsLastPage
	s.IsLoading = false
	s.Phase = models.PhaseIdle
	s.Err = nil
	c.publish()
	c.log.Debug(ctx, "page appended", "page", next, "items", len(s.Items), "has_more", s.HasMore)
	return nil
}

// Refresh reloads the first page of the current view, the active query's
// results or the unfiltered list, and replaces the items. It supersedes any
// list request in flight.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.verified() {
		return ErrUnverified
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.stopSearchTimer()
	query := c.state.Query
	c.inflight++
	c.state.IsLoading = false
	c.state.IsRefreshing = true
	c.state.Phase = models.PhaseRefreshing
	c.publish()
	c.mu.Unlock()

	page, err := c.fetchFirst(ctx, query)
	return c.applyFirstPage(ctx, gen, query, page, err)
}

func (c *Controller) fetchFirst(ctx context.Context, query string) (models.Page, error) {
	if query == "" {
		return c.remote.FetchPage(ctx, 1, c.opts.PageSize)
	}
	return c.remote.Search(ctx, query, 1, c.opts.PageSize)
}

// applyFirstPage replaces the list with a first page fetched for query,
// unless gen has been superseded meanwhile. An unfiltered first page is
// persisted.
func (c *Controller) applyFirstPage(ctx context.Context, gen uint64, query string, page models.Page, err error) error {
	c.mu.Lock()
	c.inflight--
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug(ctx, "discarding superseded result", "query", query)
		return nil
	}
	if err != nil {
		c.fail(err)
		c.mu.Unlock()
		c.log.Error(ctx, "first page failed", "query", query, "error", err)
		return err
	}

	s := &c.state
	s.Items = c.normalize(page.Items)
	s.Page = 1
	s.HasMore = !page.IsLastPage
	s.IsLoading = false
	s.IsRefreshing = false
	s.FromCache = false
	s.Phase = models.PhaseIdle
	s.Err = nil
	c.publish()

	var snapshot []models.PaperSummary
	if query == "" {
		snapshot = slices.Clone(s.Items)
	}
	c.mu.Unlock()

	c.log.Debug(ctx, "first page applied", "query", query, "items", len(page.Items), "has_more", !page.IsLastPage)
	if snapshot != nil {
		c.cache.Save(ctx, snapshot)
	}
	return nil
}

// normalize drops duplicate ids and items with a delete in flight. Must be
// called with c.mu held.
func (c *Controller) normalize(items []models.PaperSummary) []models.PaperSummary {
	out := make([]models.PaperSummary, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		if _, gone := c.pendingDeletes[it.ID]; gone {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

func appendUnique(items, more []models.PaperSummary) []models.PaperSummary {
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		seen[it.ID] = struct{}{}
	}
	for _, it := range more {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		items = append(items, it)
	}
	return items
}

// mergeHead puts a fresh first page in front of the items loaded before.
// The list runs newest first, so anything older than the oldest fresh item is
// kept whatever its position; items the fresh page should hold but does not
// were removed server-side. A last page means fresh is the whole collection.
func mergeHead(items, fresh []models.PaperSummary, last bool) []models.PaperSummary {
	out := slices.Clone(fresh)
	if last {
		return out
	}
	if len(fresh) == 0 {
		return slices.Clone(items)
	}

	oldest := fresh[0].ID
	for _, it := range fresh[1:] {
		oldest = min(oldest, it.ID)
	}
	var older []models.PaperSummary
	for _, it := range items {
		if it.ID < oldest {
			older = append(older, it)
		}
	}
	return appendUnique(out, older)
}
