package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
)

// SetQuery records new search text. A non-empty query is searched once the
// text has been stable for the debounce interval; only the latest query's
// result is applied. An empty query cancels a pending search and reloads the
// unfiltered list right away.
func (c *Controller) SetQuery(text string) error {
	if !c.verified() {
		return ErrUnverified
	}
	query := strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return ErrNotStarted
	}
	if query == c.state.Query {
		return nil
	}

	c.gen++
	gen := c.gen
	c.stopSearchTimer()
	c.state.Query = query
	c.state.IsRefreshing = false

	if query == "" {
		c.inflight++
		c.state.IsLoading = true
		c.state.Phase = models.PhaseLoadingInitial
		c.publish()
		c.spawn(func(ctx context.Context) {
			rctx, cancel := c.requestContext(ctx)
			page, err := c.remote.FetchPage(rctx, 1, c.opts.PageSize)
			cancel()
			_ = c.applyFirstPage(ctx, gen, "", page, err)
		})
		return nil
	}

	c.state.IsLoading = false
	c.state.Phase = models.PhaseSearchPending
	c.publish()
	c.searchTimer = time.AfterFunc(c.opts.SearchDebounce, func() { c.runSearch(gen, query) })
	return nil
}

func (c *Controller) runSearch(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.gen || c.cancel == nil {
		c.mu.Unlock()
		return
	}
	c.searchTimer = nil
	c.inflight++
	c.state.IsLoading = true
	c.publish()
	c.spawn(func(ctx context.Context) {
		c.log.Debug(ctx, "searching", "query", query)
		rctx, cancel := c.requestContext(ctx)
		page, err := c.remote.Search(rctx, query, 1, c.opts.PageSize)
		cancel()
		_ = c.applyFirstPage(ctx, gen, query, page, err)
	})
	c.mu.Unlock()
}

// stopSearchTimer must be called with c.mu held.
func (c *Controller) stopSearchTimer() {
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
}
