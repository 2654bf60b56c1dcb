package catalog

import (
	"context"
	"slices"
	"time"
)

func (c *Controller) runRefresher(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.refreshHead(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// refreshHead fetches the first unfiltered page and merges it into the head
// of the list. It never competes with a user intent: the tick is skipped
// while a query is active or a list request is in flight, and the result is
// dropped if an intent superseded it. Failures are only logged.
func (c *Controller) refreshHead(ctx context.Context) {
	if !c.verified() {
		return
	}

	c.mu.Lock()
	s := &c.state
	if s.Query != "" || s.IsLoading || s.IsRefreshing || c.inflight > 0 || c.searchTimer != nil {
		c.mu.Unlock()
		c.log.Debug(ctx, "skipping periodic refresh")
		return
	}
	gen := c.gen
	c.inflight++
	c.mu.Unlock()

	rctx, cancel := c.requestContext(ctx)
	page, err := c.remote.FetchPage(rctx, 1, c.opts.PageSize)
	cancel()

	c.mu.Lock()
	c.inflight--
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn(ctx, "periodic refresh failed", "error", err)
		return
	}

	s.Items = mergeHead(s.Items, c.normalize(page.Items), page.IsLastPage)
	if s.Page <= 1 || page.IsLastPage {
		s.Page = 1
		s.HasMore = !page.IsLastPage
	}
	s.FromCache = false
	c.publish()
	snapshot := slices.Clone(s.Items)
	c.mu.Unlock()

	c.log.Debug(ctx, "periodic refresh applied", "items", len(snapshot))
	c.cache.Save(ctx, snapshot)
}
