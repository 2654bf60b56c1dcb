package catalog

import (
	"context"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
)

// OpenDetail fetches a paper and holds it as the open detail view. A result
// that arrives after the view was closed or switched to another paper is
// dropped with ErrDetailClosed. Failures leave the list state untouched.
func (c *Controller) OpenDetail(ctx context.Context, id int64) (*models.PaperDetail, error) {
	if !c.verified() {
		return nil, ErrUnverified
	}

	c.mu.Lock()
	c.detailSeq++
	seq := c.detailSeq
	c.detailID = id
	if c.state.Detail != nil {
		c.state.Detail = nil
		c.publish()
	}
	c.mu.Unlock()

	d, err := c.remote.FetchDetail(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.detailSeq {
		return nil, ErrDetailClosed
	}
	if err != nil {
		c.detailID = 0
		c.log.Error(ctx, "fetch detail failed", "id", id, "error", err)
		return nil, err
	}

	c.state.Detail = d
	c.publish()
	out := *d
	return &out, nil
}

// CloseDetail discards the open detail view.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeDetail()
}

// closeDetail must be called with c.mu held.
func (c *Controller) closeDetail() {
	c.detailSeq++
	c.detailID = 0
	if c.state.Detail != nil {
		c.state.Detail = nil
		c.publish()
	}
}
