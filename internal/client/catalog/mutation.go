package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
)

// Deleter removes a paper remotely.
type Deleter interface {
	DeleteByID(ctx context.Context, id int64) error
}

// MutationManager applies local changes ahead of the remote call and undoes
// them when the call fails.
type MutationManager struct {
	catalog *Controller
	remote  Deleter
	log     logging.Logger
}

func NewMutationManager(c *Controller, remote Deleter, log logging.Logger) *MutationManager {
	return &MutationManager{catalog: c, remote: remote, log: log.With("component", "mutations")}
}

// Delete removes id from the list and closes a detail view showing it, then
// deletes it remotely. When the remote call fails the item is put back where
// it was, next to the neighbour it followed, the state carries the error and
// ErrDeleteFailed is returned. Loading and pagination fields are not touched.
// Asking the user for confirmation is the caller's job.
func (m *MutationManager) Delete(ctx context.Context, id int64) error {
	if !m.catalog.verified() {
		return ErrUnverified
	}

	index, ok := m.catalog.removeItem(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	m.log.Debug(ctx, "optimistically removed", "id", id, "index", index)

	if err := m.remote.DeleteByID(ctx, id); err != nil {
		err = fmt.Errorf("%w: paper %d: %w", ErrDeleteFailed, id, err)
		m.catalog.settleDelete(id, err)
		m.log.Error(ctx, "delete failed, restored item", "id", id, "error", err)
		return err
	}

	m.catalog.settleDelete(id, nil)
	m.log.Info(ctx, "paper deleted", "id", id)
	return nil
}

// pendingDelete remembers where a removed item sat. after is the id it
// followed in the list as it was with every pending item still in place;
// 0 means it was first.
type pendingDelete struct {
	item  models.PaperSummary
	after int64
	index int
}

// removeItem takes id out of the list and marks it as being deleted so that
// list results arriving meanwhile do not bring it back.
func (c *Controller) removeItem(id int64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.state.IndexOf(id)
	if i < 0 {
		return -1, false
	}

	var after int64
	if i > 0 {
		after = c.state.Items[i-1].ID
	}
	// Pending items that sat right before id are still there logically.
	for {
		next, ok := c.pendingAfter(after)
		if !ok {
			break
		}
		after = next
	}

	c.pendingDeletes[id] = pendingDelete{item: c.state.Items[i], after: after, index: i}
	c.state.Items = slices.Delete(c.state.Items, i, i+1)
	if c.detailID == id {
		c.closeDetail()
	}
	c.publish()
	return i, true
}

// pendingAfter returns the pending item anchored right after id. Must be
// called with c.mu held.
func (c *Controller) pendingAfter(id int64) (int64, bool) {
	for pid, p := range c.pendingDeletes {
		if p.after == id {
			return pid, true
		}
	}
	return 0, false
}

// settleDelete ends a pending delete. On failure the item is reinserted after
// its neighbour, unless a newer result already holds it.
func (c *Controller) settleDelete(id int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pendingDeletes[id]
	if !ok {
		return
	}
	delete(c.pendingDeletes, id)

	if err == nil {
		// Items anchored on the deleted one move up to its neighbour.
		for pid, q := range c.pendingDeletes {
			if q.after == id {
				q.after = p.after
				c.pendingDeletes[pid] = q
			}
		}
		return
	}

	if c.state.IndexOf(id) < 0 {
		c.state.Items = slices.Insert(c.state.Items, c.restoreIndex(p), p.item)
	}
	c.state.Err = err
	c.publish()
}

// restoreIndex finds where p goes back: right after its neighbour, or after
// the neighbour's own neighbour while that one is still pending. When the
// neighbour left the list for another reason the former index is used,
// clamped to the list. Must be called with c.mu held.
func (c *Controller) restoreIndex(p pendingDelete) int {
	after := p.after
	for after != 0 {
		if i := c.state.IndexOf(after); i >= 0 {
			return i + 1
		}
		q, pending := c.pendingDeletes[after]
		if !pending {
			return min(p.index, len(c.state.Items))
		}
		after = q.after
	}
	return 0
}
