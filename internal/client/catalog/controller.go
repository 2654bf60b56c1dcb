package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
)

// Remote is the part of the remote collection the controller reads from.
type Remote interface {
	FetchPage(ctx context.Context, page, pageSize int) (models.Page, error)
	Search(ctx context.Context, text string, page, pageSize int) (models.Page, error)
	FetchDetail(ctx context.Context, id int64) (*models.PaperDetail, error)
}

// Snapshotter persists the last known unfiltered list.
type Snapshotter interface {
	Load(ctx context.Context) ([]models.PaperSummary, bool)
	Save(ctx context.Context, items []models.PaperSummary)
}

// Gate reports whether the signed-in user may use the catalog.
type Gate interface {
	Verified() bool
}

type Options struct {
	PageSize       int
	SearchDebounce time.Duration
	// RefreshInterval of 0 disables the periodic refresh.
	RefreshInterval time.Duration
	// RequestTimeout bounds requests the controller starts on its own
	// (debounced searches, periodic refreshes). 0 means no limit.
	RequestTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		PageSize:        10,
		SearchDebounce:  500 * time.Millisecond,
		RefreshInterval: 90 * time.Second,
		RequestTimeout:  15 * time.Second,
	}
}

// Controller is the single owner of the catalog state. All methods are safe
// for concurrent use.
type Controller struct {
	remote Remote
	cache  Snapshotter
	gate   Gate
	opts   Options
	log    logging.Logger

	mu    sync.Mutex
	state models.CatalogState
	// gen is bumped by every intent that supersedes in-flight list requests.
	gen uint64
	// inflight counts list requests not yet applied or discarded.
	inflight       int
	searchTimer    *time.Timer
	detailSeq      uint64
	detailID       int64
	pendingDeletes map[int64]pendingDelete

	subs    map[int]chan models.CatalogState
	nextSub int

	lifetime context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New builds a stopped controller. A nil gate admits everyone.
func New(remote Remote, cache Snapshotter, gate Gate, opts Options, log logging.Logger) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions().PageSize
	}
	return &Controller{
		remote: remote,
		cache:  cache,
		gate:   gate,
		opts:   opts,
		log:    log.With("component", "catalog"),
		state: models.CatalogState{
			Items:   []models.PaperSummary{},
			Page:    1,
			HasMore: true,
			Phase:   models.PhaseIdle,
		},
		pendingDeletes: make(map[int64]pendingDelete),
		subs:           make(map[int]chan models.CatalogState),
	}
}

func (c *Controller) verified() bool {
	return c.gate == nil || c.gate.Verified()
}

// Start activates the controller: it starts the periodic refresh and, when
// the list is still empty, performs the cold load. The cached snapshot is
// published before the first page is requested; the returned error is the
// first page's failure, in which case the cached items stay visible.
//
// Background work started here stops when ctx is cancelled or Stop is called.
func (c *Controller) Start(ctx context.Context) error {
	if !c.verified() {
		return ErrUnverified
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.lifetime, c.cancel = context.WithCancel(ctx)
	if c.opts.RefreshInterval > 0 {
		c.wg.Add(1)
		go c.runRefresher(c.lifetime)
	}
	cold := len(c.state.Items) == 0
	c.mu.Unlock()

	c.log.Debug(ctx, "catalog started", "cold", cold)
	if !cold {
		return nil
	}
	return c.loadInitial(ctx)
}

// Stop cancels pending searches and background requests and waits for them.
// Results still in flight are discarded. Stop is idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.stopSearchTimer()
	if cancel != nil {
		c.gen++
		c.state.IsLoading = false
		c.state.IsRefreshing = false
		if c.state.Phase != models.PhaseError {
			c.state.Phase = models.PhaseIdle
		}
		c.publish()
	}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// State returns a copy of the current state.
func (c *Controller) State() models.CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe returns a channel that always holds the latest state. A slow
// reader skips intermediate states. The current state is delivered first.
func (c *Controller) Subscribe() (<-chan models.CatalogState, func()) {
	ch := make(chan models.CatalogState, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state.Clone()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
}

// publish must be called with c.mu held.
func (c *Controller) publish() {
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- c.state.Clone()
	}
}

// fail records a failed user intent. Items stay as they are. Must be called
// with c.mu held.
func (c *Controller) fail(err error) {
	c.state.IsLoading = false
	c.state.IsRefreshing = false
	c.state.Phase = models.PhaseError
	c.state.Err = err
	c.publish()
}

// spawn runs fn on the controller's lifetime context. Must be called with
// c.mu held after Start.
func (c *Controller) spawn(fn func(ctx context.Context)) {
	c.wg.Add(1)
	ctx := c.lifetime
	go func() {
		defer c.wg.Done()
		fn(ctx)
	}()
}

func (c *Controller) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.RequestTimeout)
	}
	return context.WithCancel(ctx)
}
