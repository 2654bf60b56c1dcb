package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/logging"
	"github.com/sethvargo/go-retry"
)

var (
	ErrVerificationTimeout = errors.New("email verification not detected")
	ErrPollerStarted       = errors.New("verification poller already started")
	errNotVerifiedYet      = errors.New("email not verified yet")
)

// Phase polls every Interval for Duration.
type Phase struct {
	Duration time.Duration
	Interval time.Duration
}

// DefaultSchedule checks often right after the verification mail is sent and
// backs off later.
var DefaultSchedule = []Phase{
	{Duration: 10 * time.Second, Interval: 2 * time.Second},
	{Duration: 10 * time.Second, Interval: 3 * time.Second},
	{Duration: 70 * time.Second, Interval: 5 * time.Second},
}

// Checker asks the identity provider whether the user's email is verified.
type Checker interface {
	EmailVerified(ctx context.Context) (bool, error)
}

// Poller repeatedly asks a Checker until the email is verified, the schedule
// is exhausted or the poller is cancelled. A Poller runs at most once.
type Poller struct {
	session  *Session
	checker  Checker
	schedule []Phase
	log      logging.Logger

	mu       sync.Mutex
	started  bool
	cancel   context.CancelFunc
	err      error
	verified chan struct{}
	done     chan struct{}
}

func NewPoller(s *Session, c Checker, schedule []Phase, log logging.Logger) *Poller {
	return &Poller{
		session:  s,
		checker:  c,
		schedule: schedule,
		log:      log.With("component", "verification"),
		verified: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches polling in the background. Cancelling ctx stops it like Cancel.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrPollerStarted
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
	return nil
}

// Cancel stops polling. It is safe to call at any time and more than once.
func (p *Poller) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Verified is closed once the email is confirmed.
func (p *Poller) Verified() <-chan struct{} { return p.verified }

// Done is closed when polling has stopped for any reason.
func (p *Poller) Done() <-chan struct{} { return p.done }

// Err is nil after a successful verification, ErrVerificationTimeout when the
// schedule ran out and the context error after cancellation. It is only
// meaningful once Done is closed.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	defer p.cancel()

	attempt := 0
	err := retry.Do(ctx, newScheduleBackoff(p.schedule), func(ctx context.Context) error {
		attempt++
		ok, err := p.checker.EmailVerified(ctx)
		if err != nil {
			p.log.Warn(ctx, "verification check failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if !ok {
			return retry.RetryableError(errNotVerifiedYet)
		}
		return nil
	})

	switch {
	case err == nil:
		p.session.MarkVerified()
		close(p.verified)
		p.log.Info(ctx, "email verified", "attempts", attempt)
	case ctx.Err() != nil:
		err = ctx.Err()
		p.log.Info(context.Background(), "verification polling cancelled", "attempts", attempt)
	default:
		err = fmt.Errorf("%w after %d checks: %v", ErrVerificationTimeout, attempt, err)
		p.log.Warn(context.Background(), "verification polling gave up", "attempts", attempt)
	}

	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// scheduleBackoff turns a phase schedule into the waits between checks. A
// phase of Duration d and Interval i contributes ceil(d/i) checks.
type scheduleBackoff struct {
	waits []time.Duration
	next  int
}

func newScheduleBackoff(schedule []Phase) *scheduleBackoff {
	var waits []time.Duration
	for _, ph := range schedule {
		if ph.Duration <= 0 || ph.Interval <= 0 {
			continue
		}
		n := int((ph.Duration + ph.Interval - 1) / ph.Interval)
		for range n {
			waits = append(waits, ph.Interval)
		}
	}
	// The last check is not followed by a wait.
	if len(waits) > 0 {
		waits = waits[:len(waits)-1]
	}
	return &scheduleBackoff{waits: waits}
}

func (b *scheduleBackoff) Next() (time.Duration, bool) {
	if b.next >= len(b.waits) {
		return 0, true
	}
	w := b.waits[b.next]
	b.next++
	return w, false
}
