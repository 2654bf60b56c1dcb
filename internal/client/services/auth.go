package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/paperkeeper/internal/client/session"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
)

// AuthService exposes the signed-in session and its email verification.
//
// Contract:
//   - Session: the session passed to the other components.
//   - CheckNow: ask the identity provider once; a positive answer marks the
//     session verified.
//   - StartVerification: poll on the configured schedule until verified,
//     cancelled or out of schedule. A poll already running is cancelled.
//   - CancelVerification: stop the running poll, if any.
type AuthService interface {
	Session() *session.Session
	CheckNow(ctx context.Context) (bool, error)
	StartVerification(ctx context.Context) (*session.Poller, error)
	CancelVerification()
}

type authService struct {
	session  *session.Session
	checker  session.Checker
	schedule []session.Phase
	log      logging.Logger

	mu     sync.Mutex
	poller *session.Poller
}

// NewAuthService builds the service. A nil checker disables verification.
func NewAuthService(s *session.Session, checker session.Checker, schedule []session.Phase, log logging.Logger) AuthService {
	if schedule == nil {
		schedule = session.DefaultSchedule
	}
	return &authService{session: s, checker: checker, schedule: schedule, log: log}
}

func (a *authService) Session() *session.Session { return a.session }

func (a *authService) CheckNow(ctx context.Context) (bool, error) {
	if a.session.Verified() {
		return true, nil
	}
	if a.checker == nil {
		return false, ErrVerificationDisabled
	}
	ok, err := a.checker.EmailVerified(ctx)
	if err != nil {
		return false, fmt.Errorf("check verification: %w", err)
	}
	if ok {
		a.session.MarkVerified()
		a.log.Info(ctx, "email verified")
	}
	return ok, nil
}

func (a *authService) StartVerification(ctx context.Context) (*session.Poller, error) {
	if a.session.Verified() {
		return nil, ErrAlreadyVerified
	}
	if a.checker == nil {
		return nil, ErrVerificationDisabled
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.poller != nil {
		a.poller.Cancel()
	}
	p := session.NewPoller(a.session, a.checker, a.schedule, a.log)
	if err := p.Start(ctx); err != nil {
		return nil, err
	}
	a.poller = p
	return p, nil
}

func (a *authService) CancelVerification() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.poller != nil {
		a.poller.Cancel()
		a.poller = nil
	}
}
