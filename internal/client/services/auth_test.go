package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/client/session"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	calls    atomic.Int32
	verified atomic.Bool
	err      error
}

func (f *fakeChecker) EmailVerified(context.Context) (bool, error) {
	f.calls.Add(1)
	if f.err != nil {
		return false, f.err
	}
	return f.verified.Load(), nil
}

var quickSchedule = []session.Phase{{Duration: 50 * time.Millisecond, Interval: 5 * time.Millisecond}}

func TestCheckNow(t *testing.T) {
	s := session.New("tok", "a@b.c", false)
	fc := &fakeChecker{}
	a := NewAuthService(s, fc, quickSchedule, logging.Nop())

	ok, err := a.CheckNow(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, s.Verified())

	fc.verified.Store(true)
	ok, err = a.CheckNow(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, a.Session().Verified())

	// Already verified sessions are not checked again.
	_, _ = a.CheckNow(context.Background())
	require.EqualValues(t, 2, fc.calls.Load())
}

func TestCheckNow_Errors(t *testing.T) {
	s := session.New("tok", "a@b.c", false)

	_, err := NewAuthService(s, nil, nil, logging.Nop()).CheckNow(context.Background())
	require.ErrorIs(t, err, ErrVerificationDisabled)

	boom := errors.New("boom")
	_, err = NewAuthService(s, &fakeChecker{err: boom}, nil, logging.Nop()).CheckNow(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestStartVerification(t *testing.T) {
	s := session.New("tok", "a@b.c", false)
	fc := &fakeChecker{}
	a := NewAuthService(s, fc, quickSchedule, logging.Nop())

	p, err := a.StartVerification(context.Background())
	require.NoError(t, err)

	fc.verified.Store(true)
	select {
	case <-p.Verified():
	case <-time.After(2 * time.Second):
		t.Fatal("not verified")
	}
	require.True(t, s.Verified())

	_, err = a.StartVerification(context.Background())
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestStartVerification_RestartCancelsPrevious(t *testing.T) {
	s := session.New("tok", "a@b.c", false)
	a := NewAuthService(s, &fakeChecker{}, []session.Phase{{Duration: time.Minute, Interval: time.Second}}, logging.Nop())

	first, err := a.StartVerification(context.Background())
	require.NoError(t, err)
	second, err := a.StartVerification(context.Background())
	require.NoError(t, err)

	<-first.Done()
	require.ErrorIs(t, first.Err(), context.Canceled)

	a.CancelVerification()
	<-second.Done()
	require.ErrorIs(t, second.Err(), context.Canceled)
}

func TestStartVerification_Disabled(t *testing.T) {
	a := NewAuthService(session.New("", "", false), nil, nil, logging.Nop())
	_, err := a.StartVerification(context.Background())
	require.ErrorIs(t, err, ErrVerificationDisabled)
	require.NotPanics(t, a.CancelVerification)
}
