package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	calls     atomic.Int32
	verifyAt  int32
	failUntil int32
}

func (f *fakeChecker) EmailVerified(ctx context.Context) (bool, error) {
	n := f.calls.Add(1)
	if n <= f.failUntil {
		return false, errors.New("network down")
	}
	return f.verifyAt > 0 && n >= f.verifyAt, nil
}

var fastSchedule = []Phase{
	{Duration: 10 * time.Millisecond, Interval: 2 * time.Millisecond},
	{Duration: 9 * time.Millisecond, Interval: 3 * time.Millisecond},
}

func waitDone(t *testing.T, p *Poller) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not finish")
	}
}

func TestPoller_VerifiesAndMarksSession(t *testing.T) {
	s := New("tok", "a@b.c", false)
	c := &fakeChecker{verifyAt: 3, failUntil: 1}
	p := NewPoller(s, c, fastSchedule, logging.Nop())

	require.NoError(t, p.Start(context.Background()))
	waitDone(t, p)

	require.NoError(t, p.Err())
	require.True(t, s.Verified())
	require.EqualValues(t, 3, c.calls.Load())
	select {
	case <-p.Verified():
	default:
		t.Fatal("verified channel not closed")
	}
}

func TestPoller_GivesUpAfterSchedule(t *testing.T) {
	s := New("tok", "a@b.c", false)
	c := &fakeChecker{}
	p := NewPoller(s, c, fastSchedule, logging.Nop())

	require.NoError(t, p.Start(context.Background()))
	waitDone(t, p)

	require.ErrorIs(t, p.Err(), ErrVerificationTimeout)
	require.False(t, s.Verified())
	// 5 checks in the first phase and 3 in the second.
	require.EqualValues(t, 8, c.calls.Load())
}

func TestPoller_Cancel(t *testing.T) {
	s := New("tok", "a@b.c", false)
	p := NewPoller(s, &fakeChecker{}, []Phase{{Duration: time.Minute, Interval: time.Second}}, logging.Nop())

	require.NoError(t, p.Start(context.Background()))
	p.Cancel()
	waitDone(t, p)

	require.ErrorIs(t, p.Err(), context.Canceled)
	require.False(t, s.Verified())
}

func TestPoller_StartTwice(t *testing.T) {
	p := NewPoller(New("", "", false), &fakeChecker{verifyAt: 1}, fastSchedule, logging.Nop())
	require.NoError(t, p.Start(context.Background()))
	require.ErrorIs(t, p.Start(context.Background()), ErrPollerStarted)
	waitDone(t, p)
}

func TestPoller_CancelBeforeStart(t *testing.T) {
	p := NewPoller(New("", "", false), &fakeChecker{}, fastSchedule, logging.Nop())
	require.NotPanics(t, p.Cancel)
}

func TestScheduleBackoff(t *testing.T) {
	b := newScheduleBackoff(DefaultSchedule)
	var waits []time.Duration
	for {
		w, stop := b.Next()
		if stop {
			break
		}
		waits = append(waits, w)
	}
	// 5 + 4 + 14 checks, one wait fewer.
	require.Len(t, waits, 22)
	require.Equal(t, 2*time.Second, waits[0])
	require.Equal(t, 3*time.Second, waits[5])
	require.Equal(t, 5*time.Second, waits[21])

	_, stop := newScheduleBackoff(nil).Next()
	require.True(t, stop)
}
