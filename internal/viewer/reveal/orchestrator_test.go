package reveal_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgksm85/beauty-clinic-message-card/internal/comm"
	"github.com/sgksm85/beauty-clinic-message-card/internal/viewer/reveal"
)

// manualClock hands out timers that only fire when the test says so.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) reveal.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped
	t.stopped = true
	return active
}

// fire runs every pending timer callback, once.
func (c *manualClock) fire() {
	c.mu.Lock()
	pending := append([]*manualTimer(nil), c.timers...)
	c.mu.Unlock()

	for _, t := range pending {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func (c *manualClock) timerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

type stubFetcher struct {
	card  *comm.CardData
	err   error
	calls int
}

func (f *stubFetcher) GetCard(ctx context.Context, id string) (*comm.CardData, error) {
	f.calls++
	return f.card, f.err
}

type memTracker struct {
	mu        sync.Mutex
	viewed    map[string]bool
	markCalls int
	readErr   error
	writeErr  error
}

func newMemTracker() *memTracker {
	return &memTracker{viewed: map[string]bool{}}
}

func (m *memTracker) HasViewed(cardID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return false, m.readErr
	}
	return m.viewed[cardID], nil
}

func (m *memTracker) MarkViewed(cardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.viewed[cardID] = true
	return nil
}

func testCard(id string) *comm.CardData {
	return &comm.CardData{
		ID:         id,
		TemplateID: "template1",
		Message:    "ありがとうございます",
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
}

func recordTransitions(o *reveal.Orchestrator) *[]reveal.State {
	var states []reveal.State
	o.OnTransition = func(s reveal.State) {
		states = append(states, s)
	}
	return &states
}

func TestEmptyIDFailsFastWithoutFetch(t *testing.T) {
	fetcher := &stubFetcher{card: testCard("x")}
	orch := reveal.NewOrchestrator(fetcher, newMemTracker(), &manualClock{})
	defer orch.Close()

	state := orch.Open(context.Background(), "")

	assert.Equal(t, reveal.StateError, state)
	assert.ErrorIs(t, orch.Err(), reveal.ErrNoCardID)
	assert.Zero(t, fetcher.calls, "no fetch may be issued without an id")
}

func TestFetchFailureIsTerminal(t *testing.T) {
	fetchErr := errors.New("connection refused")
	orch := reveal.NewOrchestrator(&stubFetcher{err: fetchErr}, newMemTracker(), &manualClock{})
	defer orch.Close()

	states := recordTransitions(orch)
	state := orch.Open(context.Background(), "x")

	assert.Equal(t, reveal.StateError, state)
	assert.ErrorIs(t, orch.Err(), fetchErr)
	assert.Equal(t, []reveal.State{reveal.StateLoading, reveal.StateError}, *states)
	assert.Nil(t, orch.Card())
}

func TestFirstViewPlaysAnimationAndCommitsOnce(t *testing.T) {
	clock := &manualClock{}
	tracker := newMemTracker()
	orch := reveal.NewOrchestrator(&stubFetcher{card: testCard("x")}, tracker, clock)
	defer orch.Close()

	states := recordTransitions(orch)
	state := orch.Open(context.Background(), "x")

	require.Equal(t, reveal.StateAnimating, state)
	assert.Equal(t, []reveal.State{
		reveal.StateLoading,
		reveal.StateReadyFirstView,
		reveal.StateAnimating,
	}, *states)

	// commit happens on the timer, not before
	assert.Zero(t, tracker.markCalls)
	assert.False(t, orch.FooterVisible())

	require.Equal(t, 1, clock.timerCount())
	assert.Equal(t, reveal.TotalDuration, clock.timers[0].d)

	clock.fire()

	assert.Equal(t, reveal.StateSettled, orch.State())
	assert.Equal(t, 1, tracker.markCalls)
	assert.True(t, tracker.viewed["x"])
	assert.True(t, orch.FooterVisible())

	// a duplicate timer fire must not commit again
	clock.fire()
	assert.Equal(t, 1, tracker.markCalls)
}

func TestRepeatViewSkipsAnimation(t *testing.T) {
	clock := &manualClock{}
	tracker := newMemTracker()
	tracker.viewed["x"] = true

	orch := reveal.NewOrchestrator(&stubFetcher{card: testCard("x")}, tracker, clock)
	defer orch.Close()

	states := recordTransitions(orch)
	state := orch.Open(context.Background(), "x")

	assert.Equal(t, reveal.StateSettled, state)
	assert.Equal(t, []reveal.State{
		reveal.StateLoading,
		reveal.StateReadyRepeatView,
		reveal.StateSettled,
	}, *states)

	assert.Zero(t, clock.timerCount(), "repeat view must not start a timer")
	assert.Zero(t, tracker.markCalls, "repeat view must not rewrite the flag")
	assert.Equal(t, reveal.FinalFrame(), orch.Frame())
	assert.True(t, orch.FooterVisible())
}

func TestViewStateCommitsExactlyOnceAcrossMounts(t *testing.T) {
	tracker := newMemTracker()
	fetcher := &stubFetcher{card: testCard("x")}

	// first mount: plays the animation and flips the flag
	clock1 := &manualClock{}
	first := reveal.NewOrchestrator(fetcher, tracker, clock1)
	require.Equal(t, reveal.StateAnimating, first.Open(context.Background(), "x"))
	clock1.fire()
	require.Equal(t, reveal.StateSettled, first.State())
	first.Close()

	// every later mount starts repeat-view and never re-animates
	for i := 0; i < 3; i++ {
		clock := &manualClock{}
		orch := reveal.NewOrchestrator(fetcher, tracker, clock)
		state := orch.Open(context.Background(), "x")
		assert.Equal(t, reveal.StateSettled, state, "mount %d", i+2)
		assert.Zero(t, clock.timerCount(), "mount %d started a timer", i+2)
		orch.Close()
	}

	assert.Equal(t, 1, tracker.markCalls)
}

func TestCloseBeforeTimerSuppressesCommit(t *testing.T) {
	clock := &manualClock{}
	tracker := newMemTracker()
	orch := reveal.NewOrchestrator(&stubFetcher{card: testCard("x")}, tracker, clock)

	require.Equal(t, reveal.StateAnimating, orch.Open(context.Background(), "x"))

	orch.Close()
	clock.fire()

	assert.Zero(t, tracker.markCalls, "torn-down mount must not write view state")
	assert.False(t, tracker.viewed["x"])
}

func TestTrackerReadFailureFailsOpen(t *testing.T) {
	clock := &manualClock{}
	tracker := newMemTracker()
	tracker.readErr = errors.New("disk gone")

	orch := reveal.NewOrchestrator(&stubFetcher{card: testCard("x")}, tracker, clock)
	defer orch.Close()

	state := orch.Open(context.Background(), "x")

	// a broken local store means "not yet viewed", never a render failure
	assert.Equal(t, reveal.StateAnimating, state)
}

func TestTrackerWriteFailureStillSettles(t *testing.T) {
	clock := &manualClock{}
	tracker := newMemTracker()
	tracker.writeErr = errors.New("disk full")

	orch := reveal.NewOrchestrator(&stubFetcher{card: testCard("x")}, tracker, clock)
	defer orch.Close()

	require.Equal(t, reveal.StateAnimating, orch.Open(context.Background(), "x"))
	clock.fire()

	assert.Equal(t, reveal.StateSettled, orch.State())
	assert.True(t, orch.FooterVisible())
}

func TestOpenIsSingleUse(t *testing.T) {
	clock := &manualClock{}
	orch := reveal.NewOrchestrator(&stubFetcher{card: testCard("x")}, newMemTracker(), clock)
	defer orch.Close()

	require.Equal(t, reveal.StateAnimating, orch.Open(context.Background(), "x"))

	// a second Open on the same mount is a no-op
	assert.Equal(t, reveal.StateAnimating, orch.Open(context.Background(), "x"))
	assert.Equal(t, 1, clock.timerCount())
}

func TestCardExposedAfterLoad(t *testing.T) {
	card := testCard("x")
	orch := reveal.NewOrchestrator(&stubFetcher{card: card}, newMemTracker(), &manualClock{})
	defer orch.Close()

	orch.Open(context.Background(), "x")

	got := orch.Card()
	require.NotNil(t, got)
	assert.Equal(t, card.ID, got.ID)
	assert.Equal(t, card.Message, got.Message)
}
