// Package reveal drives the one-time card reveal. A fresh Orchestrator is
// created per mount; it fetches the card and the local view state, then
// either plays the 2 second animation (first view on this device) or renders
// the settled result immediately (every later view).
package reveal

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sgksm85/beauty-clinic-message-card/internal/comm"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReadyFirstView
	StateReadyRepeatView
	StateAnimating
	StateSettled
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReadyFirstView:
		return "ready-first-view"
	case StateReadyRepeatView:
		return "ready-repeat-view"
	case StateAnimating:
		return "animating"
	case StateSettled:
		return "settled"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrNoCardID is the fail-fast error when a mount happens without an id.
var ErrNoCardID = errors.New("no card id")

// CardFetcher fetches a card from the service. No retries are expected;
// a failed fetch is terminal for this mount.
type CardFetcher interface {
	GetCard(ctx context.Context, id string) (*comm.CardData, error)
}

// ViewTracker is the device-local view-state store.
type ViewTracker interface {
	HasViewed(cardID string) (bool, error)
	MarkViewed(cardID string) error
}

// Clock schedules the settle timer. Tests swap in a manual clock so the
// 2 second wait never touches the wall clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Orchestrator struct {
	fetcher CardFetcher
	tracker ViewTracker
	clock   Clock

	mu      sync.Mutex
	state   State
	card    *comm.CardData
	err     error
	timer   Timer
	started time.Time
	closed  bool

	// OnTransition, when set before Open, is called after every state change
	// with the new state. Called with the internal lock held, so it must not
	// call back into the orchestrator.
	OnTransition func(State)
}

func NewOrchestrator(fetcher CardFetcher, tracker ViewTracker, clock Clock) *Orchestrator {
	if clock == nil {
		clock = realClock{}
	}
	return &Orchestrator{
		fetcher: fetcher,
		tracker: tracker,
		clock:   clock,
		state:   StateIdle,
	}
}

// Open runs the machine from Idle until it reaches ReadyRepeatView->Settled,
// Animating (settle timer pending) or Error. It blocks on the card fetch and
// the view-state read, which are issued concurrently; neither result alone
// advances the machine.
func (o *Orchestrator) Open(ctx context.Context, id string) State {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return o.State()
	}

	if id == "" {
		// fail fast, no fetch is issued
		o.err = ErrNoCardID
		o.setState(StateError)
		o.mu.Unlock()
		return StateError
	}

	o.setState(StateLoading)
	o.mu.Unlock()

	type fetchResult struct {
		card *comm.CardData
		err  error
	}

	fetchCh := make(chan fetchResult, 1)
	viewedCh := make(chan bool, 1)

	go func() {
		card, err := o.fetcher.GetCard(ctx, id)
		fetchCh <- fetchResult{card: card, err: err}
	}()

	go func() {
		viewed, err := o.tracker.HasViewed(id)
		if err != nil {
			// fail open: a lost flag only replays the animation
			log.Warnf("view state read failed, treating card as not viewed: %s", err)
			viewed = false
		}
		viewedCh <- viewed
	}()

	fetched := <-fetchCh
	viewed := <-viewedCh

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return o.state
	}

	if fetched.err != nil {
		o.err = fetched.err
		o.setState(StateError)
		return StateError
	}

	o.card = fetched.card

	if viewed {
		// all animated properties jump straight to their final values
		o.setState(StateReadyRepeatView)
		o.setState(StateSettled)
		return StateSettled
	}

	o.setState(StateReadyFirstView)
	o.setState(StateAnimating)
	o.started = time.Now()
	o.timer = o.clock.AfterFunc(TotalDuration, o.settle)
	return StateAnimating
}

// settle commits the first view. Fires once from the timer; a redundant fire
// or a fire after Close is a no-op.
func (o *Orchestrator) settle() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.state != StateAnimating {
		return
	}

	if card := o.card; card != nil {
		if err := o.tracker.MarkViewed(card.ID); err != nil {
			// swallowed: the mark may be lost but rendering must not fail
			log.Warnf("failed to mark card %s as viewed: %s", card.ID, err)
		}
	}

	o.setState(StateSettled)
}

// Close tears the mount down. A pending settle timer is cancelled so no
// view-state write fires against a dead mount.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true

	if o.timer != nil {
		o.timer.Stop()
	}
}

func (o *Orchestrator) setState(s State) {
	o.state = s
	if o.OnTransition != nil {
		o.OnTransition(s)
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Card is non-nil once the machine has left Loading without an error.
func (o *Orchestrator) Card() *comm.CardData {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.card
}

func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Frame returns the animated property values for rendering right now.
func (o *Orchestrator) Frame() Frame {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateAnimating:
		return FrameAt(time.Since(o.started))
	case StateSettled:
		return FinalFrame()
	default:
		return Frame{}
	}
}

// FooterVisible reports whether the secondary content below the card shows.
// It stays hidden until the reveal has settled.
func (o *Orchestrator) FooterVisible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateSettled
}
