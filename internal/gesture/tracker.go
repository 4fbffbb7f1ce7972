package gesture

import (
	"sync"
	"time"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateDragging
	stateExiting
)

type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

const DefaultExitDuration = 450 * time.Millisecond

// Outcome is the result of evaluating a finished gesture. Exactly one outcome
// is produced per gesture; a non-committed outcome means the card springs back.
type Outcome struct {
	Committed bool
	Direction Direction
}

// Move reports the effects of a pointer/touch move on the active session.
type Move struct {
	// SuppressScroll is set once horizontal travel leaves the deadzone, so
	// touch input should stop propagating to the page scroller.
	SuppressScroll bool
	// Cancelled is set when vertical-scroll intent was detected and the
	// session was force-reset.
	Cancelled bool
}

// View is the per-render presentational state of the card under drag.
type View struct {
	Active   bool
	DeltaX   float64
	DeltaY   float64
	Rotation float64
	Opacity  float64
	Overlay  Overlay
}

type Config struct {
	Thresholds     Thresholds
	CommitCooldown time.Duration
	// ExitDuration is how long the card stays non-interactive after a commit
	// while it animates off-stage. Tuned independently of the cooldown.
	ExitDuration time.Duration
	// ViewportW/H bound the defensive out-of-viewport cancellation; zero
	// disables the check on that axis.
	ViewportW float64
	ViewportH float64
	OnCommit  func(Direction)
}

// Tracker is the drag session state machine for a single card. It consumes
// pointer, touch and keyboard input and produces at most one committed
// outcome per gesture. All entry points share one commit path guarded by the
// card's debouncer.
type Tracker struct {
	mu       sync.Mutex
	cfg      Config
	debounce *Debouncer

	state            sessionState
	originX, originY float64
	curX, curY       float64
	startedAt        time.Time
	pastDeadzone     bool

	exitTimer *time.Timer
	closed    bool
}

func NewTracker(cfg Config) *Tracker {
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	if cfg.ExitDuration <= 0 {
		cfg.ExitDuration = DefaultExitDuration
	}
	return &Tracker{
		cfg:      cfg,
		debounce: NewDebouncer(cfg.CommitCooldown),
	}
}

// PointerDown starts a drag session. It is ignored while a session is active,
// while the card is animating off-stage, or after Close.
func (t *Tracker) PointerDown(x, y float64, at time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.state != stateIdle {
		return false
	}
	t.state = stateDragging
	t.originX, t.originY = x, y
	t.curX, t.curY = x, y
	t.startedAt = at
	t.pastDeadzone = false
	return true
}

// PointerMove updates the live drag vector. A move whose vertical delta
// exceeds the vertical threshold and dominates the horizontal delta is
// treated as scroll intent and cancels the session outright.
func (t *Tracker) PointerMove(x, y float64, _ time.Time) Move {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateDragging {
		return Move{}
	}

	if t.outsideViewport(x, y) {
		t.resetLocked()
		return Move{Cancelled: true}
	}

	t.curX, t.curY = x, y
	dx := t.curX - t.originX
	dy := t.curY - t.originY

	if abs(dy) > t.cfg.Thresholds.VerticalCancelPX && abs(dy) > abs(dx) {
		t.resetLocked()
		return Move{Cancelled: true}
	}

	if abs(dx) > t.cfg.Thresholds.DeadzonePX {
		t.pastDeadzone = true
	}
	return Move{SuppressScroll: t.pastDeadzone}
}

// PointerUp ends the session, classifying it as a commit or a spring-back.
// The commit callback fires synchronously, before PointerUp returns.
func (t *Tracker) PointerUp(x, y float64, at time.Time) Outcome {
	t.mu.Lock()

	if t.state != stateDragging {
		t.mu.Unlock()
		return Outcome{}
	}
	t.curX, t.curY = x, y

	dx := t.curX - t.originX
	elapsedMS := float64(at.Sub(t.startedAt)) / float64(time.Millisecond)
	velocity := Velocity(dx, elapsedMS)

	if !t.cfg.Thresholds.ShouldCommit(dx, velocity) {
		t.resetLocked()
		t.mu.Unlock()
		return Outcome{}
	}

	direction := DirectionRight
	if dx < 0 {
		direction = DirectionLeft
	}
	return t.commitLocked(direction, at)
}

// KeyPress commits the focused card without a drag. Presses are ignored while
// a drag is active or the card is exiting; rapid repeats collapse to a single
// commit through the debouncer.
func (t *Tracker) KeyPress(key Key, at time.Time) Outcome {
	t.mu.Lock()

	if t.closed || t.state != stateIdle {
		t.mu.Unlock()
		return Outcome{}
	}

	var direction Direction
	switch key {
	case KeyArrowLeft:
		direction = DirectionLeft
	case KeyArrowRight:
		direction = DirectionRight
	default:
		t.mu.Unlock()
		return Outcome{}
	}
	return t.commitLocked(direction, at)
}

// commitLocked is the single commit point shared by every input path.
// It releases the mutex before invoking the callback and returns the outcome.
func (t *Tracker) commitLocked(direction Direction, at time.Time) Outcome {
	if !t.debounce.TryCommit(at) {
		t.resetLocked()
		t.mu.Unlock()
		return Outcome{}
	}

	t.state = stateExiting
	t.exitTimer = time.AfterFunc(t.cfg.ExitDuration, t.completeExit)
	onCommit := t.cfg.OnCommit
	t.mu.Unlock()

	if onCommit != nil {
		onCommit(direction)
	}
	return Outcome{Committed: true, Direction: direction}
}

// Cancel aborts the active session (touch-cancel, window blur, pointer lost).
// Cancellation is silent and debounce-exempt.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == stateDragging {
		t.resetLocked()
	}
}

// CompleteExit makes the card interactive again without waiting for the exit
// timer, used when the surrounding state replacement finishes early.
func (t *Tracker) CompleteExit() {
	t.completeExit()
}

// Close releases the tracker. Any pending exit timer is stopped so a stale
// callback cannot touch a disposed card.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.exitTimer != nil {
		t.exitTimer.Stop()
		t.exitTimer = nil
	}
	t.state = stateIdle
}

// View computes the presentational derivatives for the current drag vector.
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateDragging {
		return View{Opacity: 1}
	}
	dx := t.curX - t.originX
	dy := t.curY - t.originY
	th := t.cfg.Thresholds
	return View{
		Active:   true,
		DeltaX:   dx,
		DeltaY:   dy,
		Rotation: th.Rotation(dx),
		Opacity:  th.DragOpacity(dx),
		Overlay:  th.OverlayState(dx),
	}
}

// Dragging reports whether a session is currently active.
func (t *Tracker) Dragging() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateDragging
}

func (t *Tracker) completeExit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.state == stateExiting {
		t.state = stateIdle
	}
	if t.exitTimer != nil {
		t.exitTimer.Stop()
		t.exitTimer = nil
	}
}

func (t *Tracker) outsideViewport(x, y float64) bool {
	if x < 0 || y < 0 {
		return true
	}
	if t.cfg.ViewportW > 0 && x > t.cfg.ViewportW {
		return true
	}
	if t.cfg.ViewportH > 0 && y > t.cfg.ViewportH {
		return true
	}
	return false
}

func (t *Tracker) resetLocked() {
	t.state = stateIdle
	t.pastDeadzone = false
	t.originX, t.originY = 0, 0
	t.curX, t.curY = 0, 0
	t.startedAt = time.Time{}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
