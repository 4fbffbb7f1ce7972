package gesture

import (
	"testing"
	"time"
)

func newTestTracker(commits *[]Direction) *Tracker {
	return NewTracker(Config{
		Thresholds: DefaultThresholds(),
		OnCommit: func(direction Direction) {
			*commits = append(*commits, direction)
		},
	})
}

func TestCommitByDistance(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !tr.PointerDown(100, 100, start) {
		t.Fatalf("pointer down rejected on idle card")
	}
	tr.PointerMove(180, 100, start.Add(200*time.Millisecond))
	outcome := tr.PointerUp(260, 100, start.Add(400*time.Millisecond))

	if !outcome.Committed || outcome.Direction != DirectionRight {
		t.Fatalf("expected right commit, got %+v", outcome)
	}
	if len(commits) != 1 || commits[0] != DirectionRight {
		t.Fatalf("expected exactly one right commit callback, got %v", commits)
	}
}

func TestCommitByVelocityUnderDistanceThreshold(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	defer tr.Close()

	// deltaX=30 in 10ms -> 3 px/ms, well over the 0.5 px/ms threshold.
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)
	outcome := tr.PointerUp(130, 100, start.Add(10*time.Millisecond))

	if !outcome.Committed || outcome.Direction != DirectionRight {
		t.Fatalf("expected velocity commit, got %+v", outcome)
	}
	if len(commits) != 1 {
		t.Fatalf("expected one commit callback, got %d", len(commits))
	}
}

func TestSlowShortDragSpringsBack(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)
	outcome := tr.PointerUp(120, 100, start.Add(2*time.Second))

	if outcome.Committed {
		t.Fatalf("expected spring-back, got commit %+v", outcome)
	}
	if len(commits) != 0 {
		t.Fatalf("expected no commit callback, got %v", commits)
	}
	if !tr.PointerDown(100, 100, start.Add(3*time.Second)) {
		t.Fatalf("card must be interactive again after a cancel")
	}
}

func TestVerticalScrollIntentCancels(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)
	move := tr.PointerMove(110, 150, start.Add(50*time.Millisecond))

	if !move.Cancelled {
		t.Fatalf("expected vertical move to cancel the session")
	}
	if tr.Dragging() {
		t.Fatalf("session still active after vertical cancel")
	}

	// The release that follows the platform's scroll takeover is a no-op.
	outcome := tr.PointerUp(110, 400, start.Add(100*time.Millisecond))
	if outcome.Committed || len(commits) != 0 {
		t.Fatalf("vertical fake-out must never commit, got %+v %v", outcome, commits)
	}
}

func TestLeftCommitReportsPassDirection(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(300, 100, start)
	outcome := tr.PointerUp(140, 100, start.Add(300*time.Millisecond))

	if !outcome.Committed || outcome.Direction != DirectionLeft {
		t.Fatalf("expected left commit, got %+v", outcome)
	}
}

func TestHorizontalMoveSuppressesScrollPastDeadzone(t *testing.T) {
	tr := NewTracker(Config{Thresholds: DefaultThresholds()})
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)

	if move := tr.PointerMove(105, 100, start.Add(10*time.Millisecond)); move.SuppressScroll {
		t.Fatalf("moves inside the deadzone must not suppress scroll")
	}
	if move := tr.PointerMove(115, 100, start.Add(20*time.Millisecond)); !move.SuppressScroll {
		t.Fatalf("expected scroll suppression past the deadzone")
	}
}

func TestSecondPointerDownIgnoredWhileDragging(t *testing.T) {
	tr := NewTracker(Config{Thresholds: DefaultThresholds()})
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !tr.PointerDown(100, 100, start) {
		t.Fatalf("first pointer down rejected")
	}
	if tr.PointerDown(200, 200, start.Add(10*time.Millisecond)) {
		t.Fatalf("second pointer down accepted while a session is active")
	}
}

func TestPointerDownIgnoredDuringExitAnimation(t *testing.T) {
	tr := NewTracker(Config{
		Thresholds:   DefaultThresholds(),
		ExitDuration: time.Hour,
	})
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)
	if outcome := tr.PointerUp(260, 100, start.Add(100*time.Millisecond)); !outcome.Committed {
		t.Fatalf("expected commit, got %+v", outcome)
	}

	if tr.PointerDown(100, 100, start.Add(time.Second)) {
		t.Fatalf("card accepted input while animating off-stage")
	}

	tr.CompleteExit()
	if !tr.PointerDown(100, 100, start.Add(2*time.Second)) {
		t.Fatalf("card must accept input once the exit completes")
	}
}

func TestRapidKeyPressesCommitOnce(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.KeyPress(KeyArrowRight, start)
	tr.KeyPress(KeyArrowRight, start.Add(80*time.Millisecond))
	tr.KeyPress(KeyArrowRight, start.Add(160*time.Millisecond))

	if len(commits) != 1 || commits[0] != DirectionRight {
		t.Fatalf("expected exactly one right commit from rapid key presses, got %v", commits)
	}
}

func TestKeyPressLeftCommits(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	defer tr.Close()

	outcome := tr.KeyPress(KeyArrowLeft, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if !outcome.Committed || outcome.Direction != DirectionLeft {
		t.Fatalf("expected left key commit, got %+v", outcome)
	}
	if len(commits) != 1 || commits[0] != DirectionLeft {
		t.Fatalf("unexpected callbacks: %v", commits)
	}
}

func TestCancelResetsActiveSession(t *testing.T) {
	tr := NewTracker(Config{Thresholds: DefaultThresholds()})
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)
	tr.Cancel()

	if tr.Dragging() {
		t.Fatalf("session still active after cancel")
	}
	if outcome := tr.PointerUp(300, 100, start.Add(time.Second)); outcome.Committed {
		t.Fatalf("release after cancel must not commit")
	}
}

func TestMoveOutsideViewportCancels(t *testing.T) {
	tr := NewTracker(Config{
		Thresholds: DefaultThresholds(),
		ViewportW:  800,
		ViewportH:  600,
	})
	defer tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)
	move := tr.PointerMove(900, 100, start.Add(20*time.Millisecond))

	if !move.Cancelled || tr.Dragging() {
		t.Fatalf("expected out-of-viewport move to cancel, got %+v", move)
	}
}

func TestClosedTrackerIgnoresInput(t *testing.T) {
	var commits []Direction
	tr := newTestTracker(&commits)
	tr.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if tr.PointerDown(100, 100, start) {
		t.Fatalf("closed tracker accepted pointer down")
	}
	if outcome := tr.KeyPress(KeyArrowRight, start); outcome.Committed {
		t.Fatalf("closed tracker committed a key press")
	}
	if len(commits) != 0 {
		t.Fatalf("closed tracker fired callbacks: %v", commits)
	}
}

func TestViewReportsPresentationalState(t *testing.T) {
	tr := NewTracker(Config{Thresholds: DefaultThresholds()})
	defer tr.Close()

	if view := tr.View(); view.Active || view.Opacity != 1 {
		t.Fatalf("unexpected idle view: %+v", view)
	}

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.PointerDown(100, 100, start)
	tr.PointerMove(200, 105, start.Add(50*time.Millisecond))

	view := tr.View()
	if !view.Active || view.DeltaX != 100 || view.DeltaY != 5 {
		t.Fatalf("unexpected drag view: %+v", view)
	}
	if view.Overlay.Kind != OverlayLike || !view.Overlay.Visible {
		t.Fatalf("expected like overlay in view, got %+v", view.Overlay)
	}
	if view.Opacity >= 1 || view.Opacity < 0.5 {
		t.Fatalf("unexpected opacity: %v", view.Opacity)
	}
}

func TestReplayReproducesOutcome(t *testing.T) {
	th := DefaultThresholds()

	committed := Replay([]TraceEvent{
		{Kind: TraceDown, X: 100, Y: 100, OffsetMS: 0},
		{Kind: TraceMove, X: 180, Y: 102, OffsetMS: 120},
		{Kind: TraceUp, X: 260, Y: 104, OffsetMS: 240},
	}, th)
	if !committed.Committed || committed.Direction != DirectionRight {
		t.Fatalf("expected right commit from trace, got %+v", committed)
	}

	cancelled := Replay([]TraceEvent{
		{Kind: TraceDown, X: 100, Y: 100, OffsetMS: 0},
		{Kind: TraceMove, X: 110, Y: 150, OffsetMS: 60},
		{Kind: TraceUp, X: 110, Y: 180, OffsetMS: 120},
	}, th)
	if cancelled.Committed {
		t.Fatalf("expected vertical trace to cancel, got %+v", cancelled)
	}

	if out := Replay(nil, th); out.Committed {
		t.Fatalf("empty trace must not commit")
	}
}
