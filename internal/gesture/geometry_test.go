package gesture

import (
	"math"
	"testing"
)

func TestShouldCommitDistanceThresholdIsInclusive(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		deltaX float64
		want   bool
	}{
		{0, false},
		{th.CommitDistancePX - 1, false},
		{th.CommitDistancePX, true},
		{th.CommitDistancePX + 1, true},
		{-th.CommitDistancePX, true},
		{-(th.CommitDistancePX - 1), false},
	}
	for _, tc := range cases {
		if got := th.ShouldCommit(tc.deltaX, 0); got != tc.want {
			t.Fatalf("ShouldCommit(%v, 0) = %v, want %v", tc.deltaX, got, tc.want)
		}
	}
}

func TestShouldCommitVelocityThresholdIsInclusive(t *testing.T) {
	th := DefaultThresholds()

	if th.ShouldCommit(0, th.CommitVelocity-0.01) {
		t.Fatalf("expected velocity just under threshold to not commit")
	}
	if !th.ShouldCommit(0, th.CommitVelocity) {
		t.Fatalf("expected velocity at threshold to commit")
	}
	if !th.ShouldCommit(0, th.CommitVelocity+0.01) {
		t.Fatalf("expected velocity over threshold to commit")
	}
}

func TestVelocityGuardsZeroElapsed(t *testing.T) {
	if got := Velocity(120, 0); got != 0 {
		t.Fatalf("expected zero velocity for zero elapsed time, got %v", got)
	}
	if got := Velocity(120, -5); got != 0 {
		t.Fatalf("expected zero velocity for negative elapsed time, got %v", got)
	}
	if got := Velocity(30, 10); got != 3 {
		t.Fatalf("expected 3 px/ms, got %v", got)
	}
	if got := Velocity(-30, 10); got != 3 {
		t.Fatalf("expected speed to ignore direction, got %v", got)
	}
}

func TestDragOpacityFloor(t *testing.T) {
	th := DefaultThresholds()

	if got := th.DragOpacity(0); got != 1.0 {
		t.Fatalf("expected full opacity at rest, got %v", got)
	}
	for _, dx := range []float64{-5000, -300, -150, 0, 150, 300, 5000} {
		got := th.DragOpacity(dx)
		if got < th.OpacityFloor {
			t.Fatalf("opacity %v below floor for deltaX=%v", got, dx)
		}
		if got > 1.0 {
			t.Fatalf("opacity %v above 1.0 for deltaX=%v", got, dx)
		}
	}
	if got := th.DragOpacity(150); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected opacity 0.5 at deltaX=150, got %v", got)
	}
}

func TestOverlaySidedness(t *testing.T) {
	th := DefaultThresholds()

	if state := th.OverlayState(0); state.Visible || state.Kind != OverlayNone {
		t.Fatalf("expected hidden overlay at rest, got %+v", state)
	}
	if state := th.OverlayState(th.OverlayThresholdPX); state.Visible {
		t.Fatalf("expected hidden overlay at the threshold, got %+v", state)
	}
	if state := th.OverlayState(th.OverlayThresholdPX + 1); !state.Visible || state.Kind != OverlayLike {
		t.Fatalf("expected like overlay just past the threshold, got %+v", state)
	}
	if state := th.OverlayState(-(th.OverlayThresholdPX + 1)); !state.Visible || state.Kind != OverlayPass {
		t.Fatalf("expected pass overlay on the negative side, got %+v", state)
	}
}

func TestOverlayIntensityRampsAndCaps(t *testing.T) {
	th := DefaultThresholds()

	quarter := th.OverlayState(th.OverlayThresholdPX + th.OverlayBandPX/4)
	half := th.OverlayState(th.OverlayThresholdPX + th.OverlayBandPX/2)
	if quarter.Intensity >= half.Intensity {
		t.Fatalf("expected intensity to ramp with distance: %v vs %v", quarter.Intensity, half.Intensity)
	}

	far := th.OverlayState(th.OverlayThresholdPX + th.OverlayBandPX*10)
	if far.Intensity != th.OverlayMaxOpacity {
		t.Fatalf("expected intensity capped at %v, got %v", th.OverlayMaxOpacity, far.Intensity)
	}
}

func TestRotationIsLinear(t *testing.T) {
	th := DefaultThresholds()

	if got := th.Rotation(0); got != 0 {
		t.Fatalf("expected no tilt at rest, got %v", got)
	}
	if got := th.Rotation(100); got != 2*th.Rotation(50) {
		t.Fatalf("expected linear rotation, got %v", got)
	}
	if got := th.Rotation(-100); got != -th.Rotation(100) {
		t.Fatalf("expected symmetric rotation, got %v", got)
	}
}
