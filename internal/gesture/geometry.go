package gesture

import "math"

// Thresholds holds the tuning constants for gesture classification and the
// presentational derivatives computed during a drag. Values are in px, px/ms
// and degrees.
type Thresholds struct {
	CommitDistancePX float64
	CommitVelocity   float64
	VerticalCancelPX float64
	DeadzonePX       float64

	OverlayThresholdPX float64
	OverlayBandPX      float64
	OverlayMaxOpacity  float64

	OpacityFloor  float64
	OpacityFadePX float64
	RotationScale float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		CommitDistancePX:   50,
		CommitVelocity:     0.5,
		VerticalCancelPX:   30,
		DeadzonePX:         10,
		OverlayThresholdPX: 20,
		OverlayBandPX:      50,
		OverlayMaxOpacity:  0.9,
		OpacityFloor:       0.5,
		OpacityFadePX:      300,
		RotationScale:      0.1,
	}
}

// Direction is the classified side of a committed swipe. Right expresses
// interest in the item, left passes on it.
type Direction string

const (
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"
)

type OverlayKind string

const (
	OverlayNone OverlayKind = "NONE"
	OverlayLike OverlayKind = "LIKE"
	OverlayPass OverlayKind = "PASS"
)

type Overlay struct {
	Visible   bool
	Kind      OverlayKind
	Intensity float64
}

// Rotation maps a horizontal drag offset to a card tilt in degrees.
func (t Thresholds) Rotation(deltaX float64) float64 {
	return deltaX * t.RotationScale
}

// DragOpacity fades the card as it travels, never below the floor so a card
// mid-drag stays visible.
func (t Thresholds) DragOpacity(deltaX float64) float64 {
	fade := t.OpacityFadePX
	if fade <= 0 {
		fade = 300
	}
	opacity := 1 - math.Abs(deltaX)/fade
	if opacity < t.OpacityFloor {
		return t.OpacityFloor
	}
	return opacity
}

// OverlayState reports which side indicator to show for the current offset
// and how strongly, ramping linearly over the band past the threshold.
func (t Thresholds) OverlayState(deltaX float64) Overlay {
	abs := math.Abs(deltaX)
	if abs <= t.OverlayThresholdPX {
		return Overlay{Kind: OverlayNone}
	}

	band := t.OverlayBandPX
	if band <= 0 {
		band = 50
	}
	intensity := (abs - t.OverlayThresholdPX) / band
	if intensity > t.OverlayMaxOpacity {
		intensity = t.OverlayMaxOpacity
	}

	kind := OverlayLike
	if deltaX < 0 {
		kind = OverlayPass
	}
	return Overlay{Visible: true, Kind: kind, Intensity: intensity}
}

// Velocity returns the horizontal speed in px/ms. A zero or negative elapsed
// time yields zero rather than dividing.
func Velocity(deltaX float64, elapsedMS float64) float64 {
	if elapsedMS <= 0 {
		return 0
	}
	return math.Abs(deltaX) / elapsedMS
}

// ShouldCommit decides whether a released drag finalizes as a swipe. Both
// checks are inclusive; either one qualifying is enough.
func (t Thresholds) ShouldCommit(deltaX float64, velocity float64) bool {
	return math.Abs(deltaX) >= t.CommitDistancePX || velocity >= t.CommitVelocity
}
