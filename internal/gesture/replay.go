package gesture

import "time"

type TraceEventKind string

const (
	TraceDown   TraceEventKind = "down"
	TraceMove   TraceEventKind = "move"
	TraceUp     TraceEventKind = "up"
	TraceCancel TraceEventKind = "cancel"
	TraceKey    TraceEventKind = "key"
)

// TraceEvent is one recorded input event of a client-side gesture, with its
// timestamp expressed as milliseconds from the start of the trace.
type TraceEvent struct {
	Kind     TraceEventKind `json:"kind"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	OffsetMS int64          `json:"offset_ms"`
	Key      Key            `json:"key,omitempty"`
}

const maxTraceEvents = 512

// Replay runs a recorded trace through a fresh tracker and returns the
// outcome the engine itself would have produced. Malformed or oversized
// traces classify as cancelled, never as committed.
func Replay(events []TraceEvent, thresholds Thresholds) Outcome {
	if len(events) == 0 || len(events) > maxTraceEvents {
		return Outcome{}
	}

	var outcome Outcome
	tracker := NewTracker(Config{
		Thresholds: thresholds,
		OnCommit: func(direction Direction) {
			outcome = Outcome{Committed: true, Direction: direction}
		},
	})
	defer tracker.Close()

	base := time.Unix(0, 0)
	for _, ev := range events {
		at := base.Add(time.Duration(ev.OffsetMS) * time.Millisecond)
		switch ev.Kind {
		case TraceDown:
			tracker.PointerDown(ev.X, ev.Y, at)
		case TraceMove:
			tracker.PointerMove(ev.X, ev.Y, at)
		case TraceUp:
			tracker.PointerUp(ev.X, ev.Y, at)
		case TraceCancel:
			tracker.Cancel()
		case TraceKey:
			tracker.KeyPress(ev.Key, at)
		}
		if outcome.Committed {
			break
		}
	}
	return outcome
}
