// Package ledger keeps a bounded history of committed swipes so the most
// recent one can be reversed. One ledger belongs to one trade session and is
// cleared whenever the session's anchor item changes.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"swaply/internal/domain/enums"
	"swaply/internal/domain/model"
)

const DefaultCapacity = 10

// Record snapshots a committed swipe at commit time. Item and Owner are value
// copies; they stay valid even after the live entities change.
type Record struct {
	Item      model.Item
	Owner     model.Profile
	Direction enums.SwipeDirection
	SwipeID   int64
	SessionID uuid.UUID
	UserID    int64
	At        time.Time
}

// Reverser undoes the persisted effect of a swipe. It must return an error
// the caller can distinguish on not-found and permission conditions.
type Reverser interface {
	ReverseSwipe(ctx context.Context, sessionID uuid.UUID, userID int64, itemID uuid.UUID) error
}

// Ledger is an ordered list of undoable swipes capped at a fixed size, oldest
// evicted first. It performs no locking; the owning session controller
// serializes access.
type Ledger struct {
	reverser Reverser
	capacity int
	records  []Record
}

func New(reverser Reverser, capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		reverser: reverser,
		capacity: capacity,
	}
}

// Push appends a committed swipe, evicting the oldest record once the
// capacity is exceeded.
func (l *Ledger) Push(rec Record) {
	rec.Item.PhotoKeys = append([]string(nil), rec.Item.PhotoKeys...)
	l.records = append(l.records, rec)
	if len(l.records) > l.capacity {
		overflow := len(l.records) - l.capacity
		l.records = append(l.records[:0], l.records[overflow:]...)
	}
}

func (l *Ledger) PeekLast() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// UndoLast reverses the most recent swipe. The reversal call must succeed
// before the record is popped; on failure the record stays so the user can
// retry. An empty ledger is a no-op, not an error, and never reaches the
// reverser.
func (l *Ledger) UndoLast(ctx context.Context) (Record, bool, error) {
	if len(l.records) == 0 {
		return Record{}, false, nil
	}

	last := l.records[len(l.records)-1]
	if err := l.reverser.ReverseSwipe(ctx, last.SessionID, last.UserID, last.Item.ID); err != nil {
		return Record{}, false, err
	}

	l.records = l.records[:len(l.records)-1]
	return last, true, nil
}

// Clear drops the whole history without reversal calls.
func (l *Ledger) Clear() {
	l.records = l.records[:0]
}
