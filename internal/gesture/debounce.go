package gesture

import "time"

const DefaultCommitCooldown = 300 * time.Millisecond

// Debouncer suppresses logically duplicate commits inside a cooldown window.
// One instance guards one card; pointer, touch and keyboard input all pass
// through the same TryCommit call. Not safe for concurrent use on its own --
// the owning tracker serializes access.
type Debouncer struct {
	cooldown   time.Duration
	lastCommit time.Time
}

func NewDebouncer(cooldown time.Duration) *Debouncer {
	if cooldown <= 0 {
		cooldown = DefaultCommitCooldown
	}
	return &Debouncer{cooldown: cooldown}
}

// TryCommit reports whether a commit at now is allowed. The very first call
// always succeeds. On success the window restarts at now; on rejection the
// caller must silently drop the attempt.
func (d *Debouncer) TryCommit(now time.Time) bool {
	if !d.lastCommit.IsZero() && now.Sub(d.lastCommit) < d.cooldown {
		return false
	}
	d.lastCommit = now
	return true
}
