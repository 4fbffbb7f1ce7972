package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePurger struct {
	cutoff time.Time
	purged int64
	err    error
	calls  int
}

func (f *fakePurger) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.purged, f.err
}

type fakeReaper struct {
	dropped int
	err     error
	calls   int
}

func (f *fakeReaper) DropLedgers(_ context.Context) (int, error) {
	f.calls++
	return f.dropped, f.err
}

func TestRunPurgesSwipesPastRetention(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	purger := &fakePurger{purged: 42}
	reaper := &fakeReaper{dropped: 3}

	job := New(purger, reaper, 30*24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	want := now.Add(-30 * 24 * time.Hour)
	if !purger.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", purger.cutoff, want)
	}
	if reaper.calls != 1 {
		t.Fatalf("DropLedgers calls = %d, want 1", reaper.calls)
	}
}

func TestRunDefaultsRetention(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	purger := &fakePurger{}

	job := New(purger, nil, 0, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	want := now.Add(-defaultSwipeRetention)
	if !purger.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", purger.cutoff, want)
	}
}

func TestRunStopsOnReaperError(t *testing.T) {
	purger := &fakePurger{}
	reaper := &fakeReaper{err: errors.New("redis down")}

	job := New(purger, reaper, time.Hour, nil)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from reaper")
	}
	if purger.calls != 0 {
		t.Fatalf("purger should not run after reaper failure, got %d calls", purger.calls)
	}
}

func TestRunWithoutStores(t *testing.T) {
	job := New(nil, nil, time.Hour, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run without stores: %v", err)
	}
}
