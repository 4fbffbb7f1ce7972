package matches

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pgrepo "swaply/internal/repo/postgres"
)

type matchStoreStub struct {
	records map[int64]pgrepo.MatchRecord
}

func (s *matchStoreStub) GetByID(_ context.Context, matchID int64) (pgrepo.MatchRecord, error) {
	rec, ok := s.records[matchID]
	if !ok {
		return pgrepo.MatchRecord{}, pgrepo.ErrMatchNotFound
	}
	return rec, nil
}

func (s *matchStoreStub) ListByUser(_ context.Context, userID int64, _ int) ([]pgrepo.MatchRecord, error) {
	var out []pgrepo.MatchRecord
	for _, rec := range s.records {
		if rec.UserAID == userID || rec.UserBID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *matchStoreStub) DeleteByID(_ context.Context, matchID int64, userID int64) error {
	rec, ok := s.records[matchID]
	if !ok || (rec.UserAID != userID && rec.UserBID != userID) {
		return pgrepo.ErrMatchNotFound
	}
	delete(s.records, matchID)
	return nil
}

type messageStoreStub struct {
	deletedMatch int64
}

func (s *messageStoreStub) DeleteByMatch(_ context.Context, matchID int64) (int64, error) {
	s.deletedMatch = matchID
	return 3, nil
}

func fixtureRecord() pgrepo.MatchRecord {
	return pgrepo.MatchRecord{
		ID:        7,
		ItemAID:   uuid.New(),
		ItemBID:   uuid.New(),
		UserAID:   101,
		UserBID:   202,
		CreatedAt: time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC),
	}
}

func TestGetOrientsSides(t *testing.T) {
	rec := fixtureRecord()
	store := &matchStoreStub{records: map[int64]pgrepo.MatchRecord{rec.ID: rec}}
	svc := NewService(store, &messageStoreStub{})

	asA, err := svc.Get(context.Background(), 101, rec.ID)
	if err != nil {
		t.Fatalf("Get as user A: %v", err)
	}
	if asA.MyItemID != rec.ItemAID || asA.TheirUserID != 202 {
		t.Fatalf("wrong orientation for user A: %+v", asA)
	}

	asB, err := svc.Get(context.Background(), 202, rec.ID)
	if err != nil {
		t.Fatalf("Get as user B: %v", err)
	}
	if asB.MyItemID != rec.ItemBID || asB.TheirUserID != 101 {
		t.Fatalf("wrong orientation for user B: %+v", asB)
	}
}

func TestGetRejectsOutsiders(t *testing.T) {
	rec := fixtureRecord()
	store := &matchStoreStub{records: map[int64]pgrepo.MatchRecord{rec.ID: rec}}
	svc := NewService(store, &messageStoreStub{})

	if _, err := svc.Get(context.Background(), 999, rec.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), 101, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnmatchDeletesConversation(t *testing.T) {
	rec := fixtureRecord()
	store := &matchStoreStub{records: map[int64]pgrepo.MatchRecord{rec.ID: rec}}
	messages := &messageStoreStub{}
	svc := NewService(store, messages)

	if err := svc.Unmatch(context.Background(), 101, rec.ID); err != nil {
		t.Fatalf("Unmatch: %v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("match not deleted")
	}
	if messages.deletedMatch != rec.ID {
		t.Fatalf("conversation not deleted, got match %d", messages.deletedMatch)
	}

	if err := svc.Unmatch(context.Background(), 101, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat unmatch, got %v", err)
	}
}
