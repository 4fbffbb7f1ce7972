package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pgrepo "swaply/internal/repo/postgres"
)

type repoStub struct {
	records   []pgrepo.CandidateRecord
	lastLimit int
	err       error
}

func (s *repoStub) ListCandidates(_ context.Context, _ int64, limit int) ([]pgrepo.CandidateRecord, error) {
	s.lastLimit = limit
	return s.records, s.err
}

type signerStub struct {
	failKeys map[string]bool
}

func (s *signerStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.failKeys[key] {
		return "", errors.New("presign failed")
	}
	return "https://cdn.example/" + key, nil
}

func TestNextBuildsCards(t *testing.T) {
	itemID := uuid.New()
	repo := &repoStub{records: []pgrepo.CandidateRecord{{
		ItemID:           itemID,
		Title:            "vintage synth",
		Category:         "music",
		PhotoKeys:        []string{"items/a.jpg", "items/b.jpg"},
		OwnerID:          202,
		OwnerDisplayName: "Sam",
		OwnerCity:        "Lisbon",
		OwnerTradeCount:  4,
	}}}

	svc := NewService(repo, &signerStub{}, Config{PageSize: 20})
	cards, err := svc.Next(context.Background(), 101, 0)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}

	card := cards[0]
	if card.Item.ID != itemID || card.Owner.DisplayName != "Sam" {
		t.Fatalf("unexpected card: %+v", card)
	}
	if len(card.PhotoURLs) != 2 || card.PhotoURLs[0] != "https://cdn.example/items/a.jpg" {
		t.Fatalf("unexpected photo urls: %v", card.PhotoURLs)
	}
	if repo.lastLimit != 20 {
		t.Fatalf("expected default page size 20, got %d", repo.lastLimit)
	}
}

func TestNextClampsLimit(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo, nil, Config{PageSize: 20})

	if _, err := svc.Next(context.Background(), 101, 500); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if repo.lastLimit != 20 {
		t.Fatalf("expected clamped limit 20, got %d", repo.lastLimit)
	}

	if _, err := svc.Next(context.Background(), 101, 5); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if repo.lastLimit != 5 {
		t.Fatalf("expected explicit limit 5, got %d", repo.lastLimit)
	}
}

func TestNextSkipsFailedPresigns(t *testing.T) {
	repo := &repoStub{records: []pgrepo.CandidateRecord{{
		ItemID:    uuid.New(),
		OwnerID:   202,
		PhotoKeys: []string{"items/ok.jpg", "items/broken.jpg"},
	}}}
	signer := &signerStub{failKeys: map[string]bool{"items/broken.jpg": true}}

	svc := NewService(repo, signer, Config{})
	cards, err := svc.Next(context.Background(), 101, 0)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(cards[0].PhotoURLs) != 1 {
		t.Fatalf("expected 1 usable photo url, got %v", cards[0].PhotoURLs)
	}
}

func TestNextValidatesUser(t *testing.T) {
	svc := NewService(&repoStub{}, nil, Config{})
	if _, err := svc.Next(context.Background(), 0, 10); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
