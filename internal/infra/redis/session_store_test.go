package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"interview-practice-service/internal/domain"
)

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	sess := domain.Session{
		ID:           "s1",
		Candidate:    domain.CandidateProfile{Name: "Jane Doe", Email: "jane@example.com", Phone: "+1 555 0100"},
		Status:       domain.StatusInProgress,
		CurrentIndex: 2,
		Outcomes:     []domain.Outcome{{Score: 80}, {Score: 0, TimedOut: true}},
	}

	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("interview:session:s1") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentIndex != 2 || len(got.Outcomes) != 2 || !got.Outcomes[1].TimedOut {
		t.Fatalf("snapshot not preserved: %+v", got)
	}

	if err := store.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("interview:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreMissingSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	if _, err := store.Load(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
