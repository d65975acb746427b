package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"interview-practice-service/internal/domain"
)

// Ledger is the in-memory append-only collection of completed sessions.
// Entries are immutable after append and keep their insertion order, which
// doubles as the tie-break for equal scores.
type Ledger struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
	seen    map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

func (l *Ledger) Append(_ context.Context, sess domain.Session) error {
	if sess.Status != domain.StatusComplete {
		return domain.ErrInvalidSession
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[sess.ID]; ok {
		// Re-completing a session is a no-op, never a second entry.
		return nil
	}
	l.seen[sess.ID] = struct{}{}
	l.entries = append(l.entries, domain.LedgerEntry{
		SessionID:   sess.ID,
		Candidate:   sess.Candidate,
		FinalScore:  sess.FinalScore,
		Summary:     sess.Summary,
		CompletedAt: sess.UpdatedAt,
	})
	return nil
}

func (l *Ledger) List(_ context.Context, query domain.LedgerQuery) ([]domain.LedgerEntry, error) {
	l.mu.RLock()
	matched := make([]domain.LedgerEntry, 0, len(l.entries))
	needle := strings.ToLower(strings.TrimSpace(query.Search))
	for _, entry := range l.entries {
		if needle != "" &&
			!strings.Contains(strings.ToLower(entry.Candidate.Name), needle) &&
			!strings.Contains(strings.ToLower(entry.Candidate.Email), needle) {
			continue
		}
		matched = append(matched, entry)
	}
	l.mu.RUnlock()

	// Stable sort keeps insertion order for ties.
	sort.SliceStable(matched, func(i, j int) bool {
		if query.Sort == domain.SortScoreAsc {
			return matched[i].FinalScore < matched[j].FinalScore
		}
		return matched[i].FinalScore > matched[j].FinalScore
	})
	return matched, nil
}
