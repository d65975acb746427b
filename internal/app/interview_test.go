package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"interview-practice-service/internal/domain"
	"interview-practice-service/internal/infra/memory"
)

type stubScorer struct {
	score int
	err   error
	calls int
}

func (s *stubScorer) Score(_ context.Context, _ domain.Question, _ string) (domain.Evaluation, error) {
	s.calls++
	if s.err != nil {
		return domain.Evaluation{}, s.err
	}
	return domain.Evaluation{Score: s.score, Feedback: domain.Feedback{Text: "stub"}}, nil
}

type blockingScorer struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingScorer) Score(_ context.Context, _ domain.Question, _ string) (domain.Evaluation, error) {
	close(s.entered)
	<-s.release
	return domain.Evaluation{Score: 75, Feedback: domain.Feedback{Text: "blocked"}}, nil
}

func testPool() domain.QuestionPool {
	return domain.QuestionPool{
		Easy:   []domain.Question{{ID: "e1", Text: "easy one"}, {ID: "e2", Text: "easy two"}},
		Medium: []domain.Question{{ID: "m1", Text: "medium one"}, {ID: "m2", Text: "medium two"}},
		Hard:   []domain.Question{{ID: "h1", Text: "hard one"}, {ID: "h2", Text: "hard two"}},
	}
}

func testProfile() domain.CandidateProfile {
	return domain.CandidateProfile{Name: "Jane Doe", Email: "jane@example.com", Phone: "+1 555 0100"}
}

// newTestInterview builds a service on in-memory infra with manual ticking
// and returns the live engine for the started session.
func newTestInterview(t *testing.T, scorer Scorer) (*InterviewService, *Interview, *memory.SessionStore, *memory.Ledger) {
	t.Helper()
	store := memory.NewSessionStore()
	ledger := memory.NewLedger()
	questions := memory.NewQuestionRepository(memory.NewStaticPoolLoader(testPool()), time.Minute)
	svc := NewInterviewServiceWithClock(store, ledger, questions, scorer, time.Hour, time.Now)

	sess, err := svc.StartSession(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	svc.mu.RLock()
	iv := svc.active[sess.ID]
	svc.mu.RUnlock()
	if iv == nil {
		t.Fatalf("expected live interview for session %s", sess.ID)
	}
	return svc, iv, store, ledger
}

// expire drives the current question's countdown all the way down.
func expire(iv *Interview) {
	limit := iv.timer.Remaining()
	for i := 0; i < limit; i++ {
		iv.timer.Tick()
	}
}

func checkInvariant(t *testing.T, iv *Interview) {
	t.Helper()
	snap := iv.Snapshot()
	if len(snap.Outcomes) != snap.CurrentIndex {
		t.Fatalf("invariant broken: %d outcomes, cursor %d", len(snap.Outcomes), snap.CurrentIndex)
	}
}

func TestSubmitRecordsOutcomeAndAdvances(t *testing.T) {
	scorer := &stubScorer{score: 80}
	_, iv, store, _ := newTestInterview(t, scorer)

	outcome, err := iv.Submit(context.Background(), "a slice header holds pointer, length and capacity")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Score != 80 || outcome.TimedOut {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	checkInvariant(t, iv)

	snap := iv.Snapshot()
	if snap.CurrentIndex != 1 {
		t.Fatalf("expected cursor at 1, got %d", snap.CurrentIndex)
	}
	if got := iv.Remaining(); got != snap.Questions[1].TimeLimitSeconds {
		t.Fatalf("next timer not armed at full limit: %d", got)
	}

	// The resolution must already be persisted.
	persisted, err := store.Load(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(persisted.Outcomes) != 1 {
		t.Fatalf("expected persisted outcome, got %d", len(persisted.Outcomes))
	}
}

func TestTimeoutScoresZeroWithoutScorer(t *testing.T) {
	scorer := &stubScorer{score: 80}
	_, iv, _, _ := newTestInterview(t, scorer)

	expire(iv)
	checkInvariant(t, iv)

	snap := iv.Snapshot()
	if len(snap.Outcomes) != 1 {
		t.Fatalf("expected one outcome, got %d", len(snap.Outcomes))
	}
	got := snap.Outcomes[0]
	if got.AnswerText != "" || got.Score != 0 || !got.TimedOut {
		t.Fatalf("unexpected timeout outcome %+v", got)
	}
	if scorer.calls != 0 {
		t.Fatalf("timeouts must never reach the scorer, got %d calls", scorer.calls)
	}
}

func TestExpiryThenSubmitNeverDoublesOutcome(t *testing.T) {
	scorer := &stubScorer{score: 80}
	_, iv, _, _ := newTestInterview(t, scorer)

	expire(iv)
	// The late submission lands on the next question, never on the expired one.
	if _, err := iv.Submit(context.Background(), "late but valid answer"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	checkInvariant(t, iv)

	snap := iv.Snapshot()
	if len(snap.Outcomes) != 2 {
		t.Fatalf("expected two outcomes, got %d", len(snap.Outcomes))
	}
	if !snap.Outcomes[0].TimedOut {
		t.Fatalf("first question lost its timeout outcome: %+v", snap.Outcomes[0])
	}
	if snap.Outcomes[1].TimedOut {
		t.Fatalf("submission was recorded as a timeout: %+v", snap.Outcomes[1])
	}
}

func TestExpiryIgnoredWhileResolving(t *testing.T) {
	scorer := &blockingScorer{entered: make(chan struct{}), release: make(chan struct{})}
	_, iv, _, _ := newTestInterview(t, scorer)

	done := make(chan domain.Outcome, 1)
	go func() {
		outcome, err := iv.Submit(context.Background(), "racing answer")
		if err != nil {
			t.Errorf("submit: %v", err)
		}
		done <- outcome
	}()

	<-scorer.entered
	// Expiry loses the race: the submission already left WaitingForAnswer.
	iv.handleExpiry()
	close(scorer.release)

	outcome := <-done
	if outcome.Score != 75 || outcome.TimedOut {
		t.Fatalf("expected the submission outcome to win, got %+v", outcome)
	}
	checkInvariant(t, iv)
	snap := iv.Snapshot()
	if len(snap.Outcomes) != 1 {
		t.Fatalf("race produced %d outcomes", len(snap.Outcomes))
	}
}

func TestSecondSubmitDuringScoringIsRejected(t *testing.T) {
	scorer := &blockingScorer{entered: make(chan struct{}), release: make(chan struct{})}
	_, iv, _, _ := newTestInterview(t, scorer)

	go func() {
		_, _ = iv.Submit(context.Background(), "first answer")
	}()
	<-scorer.entered

	if _, err := iv.Submit(context.Background(), "second answer"); !errors.Is(err, domain.ErrSubmissionClosed) {
		t.Fatalf("expected ErrSubmissionClosed, got %v", err)
	}
	close(scorer.release)
}

func TestEmptySubmissionRejected(t *testing.T) {
	_, iv, _, _ := newTestInterview(t, &stubScorer{score: 80})

	if _, err := iv.Submit(context.Background(), "   "); !errors.Is(err, domain.ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
	checkInvariant(t, iv)
}

func TestScorerErrorFallsBackToHeuristic(t *testing.T) {
	scorer := &stubScorer{err: domain.ErrScoringUnavailable}
	_, iv, _, _ := newTestInterview(t, scorer)

	outcome, err := iv.Submit(context.Background(), "goroutines are scheduled by the runtime, not the kernel")
	if err != nil {
		t.Fatalf("submit must not fail on scorer errors: %v", err)
	}
	if outcome.Score <= 0 {
		t.Fatalf("heuristic fallback produced no score: %+v", outcome)
	}
	checkInvariant(t, iv)
}

func TestCompletionWithTimeoutMatchesRoundedMean(t *testing.T) {
	scorer := &stubScorer{score: 80}
	_, iv, _, ledger := newTestInterview(t, scorer)

	for i := 0; i < 6; i++ {
		if i == 2 {
			expire(iv)
		} else {
			if _, err := iv.Submit(context.Background(), "a reasonably detailed answer"); err != nil {
				t.Fatalf("submit %d: %v", i, err)
			}
		}
		checkInvariant(t, iv)
	}

	snap := iv.Snapshot()
	if snap.Status != domain.StatusComplete {
		t.Fatalf("expected completion, got %s", snap.Status)
	}
	// round((80*5 + 0) / 6) == 67
	if snap.FinalScore != 67 {
		t.Fatalf("expected final score 67, got %d", snap.FinalScore)
	}
	if snap.Summary == "" {
		t.Fatalf("expected a summary")
	}

	entries, err := ledger.List(context.Background(), domain.LedgerQuery{Sort: domain.SortScoreDesc})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(entries) != 1 || entries[0].FinalScore != 67 {
		t.Fatalf("unexpected ledger entries %+v", entries)
	}
}

func TestSubmitAfterCompletionRejected(t *testing.T) {
	scorer := &stubScorer{score: 90}
	_, iv, _, _ := newTestInterview(t, scorer)

	for i := 0; i < 6; i++ {
		if _, err := iv.Submit(context.Background(), "answer"); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if _, err := iv.Submit(context.Background(), "one more"); !errors.Is(err, domain.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
}
