package app

import (
	"context"
	"log"
	"math"
	"strings"
	"sync"

	"interview-practice-service/internal/domain"
)

// resolutionState tracks where the engine is for the current question.
type resolutionState int

const (
	stateWaitingForAnswer resolutionState = iota
	stateResolving
	stateResolved
)

// EventType labels interview events pushed to subscribers.
type EventType string

const (
	EventQuestion  EventType = "question"
	EventTick      EventType = "tick"
	EventResolved  EventType = "resolved"
	EventCompleted EventType = "completed"
)

// Event is a snapshot-friendly notification for transport layers.
type Event struct {
	Type       EventType        `json:"type"`
	Index      int              `json:"index"`
	Question   *domain.Question `json:"question,omitempty"`
	Remaining  int              `json:"remaining,omitempty"`
	Outcome    *domain.Outcome  `json:"outcome,omitempty"`
	FinalScore int              `json:"finalScore,omitempty"`
	Summary    string           `json:"summary,omitempty"`
}

// Interview is the per-session resolution engine. It mediates between the
// countdown timer and the sequencer: for the current question it accepts at
// most one finalized outcome, sourced either from an explicit submission or
// from timer expiry, never both. It is the sole writer of the session's
// outcomes and cursor.
type Interview struct {
	svc   *InterviewService
	timer *CountdownTimer
	seq   *Sequencer

	mu          sync.Mutex
	sess        *domain.Session
	state       resolutionState
	resolved    bool // one-shot latch for the current question
	subscribers map[chan Event]struct{}
}

func newInterview(svc *InterviewService, sess *domain.Session) *Interview {
	iv := &Interview{
		svc:         svc,
		sess:        sess,
		seq:         NewSequencer(sess),
		state:       stateWaitingForAnswer,
		subscribers: make(map[chan Event]struct{}),
	}
	iv.timer = NewCountdownTimer(svc.tickInterval, iv.handleTick, iv.handleExpiry)
	return iv
}

// start persists the initial snapshot and begins the first (or, after a
// rehydrate, the current) question's countdown at its full limit.
func (iv *Interview) start(ctx context.Context) error {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	iv.sess.Status = domain.StatusInProgress
	iv.sess.UpdatedAt = iv.svc.now()
	if err := iv.svc.store.Save(ctx, *iv.sess); err != nil {
		return err
	}
	question, ok := iv.seq.Current()
	if !ok {
		// Rehydrated at the finish line; finalize instead of ticking.
		return iv.completeLocked(ctx)
	}
	iv.state = stateWaitingForAnswer
	iv.resolved = false
	iv.timer.Start(question.TimeLimitSeconds)
	iv.broadcastLocked(Event{Type: EventQuestion, Index: iv.sess.CurrentIndex, Question: &question, Remaining: question.TimeLimitSeconds})
	return nil
}

// Submit finalizes the current question from an explicit candidate answer.
// The timer is stopped synchronously with the transition out of
// WaitingForAnswer so a late expiry cannot also fire; if expiry won the race
// the submission is rejected with ErrSubmissionClosed.
func (iv *Interview) Submit(ctx context.Context, answerText string) (domain.Outcome, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return domain.Outcome{}, domain.ErrEmptyAnswer
	}

	iv.mu.Lock()
	if iv.sess.Status == domain.StatusComplete {
		iv.mu.Unlock()
		return domain.Outcome{}, domain.ErrSessionComplete
	}
	if iv.state != stateWaitingForAnswer || iv.resolved {
		iv.mu.Unlock()
		return domain.Outcome{}, domain.ErrSubmissionClosed
	}
	iv.resolved = true
	iv.state = stateResolving
	iv.timer.Stop()
	question, _ := iv.seq.Current()
	iv.mu.Unlock()

	eval, err := iv.svc.scorer.Score(ctx, question, answerText)
	if err != nil {
		log.Printf("scorer unavailable for session %s question %s, using local heuristic: %v", iv.sess.ID, question.ID, err)
		eval, _ = iv.svc.fallback.Score(ctx, question, answerText)
	}

	outcome := domain.Outcome{
		AnswerText: answerText,
		Score:      eval.Score,
		Feedback:   eval.Feedback,
	}

	iv.mu.Lock()
	defer iv.mu.Unlock()
	if err := iv.resolveLocked(ctx, outcome); err != nil {
		return domain.Outcome{}, err
	}
	return outcome, nil
}

// handleExpiry is the timeout path: empty answer, score zero, and the
// external scorer is never consulted. A stale expiry that lost the race to a
// submission observes the latch and is ignored.
func (iv *Interview) handleExpiry() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.state != stateWaitingForAnswer || iv.resolved {
		return
	}
	// A stale callback from a previous question's timer arrives after the
	// next countdown has started, which clears the edge-triggered signal.
	if !iv.timer.Expired() {
		return
	}
	iv.resolved = true
	iv.state = stateResolving
	outcome := domain.Outcome{
		AnswerText: "",
		Score:      0,
		Feedback:   domain.Feedback{Text: "No answer was submitted before time ran out."},
		TimedOut:   true,
	}
	if err := iv.resolveLocked(context.Background(), outcome); err != nil {
		log.Printf("resolve timeout for session %s: %v", iv.sess.ID, err)
	}
}

func (iv *Interview) handleTick(remaining int) {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.broadcastLocked(Event{Type: EventTick, Index: iv.sess.CurrentIndex, Remaining: remaining})
}

// resolveLocked writes exactly one outcome for the current question, persists
// the snapshot, and either re-arms the machine for the next question or
// completes the session. The outcome for question N is persisted before the
// timer for question N+1 starts.
func (iv *Interview) resolveLocked(ctx context.Context, outcome domain.Outcome) error {
	index := iv.sess.CurrentIndex
	iv.sess.Outcomes = append(iv.sess.Outcomes, outcome)
	iv.state = stateResolved
	if err := iv.seq.Advance(); err != nil {
		return err
	}
	iv.sess.UpdatedAt = iv.svc.now()
	if err := iv.svc.store.Save(ctx, *iv.sess); err != nil {
		// Progression must not stall on a flaky store; the next resolution retries.
		log.Printf("persist session %s: %v", iv.sess.ID, err)
	}
	iv.broadcastLocked(Event{Type: EventResolved, Index: index, Outcome: &outcome})

	if iv.seq.Exhausted() {
		return iv.completeLocked(ctx)
	}

	question, _ := iv.seq.Current()
	iv.resolved = false
	iv.state = stateWaitingForAnswer
	iv.timer.Start(question.TimeLimitSeconds)
	iv.broadcastLocked(Event{Type: EventQuestion, Index: iv.sess.CurrentIndex, Question: &question, Remaining: question.TimeLimitSeconds})
	return nil
}

// completeLocked freezes the final score and summary, persists the terminal
// snapshot and appends the session to the candidate ledger.
func (iv *Interview) completeLocked(ctx context.Context) error {
	if iv.sess.Status == domain.StatusComplete {
		return nil
	}
	iv.timer.Stop()
	iv.sess.FinalScore = meanScore(iv.sess.Outcomes)
	iv.sess.Summary = iv.svc.summarize(iv.sess.Candidate, iv.sess.Outcomes)
	iv.sess.Status = domain.StatusComplete
	iv.sess.UpdatedAt = iv.svc.now()

	if err := iv.svc.store.Save(ctx, *iv.sess); err != nil {
		log.Printf("persist completed session %s: %v", iv.sess.ID, err)
	}
	if err := iv.svc.ledger.Append(ctx, copySession(iv.sess)); err != nil {
		return err
	}
	iv.broadcastLocked(Event{Type: EventCompleted, Index: iv.sess.CurrentIndex, FinalScore: iv.sess.FinalScore, Summary: iv.sess.Summary})
	return nil
}

// Snapshot returns a defensive copy of the session state.
func (iv *Interview) Snapshot() domain.Session {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return copySession(iv.sess)
}

// Remaining reports the seconds left for the current question.
func (iv *Interview) Remaining() int {
	return iv.timer.Remaining()
}

func (iv *Interview) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	iv.mu.Lock()
	iv.subscribers[ch] = struct{}{}
	iv.mu.Unlock()

	cancel := func() {
		iv.mu.Lock()
		if _, ok := iv.subscribers[ch]; ok {
			delete(iv.subscribers, ch)
			close(ch)
		}
		iv.mu.Unlock()
	}
	return ch, cancel
}

func (iv *Interview) broadcastLocked(ev Event) {
	for ch := range iv.subscribers {
		select {
		case ch <- ev:
		default:
			// Shed the oldest event rather than block resolution on a slow client.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// meanScore is the frozen aggregate: mean of all outcome scores, rounded to
// the nearest integer.
func meanScore(outcomes []domain.Outcome) int {
	if len(outcomes) == 0 {
		return 0
	}
	sum := 0
	for _, o := range outcomes {
		sum += o.Score
	}
	return int(math.Round(float64(sum) / float64(len(outcomes))))
}

func copySession(sess *domain.Session) domain.Session {
	cp := *sess
	cp.Questions = append([]domain.Question(nil), sess.Questions...)
	cp.Outcomes = append([]domain.Outcome(nil), sess.Outcomes...)
	return cp
}
