package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-practice-service/internal/domain"
	"interview-practice-service/internal/scoring"
)

// SessionStore persists session snapshots so a reload mid-interview can
// restore outcomes and the cursor (in-memory, Redis, etc).
type SessionStore interface {
	Save(ctx context.Context, sess domain.Session) error
	Load(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// Ledger is the append-only collection of completed sessions. Append rejects
// sessions that are not Complete and is a no-op for an already appended
// session ID; there are no update or delete operations.
type Ledger interface {
	Append(ctx context.Context, sess domain.Session) error
	List(ctx context.Context, query domain.LedgerQuery) ([]domain.LedgerEntry, error)
}

// QuestionRepository supplies the question pool (from cache/backing store).
type QuestionRepository interface {
	Pool(ctx context.Context) (domain.QuestionPool, error)
}

// Scorer evaluates one answer against its question.
type Scorer interface {
	Score(ctx context.Context, question domain.Question, answerText string) (domain.Evaluation, error)
}

// Summarizer turns a finished session's outcomes into a narrative summary.
type Summarizer func(candidate domain.CandidateProfile, outcomes []domain.Outcome) string

// InterviewService contains the interview use cases and owns the registry of
// live per-session engines. Each session's state machine is isolated; there
// is no cross-session shared mutable state.
type InterviewService struct {
	store     SessionStore
	ledger    Ledger
	questions QuestionRepository
	scorer    Scorer
	fallback  Scorer
	summarize Summarizer
	generator *QuestionGenerator

	tickInterval time.Duration
	now          func() time.Time
	newID        func() string

	mu     sync.RWMutex
	active map[string]*Interview
}

func NewInterviewService(store SessionStore, ledger Ledger, questions QuestionRepository, scorer Scorer) *InterviewService {
	return NewInterviewServiceWithClock(store, ledger, questions, scorer, time.Second, time.Now)
}

// NewInterviewServiceWithClock is test-only for deterministic timers and timestamps.
func NewInterviewServiceWithClock(store SessionStore, ledger Ledger, questions QuestionRepository, scorer Scorer, tickInterval time.Duration, now func() time.Time) *InterviewService {
	return &InterviewService{
		store:        store,
		ledger:       ledger,
		questions:    questions,
		scorer:       scorer,
		fallback:     scoring.NewHeuristicScorer(),
		summarize:    scoring.Summarize,
		generator:    NewQuestionGenerator(now().UnixNano()),
		tickInterval: tickInterval,
		now:          now,
		newID:        uuid.NewString,
		active:       make(map[string]*Interview),
	}
}

// StartSession validates the candidate profile, draws the fixed question set
// and starts the first question's countdown.
func (s *InterviewService) StartSession(ctx context.Context, candidate domain.CandidateProfile) (domain.Session, error) {
	candidate, err := normalizeProfile(candidate)
	if err != nil {
		return domain.Session{}, err
	}

	pool, err := s.questions.Pool(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	questions, err := s.generator.Generate(pool)
	if err != nil {
		return domain.Session{}, err
	}

	now := s.now()
	sess := &domain.Session{
		ID:        s.newID(),
		Candidate: candidate,
		Questions: questions,
		Outcomes:  make([]domain.Outcome, 0, len(questions)),
		Status:    domain.StatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	iv := newInterview(s, sess)
	s.mu.Lock()
	s.active[sess.ID] = iv
	s.mu.Unlock()

	if err := iv.start(ctx); err != nil {
		s.mu.Lock()
		delete(s.active, sess.ID)
		s.mu.Unlock()
		return domain.Session{}, err
	}
	return iv.Snapshot(), nil
}

// ResumeSession rehydrates a session from its last persisted snapshot. The
// current question's timer restarts at its full limit; everything up to the
// last resolved question is intact.
func (s *InterviewService) ResumeSession(ctx context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	iv, ok := s.active[id]
	s.mu.RUnlock()
	if ok {
		return iv.Snapshot(), nil
	}

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.Status == domain.StatusComplete {
		return sess, nil
	}

	iv = newInterview(s, &sess)
	s.mu.Lock()
	if existing, ok := s.active[id]; ok {
		s.mu.Unlock()
		return existing.Snapshot(), nil
	}
	s.active[id] = iv
	s.mu.Unlock()

	if err := iv.start(ctx); err != nil {
		s.mu.Lock()
		delete(s.active, id)
		s.mu.Unlock()
		return domain.Session{}, err
	}
	return iv.Snapshot(), nil
}

// SubmitAnswer finalizes the current question from an explicit answer and
// returns its scored outcome.
func (s *InterviewService) SubmitAnswer(ctx context.Context, id, answerText string) (domain.Outcome, error) {
	iv, err := s.interview(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}
	return iv.Submit(ctx, answerText)
}

// Session returns the current snapshot of a session, live or persisted.
func (s *InterviewService) Session(ctx context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	iv, ok := s.active[id]
	s.mu.RUnlock()
	if ok {
		return iv.Snapshot(), nil
	}
	return s.store.Load(ctx, id)
}

// CompleteSession returns the frozen result of a finished session. Completion
// itself happens structurally when the sequencer is exhausted; calling this
// again is a no-op and never appends a second ledger entry. A session still
// in progress is rejected with ErrInvalidSession.
func (s *InterviewService) CompleteSession(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.Status != domain.StatusComplete {
		return domain.Session{}, domain.ErrInvalidSession
	}
	return sess, nil
}

// ListCandidates queries the ledger of completed sessions.
func (s *InterviewService) ListCandidates(ctx context.Context, query domain.LedgerQuery) ([]domain.LedgerEntry, error) {
	return s.ledger.List(ctx, query)
}

// Subscribe returns a channel of interview events for a live session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *InterviewService) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	iv, err := s.interview(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := iv.subscribe()
	return ch, cancel, nil
}

// interview finds the live engine for a session, rehydrating from the store
// when the process has restarted since the session began.
func (s *InterviewService) interview(ctx context.Context, id string) (*Interview, error) {
	s.mu.RLock()
	iv, ok := s.active[id]
	s.mu.RUnlock()
	if ok {
		return iv, nil
	}
	if _, err := s.ResumeSession(ctx, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	iv, ok = s.active[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionComplete
	}
	return iv, nil
}

func normalizeProfile(p domain.CandidateProfile) (domain.CandidateProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" || p.Email == "" || p.Phone == "" {
		return domain.CandidateProfile{}, domain.ErrMissingCandidateField
	}
	return p, nil
}
