package domain

import "time"

// Difficulty buckets questions and fixes their time limits.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TimeLimitSeconds returns the fixed countdown for a difficulty.
func (d Difficulty) TimeLimitSeconds() int {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyMedium:
		return 60
	case DifficultyHard:
		return 120
	default:
		return 60
	}
}

// Question is immutable once generated for a session.
type Question struct {
	ID               string     `json:"id"`
	Text             string     `json:"text"`
	Category         string     `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
}

// QuestionPool holds the bank of questions grouped by difficulty,
// from which a session's fixed set is drawn.
type QuestionPool struct {
	Easy   []Question `json:"easy"`
	Medium []Question `json:"medium"`
	Hard   []Question `json:"hard"`
}

// ByDifficulty returns the pool slice for d.
func (p QuestionPool) ByDifficulty(d Difficulty) []Question {
	switch d {
	case DifficultyEasy:
		return p.Easy
	case DifficultyMedium:
		return p.Medium
	case DifficultyHard:
		return p.Hard
	}
	return nil
}

// CandidateProfile is extracted from a resume and confirmed by the candidate.
// All three fields must be present before a session may start.
type CandidateProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Feedback is the narrative part of a scored answer.
type Feedback struct {
	Text         string   `json:"text"`
	Suggestions  []string `json:"suggestions,omitempty"`
	SampleAnswer string   `json:"sampleAnswer,omitempty"`
}

// Evaluation is the scorer's verdict for one answer.
type Evaluation struct {
	Score    int      `json:"score"` // 0..100
	Feedback Feedback `json:"feedback"`
}

// Outcome is the finalized (answer, score, feedback) triple for one question.
// Exactly one outcome exists per completed question.
type Outcome struct {
	AnswerText string   `json:"answerText"`
	Score      int      `json:"score"`
	Feedback   Feedback `json:"feedback"`
	TimedOut   bool     `json:"timedOut"`
}

// SessionStatus enumerates the session lifecycle.
type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusComplete   SessionStatus = "complete"
)

// Session is the unit of one candidate's attempt. It is also the
// serialization boundary for mid-session persistence: snapshot in,
// snapshot out, no ambient globals.
//
// Invariant: len(Outcomes) == CurrentIndex after every transition.
type Session struct {
	ID           string           `json:"id"`
	Candidate    CandidateProfile `json:"candidate"`
	Questions    []Question       `json:"questions"`
	CurrentIndex int              `json:"currentIndex"`
	Outcomes     []Outcome        `json:"outcomes"`
	Status       SessionStatus    `json:"status"`
	FinalScore   int              `json:"finalScore,omitempty"`
	Summary      string           `json:"summary,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// CurrentQuestion returns the question at CurrentIndex, or false when exhausted.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// SortOrder controls ledger ranking.
type SortOrder string

const (
	SortScoreDesc SortOrder = "scoreDesc"
	SortScoreAsc  SortOrder = "scoreAsc"
)

// LedgerQuery filters and orders the candidate ledger.
type LedgerQuery struct {
	Search string
	Sort   SortOrder
}

// LedgerEntry is an immutable record of a completed session.
type LedgerEntry struct {
	SessionID   string           `json:"sessionId"`
	Candidate   CandidateProfile `json:"candidate"`
	FinalScore  int              `json:"finalScore"`
	Summary     string           `json:"summary"`
	CompletedAt time.Time        `json:"completedAt"`
}
