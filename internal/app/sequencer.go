package app

import (
	"interview-practice-service/internal/domain"
)

// Sequencer walks a session's fixed question list one step at a time.
// It mutates only the session's CurrentIndex; sequencing is purely
// in-memory and deterministic, with no retries or recovery.
type Sequencer struct {
	sess *domain.Session
}

// NewSequencer wraps the session whose questions are being sequenced.
func NewSequencer(sess *domain.Session) *Sequencer {
	return &Sequencer{sess: sess}
}

// Current returns the question at the session's cursor, or false when exhausted.
func (s *Sequencer) Current() (domain.Question, bool) {
	return s.sess.CurrentQuestion()
}

// Advance moves the cursor one step. Advancing past the last question is an
// invariant violation and returns ErrOutOfRange.
func (s *Sequencer) Advance() error {
	if s.Exhausted() {
		return domain.ErrOutOfRange
	}
	s.sess.CurrentIndex++
	return nil
}

// Exhausted reports whether every question has been passed.
func (s *Sequencer) Exhausted() bool {
	return s.sess.CurrentIndex >= len(s.sess.Questions)
}
