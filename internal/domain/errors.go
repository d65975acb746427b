package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for an ID.
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrMissingCandidateField rejects a session start with an incomplete profile.
	ErrMissingCandidateField = errors.New("candidate name, email and phone are required")
	// ErrSessionComplete is returned when acting on an already finished session.
	ErrSessionComplete = errors.New("interview session already complete")
	// ErrEmptyAnswer rejects an explicit submission with no answer text; the
	// empty-answer path belongs to timer expiry alone.
	ErrEmptyAnswer = errors.New("answer text must not be empty")
	// ErrSubmissionClosed is returned when an answer arrives after resolution
	// for the current question has already started.
	ErrSubmissionClosed = errors.New("submission window closed for current question")
	// ErrOutOfRange indicates an advance past the last question. This is an
	// invariant violation, not a recoverable condition.
	ErrOutOfRange = errors.New("sequencer advanced past last question")
	// ErrInvalidSession rejects a ledger append of a non-complete session.
	ErrInvalidSession = errors.New("only complete sessions may be appended to the ledger")
	// ErrScoringUnavailable indicates the external scorer failed; callers
	// recover with the local heuristic.
	ErrScoringUnavailable = errors.New("scoring service unavailable")
	// ErrQuestionPoolEmpty indicates the bank cannot cover the fixed 2/2/2 draw.
	ErrQuestionPoolEmpty = errors.New("question pool has too few questions")
)
