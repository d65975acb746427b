package scoring

import (
	"context"
	"strings"
	"testing"

	"interview-practice-service/internal/domain"
)

func TestHeuristicEmptyAnswerScoresZero(t *testing.T) {
	s := NewHeuristicScorer()
	eval, err := s.Score(context.Background(), domain.Question{Difficulty: domain.DifficultyEasy}, "   ")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if eval.Score != 0 {
		t.Fatalf("expected 0, got %d", eval.Score)
	}
}

func TestHeuristicFullCoverageAtTargetLength(t *testing.T) {
	s := NewHeuristicScorer()
	question := domain.Question{
		Text:       "Explain goroutines and threads.",
		Difficulty: domain.DifficultyEasy,
	}
	// Hits both keywords ("goroutines", "threads") at the easy target length.
	answer := "goroutines are cheaper than threads because the runtime multiplexes many of them onto a few kernel threads"
	eval, err := s.Score(context.Background(), question, answer)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if eval.Score != 100 {
		t.Fatalf("expected 100, got %d", eval.Score)
	}
}

func TestHeuristicShortAnswerLosesLengthPoints(t *testing.T) {
	s := NewHeuristicScorer()
	question := domain.Question{
		Text:       "Explain goroutines and threads.",
		Difficulty: domain.DifficultyHard,
	}
	eval, err := s.Score(context.Background(), question, "goroutines beat threads")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// 3/70 words rounds the length share to 3; keywords give the full 40.
	if eval.Score != 43 {
		t.Fatalf("expected 43, got %d", eval.Score)
	}
	if len(eval.Feedback.Suggestions) == 0 {
		t.Fatalf("expected a suggestion to expand the answer")
	}
}

func TestQuestionKeywords(t *testing.T) {
	got := questionKeywords("Explain the difference between a slice and an array, and what happens on append.")
	want := []string{"append", "array", "slice"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("keywords %v, want %v", got, want)
	}
}
