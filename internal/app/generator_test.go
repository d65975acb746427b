package app

import (
	"errors"
	"testing"

	"interview-practice-service/internal/domain"
)

func TestGenerateDrawsSixQuestionsInDifficultyOrder(t *testing.T) {
	gen := NewQuestionGenerator(1)
	questions, err := gen.Generate(testPool())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 6 {
		t.Fatalf("expected 6 questions, got %d", len(questions))
	}

	wantLimits := []int{20, 20, 60, 60, 120, 120}
	seen := make(map[string]bool)
	for i, q := range questions {
		if q.TimeLimitSeconds != wantLimits[i] {
			t.Fatalf("question %d: limit %d, want %d", i, q.TimeLimitSeconds, wantLimits[i])
		}
		if seen[q.ID] {
			t.Fatalf("question %s drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestGenerateFailsOnThinPool(t *testing.T) {
	pool := testPool()
	pool.Hard = pool.Hard[:1]

	gen := NewQuestionGenerator(1)
	if _, err := gen.Generate(pool); !errors.Is(err, domain.ErrQuestionPoolEmpty) {
		t.Fatalf("expected ErrQuestionPoolEmpty, got %v", err)
	}
}
