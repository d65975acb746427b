package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"interview-practice-service/internal/domain"
)

// HeuristicScorer is the deterministic local fallback: it never errors and
// never calls out. The score blends answer length against a per-difficulty
// target with keyword coverage from the question text, clamped to 0..100.
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// targetWords is the answer length treated as "complete" per difficulty.
func targetWords(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyEasy:
		return 15
	case domain.DifficultyMedium:
		return 40
	case domain.DifficultyHard:
		return 70
	default:
		return 40
	}
}

func (s *HeuristicScorer) Score(_ context.Context, question domain.Question, answerText string) (domain.Evaluation, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return domain.Evaluation{
			Score:    0,
			Feedback: domain.Feedback{Text: "No answer was provided."},
		}, nil
	}

	words := strings.Fields(answerText)
	lengthRatio := float64(len(words)) / float64(targetWords(question.Difficulty))
	if lengthRatio > 1 {
		lengthRatio = 1
	}

	keywords := questionKeywords(question.Text)
	covered := 0
	lowered := strings.ToLower(answerText)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			covered++
		}
	}
	keywordRatio := 1.0
	if len(keywords) > 0 {
		keywordRatio = float64(covered) / float64(len(keywords))
	}

	// Length carries 60 points, keyword coverage 40.
	score := int(math.Round(lengthRatio*60 + keywordRatio*40))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	fb := domain.Feedback{
		Text: fmt.Sprintf("Heuristic evaluation: answer length and keyword coverage for a %s question (%d/%d key terms touched).",
			question.Difficulty, covered, len(keywords)),
	}
	if lengthRatio < 1 {
		fb.Suggestions = append(fb.Suggestions, "Expand the answer with more detail and concrete examples.")
	}
	if len(keywords) > 0 && covered < len(keywords) {
		fb.Suggestions = append(fb.Suggestions, "Address the specific terms used in the question.")
	}
	return domain.Evaluation{Score: score, Feedback: fb}, nil
}

// questionKeywords extracts the distinctive lowercase terms of the question
// text, sorted for determinism.
func questionKeywords(text string) []string {
	seen := make(map[string]struct{})
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,;:?!()\"'")
		if len(word) <= 4 || stopwords[word] {
			continue
		}
		seen[word] = struct{}{}
	}
	keywords := make([]string, 0, len(seen))
	for word := range seen {
		keywords = append(keywords, word)
	}
	sort.Strings(keywords)
	return keywords
}

var stopwords = map[string]bool{
	"about": true, "would": true, "could": true, "should": true,
	"their": true, "there": true, "which": true, "between": true,
	"explain": true, "describe": true, "difference": true, "happens": true,
}
