package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"interview-practice-service/internal/domain"
)

// GeminiScorer delegates answer evaluation to the Gemini API. Callers are
// expected to recover from errors with the local heuristic; this scorer
// never degrades silently.
type GeminiScorer struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiScorer initializes the Gemini client. modelName defaults to
// gemini-1.5-flash when empty; timeout bounds each scoring call.
func NewGeminiScorer(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiScorer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := client.GenerativeModel(modelName)

	// Low temperature keeps scoring consistent across candidates.
	temp := float32(0.2)
	model.Temperature = &temp

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiScorer{client: client, model: model, timeout: timeout}, nil
}

func (s *GeminiScorer) Close() error {
	return s.client.Close()
}

func (s *GeminiScorer) Score(ctx context.Context, question domain.Question, answerText string) (domain.Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildScoringPrompt(question, answerText)))
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: %v", domain.ErrScoringUnavailable, err)
	}

	text := responseText(resp)
	if text == "" {
		return domain.Evaluation{}, fmt.Errorf("%w: empty response", domain.ErrScoringUnavailable)
	}

	eval, err := parseEvaluation(text)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: %v", domain.ErrScoringUnavailable, err)
	}
	return eval, nil
}

func buildScoringPrompt(question domain.Question, answerText string) string {
	var sb strings.Builder
	sb.WriteString("You are a technical interviewer grading one answer.\n\n")
	sb.WriteString(fmt.Sprintf("Question (%s, %s): %s\n\n", question.Category, question.Difficulty, question.Text))
	sb.WriteString(fmt.Sprintf("Candidate answer:\n%s\n\n", answerText))
	sb.WriteString("Grade the answer from 0 to 100 for correctness and depth relative to the difficulty.\n")
	sb.WriteString("OUTPUT: Return ONLY valid JSON (no markdown, no text):\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "score": <0-100>,` + "\n")
	sb.WriteString(`  "feedback": "<1-2 sentence assessment>",` + "\n")
	sb.WriteString(`  "suggestions": ["<short improvement tip>"],` + "\n")
	sb.WriteString(`  "sample_answer": "<concise model answer>"` + "\n")
	sb.WriteString("}\n")
	return sb.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

// parseEvaluation extracts the JSON verdict, tolerating markdown code fences
// and surrounding prose.
func parseEvaluation(response string) (domain.Evaluation, error) {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || start >= end {
		return domain.Evaluation{}, fmt.Errorf("no JSON object in scorer response")
	}

	var verdict struct {
		Score        int      `json:"score"`
		Feedback     string   `json:"feedback"`
		Suggestions  []string `json:"suggestions"`
		SampleAnswer string   `json:"sample_answer"`
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &verdict); err != nil {
		return domain.Evaluation{}, fmt.Errorf("parse scorer response: %w", err)
	}
	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > 100 {
		verdict.Score = 100
	}
	return domain.Evaluation{
		Score: verdict.Score,
		Feedback: domain.Feedback{
			Text:         verdict.Feedback,
			Suggestions:  verdict.Suggestions,
			SampleAnswer: verdict.SampleAnswer,
		},
	}, nil
}
