package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"interview-practice-service/internal/app"
	"interview-practice-service/internal/domain"
	"interview-practice-service/internal/infra/memory"
	"interview-practice-service/internal/resume"
)

type fixedScorer struct{ score int }

func (s fixedScorer) Score(_ context.Context, _ domain.Question, _ string) (domain.Evaluation, error) {
	return domain.Evaluation{Score: s.score, Feedback: domain.Feedback{Text: "ok"}}, nil
}

func samplePool() domain.QuestionPool {
	return domain.QuestionPool{
		Easy:   []domain.Question{{ID: "e1", Text: "easy one"}, {ID: "e2", Text: "easy two"}},
		Medium: []domain.Question{{ID: "m1", Text: "medium one"}, {ID: "m2", Text: "medium two"}},
		Hard:   []domain.Question{{ID: "h1", Text: "hard one"}, {ID: "h2", Text: "hard two"}},
	}
}

func newTestServer(t *testing.T, score int) *httptest.Server {
	t.Helper()
	store := memory.NewSessionStore()
	ledger := memory.NewLedger()
	questions := memory.NewQuestionRepository(memory.NewStaticPoolLoader(samplePool()), time.Minute)
	service := app.NewInterviewServiceWithClock(store, ledger, questions, fixedScorer{score: score}, time.Hour, time.Now)

	server := httptest.NewServer(NewServer(service, resume.NewExtractor()).Router())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestSessionLifecycleOverREST(t *testing.T) {
	server := newTestServer(t, 80)

	resp := postJSON(t, server.URL+"/api/v1/sessions", map[string]any{
		"candidate": map[string]string{"name": "Jane Doe", "email": "jane@example.com", "phone": "+1 555 0100"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start session status %d", resp.StatusCode)
	}
	sess := decode[domain.Session](t, resp)
	if len(sess.Questions) != 6 || sess.Status != domain.StatusInProgress {
		t.Fatalf("unexpected session %+v", sess)
	}

	// Result is a conflict until the last question resolves.
	res, err := http.Get(server.URL + "/api/v1/sessions/" + sess.ID + "/result")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for unfinished session, got %d", res.StatusCode)
	}

	for i := 0; i < 6; i++ {
		resp := postJSON(t, server.URL+"/api/v1/sessions/"+sess.ID+"/answers", map[string]string{"answerText": "an answer"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("submit %d status %d", i, resp.StatusCode)
		}
		outcome := decode[domain.Outcome](t, resp)
		if outcome.Score != 80 {
			t.Fatalf("submit %d outcome %+v", i, outcome)
		}
	}

	res, err = http.Get(server.URL + "/api/v1/sessions/" + sess.ID + "/result")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("result status %d", res.StatusCode)
	}
	result := decode[struct {
		FinalScore int    `json:"finalScore"`
		Summary    string `json:"summary"`
	}](t, res)
	if result.FinalScore != 80 || result.Summary == "" {
		t.Fatalf("unexpected result %+v", result)
	}

	list, err := http.Get(server.URL + "/api/v1/candidates?search=jane")
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	candidates := decode[struct {
		Candidates []domain.LedgerEntry `json:"candidates"`
		Total      int                  `json:"total"`
	}](t, list)
	if candidates.Total != 1 || candidates.Candidates[0].FinalScore != 80 {
		t.Fatalf("unexpected candidates payload %+v", candidates)
	}
}

func TestStartSessionValidation(t *testing.T) {
	server := newTestServer(t, 80)

	resp := postJSON(t, server.URL+"/api/v1/sessions", map[string]any{
		"candidate": map[string]string{"name": "Jane Doe"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", resp.StatusCode)
	}
}

func TestSubmitAnswerErrorsMapToStatusCodes(t *testing.T) {
	server := newTestServer(t, 80)

	resp := postJSON(t, server.URL+"/api/v1/sessions/nope/answers", map[string]string{"answerText": "x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp.StatusCode)
	}

	start := postJSON(t, server.URL+"/api/v1/sessions", map[string]any{
		"candidate": map[string]string{"name": "Jane Doe", "email": "jane@example.com", "phone": "+1 555 0100"},
	})
	sess := decode[domain.Session](t, start)

	resp = postJSON(t, server.URL+"/api/v1/sessions/"+sess.ID+"/answers", map[string]string{"answerText": "  "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty answer, got %d", resp.StatusCode)
	}
}

func TestResumeExtractionEndpoint(t *testing.T) {
	server := newTestServer(t, 80)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", "resume.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(part, "Jane Doe\nBackend Engineer\njane@example.com\n+1 555 010 0199\n")
	mw.Close()

	resp, err := http.Post(server.URL+"/api/v1/resume", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post resume: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resume status %d", resp.StatusCode)
	}
	profile := decode[domain.CandidateProfile](t, resp)
	if profile.Name != "Jane Doe" || profile.Email != "jane@example.com" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}
