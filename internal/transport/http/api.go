package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"interview-practice-service/internal/app"
	"interview-practice-service/internal/domain"
)

// ResumeExtractor scrapes best-effort candidate fields from an uploaded resume.
type ResumeExtractor interface {
	Extract(data []byte, mime string) domain.CandidateProfile
}

// maxResumeBytes caps resume uploads at 5 MiB.
const maxResumeBytes = 5 << 20

// Server is the REST surface of the interview service.
type Server struct {
	service   *app.InterviewService
	extractor ResumeExtractor
	ws        *WSHandler
	router    *chi.Mux
}

func NewServer(service *app.InterviewService, extractor ResumeExtractor) *Server {
	s := &Server{
		service:   service,
		extractor: extractor,
		ws:        NewWSHandler(service),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.ws.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resume", s.handleExtractResume)
		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/answers", s.handleSubmitAnswer)
		r.Get("/sessions/{id}/result", s.handleSessionResult)
		r.Get("/candidates", s.handleListCandidates)
	})

	s.router = r
}

// handleExtractResume accepts a multipart resume upload and returns the
// best-effort candidate profile. Missing fields come back empty; the client
// collects them before starting the session.
func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "expected multipart form with a resume file")
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "resume file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "could not read resume file")
		return
	}

	profile := s.extractor.Extract(data, header.Header.Get("Content-Type"))
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Candidate domain.CandidateProfile `json:"candidate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess, err := s.service.StartSession(r.Context(), req.Candidate)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AnswerText string `json:"answerText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	outcome, err := s.service.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req.AnswerText)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleSessionResult(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.CompleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"finalScore": sess.FinalScore,
		"summary":    sess.Summary,
	})
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	query := domain.LedgerQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   domain.SortScoreDesc,
	}
	if r.URL.Query().Get("sort") == string(domain.SortScoreAsc) {
		query.Sort = domain.SortScoreAsc
	}

	entries, err := s.service.ListCandidates(r.Context(), query)
	if err != nil {
		slog.Error("list candidates", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list candidates")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"candidates": entries,
		"total":      len(entries),
	})
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingCandidateField), errors.Is(err, domain.ErrEmptyAnswer):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrSubmissionClosed), errors.Is(err, domain.ErrSessionComplete), errors.Is(err, domain.ErrInvalidSession):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	default:
		slog.Error("interview service error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": code, "message": message})
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
