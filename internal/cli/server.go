package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"interview-practice-service/internal/app"
	"interview-practice-service/internal/config"
	"interview-practice-service/internal/domain"
	"interview-practice-service/internal/infra/memory"
	pgstore "interview-practice-service/internal/infra/postgres"
	redisstore "interview-practice-service/internal/infra/redis"
	"interview-practice-service/internal/resume"
	"interview-practice-service/internal/scoring"
	transport "interview-practice-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the interview service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.PoolLoader = memory.NewStaticPoolLoader(samplePool())
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	var store app.SessionStore
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}

	var ledger app.Ledger
	if pool != nil {
		ledger = pgstore.NewLedger(pool)
	} else {
		ledger = memory.NewLedger()
	}

	var scorer app.Scorer = scoring.NewHeuristicScorer()
	if key := config.GeminiAPIKey(); key != "" {
		scoringTimeout := config.TTLDuration(cfg.Scoring.Timeout, 30*time.Second)
		gemini, err := scoring.NewGeminiScorer(ctx, key, cfg.Scoring.Model, scoringTimeout)
		if err != nil {
			return err
		}
		defer gemini.Close()
		scorer = gemini
	} else {
		log.Printf("GEMINI_API_KEY not set, scoring with local heuristic only")
	}

	service := app.NewInterviewService(store, ledger, questions, scorer)
	apiServer := transport.NewServer(service, resume.NewExtractor())

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting interview service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// samplePool provides a minimal question bank; swap this loader with the
// Postgres-backed one in production.
func samplePool() domain.QuestionPool {
	return domain.QuestionPool{
		Easy: []domain.Question{
			{ID: "e1", Text: "What does a slice header contain in Go?", Category: "language"},
			{ID: "e2", Text: "What is the zero value of a pointer type?", Category: "language"},
			{ID: "e3", Text: "What does the defer keyword do?", Category: "language"},
		},
		Medium: []domain.Question{
			{ID: "m1", Text: "How do goroutines differ from OS threads?", Category: "concurrency"},
			{ID: "m2", Text: "When would you choose a buffered channel over an unbuffered one?", Category: "concurrency"},
			{ID: "m3", Text: "How does the select statement behave when several cases are ready?", Category: "concurrency"},
		},
		Hard: []domain.Question{
			{ID: "h1", Text: "Design a rate limiter for a distributed API gateway and discuss its failure modes.", Category: "systems"},
			{ID: "h2", Text: "How would you detect and resolve a data race in a production Go service?", Category: "systems"},
			{ID: "h3", Text: "Walk through designing an idempotent payment processing pipeline.", Category: "systems"},
		},
	}
}
