package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashcard-quiz-service/internal/app"
	"flashcard-quiz-service/internal/config"
	"flashcard-quiz-service/internal/dedup"
	"flashcard-quiz-service/internal/distractor"
	"flashcard-quiz-service/internal/domain"
	"flashcard-quiz-service/internal/infra/memory"
	pginfra "flashcard-quiz-service/internal/infra/postgres"
	redisinfra "flashcard-quiz-service/internal/infra/redis"
	"flashcard-quiz-service/internal/token"
	transport "flashcard-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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
	if cfg.Token.Secret == "" {
		return fmt.Errorf("token secret not configured (set token.secret or TOKEN_SECRET_KEY)")
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var corpus app.CorpusReader = memory.NewCorpusReader(sampleQuestions())
	if pool != nil {
		corpus = pginfra.NewCorpusReader(pool)
	}

	var replay app.ReplayGuard = memory.NewReplayGuard()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		replay = redisinfra.NewReplayGuard(client)
	} else if pool != nil {
		replay = pginfra.NewReplayGuard(pool)
	}

	expiry := config.ExpiryDuration(cfg.Token.Expiry, 10*time.Minute)
	tokens := token.NewService([]byte(cfg.Token.Secret), expiry, cfg.Token.EnforceExpiry)
	service := app.NewQuizService(corpus, replay, tokens, distractor.NewSelector(), dedup.NewDetector(nil), cfg.Quiz.Distractors)

	handler := transport.NewHandler(service, cfg.Quiz.DuplicateThreshold)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting flashcard quiz service on :%s", finalPort)
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

// sampleQuestions provides a minimal corpus for running without Postgres.
func sampleQuestions() []domain.Question {
	cards := []struct {
		module, prompt, answer string
		tags                   []string
	}{
		{"algebra", "What is 2 + 2?", "4", []string{"arithmetic"}},
		{"algebra", "What is 2 + 3?", "5", []string{"arithmetic"}},
		{"algebra", "What is 3 * 3?", "9", []string{"arithmetic"}},
		{"geography", "What is the capital of France?", "Paris", []string{"europe"}},
		{"geography", "What is the capital of Spain?", "Madrid", []string{"europe"}},
	}
	questions := make([]domain.Question, 0, len(cards))
	for _, c := range cards {
		questions = append(questions, domain.Question{
			ID:       domain.QuestionID(c.module, c.prompt),
			ModuleID: c.module,
			Prompt:   c.prompt,
			Answer:   c.answer,
			Tags:     c.tags,
		})
	}
	return questions
}
