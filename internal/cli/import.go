package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"flashcard-quiz-service/internal/app"
	"flashcard-quiz-service/internal/config"
	"flashcard-quiz-service/internal/dedup"
	pginfra "flashcard-quiz-service/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewImportCmd ingests a JSON file of flashcards, skipping semantic duplicates.
func NewImportCmd(configPath *string) *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import flashcards from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, args[0], threshold)
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", dedup.DefaultThreshold, "similarity threshold for duplicate detection (0.0-1.0)")
	return cmd
}

func runImport(ctx context.Context, configPath, file string, threshold float64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var cards []app.Flashcard
	if err := json.Unmarshal(data, &cards); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	importer := app.NewImporter(
		pginfra.NewCorpusReader(pool),
		pginfra.NewQuestionStore(pool),
		dedup.NewDetector(nil),
		threshold,
	)
	report, err := importer.Import(ctx, cards)
	if err != nil {
		return err
	}

	log.Printf("imported %d, skipped %d duplicates, %d errors",
		len(report.Accepted), len(report.Duplicates), len(report.Errors))
	for _, dup := range report.Duplicates {
		log.Printf("skipped %q: %s", dup.Question, dup.Reason)
	}
	for _, e := range report.Errors {
		log.Printf("error: %s", e)
	}
	return nil
}
