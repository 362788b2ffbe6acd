package main

import (
	"flag"

	"github.com/minhngoc/olympia/config"
	"github.com/minhngoc/olympia/database"
	"github.com/minhngoc/olympia/internal/logger"
	"github.com/minhngoc/olympia/internal/model"
	"github.com/minhngoc/olympia/internal/pipeline"
	"github.com/minhngoc/olympia/internal/repository"
	"github.com/rs/zerolog/log"
)

// seed loads extracted Q&A CSV files into the questions table. Re-running it
// against the same files is a no-op: rows whose question text already exists
// are skipped.
func main() {
	logger.Init()

	dir := flag.String("dir", "", "directory containing the CSV files (defaults to DATA_DIR)")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *dir == "" {
		*dir = cfg.Pipeline.DataDir
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := db.AutoMigrate(&model.Question{}, &model.User{}, &model.UserAnswer{}); err != nil {
		log.Fatal().Err(err).Msg("Database migration failed")
	}

	ingester := pipeline.NewIngester(repository.NewQuestionRepository(db))
	report, err := ingester.IngestDirectory(*dir)
	if err != nil {
		log.Error().Err(err).Str("dir", *dir).Msg("Ingestion failed")
	} else {
		log.Info().Int("added", report.Added).Int("skipped", report.Skipped).Msg("Seeding process completed")
	}
}
