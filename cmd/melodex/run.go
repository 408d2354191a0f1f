package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/avelars/melodex/internal/config"
	"github.com/avelars/melodex/internal/domain"
	"github.com/avelars/melodex/internal/enrich"
	"github.com/avelars/melodex/internal/itunes"
	"github.com/avelars/melodex/internal/logger"
	"github.com/avelars/melodex/internal/spotify"
	"github.com/avelars/melodex/internal/store"
)

func newRunCommand() *cobra.Command {
	var libraryFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: import, de-duplicate, match, fetch features, store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if libraryFlag != "" {
				cfg.LibraryPath = libraryFlag
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ValidateRun(); err != nil {
				return err
			}
			return runPipeline(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&libraryFlag, "library", "x", "", "Path to the iTunes library XML export")

	return cmd
}

func runPipeline(cmd *cobra.Command, cfg *config.Config) error {
	runID := uuid.NewString()
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}).WithRun(runID)
	started := time.Now().UTC()

	lib, importStats, err := itunes.Load(cfg.LibraryPath, log.WithComponent("itunes"))
	if err != nil {
		return err
	}

	dedupeStats := lib.MergeDuplicates()
	if dedupeStats.Tracks > 0 {
		log.Info("Removed duplicate tracks",
			"tracks", dedupeStats.Tracks,
			"albums", dedupeStats.Albums,
			"artists", dedupeStats.Artists,
			"remaining", len(lib.Tracks))
	}

	client := spotify.NewClient(cfg.SpotifyAPIURL, cfg.SpotifyAuthURL,
		cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	pipeline := enrich.NewPipeline(client, log)
	records, enrichStats := pipeline.Run(cmd.Context(), lib)

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReplaceTracks(records); err != nil {
		return err
	}

	run := &domain.Run{
		ID:         runID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Parsed:     importStats.Parsed,
		Skipped:    importStats.Skipped + enrichStats.Skipped,
		Merged:     dedupeStats.Tracks,
		Matched:    enrichStats.Matched,
		Unmatched:  enrichStats.Unmatched,
		Failed:     enrichStats.Failed,
		Enriched:   enrichStats.Enriched,
	}
	if err := db.SaveRun(run); err != nil {
		return err
	}

	log.Info("Run complete",
		"parsed", run.Parsed,
		"skipped", run.Skipped,
		"merged", run.Merged,
		"matched", run.Matched,
		"unmatched", run.Unmatched,
		"failed", run.Failed,
		"enriched", run.Enriched,
		"duration", run.FinishedAt.Sub(run.StartedAt).String())
	return nil
}
