package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"autokudos/internal/adapters/sheets"
	"autokudos/internal/adapters/storage/backend"
	redisstore "autokudos/internal/adapters/storage/redis"
	"autokudos/internal/application/orchestrators"
	"autokudos/internal/config"
)

// cli holds what every subcommand needs. Tests fill stores directly;
// otherwise the root command opens them from the environment.
type cli struct {
	stores     *backend.Stores
	publisher  orchestrators.StandingsPublisher
	generateID func() string
	closeStore func() error
}

func newRootCmd(c *cli) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "kudosctl",
		Short:        "Maintain the club race log and championship",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			if c.generateID == nil {
				c.generateID = func() string { return uuid.New().String() }
			}
			if c.stores != nil {
				return nil
			}
			return c.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.closeStore == nil {
				return nil
			}
			return c.closeStore()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each operation")

	root.AddCommand(
		newDedupeCmd(c),
		newWipeResultsCmd(c),
		newClearStandingsCmd(c),
		newAssignIDsCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newLeaderboardCmd(c),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opened, err := backend.Open(cmd.Context(), backend.OpenOptions{
		Engine:    cfg.Store,
		DBPath:    cfg.DBPath,
		SlowQuery: cfg.SlowQuery,
		Redis: redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		},
	})
	if err != nil {
		return err
	}
	c.stores = opened.Stores
	c.closeStore = opened.Close
	if cfg.SheetsEnabled() {
		pub, err := sheets.New(cmd.Context(), cfg.SheetsCredentials, cfg.SheetsSpreadsheetID, cfg.SheetsTab)
		if err != nil {
			return err
		}
		c.publisher = pub
	}
	return nil
}

func (c *cli) raceLogDeps() orchestrators.RaceLogDeps {
	return orchestrators.RaceLogDeps{Results: c.stores.Results}
}

func (c *cli) championshipDeps() orchestrators.ChampionshipDeps {
	return orchestrators.ChampionshipDeps{
		Season:     c.stores.Championship,
		Pending:    c.stores.ChampPending,
		Standings:  c.stores.ChampStandings,
		Members:    c.stores.Members,
		GenerateID: c.generateID,
		Now:        time.Now,
		Publisher:  c.publisher,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openOutput returns stdout for "" or "-", else a created file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
