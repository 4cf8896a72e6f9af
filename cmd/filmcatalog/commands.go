// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/filmcatalog/cmd/filmcatalog/config"
	"github.com/AleutianAI/filmcatalog/pkg/logging"
	"github.com/AleutianAI/filmcatalog/pkg/ux"
	"github.com/AleutianAI/filmcatalog/services/catalog"
	"github.com/AleutianAI/filmcatalog/services/catalog/store"
)

// topFilmsInStats is how many films `filmcatalog stats` lists.
const topFilmsInStats = 5

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	configPath string
	cfg        config.Config
	logger     *logging.Logger
	out        *ux.Printer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "filmcatalog",
		Short:         "A film catalog web application",
		Long:          "filmcatalog serves a small catalog of films, genres and directors over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Close()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"path to filmcatalog.yaml (default: ./"+config.DefaultPath+" if present)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web server until interrupted",
			RunE:  a.runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE:  a.runMigrate,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the sample films into an empty catalog",
			RunE:  a.runSeed,
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show catalog counts and the best rated films",
			RunE:  a.runStats,
		},
		newConfigCmd(),
	)
	return rootCmd
}

// newConfigCmd manages the config file itself and needs no loaded config.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage filmcatalog.yaml",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			out := ux.NewPrinter(cmd.OutOrStdout(), ux.DetectMode(cmd.OutOrStdout()))
			if err := config.WriteDefault(path); err != nil {
				out.Error(err.Error())
				return err
			}
			out.Success("wrote " + path)
			return nil
		},
	})
	return configCmd
}

func (a *app) init(cmd *cobra.Command) error {
	a.out = ux.NewPrinter(cmd.OutOrStdout(), ux.DetectMode(cmd.OutOrStdout()))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		a.out.Error(err.Error())
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "filmcatalog",
		Format:  format,
		Output:  cmd.ErrOrStderr(),
	})
	return nil
}

func (a *app) openStore(ctx context.Context) (*store.Gateway, error) {
	db := a.cfg.Database
	gw, err := store.Open(store.Config{
		Driver:             db.Driver,
		DSN:                db.DSN,
		MaxOpenConns:       db.MaxOpenConns,
		SlowQueryThreshold: db.SlowQuery,
		LogSQL:             db.LogSQL,
		Logger:             a.logger.Slog(),
	})
	if err != nil {
		return nil, err
	}
	if err := gw.Migrate(ctx); err != nil {
		_ = gw.Close()
		return nil, err
	}
	return gw, nil
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := a.openStore(ctx)
	if err != nil {
		a.logger.Error("failed to open store", "error", err)
		return err
	}
	defer gw.Close()

	if a.cfg.Database.Seed {
		if _, err := gw.Seed(ctx); err != nil {
			a.logger.Error("failed to seed catalog", "error", err)
			return err
		}
	}

	srv := a.cfg.Server
	svc, err := catalog.New(catalog.Config{
		Port:            srv.Port,
		GinMode:         srv.GinMode,
		OTelEndpoint:    a.cfg.Telemetry.OTLPEndpoint,
		EnableMetrics:   a.cfg.Telemetry.Metrics,
		CSRF:            srv.CSRF,
		SecureCookies:   srv.SecureCookies,
		WriteRateLimit:  srv.WriteRateLimit,
		WriteBurst:      srv.WriteBurst,
		ShutdownTimeout: srv.ShutdownTimeout,
		Logger:          a.logger.Slog(),
	}, gw)
	if err != nil {
		a.logger.Error("failed to create service", "error", err)
		return err
	}
	if err := svc.Run(ctx); err != nil {
		a.logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}

func (a *app) runMigrate(cmd *cobra.Command, _ []string) error {
	gw, err := a.openStore(cmd.Context())
	if err != nil {
		a.out.Error(err.Error())
		return err
	}
	defer gw.Close()
	a.out.Success("schema is up to date (" + gw.Driver() + ")")
	return nil
}

func (a *app) runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	gw, err := a.openStore(ctx)
	if err != nil {
		a.out.Error(err.Error())
		return err
	}
	defer gw.Close()

	seeded, err := gw.Seed(ctx)
	if err != nil {
		a.out.Error(err.Error())
		return err
	}
	if !seeded {
		a.out.Warning("catalog already has data, nothing seeded")
		return nil
	}
	a.out.Success(fmt.Sprintf("seeded %d genres, %d directors and %d films",
		len(store.SeedGenres), len(store.SeedDirectors), len(store.SeedFilms)))
	return nil
}

func (a *app) runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	gw, err := a.openStore(ctx)
	if err != nil {
		a.out.Error(err.Error())
		return err
	}
	defer gw.Close()

	stats, err := gw.Stats(ctx)
	if err != nil {
		a.out.Error(err.Error())
		return err
	}
	top, err := gw.TopFilms(ctx, topFilmsInStats)
	if err != nil {
		a.out.Error(err.Error())
		return err
	}

	summary := ux.CatalogSummary{
		Driver:    gw.Driver(),
		Films:     stats.Films,
		Genres:    stats.Genres,
		Directors: stats.Directors,
	}
	for _, f := range top {
		summary.TopFilms = append(summary.TopFilms, ux.FilmLine{
			Title:    f.Title,
			Year:     f.Year,
			Rating:   f.RatingText(),
			Genre:    f.GenreName(),
			Director: f.DirectorName(),
		})
	}
	a.out.Summary(summary)
	return nil
}
