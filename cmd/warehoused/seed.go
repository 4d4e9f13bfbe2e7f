package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
	"warehouse-ops-backend/internal/report"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalogue and fleet into an empty database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, gormDB, err := openStore()
		if err != nil {
			return err
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			defer sqlDB.Close()
		}

		seeded, err := s.Seed(cmd.Context(), inventory.SeedProducts(), fleet.SeedBots(time.Now().UTC()))
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if !seeded {
			log.Info().Msg("database already has data, nothing seeded")
			return nil
		}
		log.Info().Msg("database seeded")
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <inventory|bot-performance> <csv|pdf>",
	Short: "Write a report file from the current database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := report.ParseKind(args[0])
		if err != nil {
			return err
		}
		format := args[1]
		if format != "csv" && format != "pdf" {
			return fmt.Errorf("unknown format %q", format)
		}

		app, _, closeDB, err := loadState(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer closeDB()

		now := app.Now()
		table := report.Build(kind, app.Products(), app.Bots())
		var out []byte
		if format == "csv" {
			out = []byte(report.CSV(table))
		} else if out, err = report.PDF(kind, table, now); err != nil {
			return err
		}

		path := exportOut
		if path == "" {
			path = fmt.Sprintf("%s-report-%s.%s", kind, now.Format("2006-01-02"), format)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return err
		}
		abs, _ := filepath.Abs(path)
		log.Info().Str("file", abs).Int("rows", len(table.Rows)).Msg("report written")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <kind>-report-<date>.<format>)")
}
