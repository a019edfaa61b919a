package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/assessor/internal/model"
	"github.com/pavelanni/assessor/internal/store"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored feedback reports as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "assessor.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	results, err := db.ExportAllReports()
	if err != nil {
		return fmt.Errorf("export reports: %w", err)
	}

	export := model.ReportExport{
		ExportedAt: time.Now().UTC(),
		NumReports: len(results),
		Reports:    results,
	}
	return writeOutput(v.GetString("output"), export)
}
