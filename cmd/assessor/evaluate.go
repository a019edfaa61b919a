package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/assessor/internal/evaluation"
	appI18n "github.com/pavelanni/assessor/internal/i18n"
	"github.com/pavelanni/assessor/internal/model"
	"github.com/pavelanni/assessor/internal/store"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate FILE...",
		Short: "Score submission files offline and print feedback reports as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEvaluate,
	}
	f := cmd.Flags()
	f.StringP("lang", "l", "en", "Language for report messages (en, ru)")
	f.Int("workers", runtime.NumCPU(), "Maximum files scored concurrently")
	f.Bool("save", false, "Persist submissions and reports to the database")
	f.String("db", "assessor.db", "SQLite database path (with --save)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

// evaluatedFile is one entry of the evaluate command output.
type evaluatedFile struct {
	File     string               `json:"file"`
	ReportID string               `json:"reportId,omitempty"`
	Report   model.FeedbackReport `json:"report"`
}

func readSubmission(path string) (model.Submission, error) {
	var sub model.Submission
	data, err := os.ReadFile(path)
	if err != nil {
		return sub, fmt.Errorf("read %s: %w", path, err)
	}
	if err := decodeFile(path, data, &sub); err != nil {
		return sub, fmt.Errorf("parse %s: %w", path, err)
	}
	return sub, nil
}

// evaluateFiles scores each submission file concurrently. Results keep the
// order of paths; the first failure cancels the rest.
func evaluateFiles(ctx context.Context, paths []string, workers int, opts ...evaluation.Option) ([]model.Submission, []evaluatedFile, error) {
	subs := make([]model.Submission, len(paths))
	results := make([]evaluatedFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sub, err := readSubmission(path)
			if err != nil {
				return err
			}
			report, err := evaluation.EvaluateSubmission(sub.UserID, sub.Questions, opts...)
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", path, err)
			}
			subs[i] = sub
			results[i] = evaluatedFile{File: path, Report: report}
			slog.Debug("evaluated submission", "path", path, "user_id", sub.UserID, "accuracy", report.AccuracyPercent)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return subs, results, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	subs, results, err := evaluateFiles(cmd.Context(), args, v.GetInt("workers"),
		evaluation.WithLocalizer(appI18n.NewLocalizer(lang)))
	if err != nil {
		return err
	}

	if v.GetBool("save") {
		db, err := store.New(v.GetString("db"))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		for i, sub := range subs {
			saved, err := db.CreateSubmission(sub.UserID, sub.TestTitle, sub.Questions)
			if err != nil {
				return fmt.Errorf("save submission %s: %w", results[i].File, err)
			}
			stored, err := db.UpsertReport(saved.ID, sub.TestTitle, results[i].Report)
			if err != nil {
				return fmt.Errorf("save report %s: %w", results[i].File, err)
			}
			results[i].ReportID = stored.ID
		}
		slog.Info("saved reports", "count", len(results), "db", v.GetString("db"))
	}

	return writeOutput(v.GetString("output"), results)
}

// writeOutput writes v as indented JSON to path, or stdout for "-" or "".
func writeOutput(outPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
