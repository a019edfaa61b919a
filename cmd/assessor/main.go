package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/assessor/internal/handler"
	appI18n "github.com/pavelanni/assessor/internal/i18n"
	"github.com/pavelanni/assessor/internal/llm"
	"github.com/pavelanni/assessor/internal/llm/prompts"
	"github.com/pavelanni/assessor/internal/model"
	"github.com/pavelanni/assessor/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assessor",
		Short: "Assessment scoring engine and feedback report service",
	}

	serve := serveCmd()
	root.AddCommand(serve, evaluateCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `assessor --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "assessor.db", "SQLite database path")
	f.StringSliceP("questions", "q", nil, "Paths to question bank files, JSON or YAML (repeatable)")
	f.StringP("lang", "l", "en", "Default language for report messages (en, ru)")
	f.Int("report-limit", 10, "Reports returned when listing a user's reports")
	f.Bool("summary", false, "Attach an LLM-written narrative summary to each report")
	f.Duration("summary-timeout", 20*time.Second, "Timeout for one summary request")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("prompt-variant", string(prompts.PromptStandard), "Summary prompt variant (standard, encouraging, concise)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("ASSESSOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("assessor")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/assessor")
	v.AddConfigPath("/etc/assessor")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Open database.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Load questions from all specified files.
	if err := loadQuestions(db, v.GetStringSlice("questions")); err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	count, err := db.QuestionCount()
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	topics, err := db.ListDistinctTopics()
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	slog.Info(appI18n.Tp(context.Background(), "QuestionsLoaded", count), "topics", topics)

	cfg := model.ServerConfig{
		Lang:           lang,
		ReportLimit:    v.GetInt("report-limit"),
		SummaryEnabled: v.GetBool("summary"),
		SummaryTimeout: v.GetDuration("summary-timeout"),
	}

	// The summarizer stays a nil interface unless summaries are enabled.
	var summarizer handler.Summarizer
	if cfg.SummaryEnabled {
		promptVariant := strings.ToLower(strings.TrimSpace(v.GetString("prompt-variant")))
		if !prompts.IsValidVariant(promptVariant) {
			slog.Warn("invalid prompt-variant, using standard", "variant", promptVariant)
			promptVariant = string(prompts.PromptStandard)
		}
		llmClient, err := llm.New(
			v.GetString("llm-url"),
			v.GetString("llm-key"),
			v.GetString("llm-model"),
			promptVariant,
		)
		if err != nil {
			return fmt.Errorf("create LLM client: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = llmClient.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("LLM health check: %w", err)
		}
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
		summarizer = llmClient
	}

	h, err := handler.New(db, summarizer, cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware())
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"report_limit", cfg.ReportLimit,
		"summary", cfg.SummaryEnabled,
	)
	return http.ListenAndServe(addr, r)
}
