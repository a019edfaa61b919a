package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/assessor/internal/llm/prompts"
	"github.com/pavelanni/assessor/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptySummary is returned when the model replies without a summary.
var ErrEmptySummary = errors.New("LLM returned an empty summary")

// summaryResult is the JSON object the model is asked to produce.
type summaryResult struct {
	Summary string `json:"summary"`
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api     *openai.Client
	model   string
	variant prompts.PromptVariant
}

// New creates a new LLM client. variant selects the summary prompt tone.
func New(baseURL, apiKey, modelName, variant string) (*Client, error) {
	if err := prompts.Load(); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	if !prompts.IsValidVariant(variant) {
		return nil, fmt.Errorf("invalid prompt variant %q", variant)
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		variant: prompts.PromptVariant(variant),
	}, nil
}

// Ping checks that the endpoint is reachable and serves the configured model.
func (c *Client) Ping(ctx context.Context) error {
	models, err := c.api.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	for _, m := range models.Models {
		if m.ID == c.model || strings.TrimSuffix(m.ID, ":latest") == c.model {
			return nil
		}
	}
	slog.Warn("configured model not listed by endpoint", "model", c.model, "available", len(models.Models))
	return nil
}

// Summarize asks the model for a short narrative of the report written in
// lang. The report itself is not modified.
func (c *Client) Summarize(ctx context.Context, report model.FeedbackReport, lang string) (string, error) {
	systemPrompt, err := prompts.BuildSummaryPrompt(c.variant, report, lang)
	if err != nil {
		return "", fmt.Errorf("build summary prompt: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Summarize my results."},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	return parseSummary(raw)
}

func parseSummary(raw string) (string, error) {
	var result summaryResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return "", fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}
	summary := strings.TrimSpace(result.Summary)
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}
