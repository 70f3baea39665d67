package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeTranslator calls the Anthropic Messages API for translation.
type ClaudeTranslator struct {
	client anthropic.Client
	model  string
	Stats  *Stats
}

func NewClaudeTranslator(apiKey, model string) *ClaudeTranslator {
	return &ClaudeTranslator{
		client: anthropic.NewClient(
			option.WithAPIKey(apiKey),
			option.WithRequestTimeout(60*time.Second),
			option.WithMaxRetries(0), // the pipeline owns retries
		),
		model: model,
		Stats: NewStats(time.Hour),
	}
}

func (c *ClaudeTranslator) Name() string { return "claude" }

// Model returns the configured model name.
func (c *ClaudeTranslator) Model() string { return c.model }

// Translate asks Claude for a translation of text into lang.
func (c *ClaudeTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	start := time.Now()
	out, err := c.translate(ctx, text, lang)
	c.Stats.Observe(time.Since(start), err)
	return out, err
}

func (c *ClaudeTranslator) translate(ctx context.Context, text, lang string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(text, lang))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500 {
				return "", &RetryableError{StatusCode: apiErr.StatusCode, Err: err}
			}
			return "", fmt.Errorf("claude api status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("claude api: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("empty response from claude")
	}
	return out, nil
}
