// Package llm wraps the Gemini API behind a small generation interface so the
// rest of the game never talks to the SDK directly.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator produces one text completion per call from a system prompt and a
// user prompt. Calls are stateless; nothing is carried between invocations.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Options tune the client's failure behavior.
type Options struct {
	// Model is the Gemini model name, e.g. "gemini-2.5-flash".
	Model string
	// RequestTimeout bounds a single attempt. Zero means no deadline
	// beyond the caller's context.
	RequestTimeout time.Duration
	// MaxRetries is how many additional attempts are made after a failed
	// call. Zero disables retries.
	MaxRetries int
}

// Client is the Gemini-backed Generator.
type Client struct {
	client *genai.Client
	opts   Options
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{client: client, opts: opts}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.client.Close()
}

// Generate sends the prompt pair and returns the completion text. Failed
// calls are retried with linear backoff up to MaxRetries times; the last
// error is returned if every attempt fails.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			slog.Debug("retrying model call", "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := c.generateOnce(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("model call failed after %d attempts: %w", c.opts.MaxRetries+1, lastErr)
}

func (c *Client) generateOnce(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()
	}

	// A fresh model handle keeps the system instruction scoped to this call.
	model := c.client.GenerativeModel(c.opts.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}

	if resp.UsageMetadata != nil {
		slog.Debug("gemini call",
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}

	return string(text), nil
}
