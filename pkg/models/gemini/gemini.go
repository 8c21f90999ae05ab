// Package gemini implements the generation client against the Google Gemini
// API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"cadagent/pkg/models"
)

const (
	// LevelTrace is a custom log level for detailed HTTP traffic.
	LevelTrace = slog.Level(-8)

	// DefaultModel is a fast code-capable model.
	DefaultModel = "gemini-2.0-flash"
)

// Client implements models.Provider using the Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates a Client. The timeout bounds every Generate call that arrives
// without its own deadline.
func New(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	httpClient := &http.Client{
		Transport: &loggingTransport{
			base:   http.DefaultTransport,
			apiKey: apiKey,
		},
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey), option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model, timeout: timeout}, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.client.Close()
}

// Generate performs one bounded synchronous completion and classifies
// failures into the typed generation errors.
func (c *Client) Generate(ctx context.Context, req models.Request) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	gm := c.client.GenerativeModel(c.model)
	gm.SetTemperature(req.Temperature)
	gm.SetCandidateCount(1)
	if req.System != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	slog.Debug("Calling Gemini", "model", c.model, "temperature", req.Temperature,
		"instructionLen", len(req.Instruction))
	started := time.Now()

	resp, err := gm.GenerateContent(ctx, genai.Text(req.Instruction))
	if err != nil {
		return "", classify(err)
	}

	text := flatten(resp)
	if text == "" {
		return "", &models.TransportError{Err: errors.New("empty completion")}
	}

	slog.Debug("Gemini completed", "elapsed", time.Since(started), "responseLen", len(text))
	return text, nil
}

// classify maps the SDK's failures onto the generation error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.TimeoutError{Err: err}
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &models.HTTPError{Status: apiErr.Code, Body: strings.TrimSpace(apiErr.Body)}
	}
	return &models.TransportError{Err: err}
}

func flatten(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

type loggingTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// A custom http.Client often bypasses the library's automatic API key
	// injection, so add it when missing.
	if t.apiKey != "" && req.Header.Get("x-goog-api-key") == "" && req.URL.Query().Get("key") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("x-goog-api-key", t.apiKey)
	}

	if !slog.Default().Enabled(req.Context(), LevelTrace) {
		return t.base.RoundTrip(req)
	}

	reqDump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		slog.Debug("Failed to dump Gemini request", "error", err)
	} else {
		slog.Debug("Gemini REST Request", "url", req.URL.String(), "dump", string(reqDump))
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// For streaming, don't dump the body to avoid consuming it.
	isStream := strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") ||
		strings.Contains(req.URL.Query().Get("alt"), "sse")

	respDump, err := httputil.DumpResponse(resp, !isStream)
	if err != nil {
		slog.Debug("Failed to dump Gemini response", "error", err)
	} else {
		slog.Debug("Gemini REST Response", "isStream", isStream, "dump", string(respDump))
	}

	return resp, nil
}
