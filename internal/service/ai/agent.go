package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/config"
	"github.com/wallace-21/BirdNest/internal/domain/models"
	agentclient "github.com/wallace-21/BirdNest/pkg/clients/agent"
)

const (
	maxInputLength = 4000
	queryEchoLimit = 100
)

// dangerousPatterns is a blunt substring heuristic against
// code-execution style payloads. It is trivially bypassable and is not
// a security boundary; matching input is rejected outright.
var dangerousPatterns = []string{
	"import os",
	"exec(",
	"eval(",
	"__import__",
	"subprocess",
	"system(",
}

// QueryResult is the normalized outcome of one relay call. Failures are
// carried in-band as Success=false plus an Error string, never as a Go
// error: the caller always gets a result to serve.
type QueryResult struct {
	Success       bool
	Responses     []string
	MessageCount  int
	OriginalQuery string
	Error         string
}

// Agent forwards sanitized chat input to the remote completion provider
// and normalizes the reply. It is stateless per call; the provider
// client handle is long-lived and shared read-only across requests.
type Agent struct {
	client agentclient.Client
	logger *zap.Logger
}

// New constructs an agent from configuration. Missing endpoint or access
// key yields models.ErrAgentUnavailable rather than a partial agent.
func New(cfg config.AgentConfig, logger *zap.Logger) (*Agent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: AGENT_ENDPOINT is not set", models.ErrAgentUnavailable)
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("%w: AGENT_ACCESS_KEY is not set", models.ErrAgentUnavailable)
	}

	logger.Info("ai agent initialized")

	return &Agent{
		client: agentclient.NewClient(cfg.Endpoint, cfg.AccessKey),
		logger: logger,
	}, nil
}

// NewWithClient wires an agent over an existing provider client.
func NewWithClient(client agentclient.Client, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{client: client, logger: logger}
}

// Healthy reports whether the underlying client handle is initialized.
func (a *Agent) Healthy() bool {
	return a != nil && a.client != nil
}

// Query validates and sanitizes the input, dispatches it as a single
// user-role message and collects every non-empty completion choice.
func (a *Agent) Query(ctx context.Context, input string, includeRetrieval bool) QueryResult {
	if !a.validateInput(input) {
		return QueryResult{
			Success: false,
			Error:   "Invalid input. Please provide a valid question.",
		}
	}

	sanitized := sanitizeInput(input)

	a.logger.Info("sending query to ai agent", zap.String("query", echoQuery(sanitized)))

	resp, err := a.client.CreateCompletion(ctx, agentclient.CompletionRequest{
		Messages: []agentclient.Message{
			{Role: "user", Content: sanitized},
		},
		IncludeRetrievalInfo: includeRetrieval,
	})
	if err != nil {
		a.logger.Error("ai agent query failed", zap.Error(err))
		return QueryResult{
			Success:       false,
			OriginalQuery: echoQuery(sanitized),
			Error:         fmt.Sprintf("Failed to process query: %s", err),
		}
	}

	var responses []string
	for _, choice := range resp.Choices {
		if choice.Message.Content != "" {
			responses = append(responses, choice.Message.Content)
		}
	}

	a.logger.Info("ai agent query completed", zap.Int("responses", len(responses)))

	return QueryResult{
		Success:       true,
		Responses:     responses,
		MessageCount:  len(responses),
		OriginalQuery: echoQuery(sanitized),
	}
}

// validateInput rejects empty, over-length and denylisted input.
// Over-length input is rejected outright, never truncated.
func (a *Agent) validateInput(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}

	if len([]rune(input)) > maxInputLength {
		a.logger.Warn("input exceeds maximum length", zap.Int("length", len(input)))
		return false
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			a.logger.Warn("potentially dangerous pattern detected", zap.String("pattern", pattern))
			return false
		}
	}

	return true
}

// sanitizeInput trims whitespace, caps the length and strips control
// characters except newline and tab.
func sanitizeInput(input string) string {
	trimmed := []rune(strings.TrimSpace(input))
	if len(trimmed) > maxInputLength {
		trimmed = trimmed[:maxInputLength]
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if r >= 32 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// echoQuery returns the first 100 characters of the sanitized query,
// with an ellipsis when longer.
func echoQuery(sanitized string) string {
	runes := []rune(sanitized)
	if len(runes) <= queryEchoLimit {
		return sanitized
	}
	return string(runes[:queryEchoLimit]) + "..."
}
