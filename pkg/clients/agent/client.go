package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiPathSuffix   = "/api/v1"
	completionsPath = "/chat/completions"

	// The provider routes to its configured default model.
	defaultModel = "n/a"

	requestTimeout = 30 * time.Second
)

// Client exposes the chat-completion operation used by the relay.
type Client interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// APIClient is a resty-backed implementation of Client against an
// OpenAI-compatible chat-completion endpoint.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an agent API client. baseURL is the provider root;
// the versioned API path is appended here.
func NewClient(baseURL, accessKey string) *APIClient {
	base := strings.TrimSuffix(baseURL, "/") + apiPathSuffix

	restyClient := resty.New().
		SetBaseURL(base).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", accessKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(requestTimeout)

	return &APIClient{httpClient: restyClient}
}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest mirrors the chat-completion wire contract.
type CompletionRequest struct {
	Model                string    `json:"model"`
	Messages             []Message `json:"messages"`
	IncludeRetrievalInfo bool      `json:"include_retrieval_info,omitempty"`
}

// Choice is one completion alternative returned by the provider.
type Choice struct {
	Message Message `json:"message"`
}

// CompletionResponse mirrors the provider's successful reply.
type CompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// apiError represents the provider's error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// CreateCompletion sends a single completion request. There is no retry
// and no streaming; a hung provider is bounded only by the client timeout.
func (c *APIClient) CreateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		req.Model = defaultModel
	}

	result := new(CompletionResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post(completionsPath)
	if err != nil {
		return nil, fmt.Errorf("agent completion request: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		if message == "" {
			message = resp.Status()
		}
		return nil, fmt.Errorf("agent api error: status=%d, message=%s", resp.StatusCode(), message)
	}

	return result, nil
}
