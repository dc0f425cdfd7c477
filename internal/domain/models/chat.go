package models

import "time"

// ChatRequest is the inbound payload for the chat relay. SessionID is an
// opaque passthrough used only for logging; IncludeRetrieval defaults to
// true when omitted.
type ChatRequest struct {
	Message          string `json:"message" binding:"required"`
	IncludeRetrieval *bool  `json:"include_retrieval"`
	SessionID        string `json:"session_id"`
}

// WantsRetrieval reports whether retrieval metadata should be requested
// from the provider.
func (r ChatRequest) WantsRetrieval() bool {
	return r.IncludeRetrieval == nil || *r.IncludeRetrieval
}

// ChatResponse is the envelope returned by the chat endpoint. Provider
// failures appear here as success=false rather than as HTTP errors.
type ChatResponse struct {
	Success        bool      `json:"success"`
	Responses      []string  `json:"responses,omitempty"`
	MessageCount   int       `json:"message_count"`
	OriginalQuery  string    `json:"original_query,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ProcessingTime float64   `json:"processing_time"`
}

// HealthResponse reports chat relay availability. The endpoint always
// answers 200; the body carries the actual status.
type HealthResponse struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	AIAgentAvailable bool      `json:"ai_agent_available"`
	Version          string    `json:"version"`
}
