package models

import "errors"

// Domain outcomes surfaced by the repository and relay layers. The HTTP
// handlers translate these to status codes.
var (
	// ErrNotFound indicates an unknown natural key on read, update or delete.
	ErrNotFound = errors.New("bird not found")

	// ErrDuplicateBirdID indicates a create with an already registered bird_id.
	ErrDuplicateBirdID = errors.New("bird with this ID already exists")

	// ErrAgentUnavailable indicates the remote AI provider is misconfigured
	// or could not be initialized.
	ErrAgentUnavailable = errors.New("AI agent service is currently unavailable")
)
