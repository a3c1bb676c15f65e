package services

import "errors"

// Service-level errors, mapped to API errors by the transport layer.
var (
	// ErrInvalidPatch means a patch merged into a tree the session state
	// shape cannot absorb.
	ErrInvalidPatch = errors.New("patch does not fit session state shape")

	// ErrAgentDisabled means no agent provider is configured.
	ErrAgentDisabled = errors.New("agent is not configured")
)
