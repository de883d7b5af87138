package types

import "github.com/google/uuid"

// RunID is a UUID-based identifier for a single analysis run
type RunID string

// NewRunID generates a new UUID v4 RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// RunState represents the externally visible state of the engine
type RunState string

const (
	RunStateIdle     RunState = "idle"
	RunStateRunning  RunState = "running"
	RunStateComplete RunState = "complete"
)
