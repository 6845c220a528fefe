// Package history defines finished-command records and the bounded,
// most-recent-first collection that holds them.
package history

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of records kept when no limit is configured.
const DefaultLimit = 100

// Record is a command observed through shell-integration marks. Records are
// immutable once created.
type Record struct {
	ID         string     `json:"id"`
	Command    *string    `json:"command,omitempty"` // not always available
	ExitCode   *int32     `json:"exit_code,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Session    string     `json:"session,omitempty"`
}

// NewFinished creates a record for a command that finished at finishedAt with
// the given exit code.
func NewFinished(command *string, exitCode int32, startedAt, finishedAt time.Time) Record {
	return Record{
		ID:         uuid.NewString(),
		Command:    command,
		ExitCode:   &exitCode,
		StartedAt:  startedAt,
		FinishedAt: &finishedAt,
	}
}

// Duration returns how long the command ran. ok is false while the record has
// no finish time.
func (r Record) Duration() (d time.Duration, ok bool) {
	if r.FinishedAt == nil {
		return 0, false
	}
	return r.FinishedAt.Sub(r.StartedAt), true
}

// Failed returns true if the command exited with a non-zero exit code.
func (r Record) Failed() bool {
	return r.ExitCode != nil && *r.ExitCode != 0
}

// CommandString returns the command text, or an empty string when unknown.
func (r Record) CommandString() string {
	if r.Command == nil {
		return ""
	}
	return *r.Command
}
