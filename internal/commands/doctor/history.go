package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/tenrec/internal/core/history"
)

// HistoryFile is a history store backed by a single file.
type HistoryFile interface {
	List(ctx context.Context) ([]history.Record, error)
	Path() string
}

// HistoryCheck verifies the persisted command history can be read.
type HistoryCheck struct {
	store HistoryFile
}

// NewHistoryCheck creates a history file check.
func NewHistoryCheck(store HistoryFile) *HistoryCheck {
	return &HistoryCheck{store: store}
}

func (c *HistoryCheck) Name() string {
	return "History"
}

func (c *HistoryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	records, err := c.store.List(ctx)
	if err != nil {
		result.add(fail("History file", err.Error()))
		return result
	}

	failed := 0
	for _, rec := range records {
		if rec.Failed() {
			failed++
		}
	}

	result.add(pass("History file",
		fmt.Sprintf("%s (%d record(s), %d failed)", c.store.Path(), len(records), failed)))
	return result
}
