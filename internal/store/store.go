// Package store persists weld-count run summaries so estimators can compare
// revisions of a project over time.
package store

import (
	"context"

	"github.com/sells-group/weldcount/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Project string `json:"project,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for count runs.
type Store interface {
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
