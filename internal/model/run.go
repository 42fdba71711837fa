package model

import "time"

// RunStatus is the lifecycle state of a persisted count run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusPartial  RunStatus = "partial" // some branches dropped, tally still valid
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted weld-count execution, kept so estimators can compare
// revisions of the same project over time.
type Run struct {
	ID        string     `json:"id"`
	Project   string     `json:"project"`
	Listings  []string   `json:"listings"`
	SpecTable string     `json:"spec_table"`
	Status    RunStatus  `json:"status"`
	Tally     *WeldTally `json:"tally,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
