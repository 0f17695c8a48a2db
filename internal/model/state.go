package model

import "time"

// RunStatus is the lifecycle state of a checking run.
//
// Allowed transitions:
//
//	idle      -> running
//	running   -> paused | cancelled | completed
//	paused    -> running | cancelled
//
// completed and cancelled are terminal; a new run starts from a fresh state.
type RunStatus string

const (
	StatusIdle      RunStatus = "idle"
	StatusRunning   RunStatus = "running"
	StatusPaused    RunStatus = "paused"
	StatusCancelled RunStatus = "cancelled"
	StatusCompleted RunStatus = "completed"
)

// Terminal reports whether no further transitions are possible.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TypeStats is the per-type slice of a run summary.
type TypeStats struct {
	Checked int `json:"checked"`
	Working int `json:"working"`
}

// Summary aggregates a finished (or cancelled) run.
type Summary struct {
	TotalChecked int                     `json:"total_checked"`
	TotalWorking int                     `json:"total_working"`
	PerType      map[ProxyType]TypeStats `json:"per_type"`
	Elapsed      time.Duration           `json:"elapsed"`
	Status       RunStatus               `json:"status"`
}
