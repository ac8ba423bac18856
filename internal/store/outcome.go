package store

import "time"

// Status describes the result of executing a step.
type Status string

const (
	Success Status = "success"
	Failed  Status = "failed"
	// Skipped marks a gap-filling sentinel written when an outcome is
	// recorded at index i and the version's stored list has no entry yet
	// for some position before i (§4.1: "filling gaps with status Skipped
	// sentinels"). Existing entries are left as they are.
	Skipped Status = "skipped"
)

// Outcome is the recorded result of one pipeline step (§3).
type Outcome struct {
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	Timestamp   time.Time `json:"timestamp"`
	OutputPath  string    `json:"output_path,omitempty"`
	Status      Status    `json:"status"`
}

// packageFile is the on-disk shape of a build-outcome cache file (§6.3).
type packageFile struct {
	Versions map[string][]Outcome `json:"versions"`
}
