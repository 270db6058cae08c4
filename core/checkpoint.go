package core

import "time"

// Checkpoint records the last successful import of a seed source.
// Importers compare Digest with the current content to skip unchanged files.
type Checkpoint struct {
	Source    string    `json:"source"`
	Digest    string    `json:"digest"`
	Records   int       `json:"records"`
	UpdatedAt time.Time `json:"updatedAt"`
}
