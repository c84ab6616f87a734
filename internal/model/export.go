package model

import (
	"encoding/json"
	"time"
)

// GenerationExport is the top-level JSON structure for a full data export.
type GenerationExport struct {
	ExportedAt time.Time    `json:"exported_at"`
	NumUsers   int          `json:"num_users"`
	Users      []UserExport `json:"users"`
}

// UserExport holds one user's generations for export.
type UserExport struct {
	UserID      string             `json:"user_id"`
	Email       string             `json:"email"`
	JobTitle    string             `json:"job_title"`
	CreatedAt   time.Time          `json:"created_at"`
	Generations []GenerationResult `json:"generations"`
}

// GenerationResult is a single exported generation.
type GenerationResult struct {
	GeneratedOn string          `json:"generated_on"`
	Words       json.RawMessage `json:"words"`
}
