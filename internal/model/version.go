package model

import (
	"time"
)

// EAModelVersion represents an immutable code snapshot of an EA model
type EAModelVersion struct {
	ID        int       `json:"id" db:"id"`
	ModelID   int       `json:"model_id" db:"model_id"`
	Code      string    `json:"code" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// VersionCreate represents data needed to save a new version
type VersionCreate struct {
	Code string `json:"code"`
}

// RollbackRequest identifies the version to roll a model back to
type RollbackRequest struct {
	VersionID int `json:"versionId" binding:"required"`
}
