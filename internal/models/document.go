package models

import (
	"time"

	"github.com/google/uuid"
)

// Document readiness states. Quizzes can only be generated over
// documents whose content extraction has completed.
const (
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusError      = "error"
)

// Document is a user upload whose extracted content lives with the AI
// provider. Ingestion and extraction happen outside this service;
// GeminiFileID is the provider-side handle used as grounding context.
type Document struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Filename     string    `json:"filename"`
	Status       string    `json:"status"`
	GeminiFileID string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
