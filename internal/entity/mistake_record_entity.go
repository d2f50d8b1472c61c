package entity

import (
	"time"

	"github.com/google/uuid"
)

// MistakeRecord is one diagnosed student error, extracted from a model reply
// and merged with the originating user turn. Records are append-only; the
// pipeline never mutates or deletes them.
type MistakeRecord struct {
	Id            int64 // generation order, starting at 1
	ChatSessionId uuid.UUID
	CreatedAt     time.Time

	// Originating user turn.
	Question  string
	Image     []byte
	ImageMime string

	// Diagnosis from the model.
	Topic  string
	Reason string
	Advice string
}
