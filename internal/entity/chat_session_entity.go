package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession holds one tutoring conversation. Sessions live only in memory;
// everything is lost on restart.
type ChatSession struct {
	Id        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time

	// Busy is true while a model request for this session is in flight.
	// Guarded by the session repository; never written elsewhere.
	Busy bool

	// Messages is the append-only, chronologically ordered transcript.
	Messages []*ChatMessage
}
