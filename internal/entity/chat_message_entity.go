package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one transcript entry. Immutable once appended.
type ChatMessage struct {
	Id            uuid.UUID
	Chat          string
	Role          string
	ChatSessionId uuid.UUID
	CreatedAt     time.Time

	// Image is the optional attachment of a user turn. When set, ImageMime
	// always resolves to a concrete MIME type.
	Image     []byte
	ImageMime string
}
