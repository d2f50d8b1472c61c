package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ImagePayload carries an inline image on a chat request, base64-encoded.
// MimeType may be omitted; the server sniffs it from the decoded bytes.
type ImagePayload struct {
	Data     string `json:"data" validate:"required"`
	MimeType string `json:"mime_type,omitempty"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID     `json:"chat_session_id" validate:"required"`
	Chat          string        `json:"chat"`
	Image         *ImagePayload `json:"image,omitempty"`
}

// MathSegmentDTO is one independently renderable piece of prose. Math
// segments carry the inner source in Body; text segments carry only Source.
type MathSegmentDTO struct {
	Kind   string `json:"kind"` // "text" | "inline_math" | "block_math"
	Source string `json:"source"`
	Body   string `json:"body,omitempty"`
}

// FragmentDTO is one renderable piece of a model reply.
type FragmentDTO struct {
	Kind     string           `json:"kind"` // "prose" | "exam"
	Content  string           `json:"content"`
	Segments []MathSegmentDTO `json:"segments,omitempty"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Chat      string        `json:"chat"`
	CreatedAt time.Time     `json:"created_at"`
	HasImage  bool          `json:"has_image"`
	Fragments []FragmentDTO `json:"fragments,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID         `json:"chat_session_id"`
	ChatSessionTitle string            `json:"title"`
	Sent             *ChatMessageDTO   `json:"sent"`
	Reply            *ChatMessageDTO   `json:"reply"`
	Mistake          *MistakeRecordDTO `json:"mistake,omitempty"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Chat      string        `json:"chat"`
	CreatedAt time.Time     `json:"created_at"`
	HasImage  bool          `json:"has_image"`
	Fragments []FragmentDTO `json:"fragments,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

type MistakeRecordDTO struct {
	Id            int64     `json:"id"`
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	CreatedAt     time.Time `json:"created_at"`
	Question      string    `json:"question"`
	HasImage      bool      `json:"has_image"`
	Topic         string    `json:"topic"`
	Reason        string    `json:"reason"`
	Advice        string    `json:"advice"`
}

// MistakeRecordedMessage is the event payload published when a reply yields
// a new mistake record.
type MistakeRecordedMessage struct {
	RecordId      int64     `json:"record_id"`
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	Topic         string    `json:"topic"`
}
