package transcript

import (
	"ai-tutor-be/pkg/llm"
)

// Turn is one transcript entry handed to the history encoder.
type Turn struct {
	Role      string
	Text      string
	ImageMime string
	ImageData []byte
}

// EncodeHistory turns the ordered prior messages plus the new outgoing turn
// into provider messages, preserving role order exactly as stored. Each turn
// contributes one part per non-empty field, image before text. Mistake-record
// markup is stripped from every text so the model is never shown its own
// side-channel output. A turn whose image lacks data or a resolvable MIME
// type degrades silently to text-only; a turn left with no parts at all is
// skipped.
func EncodeHistory(history []Turn, outgoing Turn) []llm.Message {
	turns := make([]Turn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, outgoing)

	messages := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		msg := llm.Message{
			Role: turn.Role,
			Text: StripMistakeMarkup(turn.Text),
		}
		if len(turn.ImageData) > 0 && turn.ImageMime != "" {
			msg.Image = &llm.ImageData{
				MimeType: turn.ImageMime,
				Data:     turn.ImageData,
			}
		}
		if msg.Text == "" && msg.Image == nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}
