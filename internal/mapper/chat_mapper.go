package mapper

import (
	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/pkg/transcript"
)

func ToSessionResponse(session *entity.ChatSession) dto.GetAllSessionsResponse {
	return dto.GetAllSessionsResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

// ToChatMessageDTO maps a transcript entry for delivery. Model turns are
// re-parsed so the client receives render-ready fragments; user turns stay
// plain.
func ToChatMessageDTO(message *entity.ChatMessage) dto.ChatMessageDTO {
	out := dto.ChatMessageDTO{
		Id:        message.Id,
		Role:      message.Role,
		Chat:      message.Chat,
		CreatedAt: message.CreatedAt,
		HasImage:  len(message.Image) > 0,
	}
	if message.Role == constant.ChatMessageRoleModel {
		out.Fragments = ToFragmentDTOs(transcript.ParseReply(message.Chat).Fragments)
	}
	return out
}

func ToChatHistoryResponse(messages []*entity.ChatMessage) []dto.GetChatHistoryResponse {
	out := make([]dto.GetChatHistoryResponse, 0, len(messages))
	for _, message := range messages {
		m := ToChatMessageDTO(message)
		out = append(out, dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Chat:      m.Chat,
			CreatedAt: m.CreatedAt,
			HasImage:  m.HasImage,
			Fragments: m.Fragments,
		})
	}
	return out
}

func ToFragmentDTOs(fragments []transcript.Fragment) []dto.FragmentDTO {
	out := make([]dto.FragmentDTO, 0, len(fragments))
	for _, fragment := range fragments {
		out = append(out, dto.FragmentDTO{
			Kind:     string(fragment.Kind),
			Content:  fragment.Content,
			Segments: toMathSegmentDTOs(fragment.Segments),
		})
	}
	return out
}

func toMathSegmentDTOs(segments []transcript.Segment) []dto.MathSegmentDTO {
	if len(segments) == 0 {
		return nil
	}
	out := make([]dto.MathSegmentDTO, 0, len(segments))
	for _, segment := range segments {
		out = append(out, dto.MathSegmentDTO{
			Kind:   string(segment.Kind),
			Source: segment.Source,
			Body:   segment.Body,
		})
	}
	return out
}

func ToMistakeRecordDTO(record *entity.MistakeRecord) dto.MistakeRecordDTO {
	return dto.MistakeRecordDTO{
		Id:            record.Id,
		ChatSessionId: record.ChatSessionId,
		CreatedAt:     record.CreatedAt,
		Question:      record.Question,
		HasImage:      len(record.Image) > 0,
		Topic:         record.Topic,
		Reason:        record.Reason,
		Advice:        record.Advice,
	}
}

func ToMistakeRecordDTOs(records []*entity.MistakeRecord) []dto.MistakeRecordDTO {
	out := make([]dto.MistakeRecordDTO, 0, len(records))
	for _, record := range records {
		out = append(out, ToMistakeRecordDTO(record))
	}
	return out
}
