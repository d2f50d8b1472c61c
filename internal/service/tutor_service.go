package service

import (
	"context"
	"encoding/base64"
	"sort"
	"strings"
	"time"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/mapper"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/memory"
	"ai-tutor-be/pkg/llm"
	"ai-tutor-be/pkg/transcript"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const sessionTitleMaxRunes = 50

// ITutorService defines the tutoring service interface
type ITutorService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error
	GetMistakes(ctx context.Context, sessionId *uuid.UUID) ([]dto.MistakeRecordDTO, error)
	DeleteMistake(ctx context.Context, id int64) error
}

type tutorService struct {
	sessionRepo *memory.SessionRepository
	mistakeRepo *memory.MistakeRepository
	llmProvider llm.LLMProvider
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewTutorService(
	sessionRepo *memory.SessionRepository,
	mistakeRepo *memory.MistakeRepository,
	llmProvider llm.LLMProvider,
	publisher IPublisherService,
	log logger.ILogger,
) ITutorService {
	return &tutorService{
		sessionRepo: sessionRepo,
		mistakeRepo: mistakeRepo,
		llmProvider: llmProvider,
		publisher:   publisher,
		logger:      log,
	}
}

// CreateSession creates a new tutoring session seeded with the greeting turn.
func (ts *tutorService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	now := time.Now()

	chatSession := &entity.ChatSession{
		Id:        uuid.New(),
		Title:     "Unnamed session",
		CreatedAt: now,
	}
	chatSession.Messages = []*entity.ChatMessage{
		{
			Id:            uuid.New(),
			Chat:          constant.SessionGreetingMessage,
			Role:          constant.ChatMessageRoleModel,
			ChatSessionId: chatSession.Id,
			CreatedAt:     now,
		},
	}

	ts.sessionRepo.Save(chatSession)

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions retrieves all sessions, newest first.
func (ts *tutorService) GetAllSessions(ctx context.Context) ([]dto.GetAllSessionsResponse, error) {
	sessions := ts.sessionRepo.All()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	response := make([]dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, mapper.ToSessionResponse(s))
	}
	return response, nil
}

// GetChatHistory retrieves the transcript for a session in stored order.
func (ts *tutorService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error) {
	session, found := ts.sessionRepo.Get(sessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}
	return mapper.ToChatHistoryResponse(session.Messages), nil
}

// SendChat processes a student turn and returns the parsed model reply.
//
// A session accepts one outstanding request at a time; a send that arrives
// while another is in flight is rejected with ErrSessionBusy and leaves no
// trace in the transcript.
func (ts *tutorService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionIdStr := request.ChatSessionId.String()

	session, found := ts.sessionRepo.Get(sessionIdStr)
	if !found {
		return nil, ErrSessionNotFound
	}

	if !ts.sessionRepo.TryAcquire(sessionIdStr) {
		return nil, ErrSessionBusy
	}
	defer ts.sessionRepo.Release(sessionIdStr)

	now := time.Now()
	updateSessionTitle := len(session.Messages) <= 1

	userMessage := ts.buildUserMessage(request, now)

	// Encode prior turns plus the outgoing one for the provider.
	history := make([]transcript.Turn, 0, len(session.Messages))
	for _, msg := range session.Messages {
		history = append(history, transcript.Turn{
			Role:      msg.Role,
			Text:      msg.Chat,
			ImageMime: msg.ImageMime,
			ImageData: msg.Image,
		})
	}
	outgoing := transcript.Turn{
		Role:      userMessage.Role,
		Text:      userMessage.Chat,
		ImageMime: userMessage.ImageMime,
		ImageData: userMessage.Image,
	}
	encoded := transcript.EncodeHistory(history, outgoing)

	reply, err := ts.llmProvider.Chat(ctx, constant.TutorSystemInstructionV1, encoded)
	if err != nil {
		// The turn still lands in the transcript; the student can retry by
		// just sending again.
		ts.logger.Error("Tutor", "Model call failed", map[string]interface{}{
			"chat_session_id": sessionIdStr,
			"error":           err.Error(),
		})
		reply = constant.FallbackReplyMessage
	}

	parsed := transcript.ParseReply(reply)

	modelMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          parsed.Display,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: request.ChatSessionId,
		CreatedAt:     time.Now(),
	}

	if !ts.sessionRepo.AppendMessages(sessionIdStr, userMessage, modelMessage) {
		// Session expired while the model call was in flight.
		return nil, ErrSessionNotFound
	}

	if updateSessionTitle {
		ts.sessionRepo.SetTitle(sessionIdStr, sessionTitleFrom(request.Chat))
	}

	var mistakeDTO *dto.MistakeRecordDTO
	if parsed.Mistake != nil {
		record := ts.recordMistake(session.Id, userMessage, parsed.Mistake)
		d := mapper.ToMistakeRecordDTO(record)
		mistakeDTO = &d
	}

	title := session.Title
	if current, ok := ts.sessionRepo.Get(sessionIdStr); ok {
		title = current.Title
	}

	sent := mapper.ToChatMessageDTO(userMessage)
	replyDTO := mapper.ToChatMessageDTO(modelMessage)

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: title,
		Sent:             &sent,
		Reply:            &replyDTO,
		Mistake:          mistakeDTO,
	}, nil
}

// buildUserMessage assembles the student turn. The image arrives base64
// encoded; bytes that do not decode are dropped so the text still goes
// through. A missing MIME type is sniffed from the decoded bytes.
func (ts *tutorService) buildUserMessage(request *dto.SendChatRequest, now time.Time) *entity.ChatMessage {
	msg := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: request.ChatSessionId,
		CreatedAt:     now,
	}

	if request.Image == nil {
		return msg
	}

	data, err := base64.StdEncoding.DecodeString(request.Image.Data)
	if err != nil {
		ts.logger.Warn("Tutor", "Dropping image that failed to decode", map[string]interface{}{
			"chat_session_id": request.ChatSessionId,
			"error":           err.Error(),
		})
		return msg
	}

	mime := request.Image.MimeType
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}

	msg.Image = data
	msg.ImageMime = mime
	return msg
}

func (ts *tutorService) recordMistake(sessionId uuid.UUID, userMessage *entity.ChatMessage, payload *transcript.MistakePayload) *entity.MistakeRecord {
	record := ts.mistakeRepo.Create(&entity.MistakeRecord{
		ChatSessionId: sessionId,
		Question:      userMessage.Chat,
		Image:         userMessage.Image,
		ImageMime:     userMessage.ImageMime,
		Topic:         payload.Topic,
		Reason:        payload.Reason,
		Advice:        payload.Advice,
	})

	if err := ts.publisher.PublishMistakeRecorded(&dto.MistakeRecordedMessage{
		RecordId:      record.Id,
		ChatSessionId: sessionId,
		Topic:         record.Topic,
	}); err != nil {
		// The record is already archived; delivery is best effort.
		ts.logger.Error("Tutor", "Failed to publish mistake event", map[string]interface{}{
			"record_id": record.Id,
			"error":     err.Error(),
		})
	}

	return record
}

// DeleteSession removes a session and its transcript. Archived mistake
// records survive the deletion.
func (ts *tutorService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error {
	sessionIdStr := request.ChatSessionId.String()
	if _, found := ts.sessionRepo.Get(sessionIdStr); !found {
		return ErrSessionNotFound
	}
	ts.sessionRepo.Delete(sessionIdStr)
	return nil
}

// GetMistakes lists archived mistake records in generation order, optionally
// scoped to one session.
func (ts *tutorService) GetMistakes(ctx context.Context, sessionId *uuid.UUID) ([]dto.MistakeRecordDTO, error) {
	var records []*entity.MistakeRecord
	if sessionId != nil {
		records = ts.mistakeRepo.AllBySession(*sessionId)
	} else {
		records = ts.mistakeRepo.All()
	}
	return mapper.ToMistakeRecordDTOs(records), nil
}

func (ts *tutorService) DeleteMistake(ctx context.Context, id int64) error {
	if !ts.mistakeRepo.Delete(id) {
		return ErrMistakeNotFound
	}
	return nil
}

func sessionTitleFrom(chat string) string {
	title := strings.TrimSpace(chat)
	if title == "" {
		return "Photo question"
	}
	runes := []rune(title)
	if len(runes) > sessionTitleMaxRunes {
		return string(runes[:sessionTitleMaxRunes]) + "..."
	}
	return title
}
