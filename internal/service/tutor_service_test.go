package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/repository/memory"
	"ai-tutor-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns a scripted reply and records what it was asked.
type fakeProvider struct {
	reply    string
	err      error
	lastSent []llm.Message
	calls    int
}

func (f *fakeProvider) Chat(ctx context.Context, system string, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	f.lastSent = history
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakePublisher struct {
	published []*dto.MistakeRecordedMessage
}

func (f *fakePublisher) PublishMistakeRecorded(payload *dto.MistakeRecordedMessage) error {
	f.published = append(f.published, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestService(provider *fakeProvider) (ITutorService, *memory.SessionRepository, *memory.MistakeRepository, *fakePublisher) {
	sessions := memory.NewSessionRepository()
	mistakes := memory.NewMistakeRepository()
	publisher := &fakePublisher{}
	svc := NewTutorService(sessions, mistakes, provider, publisher, nopLogger{})
	return svc, sessions, mistakes, publisher
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	svc, sessions, _, _ := newTestService(&fakeProvider{reply: "hi"})

	res, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	session, found := sessions.Get(res.Id.String())
	require.True(t, found)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, constant.ChatMessageRoleModel, session.Messages[0].Role)
	assert.Equal(t, constant.SessionGreetingMessage, session.Messages[0].Chat)
}

func TestSendChatAppendsBothTurns(t *testing.T) {
	provider := &fakeProvider{reply: "The derivative of $x^2$ is $2x$."}
	svc, sessions, _, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "What is the derivative of x^2?",
	})
	require.NoError(t, err)

	assert.Equal(t, "What is the derivative of x^2?", res.Sent.Chat)
	assert.Equal(t, provider.reply, res.Reply.Chat)
	assert.Nil(t, res.Mistake)

	session, _ := sessions.Get(created.Id.String())
	require.Len(t, session.Messages, 3) // greeting + user + model
	assert.Equal(t, constant.ChatMessageRoleUser, session.Messages[1].Role)
	assert.Equal(t, constant.ChatMessageRoleModel, session.Messages[2].Role)

	// Reply fragments carry the math segmentation.
	require.Len(t, res.Reply.Fragments, 1)
	assert.Equal(t, "prose", res.Reply.Fragments[0].Kind)
	assert.NotEmpty(t, res.Reply.Fragments[0].Segments)
}

func TestSendChatUnknownSession(t *testing.T) {
	svc, _, _, _ := newTestService(&fakeProvider{reply: "hi"})

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: uuid.New(),
		Chat:          "hello",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendChatBusySessionRejected(t *testing.T) {
	provider := &fakeProvider{reply: "hi"}
	svc, sessions, _, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	// Simulate an in-flight request.
	require.True(t, sessions.TryAcquire(created.Id.String()))

	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "second question",
	})
	assert.ErrorIs(t, err, ErrSessionBusy)

	// The rejected send left no trace.
	assert.Equal(t, 0, provider.calls)
	session, _ := sessions.Get(created.Id.String())
	assert.Len(t, session.Messages, 1)

	// Once released, the same send goes through.
	sessions.Release(created.Id.String())
	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "second question",
	})
	assert.NoError(t, err)
}

func TestSendChatRecordsMistake(t *testing.T) {
	provider := &fakeProvider{
		reply: `Close, but the sign flips.<mistake_record>{"topic": "negative numbers", "reason": "Dropped the minus sign.", "advice": "Track signs separately."}</mistake_record>`,
	}
	svc, _, mistakes, publisher := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "-3 - 4 = 1?",
	})
	require.NoError(t, err)

	// Markup never reaches the student.
	assert.Equal(t, "Close, but the sign flips.", res.Reply.Chat)

	require.NotNil(t, res.Mistake)
	assert.Equal(t, int64(1), res.Mistake.Id)
	assert.Equal(t, "negative numbers", res.Mistake.Topic)
	assert.Equal(t, "-3 - 4 = 1?", res.Mistake.Question)

	records := mistakes.All()
	require.Len(t, records, 1)
	assert.Equal(t, created.Id, records[0].ChatSessionId)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, int64(1), publisher.published[0].RecordId)
}

func TestSendChatFallbackOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream timeout")}
	svc, sessions, mistakes, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "hello?",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.FallbackReplyMessage, res.Reply.Chat)
	assert.Empty(t, mistakes.All())

	// Both turns still land so the student can retry in context.
	session, _ := sessions.Get(created.Id.String())
	assert.Len(t, session.Messages, 3)
}

func TestSendChatImageDecoding(t *testing.T) {
	provider := &fakeProvider{reply: "Nice photo."}
	svc, sessions, _, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	// Tiny PNG header; enough for MIME sniffing.
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "what is this?",
		Image:         &dto.ImagePayload{Data: base64.StdEncoding.EncodeToString(png)},
	})
	require.NoError(t, err)

	session, _ := sessions.Get(created.Id.String())
	userTurn := session.Messages[1]
	assert.Equal(t, png, userTurn.Image)
	assert.Equal(t, "image/png", userTurn.ImageMime)

	// The provider saw an image part on the outgoing turn.
	last := provider.lastSent[len(provider.lastSent)-1]
	require.NotNil(t, last.Image)
	assert.Equal(t, "image/png", last.Image.MimeType)
}

func TestSendChatBadImageDropped(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	svc, sessions, _, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "text survives",
		Image:         &dto.ImagePayload{Data: "not-base64!!!"},
	})
	require.NoError(t, err)

	session, _ := sessions.Get(created.Id.String())
	userTurn := session.Messages[1]
	assert.Empty(t, userTurn.Image)
	assert.Equal(t, "text survives", userTurn.Chat)
}

func TestSendChatSetsTitleOnFirstExchange(t *testing.T) {
	provider := &fakeProvider{reply: "sure"}
	svc, sessions, _, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "Explain photosynthesis",
	})
	require.NoError(t, err)
	assert.Equal(t, "Explain photosynthesis", res.ChatSessionTitle)

	// A second exchange keeps the original title.
	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "And respiration?",
	})
	require.NoError(t, err)
	session, _ := sessions.Get(created.Id.String())
	assert.Equal(t, "Explain photosynthesis", session.Title)
}

func TestDeleteSessionKeepsMistakes(t *testing.T) {
	provider := &fakeProvider{
		reply: `No.<mistake_record>{"topic": "fractions", "reason": "Added denominators.", "advice": "Find a common denominator first."}</mistake_record>`,
	}
	svc, _, mistakes, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "1/2 + 1/3 = 2/5?",
	})
	require.NoError(t, err)

	err = svc.DeleteSession(context.Background(), &dto.DeleteSessionRequest{ChatSessionId: created.Id})
	require.NoError(t, err)

	_, err = svc.GetChatHistory(context.Background(), created.Id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The archive is session independent.
	assert.Len(t, mistakes.All(), 1)
}

func TestGetMistakesFilteredBySession(t *testing.T) {
	provider := &fakeProvider{
		reply: `Hm.<mistake_record>{"topic": "algebra", "reason": "Moved the term without flipping the sign.", "advice": "Apply the inverse operation to both sides."}</mistake_record>`,
	}
	svc, _, _, _ := newTestService(provider)

	first, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	second, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	for _, s := range []*dto.CreateSessionResponse{first, second} {
		_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
			ChatSessionId: s.Id,
			Chat:          "x + 2 = 5 so x = 7?",
		})
		require.NoError(t, err)
	}

	all, err := svc.GetMistakes(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Generation order, ids never reused.
	assert.Equal(t, int64(1), all[0].Id)
	assert.Equal(t, int64(2), all[1].Id)

	scoped, err := svc.GetMistakes(context.Background(), &second.Id)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, second.Id, scoped[0].ChatSessionId)
}

func TestDeleteMistake(t *testing.T) {
	provider := &fakeProvider{
		reply: `No.<mistake_record>{"topic": "geometry", "reason": "Used diameter as radius.", "advice": "Halve the diameter first."}</mistake_record>`,
	}
	svc, _, _, _ := newTestService(provider)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	_, err = svc.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "Area of circle with d=4 is 16pi?",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMistake(context.Background(), 1))
	assert.ErrorIs(t, svc.DeleteMistake(context.Background(), 1), ErrMistakeNotFound)

	remaining, err := svc.GetMistakes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
