package controller

import (
	"strconv"

	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/pkg/serverutils"
	"ai-tutor-be/internal/service"
	internalWS "ai-tutor-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type ITutorController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetMistakes(ctx *fiber.Ctx) error
	DeleteMistake(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type tutorController struct {
	service service.ITutorService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewTutorController(service service.ITutorService, hub *internalWS.Hub, log logger.ILogger) ITutorController {
	return &tutorController{service: service, hub: hub, logger: log}
}

func (c *tutorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tutor/v1")
	h.Post("/session", c.CreateSession)
	h.Get("/session", c.GetAllSessions)
	h.Get("/session/:id/history", c.GetChatHistory)
	h.Delete("/session", c.DeleteSession)
	h.Post("/chat", c.SendChat)
	h.Get("/mistakes", c.GetMistakes)
	h.Delete("/mistakes/:id", c.DeleteMistake)
	h.Get("/ws/:sessionId", c.ServeWs)
}

func (c *tutorController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *tutorController) GetAllSessions(ctx *fiber.Ctx) error {
	res, err := c.service.GetAllSessions(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *tutorController) GetChatHistory(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.GetChatHistory(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *tutorController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *tutorController) DeleteSession(ctx *fiber.Ctx) error {
	var req dto.DeleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.DeleteSession(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *tutorController) GetMistakes(ctx *fiber.Ctx) error {
	var sessionId *uuid.UUID
	if raw := ctx.Query("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid session_id")
		}
		sessionId = &id
	}

	res, err := c.service.GetMistakes(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get mistakes", res))
}

func (c *tutorController) DeleteMistake(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid mistake id")
	}

	if err := c.service.DeleteMistake(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete mistake", nil))
}

// ServeWs upgrades the connection and attaches the client to the session's
// event stream.
func (c *tutorController) ServeWs(ctx *fiber.Ctx) error {
	sessionID, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		hub := c.hub
		log := c.logger
		return websocket.New(func(conn *websocket.Conn) {
			log.Info("TutorController", "Starting WebSocket session", map[string]interface{}{"chat_session_id": sessionID})
			internalWS.ServeWs(hub, conn, sessionID)
			log.Info("TutorController", "WebSocket session ended", map[string]interface{}{"chat_session_id": sessionID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
