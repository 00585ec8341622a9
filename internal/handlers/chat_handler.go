package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"najahtn/orientation-api/internal/middleware"
	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
	"najahtn/orientation-api/internal/services"
)

type ChatHandler struct {
	convService services.ConversationService
}

func NewChatHandler(convService services.ConversationService) *ChatHandler {
	return &ChatHandler{convService: convService}
}

// HandleChat handles POST /chat. Without a conversation id the request opens
// a fresh session whose row is only created once the assistant reply lands;
// retries of the same first message reattach to the created row.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	session, req, ok := h.openSession(c)
	if !ok {
		return nil
	}

	reply, err := h.convService.SendMessage(c.Context(), session, req.Message, req.PageContext)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Assistant is unavailable, please retry",
		})
	}

	return c.JSON(models.ChatResponse{
		ConversationID: session.ConversationID().String(),
		Reply:          reply,
	})
}

// HandleChatStream handles POST /chat/stream, relaying completion chunks as
// server-sent events. The final event carries the conversation id.
func (h *ChatHandler) HandleChatStream(c *fiber.Ctx) error {
	session, req, ok := h.openSession(c)
	if !ok {
		return nil
	}

	stream, err := h.convService.StreamMessage(c.Context(), session, req.Message, req.PageContext)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Assistant is unavailable, please retry",
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for chunk := range stream {
			if chunk.Err != nil {
				writeEvent(w, "error", fiber.Map{"error": chunk.Err.Error()})
				return
			}
			if chunk.Done {
				writeEvent(w, "done", fiber.Map{
					"conversation_id": session.ConversationID().String(),
				})
				return
			}
			writeEvent(w, "chunk", fiber.Map{"text": chunk.Text})
		}
	}))
	return nil
}

// HandleListConversations handles GET /conversations
func (h *ChatHandler) HandleListConversations(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	summaries, err := h.convService.ListConversations(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list conversations",
		})
	}
	return c.JSON(fiber.Map{"conversations": summaries})
}

// HandleGetConversation handles GET /conversations/:id
func (h *ChatHandler) HandleGetConversation(c *fiber.Ctx) error {
	userID, convID, ok := h.conversationParams(c)
	if !ok {
		return nil
	}

	session, err := h.convService.ResumeSession(userID, convID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversation",
		})
	}

	type messageOut struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	msgs := make([]messageOut, 0, len(session.Transcript()))
	for _, m := range session.Transcript() {
		msgs = append(msgs, messageOut{Role: string(m.Role), Content: m.Content})
	}
	return c.JSON(fiber.Map{
		"conversation_id": convID.String(),
		"messages":        msgs,
	})
}

// HandleToggleFullscreen handles PATCH /conversations/:id/fullscreen
func (h *ChatHandler) HandleToggleFullscreen(c *fiber.Ctx) error {
	userID, convID, ok := h.conversationParams(c)
	if !ok {
		return nil
	}

	var body struct {
		IsFullscreen bool `json:"is_fullscreen"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.convService.SetFullscreen(userID, convID, body.IsFullscreen); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update conversation",
		})
	}
	return c.JSON(fiber.Map{"is_fullscreen": body.IsFullscreen})
}

// HandleDeleteConversation handles DELETE /conversations/:id
func (h *ChatHandler) HandleDeleteConversation(c *fiber.Ctx) error {
	userID, convID, ok := h.conversationParams(c)
	if !ok {
		return nil
	}

	session, err := h.convService.ResumeSession(userID, convID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversation",
		})
	}

	if err := h.convService.Delete(session); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete conversation",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// openSession resolves the request to a chat session. On failure the
// response has already been written and ok is false.
func (h *ChatHandler) openSession(c *fiber.Ctx) (*services.ChatSession, *models.ChatRequest, bool) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
		return nil, nil, false
	}

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
		return nil, nil, false
	}
	if err := validate.Struct(&req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		return nil, nil, false
	}

	var session *services.ChatSession
	if req.ConversationID == "" {
		session = h.convService.NewSession(userID)
	} else {
		convID, err := uuid.Parse(req.ConversationID)
		if err != nil {
			c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid conversation ID format",
			})
			return nil, nil, false
		}
		session, err = h.convService.ResumeSession(userID, convID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Conversation not found",
				})
				return nil, nil, false
			}
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load conversation",
			})
			return nil, nil, false
		}
	}

	return session, &req, true
}

func (h *ChatHandler) conversationParams(c *fiber.Ctx) (uuid.UUID, uuid.UUID, bool) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
		return uuid.Nil, uuid.Nil, false
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid conversation ID format",
		})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, convID, true
}

func writeEvent(w *bufio.Writer, event string, payload fiber.Map) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	w.Flush()
}
