package handlers

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"

	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
)

// WebhookHandler syncs user rows from the external identity provider.
type WebhookHandler struct {
	userRepo repositories.UserRepository
	secret   string
}

func NewWebhookHandler(userRepo repositories.UserRepository, secret string) *WebhookHandler {
	return &WebhookHandler{userRepo: userRepo, secret: secret}
}

// HandleAuthWebhook handles POST /webhooks/auth
func (h *WebhookHandler) HandleAuthWebhook(c *fiber.Ctx) error {
	provided := c.Get("X-Webhook-Secret")
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid webhook secret",
		})
	}

	var req models.AuthWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	switch req.Event {
	case "user.created", "user.updated":
		user, err := h.userRepo.UpsertByExternalID(req.User.ExternalID, req.User.Email, req.User.Name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to sync user",
			})
		}
		return c.JSON(fiber.Map{"id": user.ID.String()})

	case "user.deleted":
		if err := h.userRepo.DeleteByExternalID(req.User.ExternalID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// Already gone; deletion webhooks are retried by providers.
				return c.SendStatus(fiber.StatusNoContent)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete user",
			})
		}
		return c.SendStatus(fiber.StatusNoContent)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown event",
		})
	}
}
