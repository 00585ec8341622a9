package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"najahtn/orientation-api/internal/middleware"
	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
	"najahtn/orientation-api/internal/services"
)

type PomodoroHandler struct {
	pomRepo repositories.PomodoroRepository
}

func NewPomodoroHandler(pomRepo repositories.PomodoroRepository) *PomodoroHandler {
	return &PomodoroHandler{pomRepo: pomRepo}
}

// HandleGetSettings handles GET /pomodoro. A user without a saved row gets
// the defaults.
func (h *PomodoroHandler) HandleGetSettings(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	settings, err := h.pomRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			defaults := services.DefaultPomodoroSettings()
			defaults.UserID = userID
			return c.JSON(defaults)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load settings",
		})
	}
	return c.JSON(settings)
}

// HandleSaveSettings handles PUT /pomodoro
func (h *PomodoroHandler) HandleSaveSettings(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	var req models.PomodoroSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	settings := &models.PomodoroSettings{
		ID:                 uuid.New(),
		UserID:             userID,
		PomodoroMinutes:    req.PomodoroMinutes,
		ShortBreakMinutes:  req.ShortBreakMinutes,
		LongBreakMinutes:   req.LongBreakMinutes,
		CyclesBeforeLong:   req.CyclesBeforeLong,
		AutoStartBreaks:    req.AutoStartBreaks,
		AutoStartPomodoros: req.AutoStartPomodoros,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := h.pomRepo.Upsert(settings); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save settings",
		})
	}
	return c.JSON(settings)
}
