package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/services"
)

var validate = validator.New()

type ScoreHandler struct{}

func NewScoreHandler() *ScoreHandler {
	return &ScoreHandler{}
}

// HandleListTracks handles GET /tracks
func (h *ScoreHandler) HandleListTracks(c *fiber.Ctx) error {
	tracks := services.ListTracks()

	type trackInfo struct {
		ID       string             `json:"id"`
		Name     string             `json:"name"`
		Subjects map[string]float64 `json:"subjects"`
	}

	out := make([]trackInfo, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, trackInfo{ID: t.ID, Name: t.Name, Subjects: t.Subjects})
	}
	return c.JSON(fiber.Map{"tracks": out})
}

// HandleComputeScore handles POST /score
func (h *ScoreHandler) HandleComputeScore(c *fiber.Ctx) error {
	var req models.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	track, err := services.GetTrack(req.Track)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTrack) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown academic track",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve track",
		})
	}

	result := services.ComputeAdmissionScore(services.GradeSet(req.Grades), track)
	band := services.ClassifyScore(result.AdmissionScore)

	return c.JSON(models.ScoreResponse{
		TrackName:      result.TrackName,
		GeneralAverage: result.GeneralAverage,
		SpecificScore:  result.SpecificScore,
		AdmissionScore: result.AdmissionScore,
		Level:          band.Level,
		Label:          band.Label,
	})
}
