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

type ComparisonHandler struct {
	cmpRepo    repositories.ComparisonRepository
	catalog    services.CatalogService
	comparator services.ComparatorService
	worker     services.Worker
}

func NewComparisonHandler(
	cmpRepo repositories.ComparisonRepository,
	catalog services.CatalogService,
	comparator services.ComparatorService,
	worker services.Worker,
) *ComparisonHandler {
	return &ComparisonHandler{
		cmpRepo:    cmpRepo,
		catalog:    catalog,
		comparator: comparator,
		worker:     worker,
	}
}

// HandleCreate handles POST /comparisons. The deterministic classifications
// are computed inline; the AI prose is filled in by the worker.
func (h *ComparisonHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	var req models.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	first, err := h.programView(req.FirstCode)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "First program not found"})
	}
	second, err := h.programView(req.SecondCode)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Second program not found"})
	}

	firstClass := h.comparator.ClassifyProgram(req.UserScore, *first)
	secondClass := h.comparator.ClassifyProgram(req.UserScore, *second)

	cmp := &models.Comparison{
		ID:             uuid.New(),
		UserID:         userID,
		UserScore:      req.UserScore,
		FirstCode:      req.FirstCode,
		SecondCode:     req.SecondCode,
		FirstCategory:  models.AdmissionCategory(firstClass.Category),
		SecondCategory: models.AdmissionCategory(secondClass.Category),
		FirstDiff:      firstClass.ScoreDifference,
		SecondDiff:     secondClass.ScoreDifference,
		Status:         models.ComparisonQueued,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.cmpRepo.Create(cmp); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create comparison",
		})
	}

	h.worker.EnqueueJob(cmp.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.CompareResponse{
		ID:     cmp.ID.String(),
		Status: string(models.ComparisonQueued),
	})
}

// HandleGet handles GET /comparisons/:id
func (h *ComparisonHandler) HandleGet(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	cmpID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comparison ID format",
		})
	}

	cmp, err := h.cmpRepo.FindByID(userID, cmpID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Comparison not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load comparison",
		})
	}

	result := models.ComparisonResult{
		ID:        cmp.ID.String(),
		Status:    string(cmp.Status),
		UserScore: cmp.UserScore,
		First:     h.classification(cmp.UserScore, cmp.FirstCode),
		Second:    h.classification(cmp.UserScore, cmp.SecondCode),
	}
	if cmp.Status == models.ComparisonCompleted {
		result.Analysis = cmp.Analysis
	}
	if cmp.Status == models.ComparisonFailed {
		result.ErrorMessage = cmp.ErrorMessage
	}

	return c.JSON(result)
}

// classification rebuilds the deterministic labels from the static catalog;
// only the AI analysis needs the persisted row.
func (h *ComparisonHandler) classification(userScore float64, code string) models.ProgramClassification {
	view, err := h.programView(code)
	if err != nil {
		return models.ProgramClassification{Code: code}
	}
	return h.comparator.ClassifyProgram(userScore, *view)
}

func (h *ComparisonHandler) programView(code string) (*models.ProgramView, error) {
	p, err := h.catalog.FindByCode(code)
	if err != nil {
		return nil, err
	}
	return &models.ProgramView{
		ProgramRecord: *p,
		Stats:         services.ComputeProgramStats(p.HistoricalScores),
	}, nil
}
