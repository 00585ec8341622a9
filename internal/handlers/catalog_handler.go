package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"najahtn/orientation-api/internal/middleware"
	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
	"najahtn/orientation-api/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
	favRepo repositories.FavoriteRepository
}

func NewCatalogHandler(catalog services.CatalogService, favRepo repositories.FavoriteRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, favRepo: favRepo}
}

// HandleListPrograms handles GET /programs. The FilterSpec comes from query
// params; the favorites-only filter needs a signed-in user.
func (h *CatalogHandler) HandleListPrograms(c *fiber.Ctx) error {
	spec := services.FilterSpec{
		Search:         c.Query("search"),
		FieldOfStudy:   c.Query("field_of_study"),
		UniversityName: c.Query("university_name"),
		BacTypeName:    c.Query("bac_type_name"),
		Location:       c.Query("table_location"),
		Institution:    c.Query("table_institution"),
		SortBy:         services.SortKey(c.Query("sort", string(services.SortByLatestScore))),
	}

	if v := c.Query("seven_percent"); v != "" {
		seven := v == "true" || v == "1"
		spec.SevenPercent = &seven
	}

	var favorites []string
	if c.Query("favorites") == "true" {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sign in to filter by favorites",
			})
		}
		spec.FavoritesOnly = true
		favorites, err = h.favRepo.Codes(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load favorites",
			})
		}
	}

	programs := h.catalog.ApplyFilters(spec, favorites)
	return c.JSON(fiber.Map{
		"count":    len(programs),
		"programs": programs,
	})
}

// HandleFilterValues handles GET /programs/filters
func (h *CatalogHandler) HandleFilterValues(c *fiber.Ctx) error {
	fields := []string{
		"field_of_study", "university_name", "bac_type_name",
		"table_location", "table_institution",
	}

	values := make(map[string][]string, len(fields))
	for _, f := range fields {
		values[f] = h.catalog.UniqueValues(f)
	}
	return c.JSON(values)
}

// HandleGetProgram handles GET /programs/:code
func (h *CatalogHandler) HandleGetProgram(c *fiber.Ctx) error {
	code := c.Params("code")

	program, err := h.catalog.FindByCode(code)
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Program not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load program",
		})
	}

	return c.JSON(models.ProgramView{
		ProgramRecord: *program,
		Stats:         services.ComputeProgramStats(program.HistoricalScores),
	})
}
