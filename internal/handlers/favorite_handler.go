package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"najahtn/orientation-api/internal/middleware"
	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
	"najahtn/orientation-api/internal/services"
)

type FavoriteHandler struct {
	favRepo repositories.FavoriteRepository
	catalog services.CatalogService
}

func NewFavoriteHandler(favRepo repositories.FavoriteRepository, catalog services.CatalogService) *FavoriteHandler {
	return &FavoriteHandler{favRepo: favRepo, catalog: catalog}
}

// HandleList handles GET /favorites
func (h *FavoriteHandler) HandleList(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	favs, err := h.favRepo.FindManyByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load favorites",
		})
	}
	return c.JSON(fiber.Map{"favorites": favs})
}

// HandleAdd handles POST /favorites
func (h *FavoriteHandler) HandleAdd(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	var req models.FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if _, err := h.catalog.FindByCode(req.OrientationCode); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Program not found",
		})
	}

	exists, err := h.favRepo.Exists(userID, req.OrientationCode)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add favorite",
		})
	}

	fav, err := h.favRepo.Add(userID, req.OrientationCode)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add favorite",
		})
	}
	if exists {
		return c.JSON(fav)
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

// HandleRemove handles DELETE /favorites/:code
func (h *FavoriteHandler) HandleRemove(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Sign in required"})
	}

	if err := h.favRepo.Remove(userID, c.Params("code")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Favorite not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove favorite",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
