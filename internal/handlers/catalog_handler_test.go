package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func TestHandleListPrograms_FavoritesFilterWithUser(t *testing.T) {
	userID := uuid.New()
	favRepo := &mockFavRepo{}
	if _, err := favRepo.Add(userID, "101"); err != nil {
		t.Fatal(err)
	}

	h := NewCatalogHandler(&stubCatalog{programs: testCatalogPrograms()}, favRepo)
	app := fiber.New()
	app.Get("/programs", withUser(userID), h.HandleListPrograms)

	resp, err := app.Test(httptest.NewRequest("GET", "/programs?favorites=true", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Count    int `json:"count"`
		Programs []struct {
			Code string `json:"ramz"`
		} `json:"programs"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("bad response body %q: %v", body, err)
	}
	if out.Count != 1 || len(out.Programs) != 1 || out.Programs[0].Code != "101" {
		t.Errorf("favorites filter returned %+v, want only program 101", out)
	}
}

func TestHandleListPrograms_FavoritesWithoutUser(t *testing.T) {
	h := NewCatalogHandler(&stubCatalog{programs: testCatalogPrograms()}, &mockFavRepo{})
	app := fiber.New()
	// No auth middleware in the chain: the handler must ask for sign-in
	// rather than filter against nobody's favorites.
	app.Get("/programs", h.HandleListPrograms)

	resp, err := app.Test(httptest.NewRequest("GET", "/programs?favorites=true", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandleListPrograms_AnonymousBrowse(t *testing.T) {
	h := NewCatalogHandler(&stubCatalog{programs: testCatalogPrograms()}, &mockFavRepo{})
	app := fiber.New()
	app.Get("/programs", h.HandleListPrograms)

	resp, err := app.Test(httptest.NewRequest("GET", "/programs", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
