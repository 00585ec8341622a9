package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"najahtn/orientation-api/internal/models"
	"najahtn/orientation-api/internal/repositories"
)

const testSecret = "test-secret"

// mockUserRepo implements repositories.UserRepository keyed by external id.
type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) UpsertByExternalID(externalID, email, name string) (*models.User, error) {
	if u, ok := m.users[externalID]; ok {
		u.Email = email
		u.Name = name
		return u, nil
	}
	u := &models.User{ID: uuid.New(), ExternalID: externalID, Email: email, Name: name}
	m.users[externalID] = u
	return u, nil
}

func (m *mockUserRepo) FindByExternalID(externalID string) (*models.User, error) {
	u, ok := m.users[externalID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) UpdateProfile(id uuid.UUID, bacTrack string, bacScore *float64) error {
	return nil
}

func (m *mockUserRepo) DeleteByExternalID(externalID string) error {
	delete(m.users, externalID)
	return nil
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": "student@example.tn",
		"name":  "Student",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// whoamiApp mounts the given auth middleware in front of a handler that
// reports the resolved user, or "anonymous" when none is set.
func whoamiApp(mw fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", mw, func(c *fiber.Ctx) error {
		if id, err := CurrentUserID(c); err == nil {
			return c.SendString(id.String())
		}
		return c.SendString("anonymous")
	})
	return app
}

func TestRequireAuth_RejectsMissingToken(t *testing.T) {
	app := whoamiApp(RequireAuth(testSecret, newMockUserRepo()))

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireAuth_ResolvesUserFromToken(t *testing.T) {
	repo := newMockUserRepo()
	app := whoamiApp(RequireAuth(testSecret, repo))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "ext-1", time.Now().Add(time.Hour)))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	user, err := repo.FindByExternalID("ext-1")
	if err != nil {
		t.Fatal("user row was not created lazily")
	}
	if string(body) != user.ID.String() {
		t.Errorf("handler saw %q, want %q", body, user.ID)
	}
}

func TestRequireAuth_RejectsExpiredToken(t *testing.T) {
	app := whoamiApp(RequireAuth(testSecret, newMockUserRepo()))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "ext-1", time.Now().Add(-time.Hour)))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	app := whoamiApp(OptionalAuth(testSecret, newMockUserRepo()))

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "anonymous" {
		t.Errorf("handler saw %q, want anonymous", body)
	}
}

func TestOptionalAuth_ValidTokenSetsUser(t *testing.T) {
	repo := newMockUserRepo()
	app := whoamiApp(OptionalAuth(testSecret, repo))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "ext-2", time.Now().Add(time.Hour)))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	user, err := repo.FindByExternalID("ext-2")
	if err != nil {
		t.Fatal("user row was not created lazily")
	}
	if string(body) != user.ID.String() {
		t.Errorf("handler saw %q, want %q", body, user.ID)
	}
}

func TestOptionalAuth_BadTokenStaysAnonymous(t *testing.T) {
	app := whoamiApp(OptionalAuth(testSecret, newMockUserRepo()))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "anonymous" {
		t.Errorf("handler saw %q, want anonymous", body)
	}
}
