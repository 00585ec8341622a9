package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"najahtn/orientation-api/internal/repositories"
)

const userIDKey = "user_id"

// RequireAuth verifies the bearer token issued by the identity provider and
// resolves it to a local user row, created lazily on first sight. The user id
// lands in c.Locals for handlers.
func RequireAuth(secret string, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := authenticate(c, secret, userRepo)
		if err != nil {
			return err
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// OptionalAuth resolves a bearer token when one is present but lets the
// request through anonymously otherwise. Routes that serve both signed-in and
// signed-out users (the catalog with its favorites filter) sit behind this;
// the handler decides which features need a user.
func OptionalAuth(secret string, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, err := authenticate(c, secret, userRepo); err == nil {
			c.Locals(userIDKey, userID)
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, secret string, userRepo repositories.UserRepository) (uuid.UUID, error) {
	tokenString, err := extractBearerToken(c)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid token")
	}

	if err := validateExpiry(claims); err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token expired")
	}

	externalID, _ := claims["sub"].(string)
	if externalID == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing subject")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	user, err := userRepo.UpsertByExternalID(externalID, email, name)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve user")
	}

	return user.ID, nil
}

// CurrentUserID reads the authenticated user id set by RequireAuth.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return id, nil
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("malformed Authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

func validateExpiry(claims jwt.MapClaims) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return fmt.Errorf("missing exp claim")
	}
	if time.Now().After(time.Unix(int64(exp), 0).Add(30 * time.Second)) {
		return fmt.Errorf("token expired")
	}
	return nil
}
