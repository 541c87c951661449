package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/formlane/formlane/pkg/auth"
)

// userIDKey is the request-local key the auth middleware stores the
// authenticated user ID under.
const userIDKey = "userID"

// RequireAuth verifies the session cookie and stores the user ID on the
// request. Requests without a valid token get a 401 problem document.
func RequireAuth(tokens *auth.TokenManager) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(auth.CookieName)
		if token == "" {
			return unauthorized(c, "authentication required")
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			return unauthorized(c, "invalid or expired session")
		}

		c.Locals(userIDKey, userID)

		return c.Next()
	}
}

// authenticatedUserID returns the user ID set by RequireAuth.
func authenticatedUserID(c fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)

	return userID
}
