package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pay-link/paylink/internal/auth"
	"github.com/pay-link/paylink/internal/identity"
)

const userLocalKey = "auth_user"

// JWTAuth returns the auth gate: it validates the bearer token, resolves the
// embedded subject to a user and attaches the resolved user to the request.
// Anything short of a valid token bound to an existing user is rejected.
func JWTAuth(tokens *auth.Issuer, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		user, err := repo.FindByID(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the user attached by JWTAuth.
func UserFromCtx(c *fiber.Ctx) (identity.User, error) {
	user, ok := c.Locals(userLocalKey).(identity.User)
	if !ok {
		return identity.User{}, fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return user, nil
}
