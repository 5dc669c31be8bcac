package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pay-link/paylink/internal/identity"
	"github.com/pay-link/paylink/internal/middleware"
)

// RegisterAuthRoutes wires registration, login and token verification.
func RegisterAuthRoutes(r fiber.Router, h *identity.Handler, rateLimiter fiber.Handler, jwtmw fiber.Handler) {
	grp := r.Group("/auth")
	grp.Post("/register", h.Register)
	grp.Post("/login", rateLimiter, h.Login)
	grp.Get("/verify", jwtmw, func(c *fiber.Ctx) error {
		user, err := middleware.UserFromCtx(c)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"phone": user.Phone,
			},
		})
	})
}
