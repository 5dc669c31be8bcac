package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pay-link/paylink/internal/wallet"
)

// RegisterWalletRoutes wires the authenticated wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/balance", h.Balance)
	r.Post("/deposit", h.Deposit)
	r.Post("/transfer", h.Transfer)
	r.Get("/transactions", h.Transactions)
}
