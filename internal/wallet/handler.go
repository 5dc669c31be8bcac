package wallet

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/pay-link/paylink/internal/middleware"
)

// Handler exposes wallet HTTP endpoints. Every route requires the auth gate
// to have attached the resolved user.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type depositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type transferRequest struct {
	ReceiverPhone string `json:"receiver_phone" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Description   string `json:"description"`
}

// Balance returns the authenticated user's current balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	user, err := middleware.UserFromCtx(c)
	if err != nil {
		return err
	}
	balance, err := h.service.Balance(c.UserContext(), user.ID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"balance": balance})
}

// Deposit adds money to the authenticated user's wallet.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	user, err := middleware.UserFromCtx(c)
	if err != nil {
		return err
	}
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, ErrInvalidAmount.Error())
	}
	balance, err := h.service.Deposit(c.UserContext(), user.ID, req.Amount)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "money added successfully", "balance": balance})
}

// Transfer sends money to another user identified by phone number.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	user, err := middleware.UserFromCtx(c)
	if err != nil {
		return err
	}
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	balance, err := h.service.Transfer(c.UserContext(), user, req.ReceiverPhone, req.Amount, req.Description)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "money sent successfully", "balance": balance})
}

// Transactions lists the authenticated user's history, newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	user, err := middleware.UserFromCtx(c)
	if err != nil {
		return err
	}
	transactions, err := h.service.Transactions(c.UserContext(), user.ID)
	if err != nil {
		return mapError(err)
	}
	if transactions == nil {
		transactions = []Transaction{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": transactions})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrSelfTransfer), errors.Is(err, ErrInsufficientBalance):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrReceiverNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUserNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "wallet operation failed")
	}
}
