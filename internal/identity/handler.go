package identity

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/pay-link/paylink/internal/auth"
)

// Handler exposes registration and login endpoints.
type Handler struct {
	service  *Service
	tokens   *auth.Issuer
	validate *validator.Validate
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service, tokens *auth.Issuer) *Handler {
	return &Handler{service: service, tokens: tokens, validate: validator.New()}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"required,e164"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register handles user onboarding and issues a fresh token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Register(c.UserContext(), Credentials{Name: req.Name, Email: req.Email, Password: req.Password, Phone: req.Phone})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrPhoneTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "could not create user")
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not issue token")
	}

	return c.Status(http.StatusCreated).JSON(authResponse{Token: token, User: toUserResponse(user)})
}

// Login verifies credentials and issues a fresh token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "could not log in")
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not issue token")
	}

	return c.Status(http.StatusOK).JSON(authResponse{Token: token, User: toUserResponse(user)})
}

func toUserResponse(user User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}
}
