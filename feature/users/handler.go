package users

import (
	"errors"

	"gig-profile/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for user accounts.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the user routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/users")
	group.Post("/", h.HandleRegister)
	group.Get("/:address", h.HandleGet)
	group.Put("/:address", h.HandleUpdateContact)
}

// HandleRegister creates a user account.
// @Summary Register User
// @Description Creates an account for a wallet address. Role defaults to client.
// @Tags users
// @Accept json
// @Produce json
// @Param body body users.RegisterRequest true "Account"
// @Success 201 {object} users.User "Created"
// @Failure 400 {object} map[string]string "Invalid Input"
// @Failure 409 {object} map[string]string "Already Registered"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/users [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}

	u, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

// HandleGet returns a user account.
// @Summary Get User
// @Tags users
// @Produce json
// @Param address path string true "Wallet Address"
// @Success 200 {object} users.User "User"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/users/{address} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	u, err := h.service.Get(c.UserContext(), c.Params("address"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(u)
}

// HandleUpdateContact updates the contact fields of a user account.
// @Summary Update User Contact
// @Description Updates name, email and whatsappNumber. Omitted fields are kept.
// @Tags users
// @Accept json
// @Produce json
// @Param address path string true "Wallet Address"
// @Param body body users.UpdateRequest true "Contact Fields"
// @Success 200 {object} users.User "Updated"
// @Failure 400 {object} map[string]string "Invalid Input"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/users/{address} [put]
func (h *Handler) HandleUpdateContact(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}

	u, err := h.service.UpdateContact(c.UserContext(), c.Params("address"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(u)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var invalid *InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	logger.WithRayID(h.logger, c).Error("User request failed",
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
