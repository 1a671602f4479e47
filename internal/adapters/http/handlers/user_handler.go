package handlers

import (
	"strconv"

	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/core/services"
	"generator-backoffice/internal/pkg/messages"
	"generator-backoffice/internal/pkg/pagination"
	"generator-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
	msgs        *messages.Provider
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, msgs *messages.Provider) *UserHandler {
	return &UserHandler{
		userService: userService,
		msgs:        msgs,
	}
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Get a paginated list of all users (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(50)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Router /Users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.userService.ListUsers(c.UserContext(), params)
	if err != nil {
		return err
	}

	return response.Success(c, h.msgs.Success("GetUsers"), pagination.NewResponse(result.Users, params, result.Total))
}

// GetUser handles getting a user by ID (Admin only)
// @Summary Get user by ID
// @Description Get a specific user by ID (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response{data=domain.UserSummary}
// @Failure 400 {object} response.Problem
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Failure 404 {object} response.Problem
// @Router /Users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return domain.Validation("Invalid user ID.")
	}

	user, err := h.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}

	return response.Success(c, h.msgs.Success("GetUser"), user)
}
