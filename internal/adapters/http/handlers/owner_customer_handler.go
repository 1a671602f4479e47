package handlers

import (
	"generator-backoffice/internal/adapters/http/middleware"
	"generator-backoffice/internal/core/services"
	"generator-backoffice/internal/pkg/messages"
	"generator-backoffice/internal/pkg/pagination"
	"generator-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OwnerCustomerHandler serves the signed-in generator owner's customers
type OwnerCustomerHandler struct {
	service *services.OwnerCustomerService
	msgs    *messages.Provider
}

// NewOwnerCustomerHandler creates a new owner customer handler
func NewOwnerCustomerHandler(service *services.OwnerCustomerService, msgs *messages.Provider) *OwnerCustomerHandler {
	return &OwnerCustomerHandler{
		service: service,
		msgs:    msgs,
	}
}

// List returns the caller's customers. The tenant comes from the access token only.
// @Summary List owner customers
// @Description Customers of the generator owner identified by the access token
// @Tags OwnerCustomers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(50)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Failure 400 {object} response.Problem
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Router /OwnerCustomers [get]
func (h *OwnerCustomerHandler) List(c *fiber.Ctx) error {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return err
	}

	params := pagination.GetParams(c)
	result, err := h.service.ListForTenant(c.UserContext(), tenantID, params)
	if err != nil {
		return err
	}

	return response.Success(c, h.msgs.Success("GetOwnerCustomers"), pagination.NewResponse(result.Customers, params, result.Total))
}
