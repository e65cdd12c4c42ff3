package handlers

import (
	"fmt"
	"log/slog"

	"menucart/internal/models"
	"menucart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the customer-facing order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id", h.HandleReplaceOrder)
}

// RegisterStaffRoutes registers the staff board routes, including the only
// status update route. router must already be behind authentication.
func (h *OrderHandler) RegisterStaffRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleGetOrders)
	router.Put("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders lists orders, oldest first, optionally filtered by ?status=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(models.OrderStatus(c.Query("status")))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		return respondError(c, h.logger, fmt.Sprintf("Order with ID %s not found", orderID), err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var orderRequest models.Order
	if err := c.BodyParser(&orderRequest); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(orderRequest); err != nil {
		return validationFailed(c, err)
	}
	if len(orderRequest.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "At least one item is required for an order.",
		})
	}

	createdOrder, err := h.service.CreateOrder(orderRequest)
	if err != nil {
		return respondError(c, h.logger, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleReplaceOrder overwrites an order's items with the merged list from the client.
func (h *OrderHandler) HandleReplaceOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var orderRequest models.Order
	if err := c.BodyParser(&orderRequest); err != nil {
		return badBody(c, err)
	}
	if orderRequest.ID != "" && orderRequest.ID != orderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order ID in body does not match the URL",
		})
	}

	updated, err := h.service.ReplaceOrder(orderID, orderRequest)
	if err != nil {
		return respondError(c, h.logger, fmt.Sprintf("Could not update order %s", orderID), err)
	}
	return c.JSON(updated)
}

// StatusRequest is the body of a status update.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData StatusRequest
	if err := c.BodyParser(&updateData); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(updateData); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.UpdateOrderStatus(orderID, models.OrderStatus(updateData.Status))
	if err != nil {
		return respondError(c, h.logger, fmt.Sprintf("Order update failed for %s", orderID), err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", order.ID, order.Status),
		"order":   order,
	})
}
