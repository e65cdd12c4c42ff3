package handlers

import (
	"fmt"
	"log/slog"

	"menucart/internal/models"
	"menucart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for the menu.
type MenuHandler struct {
	service  *services.MenuService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the public menu routes.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/menu", h.HandleGetMenu)
}

// RegisterStaffRoutes registers menu management routes. router must already be
// behind authentication.
func (h *MenuHandler) RegisterStaffRoutes(router fiber.Router) {
	router.Put("/menu/:id/toggle", h.HandleToggleAvailability)

	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateItem)
	productRoutes.Put("/:id", h.HandleUpdateItem)
	productRoutes.Delete("/:id", h.HandleDeleteItem)
}

// HandleGetMenu returns the catalog.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	menu, err := h.service.GetMenu()
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve menu", err)
	}
	return c.JSON(menu)
}

// HandleToggleAvailability flips an item's availability.
func (h *MenuHandler) HandleToggleAvailability(c *fiber.Ctx) error {
	item, err := h.service.ToggleAvailability(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not toggle availability", err)
	}
	return c.JSON(item)
}

// parseItem reads and validates a menu item body. The returned error is
// either a parse error or validator.ValidationErrors; validationFailed renders both.
func (h *MenuHandler) parseItem(c *fiber.Ctx) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return nil, err
	}
	// IDs come from the server or the URL, never the body.
	item.ID = ""
	if err := h.validate.Struct(item); err != nil {
		return nil, err
	}
	return &item, nil
}

// HandleCreateItem adds a menu item to a category.
func (h *MenuHandler) HandleCreateItem(c *fiber.Ctx) error {
	item, err := h.parseItem(c)
	if err != nil {
		return validationFailed(c, err)
	}
	if err = h.service.CreateItem(item); err != nil {
		return respondError(c, h.logger, "Could not create menu item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem replaces a menu item's fields.
func (h *MenuHandler) HandleUpdateItem(c *fiber.Ctx) error {
	item, err := h.parseItem(c)
	if err != nil {
		return validationFailed(c, err)
	}
	item.ID = c.Params("id")
	if err = h.service.UpdateItem(item); err != nil {
		return respondError(c, h.logger, fmt.Sprintf("Could not update menu item %s", item.ID), err)
	}
	return c.JSON(item)
}

// HandleDeleteItem removes a menu item.
func (h *MenuHandler) HandleDeleteItem(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteItem(id); err != nil {
		return respondError(c, h.logger, fmt.Sprintf("Could not delete menu item %s", id), err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Menu item %s deleted successfully", id),
	})
}
