package handlers

import (
	"log"

	"ecofinds/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart. All cart routes
// require authentication.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/cart", authRequired, h.HandleView)
	router.Post("/cart", authRequired, h.HandleAdd)
	router.Put("/cart/:entryId", authRequired, h.HandleSetQuantity)
	router.Delete("/cart/:entryId", authRequired, h.HandleRemove)
	router.Delete("/cart", authRequired, h.HandleClear)
}

// HandleView returns the caller's cart, reporting how many stale entries were
// dropped while assembling it.
func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	view, err := h.service.View(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Could not load cart")
	}
	return respondData(c, fiber.StatusOK, "Cart retrieved", view)
}

// AddToCartRequest is the request body for adding a listing to the cart.
type AddToCartRequest struct {
	ListingID string `json:"listingId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1,lte=10"`
}

// HandleAdd puts a listing in the caller's cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	entry, err := h.service.Add(currentUserID(c), req.ListingID, req.Quantity)
	if err != nil {
		return respondServiceError(c, err, "Could not add to cart")
	}
	return respondData(c, fiber.StatusCreated, "Added to cart", entry)
}

// SetQuantityRequest is the request body for changing an entry's quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1,lte=10"`
}

// HandleSetQuantity replaces the quantity of one cart entry.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart quantity body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	entry, err := h.service.SetQuantity(currentUserID(c), c.Params("entryId"), req.Quantity)
	if err != nil {
		return respondServiceError(c, err, "Could not update cart entry")
	}
	return respondData(c, fiber.StatusOK, "Cart entry updated", entry)
}

// HandleRemove deletes one cart entry. Removing an already-gone entry
// succeeds.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	if err := h.service.Remove(currentUserID(c), c.Params("entryId")); err != nil {
		return respondServiceError(c, err, "Could not remove cart entry")
	}
	return respondData(c, fiber.StatusOK, "Cart entry removed", nil)
}

// HandleClear empties the caller's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	count, err := h.service.Clear(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Could not clear cart")
	}
	return respondData(c, fiber.StatusOK, "Cart cleared", fiber.Map{"deleted": count})
}
