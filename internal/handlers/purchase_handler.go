package handlers

import (
	"errors"
	"log"

	"ecofinds/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PurchaseHandler handles HTTP requests for checkout and purchase history.
// All purchase routes require authentication.
type PurchaseHandler struct {
	service  *services.PurchaseService
	validate *validator.Validate
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(service *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the purchase routes. /purchases/stats must precede
// the /purchases/:id parameter route.
func (h *PurchaseHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/purchases", authRequired, h.HandleCheckout)
	router.Get("/purchases", authRequired, h.HandleList)
	router.Get("/purchases/stats", authRequired, h.HandleStats)
	router.Get("/purchases/:id", authRequired, h.HandleGet)
}

// CheckoutRequest is the request body for checkout.
type CheckoutRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

// HandleCheckout converts the caller's cart into a purchase. Dropped cart
// entries are part of the payload, not an error: a checkout that commits some
// items and drops others is still a success.
func (h *PurchaseHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing checkout body: %v", err)
			return respondError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := h.validate.Struct(req); err != nil {
			return respondValidation(c, err)
		}
	}

	result, err := h.service.Checkout(currentUserID(c), req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrNoValidItems) {
			// The cart was cleaned up anyway; tell the client what went.
			return respondErrors(c, fiber.StatusBadRequest, err.Error(), fiber.Map{
				"removedUnavailableItems": result.RemovedItems,
			})
		}
		return respondServiceError(c, err, "Could not complete checkout")
	}
	return respondData(c, fiber.StatusCreated, "Purchase completed", result)
}

// HandleList returns the caller's purchase history.
func (h *PurchaseHandler) HandleList(c *fiber.Ctx) error {
	purchases, err := h.service.List(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Could not load purchases")
	}
	return respondData(c, fiber.StatusOK, "Purchases retrieved", purchases)
}

// HandleGet returns one of the caller's purchases.
func (h *PurchaseHandler) HandleGet(c *fiber.Ctx) error {
	purchase, err := h.service.GetByID(currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, "Could not load purchase")
	}
	return respondData(c, fiber.StatusOK, "Purchase retrieved", purchase)
}

// HandleStats returns aggregate numbers over the caller's purchases.
func (h *PurchaseHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Could not load purchase stats")
	}
	return respondData(c, fiber.StatusOK, "Purchase stats retrieved", stats)
}
