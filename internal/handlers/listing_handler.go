package handlers

import (
	"log"
	"strconv"
	"strings"

	"ecofinds/internal/models"
	"ecofinds/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles HTTP requests for product listings.
type ListingHandler struct {
	service  *services.ListingService
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers listing routes. Browsing is public (with optional
// authentication so owner views are not counted); mutation requires a token.
// /listings/mine must precede the public /listings/:id parameter route.
func (h *ListingHandler) RegisterRoutes(router fiber.Router, authRequired, optionalAuth fiber.Handler) {
	router.Get("/listings", h.HandleSearch)
	router.Post("/listings", authRequired, h.HandleCreate)
	router.Get("/listings/mine", authRequired, h.HandleGetMine)
	router.Get("/listings/:id", optionalAuth, h.HandleGet)
	router.Put("/listings/:id", authRequired, h.HandleUpdate)
	router.Delete("/listings/:id", authRequired, h.HandleDelete)
}

// ListingRequest is the request body for creating a listing.
type ListingRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Category    string   `json:"category" validate:"required"`
	Condition   string   `json:"condition" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0,lte=99999.99"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,max=500"`
	Location    string   `json:"location" validate:"omitempty,max=200"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// HandleCreate creates a listing owned by the caller.
func (h *ListingHandler) HandleCreate(c *fiber.Ctx) error {
	var req ListingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing listing request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	listing := models.Listing{
		OwnerID:     currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Category:    models.Category(req.Category),
		Condition:   models.Condition(req.Condition),
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		Tags:        req.Tags,
	}
	if err := h.service.CreateListing(&listing); err != nil {
		return respondServiceError(c, err, "Could not create listing")
	}
	return respondData(c, fiber.StatusCreated, "Listing created", listing)
}

// UpdateListingRequest is the request body for partial listing updates.
type UpdateListingRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Category    *string  `json:"category"`
	Condition   *string  `json:"condition"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=99999.99"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=500"`
	Available   *bool    `json:"available"`
	Location    *string  `json:"location" validate:"omitempty,max=200"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// HandleUpdate applies changes to a listing owned by the caller.
func (h *ListingHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateListingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing listing update body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	update := services.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
		Location:    req.Location,
		Tags:        req.Tags,
	}
	if req.Category != nil {
		category := models.Category(*req.Category)
		update.Category = &category
	}
	if req.Condition != nil {
		condition := models.Condition(*req.Condition)
		update.Condition = &condition
	}

	listing, err := h.service.UpdateListing(currentUserID(c), c.Params("id"), update)
	if err != nil {
		return respondServiceError(c, err, "Could not update listing")
	}
	return respondData(c, fiber.StatusOK, "Listing updated", listing)
}

// HandleDelete removes a listing owned by the caller.
func (h *ListingHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteListing(currentUserID(c), c.Params("id")); err != nil {
		return respondServiceError(c, err, "Could not delete listing")
	}
	return respondData(c, fiber.StatusOK, "Listing deleted successfully", nil)
}

// HandleGet returns a single listing, counting the view unless the caller
// owns it.
func (h *ListingHandler) HandleGet(c *fiber.Ctx) error {
	listing, err := h.service.GetListing(c.Params("id"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Could not load listing")
	}
	return respondData(c, fiber.StatusOK, "Listing retrieved", listing)
}

// HandleGetMine returns the caller's own listings, unavailable ones included.
func (h *ListingHandler) HandleGetMine(c *fiber.Ctx) error {
	listings, err := h.service.GetOwnListings(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Could not load listings")
	}
	return respondData(c, fiber.StatusOK, "Listings retrieved", listings)
}

// HandleSearch runs the compound filter query over available listings.
func (h *ListingHandler) HandleSearch(c *fiber.Ctx) error {
	params := services.SearchParams{
		Category:  c.Query("category"),
		Condition: c.Query("condition"),
		Search:    c.Query("search"),
		Location:  c.Query("location"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", services.DefaultPageLimit),
	}

	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "minPrice must be a number")
		}
		params.MinPrice = &v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "maxPrice must be a number")
		}
		params.MaxPrice = &v
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Tags = append(params.Tags, tag)
			}
		}
	}

	listings, pagination, err := h.service.Search(params)
	if err != nil {
		return respondServiceError(c, err, "Could not search listings")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"message":    "Listings retrieved",
		"data":       listings,
		"pagination": pagination,
		"filters": fiber.Map{
			"category":  params.Category,
			"condition": params.Condition,
			"minPrice":  params.MinPrice,
			"maxPrice":  params.MaxPrice,
			"search":    params.Search,
			"location":  params.Location,
			"tags":      params.Tags,
			"sortBy":    params.SortBy,
			"sortOrder": params.SortOrder,
		},
	})
}
