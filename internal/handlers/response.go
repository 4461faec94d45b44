package handlers

import (
	"errors"
	"fmt"
	"log"

	"ecofinds/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

// respondData writes the shared success envelope {success, message, data}.
func respondData(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// respondError writes the shared error envelope {success, message}.
func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// respondErrors writes the error envelope with structured detail attached.
func respondErrors(c *fiber.Ctx, status int, message string, errs interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"errors":  errs,
	})
}

// respondValidation turns validator errors into field-level messages.
func respondValidation(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return respondError(c, fiber.StatusBadRequest, "Validation failed")
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return respondErrors(c, fiber.StatusBadRequest, "Validation failed", errorMessages)
}

// respondInternal logs the real error and hides it outside development.
func respondInternal(c *fiber.Ctx, message string, err error) error {
	log.Printf("%s: %v", message, err)
	if viper.GetString("APP_ENV") == "development" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": message,
			"errors":  err.Error(),
		})
	}
	return respondError(c, fiber.StatusInternalServerError, message)
}

// respondServiceError maps the service error taxonomy onto HTTP codes.
// Anything unrecognized is an internal error.
func respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidPriceRange),
		errors.Is(err, services.ErrListingUnavailable),
		errors.Is(err, services.ErrSelfPurchase),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return respondError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotListingOwner),
		errors.Is(err, services.ErrNotCartOwner),
		errors.Is(err, services.ErrNotPurchaseOwner):
		return respondError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrListingNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrPurchaseNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())
	default:
		return respondInternal(c, fallback, err)
	}
}

// currentUserID reads the authenticated account ID set by the auth middleware.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
