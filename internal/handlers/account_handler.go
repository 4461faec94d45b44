package handlers

import (
	"log"

	"ecofinds/internal/models"
	"ecofinds/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles HTTP requests for accounts and sessions.
type AccountHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(authService *services.AuthService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers account routes. Registration and login are public;
// profile routes require authentication. /accounts/me must be registered
// before the public /accounts/:id so it is not swallowed by the parameter.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/accounts", h.HandleRegister)
	router.Post("/sessions", h.HandleLogin)
	router.Get("/accounts/me", authRequired, h.HandleGetMe)
	router.Put("/accounts/me", authRequired, h.HandleUpdateMe)
	router.Get("/accounts/:id", h.HandleGetPublicProfile)
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Bio       string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,max=500"`
}

// HandleRegister creates a new account and issues a token for it.
func (h *AccountHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		return respondServiceError(c, err, "Could not register account")
	}

	token, err := h.authService.IssueToken(&user)
	if err != nil {
		return respondInternal(c, "Could not issue token", err)
	}

	return respondData(c, fiber.StatusCreated, "Account registered successfully", fiber.Map{
		"token":   token,
		"account": user,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates an account and issues a bearer token.
func (h *AccountHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err, "Authentication failed")
	}

	return respondData(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token":   token,
		"account": user,
	})
}

// HandleGetMe returns the caller's own account.
func (h *AccountHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Could not load account")
	}
	return respondData(c, fiber.StatusOK, "Account retrieved", user)
}

// UpdateProfileRequest is the request body for profile updates. Absent fields
// are left unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=100"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,max=500"`
}

// HandleUpdateMe applies profile changes to the caller's account.
func (h *AccountHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, err := h.authService.UpdateProfile(currentUserID(c), services.ProfileUpdate{
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return respondServiceError(c, err, "Could not update account")
	}
	return respondData(c, fiber.StatusOK, "Account updated", user)
}

// HandleGetPublicProfile returns the public subset of any account.
func (h *AccountHandler) HandleGetPublicProfile(c *fiber.Ctx) error {
	profile, err := h.authService.GetPublicProfile(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, "Could not load account")
	}
	return respondData(c, fiber.StatusOK, "Account retrieved", profile)
}
