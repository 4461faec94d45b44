package services

import "errors"

// Sentinel errors for the marketplace workflows. Handlers map these to HTTP
// status codes with errors.Is; services wrap them with context.
var (
	// Accounts / auth.
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountNotFound    = errors.New("account not found")

	// Input validation that survives past the request DTO layer.
	ErrValidationFailed = errors.New("validation failed")

	// Listings.
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingUnavailable = errors.New("listing is no longer available")
	ErrNotListingOwner    = errors.New("listing belongs to another user")
	ErrInvalidPriceRange  = errors.New("minimum price exceeds maximum price")

	// Cart.
	ErrEntryNotFound = errors.New("cart entry not found")
	ErrNotCartOwner  = errors.New("cart entry belongs to another user")
	ErrSelfPurchase  = errors.New("cannot add your own listing to the cart")

	// Checkout.
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoValidItems     = errors.New("no valid items left in the cart")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrNotPurchaseOwner = errors.New("purchase belongs to another user")
)
