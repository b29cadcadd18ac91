// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"

	// Places
	KeyPlacesSearchFailed  = "places.search_failed"
	KeyPlacesNoResults     = "places.no_results"
	KeyPlacesSocialLookup  = "places.social_lookup_failed"
	KeyPlacesMissingCoords = "places.missing_coordinates"

	// Catalog
	KeyProductCreated   = "product.created"
	KeyProductUpdated   = "product.updated"
	KeyProductDeleted   = "product.deleted"
	KeyProductNotFound  = "product.not_found"
	KeySignTypeCreated  = "sign_type.created"
	KeySignTypeUpdated  = "sign_type.updated"
	KeySignTypeDeleted  = "sign_type.deleted"
	KeySignTypeNotFound = "sign_type.not_found"
	KeySignTypeInactive = "sign_type.inactive"

	// Transactions
	KeyTransactionCreated       = "transaction.created"
	KeyTransactionUpdated       = "transaction.updated"
	KeyTransactionNotFound      = "transaction.not_found"
	KeyTransactionBadTransition = "transaction.invalid_transition"
	KeyTransactionPriceInvalid  = "transaction.invalid_price"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
