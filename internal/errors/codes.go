package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Frontend maps these codes to user-facing messages.

const (
	// ==================== Session (SESSION_) ====================
	SessionMissing = "SESSION_MISSING" // no session cookie present
	SessionInvalid = "SESSION_INVALID" // cookie failed verification

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed request body
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // bad item or product id
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // quantity out of bounds
	ValidationRequired     = "VALIDATION_REQUIRED"      // missing required field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound      = "PRODUCT_NOT_FOUND"
	ProductOutOfStock    = "PRODUCT_OUT_OF_STOCK"
	ProductAlreadyExists = "PRODUCT_ALREADY_EXISTS"
	ProductInvalidQuery  = "PRODUCT_INVALID_QUERY" // unusable filter parameters

	// ==================== Cart (CART_) ====================
	CartEmpty        = "CART_EMPTY"          // operation needs a non-empty cart
	CartItemNotFound = "CART_ITEM_NOT_FOUND" // id not present in the cart
	CartStoreFailed  = "CART_STORE_FAILED"   // durable slot unreachable
	CartInvalidItems = "CART_INVALID_ITEMS"  // unusable sync payload

	// ==================== Coupon (COUPON_) ====================
	CouponInvalid        = "COUPON_INVALID"
	CouponAlreadyApplied = "COUPON_ALREADY_APPLIED"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutInFlight = "CHECKOUT_IN_FLIGHT" // a submission is already running
	CheckoutRejected = "CHECKOUT_REJECTED"  // gateway answered success false
	CheckoutFailed   = "CHECKOUT_FAILED"    // gateway unreachable or errored

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
