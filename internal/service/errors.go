package service

import "errors"

// 服务层统一错误定义，handler 层通过 errors.Is 映射为响应码
var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUserDisabled          = errors.New("user disabled")
	ErrUserNotFound          = errors.New("user not found")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryNameTaken     = errors.New("category name already exists")
	ErrCategoryNotEmpty      = errors.New("category still has products")
	ErrProductNotFound       = errors.New("no product with the given id was found")
	ErrProductInvalidPrice   = errors.New("price must not be negative")
	ErrProductInvalidStock   = errors.New("stock must not be negative")
	ErrReviewNotFound        = errors.New("review not found")
	ErrReviewExists          = errors.New("user already reviewed this product")
	ErrReviewInvalidRatings  = errors.New("ratings must be between 1 and 5")
	ErrCartNotFound          = errors.New("no cart found with this id")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrStockInsufficient     = errors.New("insufficient product stock")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderFetchFailed      = errors.New("order fetch failed")
	ErrOrderCreateFailed     = errors.New("order create failed")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrOrderCancelNotAllowed = errors.New("order can not be canceled in its current status")
	ErrOrderStatusInvalid    = errors.New("invalid order status transition")
	ErrOrderNotPayable       = errors.New("order is not awaiting payment")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentInitFailed     = errors.New("payment initiation failed")
	ErrPaymentBadSignature   = errors.New("payment callback signature mismatch")
	ErrPaymentAmountMismatch = errors.New("payment amount mismatch")
	ErrQueueUnavailable      = errors.New("task queue unavailable")
	ErrEmailDisabled         = errors.New("email service disabled")
	ErrEmailNotConfigured    = errors.New("email service not configured")
	ErrInvalidEmail          = errors.New("invalid email address")
)
