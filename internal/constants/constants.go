package constants

// 订单状态常量
const (
	OrderStatusNotPaid     = "not_paid"
	OrderStatusReadyToShip = "ready_to_ship"
	OrderStatusShipped     = "shipped"
	OrderStatusDelivered   = "delivered"
	OrderStatusCanceled    = "canceled"
)

// 支付状态常量
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// 支付网关回调常量（SSLCommerz）
const (
	GatewayStatusValid     = "VALID"
	GatewayStatusValidated = "VALIDATED"
	GatewayStatusFailed    = "FAILED"
	GatewayStatusCanceled  = "CANCELLED"
	GatewaySessionSuccess  = "SUCCESS"
	TransactionIDPrefix    = "txn_"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderStatusEmail   = "order:status_email"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault           = "phimart"
	CacheKeyProductListFirstPage = "products:list:first_page"
)

// 评分边界常量
const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)
