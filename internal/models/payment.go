package models

import "time"

// Payment 支付记录
type Payment struct {
	ID            uint       `gorm:"primarykey" json:"id"`                            // 主键
	OrderID       string     `gorm:"type:varchar(36);index;not null" json:"order_id"` // 订单ID
	TransactionID string     `gorm:"uniqueIndex;not null" json:"transaction_id"`      // 网关交易号（txn_<order_id>）
	Amount        Money      `gorm:"type:decimal(20,2);not null" json:"amount"`       // 支付金额
	Status        string     `gorm:"index;not null" json:"status"`                    // 支付状态
	SessionKey    string     `gorm:"type:varchar(200)" json:"session_key"`            // 网关会话标识
	GatewayURL    string     `gorm:"type:text" json:"gateway_url"`                    // 网关跳转链接
	FailedReason  string     `gorm:"type:text" json:"failed_reason,omitempty"`        // 失败原因
	PaidAt        *time.Time `gorm:"index" json:"paid_at"`                            // 支付时间
	CallbackAt    *time.Time `gorm:"index" json:"callback_at"`                        // 回调时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`                         // 更新时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
