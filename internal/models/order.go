package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID         string     `gorm:"type:varchar(36);primarykey" json:"id"`                    // 主键（UUID）
	UserID     uint       `gorm:"index;not null" json:"user_id"`                            // 用户ID
	Status     string     `gorm:"index;not null" json:"status"`                             // 订单状态
	TotalPrice Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 订单总金额
	PaidAt     *time.Time `gorm:"index" json:"paid_at"`                                     // 支付时间
	CanceledAt *time.Time `gorm:"index" json:"canceled_at"`                                 // 取消时间
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time  `gorm:"index" json:"updated_at"`                                  // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate 生成 UUID 主键
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
