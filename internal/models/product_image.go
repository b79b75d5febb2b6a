package models

import "time"

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	ProductID uint      `gorm:"index;not null" json:"product_id"`  // 商品ID
	Image     string    `gorm:"type:varchar(500)" json:"image"`    // 图片路径
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
