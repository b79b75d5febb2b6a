package repository

import "github.com/phimart/phimart/internal/models"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Search       string
	MinPrice     *models.Money
	MaxPrice     *models.Money
	OrderBy      string // price / -price / updated_at / -updated_at
	WithCategory bool
	WithImages   bool
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint // 0 表示不按用户过滤（管理端）
	Status   string
}
