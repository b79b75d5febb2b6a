package repository

import (
	"errors"

	"github.com/phimart/phimart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByID(id string) (*models.Cart, error)
	GetByUser(userID uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	Delete(id string) (int64, error)
	DeleteItemsByCart(cartID string) error
	GetItemByID(cartID string, itemID uint) (*models.CartItem, error)
	GetItemForUpdate(cartID string, productID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(cartID string, itemID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByID 根据 ID 获取购物车（含购物车项与商品）
func (r *GormCartRepository) GetByID(id string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Items.Product").Where("id = ?", id).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByUser 获取用户的购物车
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	result := r.db.Preload("Items.Product").Where("user_id = ?", userID).Limit(1).Find(&cart)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// Delete 删除购物车，返回影响行数（下单转换时的并发保护依赖该值）
func (r *GormCartRepository) Delete(id string) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&models.Cart{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteItemsByCart 删除购物车下所有购物车项
func (r *GormCartRepository) DeleteItemsByCart(cartID string) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// GetItemByID 获取购物车项
func (r *GormCartRepository) GetItemByID(cartID string, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	result := r.db.Where("cart_id = ? AND id = ?", cartID, itemID).Limit(1).Find(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &item, nil
}

// GetItemForUpdate 锁定读取 (cart, product) 购物车项，需在事务内调用
func (r *GormCartRepository) GetItemForUpdate(cartID string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	result := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Limit(1).Find(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &item, nil
}

// CreateItem 创建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error
}

// DeleteItem 删除购物车项，返回影响行数
func (r *GormCartRepository) DeleteItem(cartID string, itemID uint) (int64, error) {
	result := r.db.Where("cart_id = ? AND id = ?", cartID, itemID).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
