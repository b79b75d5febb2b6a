package repository

import (
	"errors"
	"strings"

	"github.com/phimart/phimart/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id string, status string, updates map[string]interface{}) error
	UpdateStatusFrom(id string, fromStatus, toStatus string, updates map[string]interface{}) (int64, error)
	ResolveReceiverEmail(orderID string) (string, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表（UserID 为 0 时不过滤用户，供管理端使用）
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id string, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateStatusFrom 带前置状态条件的状态更新，返回影响行数（并发回调的幂等保护依赖该值）
func (r *GormOrderRepository) UpdateStatusFrom(id string, fromStatus, toStatus string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = toStatus
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ResolveReceiverEmail 根据订单 ID 解析状态通知的收件邮箱
func (r *GormOrderRepository) ResolveReceiverEmail(orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", nil
	}

	var orderRow struct {
		UserID uint
	}
	if err := r.db.Model(&models.Order{}).
		Select("user_id").
		Where("id = ?", orderID).
		Take(&orderRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if orderRow.UserID == 0 {
		return "", nil
	}

	var userRow struct {
		Email string
	}
	if err := r.db.Model(&models.User{}).
		Select("email").
		Where("id = ?", orderRow.UserID).
		Take(&userRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(userRow.Email), nil
}
