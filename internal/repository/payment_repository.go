package repository

import (
	"errors"
	"strings"

	"github.com/phimart/phimart/internal/constants"
	"github.com/phimart/phimart/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 支付数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByTransactionID(transactionID string) (*models.Payment, error)
	ListByOrderID(orderID string) ([]models.Payment, error)
	GetLatestInitiatedByOrder(orderID string) (*models.Payment, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// Update 更新支付记录
func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByTransactionID 根据网关交易号获取支付记录
func (r *GormPaymentRepository) GetByTransactionID(transactionID string) (*models.Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, nil
	}
	var payment models.Payment
	result := r.db.Where("transaction_id = ?", transactionID).Order("id desc").Limit(1).Find(&payment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &payment, nil
}

// ListByOrderID 获取订单支付记录
func (r *GormPaymentRepository) ListByOrderID(orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Order("id desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetLatestInitiatedByOrder 获取订单最新已发起的支付记录
func (r *GormPaymentRepository) GetLatestInitiatedByOrder(orderID string) (*models.Payment, error) {
	var payment models.Payment
	result := r.db.Where("order_id = ? AND status = ?", orderID, constants.PaymentStatusInitiated).
		Order("id desc").Limit(1).Find(&payment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &payment, nil
}
