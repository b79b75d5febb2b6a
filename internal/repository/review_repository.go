package repository

import (
	"errors"

	"github.com/phimart/phimart/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	ListByProduct(filter ReviewListFilter) ([]models.Review, int64, error)
	GetByID(id uint) (*models.Review, error)
	GetByProductAndUser(productID, userID uint) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(id uint) error
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// ListByProduct 获取商品评价列表
func (r *GormReviewRepository) ListByProduct(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{}).Where("product_id = ?", filter.ProductID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var reviews []models.Review
	if err := query.Preload("User").Order("id desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// GetByID 根据 ID 获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// GetByProductAndUser 获取用户对某商品的评价
func (r *GormReviewRepository) GetByProductAndUser(productID, userID uint) (*models.Review, error) {
	var review models.Review
	result := r.db.Where("product_id = ? AND user_id = ?", productID, userID).Limit(1).Find(&review)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &review, nil
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Update 更新评价
func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// Delete 删除评价
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}
