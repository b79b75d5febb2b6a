package repository

import (
	"errors"

	"github.com/phimart/phimart/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint) error
	CountByName(name string, excludeID uint) (int64, error)
	CountProducts(categoryID uint) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 分类列表（附带商品数量）
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return categories, nil
	}

	type countRow struct {
		CategoryID uint
		Total      int64
	}
	var rows []countRow
	if err := r.db.Model(&models.Product{}).
		Select("category_id, count(*) as total").
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	for i := range categories {
		categories[i].ProductCount = counts[categories[i].ID]
	}
	return categories, nil
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	count, err := r.CountProducts(id)
	if err != nil {
		return nil, err
	}
	category.ProductCount = count
	return &category, nil
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update 更新分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete 删除分类
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// CountByName 统计同名分类数量（名称唯一性校验）
func (r *GormCategoryRepository) CountByName(name string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountProducts 统计某分类下商品数
func (r *GormCategoryRepository) CountProducts(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
