package repository

import (
	"errors"
	"strings"

	"github.com/phimart/phimart/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	DecrementStock(productID uint, quantity int) (int64, error)
	AddImage(image *models.ProductImage) error
	ListImages(productID uint) ([]models.ProductImage, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithCategory {
		query = query.Preload("Category")
	}
	if filter.WithImages {
		query = query.Preload("Images")
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice.String())
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	switch filter.OrderBy {
	case "price":
		query = query.Order("price ASC, id ASC")
	case "-price":
		query = query.Order("price DESC, id ASC")
	case "updated_at":
		query = query.Order("updated_at ASC, id ASC")
	case "-updated_at":
		query = query.Order("updated_at DESC, id ASC")
	default:
		query = query.Order("id DESC")
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品（含分类与图片）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").Preload("Images").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// DecrementStock 扣减库存（库存不足时影响行数为 0）
func (r *GormProductRepository) DecrementStock(productID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AddImage 添加商品图片
func (r *GormProductRepository) AddImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// ListImages 获取商品图片列表
func (r *GormProductRepository) ListImages(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.db.Where("product_id = ?", productID).Order("id asc").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
