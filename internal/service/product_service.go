package service

import (
	"context"
	"strings"
	"time"

	"github.com/phimart/phimart/internal/cache"
	"github.com/phimart/phimart/internal/constants"
	"github.com/phimart/phimart/internal/logger"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"
)

const productListCacheTTL = 30 * time.Second

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Name        string
	Description string
	Price       models.Money
	Stock       int
	CategoryID  uint
}

// ProductListResult 商品列表结果
type ProductListResult struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// List 商品列表（无过滤条件的首页短暂缓存）
func (s *ProductService) List(ctx context.Context, filter repository.ProductListFilter) (*ProductListResult, error) {
	cacheable := s.isFirstPageUnfiltered(filter)
	if cacheable {
		var cached ProductListResult
		hit, err := cache.GetJSON(ctx, constants.CacheKeyProductListFirstPage, &cached)
		if err != nil {
			logger.Warnw("product_list_cache_read_failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	filter.WithCategory = true
	filter.WithImages = true
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	result := &ProductListResult{Products: products, Total: total}

	if cacheable {
		if err := cache.SetJSON(ctx, constants.CacheKeyProductListFirstPage, result, productListCacheTTL); err != nil {
			logger.Warnw("product_list_cache_write_failed", "error", err)
		}
	}
	return result, nil
}

func (s *ProductService) isFirstPageUnfiltered(filter repository.ProductListFilter) bool {
	return filter.CategoryID == 0 &&
		strings.TrimSpace(filter.Search) == "" &&
		filter.MinPrice == nil &&
		filter.MaxPrice == nil &&
		filter.OrderBy == "" &&
		(filter.Page <= 1)
}

// Get 获取商品详情
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品（管理端）
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return product, nil
}

// Update 更新商品（管理端）
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = input.CategoryID
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.Stock = input.Stock
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return product, nil
}

// Delete 删除商品（管理端）
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

// AddImage 添加商品图片（管理端）
func (s *ProductService) AddImage(productID uint, image string) (*models.ProductImage, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	record := &models.ProductImage{
		ProductID: productID,
		Image:     strings.TrimSpace(image),
	}
	if err := s.productRepo.AddImage(record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListImages 获取商品图片列表
func (s *ProductService) ListImages(productID uint) ([]models.ProductImage, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.productRepo.ListImages(productID)
}

func (s *ProductService) validateInput(input ProductInput) error {
	if input.Price.IsNegative() {
		return ErrProductInvalidPrice
	}
	if input.Stock < 0 {
		return ErrProductInvalidStock
	}
	return nil
}

func (s *ProductService) invalidateListCache(ctx context.Context) {
	if err := cache.Del(ctx, constants.CacheKeyProductListFirstPage); err != nil {
		logger.Warnw("product_list_cache_invalidate_failed", "error", err)
	}
}
