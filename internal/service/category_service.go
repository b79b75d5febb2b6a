package service

import (
	"strings"

	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput 分类创建/更新输入
type CategoryInput struct {
	Name        string
	Description string
}

// List 分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// Get 获取分类
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create 创建分类（管理端）
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameTaken
	}
	count, err := s.categoryRepo.CountByName(name, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameTaken
	}
	category := &models.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类（管理端）
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	name := strings.TrimSpace(input.Name)
	if name != "" && name != category.Name {
		count, err := s.categoryRepo.CountByName(name, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCategoryNameTaken
		}
		category.Name = name
	}
	category.Description = strings.TrimSpace(input.Description)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类（管理端，仅允许删除空分类）
func (s *CategoryService) Delete(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categoryRepo.Delete(id)
}
