package service

import (
	"strings"

	"github.com/phimart/phimart/internal/constants"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// ReviewInput 评价创建/更新输入
type ReviewInput struct {
	Ratings int
	Comment string
}

// ReviewListResult 评价列表结果
type ReviewListResult struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
}

// ListByProduct 获取商品评价列表
func (s *ReviewService) ListByProduct(filter repository.ReviewListFilter) (*ReviewListResult, error) {
	product, err := s.productRepo.GetByID(filter.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	reviews, total, err := s.reviewRepo.ListByProduct(filter)
	if err != nil {
		return nil, err
	}
	return &ReviewListResult{Reviews: reviews, Total: total}, nil
}

// Create 创建评价（每个用户对每个商品仅一条）
func (s *ReviewService) Create(productID uint, actor uint, input ReviewInput) (*models.Review, error) {
	if input.Ratings < constants.ReviewRatingMin || input.Ratings > constants.ReviewRatingMax {
		return nil, ErrReviewInvalidRatings
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	existing, err := s.reviewRepo.GetByProductAndUser(productID, actor)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    actor,
		Ratings:   input.Ratings,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Update 更新评价（仅作者本人）
func (s *ReviewService) Update(reviewID uint, actor uint, input ReviewInput) (*models.Review, error) {
	if input.Ratings < constants.ReviewRatingMin || input.Ratings > constants.ReviewRatingMax {
		return nil, ErrReviewInvalidRatings
	}
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != actor {
		return nil, ErrPermissionDenied
	}
	review.Ratings = input.Ratings
	review.Comment = strings.TrimSpace(input.Comment)
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除评价（作者本人或管理员）
func (s *ReviewService) Delete(reviewID uint, actor uint, actorIsStaff bool) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if review.UserID != actor && !actorIsStaff {
		return ErrPermissionDenied
	}
	return s.reviewRepo.Delete(reviewID)
}
