package public

import (
	"errors"
	"strconv"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/repository"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewRequest 评价创建/更新请求
type ReviewRequest struct {
	Ratings int    `json:"ratings" binding:"required"`
	Comment string `json:"comment"`
}

// GetProductReviews 获取商品评价列表
func (h *Handler) GetProductReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	result, err := h.ReviewService.ListByProduct(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "no product with the given id was found", nil)
			return
		}
		respondError(c, response.CodeInternal, "review fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     result.Total,
		TotalPage: (result.Total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, result.Reviews, pagination)
}

// CreateProductReview 创建商品评价
func (h *Handler) CreateProductReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	review, err := h.ReviewService.Create(productID, uid, service.ReviewInput{
		Ratings: req.Ratings,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "no product with the given id was found", nil)
		case errors.Is(err, service.ErrReviewInvalidRatings):
			respondError(c, response.CodeBadRequest, "ratings must be between 1 and 5", nil)
		case errors.Is(err, service.ErrReviewExists):
			respondError(c, response.CodeConflict, "you already reviewed this product", nil)
		default:
			respondError(c, response.CodeInternal, "review create failed", err)
		}
		return
	}
	response.Success(c, review)
}

// UpdateProductReview 更新商品评价（仅作者本人）
func (h *Handler) UpdateProductReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	review, err := h.ReviewService.Update(reviewID, uid, service.ReviewInput{
		Ratings: req.Ratings,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			respondError(c, response.CodeNotFound, "review not found", nil)
		case errors.Is(err, service.ErrReviewInvalidRatings):
			respondError(c, response.CodeBadRequest, "ratings must be between 1 and 5", nil)
		case errors.Is(err, service.ErrPermissionDenied):
			respondError(c, response.CodeForbidden, "permission denied", nil)
		default:
			respondError(c, response.CodeInternal, "review update failed", err)
		}
		return
	}
	response.Success(c, review)
}

// DeleteProductReview 删除商品评价（作者本人或管理员）
func (h *Handler) DeleteProductReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(reviewID, uid, isStaff(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			respondError(c, response.CodeNotFound, "review not found", nil)
		case errors.Is(err, service.ErrPermissionDenied):
			respondError(c, response.CodeForbidden, "permission denied", nil)
		default:
			respondError(c, response.CodeInternal, "review delete failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
