package admin

import (
	"errors"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Create(service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondCategoryError(c, err, "category create failed")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Update(categoryID, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondCategoryError(c, err, "category update failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类（分类下仍有商品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(categoryID); err != nil {
		respondCategoryError(c, err, "category delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondCategoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "category not found", nil)
	case errors.Is(err, service.ErrCategoryNameTaken):
		respondError(c, response.CodeConflict, "category name already in use", nil)
	case errors.Is(err, service.ErrCategoryNotEmpty):
		respondError(c, response.CodeConflict, "category still has products", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}
