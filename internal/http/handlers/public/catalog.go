package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表（分页，支持分类/搜索/价格过滤与排序）
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		OrderBy:  strings.TrimSpace(c.Query("ordering")),
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(id)
		}
	}
	if raw := strings.TrimSpace(c.Query("price_min")); raw != "" {
		if price, err := models.NewMoneyFromString(raw); err == nil {
			filter.MinPrice = &price
		}
	}
	if raw := strings.TrimSpace(c.Query("price_max")); raw != "" {
		if price, err := models.NewMoneyFromString(raw); err == nil {
			filter.MaxPrice = &price
		}
	}

	result, err := h.ProductService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     result.Total,
		TotalPage: (result.Total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, result.Products, pagination)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "no product with the given id was found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}

// GetProductImages 获取商品图片列表
func (h *Handler) GetProductImages(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	images, err := h.ProductService.ListImages(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "no product with the given id was found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, images)
}

// GetCategories 获取分类列表（含商品数量）
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}
	response.Success(c, categories)
}

// GetCategory 获取分类详情
func (h *Handler) GetCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := h.CategoryService.Get(categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "category not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}
	response.Success(c, category)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}
