package admin

import (
	"errors"
	"strconv"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求，价格为十进制字符串
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Stock       int    `json:"stock"`
	CategoryID  uint   `json:"category_id" binding:"required"`
}

// ProductImageRequest 商品图片请求
type ProductImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, ok := buildProductInput(c, req)
	if !ok {
		return
	}

	product, err := h.ProductService.Create(c.Request.Context(), input)
	if err != nil {
		respondProductError(c, err, "product create failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, ok := buildProductInput(c, req)
	if !ok {
		return
	}

	product, err := h.ProductService.Update(c.Request.Context(), productID, input)
	if err != nil {
		respondProductError(c, err, "product update failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(c.Request.Context(), productID); err != nil {
		respondProductError(c, err, "product delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AddProductImage 添加商品图片
func (h *Handler) AddProductImage(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	image, err := h.ProductService.AddImage(productID, req.Image)
	if err != nil {
		respondProductError(c, err, "product image create failed")
		return
	}
	response.Success(c, image)
}

func buildProductInput(c *gin.Context, req ProductRequest) (service.ProductInput, bool) {
	price, err := models.NewMoneyFromString(req.Price)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid price", nil)
		return service.ProductInput{}, false
	}
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}, true
}

func respondProductError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "no product with the given id was found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "category not found", nil)
	case errors.Is(err, service.ErrProductInvalidPrice):
		respondError(c, response.CodeBadRequest, "price must not be negative", nil)
	case errors.Is(err, service.ErrProductInvalidStock):
		respondError(c, response.CodeBadRequest, "stock must not be negative", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
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
