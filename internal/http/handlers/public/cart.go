package public

import (
	"errors"
	"strings"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项创建请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CartItemUpdateRequest 购物车项数量更新请求
type CartItemUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CreateCart 获取或创建当前用户的购物车
func (h *Handler) CreateCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetOrCreate(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "cart create failed", err)
		return
	}
	response.Success(c, cart)
}

// GetCart 获取购物车详情
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID := cartIDParam(c)
	if cartID == "" {
		return
	}
	detail, err := h.CartService.Get(cartID, uid)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			respondError(c, response.CodeNotFound, "no cart found with this id", nil)
			return
		}
		respondError(c, response.CodeInternal, "cart fetch failed", err)
		return
	}
	response.Success(c, detail)
}

// DeleteCart 删除购物车
func (h *Handler) DeleteCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID := cartIDParam(c)
	if cartID == "" {
		return
	}
	if err := h.CartService.Delete(cartID, uid); err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			respondError(c, response.CodeNotFound, "no cart found with this id", nil)
			return
		}
		respondError(c, response.CodeInternal, "cart delete failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AddCartItem 添加商品到购物车（同商品累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID := cartIDParam(c)
	if cartID == "" {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	item, err := h.CartService.AddItem(cartID, req.ProductID, req.Quantity, uid)
	if err != nil {
		respondCartItemError(c, err)
		return
	}
	response.Success(c, item)
}

// UpdateCartItem 覆盖更新购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID := cartIDParam(c)
	if cartID == "" {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	var req CartItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	item, err := h.CartService.UpdateItemQuantity(cartID, itemID, req.Quantity, uid)
	if err != nil {
		respondCartItemError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID := cartIDParam(c)
	if cartID == "" {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(cartID, itemID, uid); err != nil {
		respondCartItemError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondCartItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		respondError(c, response.CodeNotFound, "no cart found with this id", nil)
	case errors.Is(err, service.ErrCartItemNotFound):
		respondError(c, response.CodeNotFound, "cart item not found", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "no product with the given id was found", nil)
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, response.CodeBadRequest, "quantity must be positive", nil)
	default:
		respondError(c, response.CodeInternal, "cart update failed", err)
	}
}

func cartIDParam(c *gin.Context) string {
	cartID := strings.TrimSpace(c.Param("cart_id"))
	if cartID == "" {
		respondError(c, response.CodeBadRequest, "invalid cart_id", nil)
	}
	return cartID
}
