package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/repository"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	CartID string `json:"cart_id" binding:"required"`
}

// CreateOrder 将购物车转换为订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(uid, strings.TrimSpace(req.CartID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			respondError(c, response.CodeNotFound, "no cart found with this id", nil)
		case errors.Is(err, service.ErrCartEmpty):
			respondError(c, response.CodeBadRequest, "cart is empty", nil)
		case errors.Is(err, service.ErrStockInsufficient):
			respondError(c, response.CodeBadRequest, "insufficient product stock", nil)
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "no product with the given id was found", nil)
		default:
			respondError(c, response.CodeInternal, "order create failed", err)
		}
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表（普通用户仅本人订单）
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	result, err := h.OrderService.List(uid, isStaff(c), repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     result.Total,
		TotalPage: (result.Total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, result.Orders, pagination)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID := orderIDParam(c)
	if orderID == "" {
		return
	}
	order, err := h.OrderService.Get(orderID, uid, isStaff(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单（仅未支付订单）
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID := orderIDParam(c)
	if orderID == "" {
		return
	}
	order, err := h.OrderService.CancelOrder(orderID, uid, isStaff(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrPermissionDenied):
			respondError(c, response.CodeForbidden, "permission denied", nil)
		case errors.Is(err, service.ErrOrderCancelNotAllowed):
			respondError(c, response.CodeBadRequest, "order can not be canceled in its current status", nil)
		default:
			respondError(c, response.CodeInternal, "order update failed", err)
		}
		return
	}
	response.Success(c, order)
}

func orderIDParam(c *gin.Context) string {
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
	}
	return orderID
}
