package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/repository"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest 订单状态变更请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders 订单列表（全量，支持状态与用户过滤）
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(id)
		}
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	result, err := h.OrderService.List(adminID, true, filter)
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

// UpdateOrderStatus 推进订单状态（发货/签收等）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(orderID, strings.TrimSpace(req.Status), true)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "invalid status transition", nil)
		default:
			respondError(c, response.CodeInternal, "order update failed", err)
		}
		return
	}
	response.Success(c, order)
}
