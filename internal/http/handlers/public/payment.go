package public

import (
	"errors"

	"github.com/phimart/phimart/internal/http/response"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

// InitiatePayment 发起订单支付，返回网关跳转地址
func (h *Handler) InitiatePayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID := orderIDParam(c)
	if orderID == "" {
		return
	}

	result, err := h.PaymentService.Initiate(c.Request.Context(), orderID, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderNotPayable):
			respondError(c, response.CodeBadRequest, "order is not payable in its current status", nil)
		case errors.Is(err, service.ErrPaymentInitFailed):
			respondError(c, response.CodeInternal, "payment initiation failed", err)
		default:
			respondError(c, response.CodeInternal, "payment initiation failed", err)
		}
		return
	}
	response.Success(c, result)
}

// ListOrderPayments 获取订单的支付记录
func (h *Handler) ListOrderPayments(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID := orderIDParam(c)
	if orderID == "" {
		return
	}

	payments, err := h.PaymentService.ListByOrder(orderID, uid, isStaff(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "payment fetch failed", err)
		return
	}
	response.Success(c, payments)
}

// PaymentCallback 支付网关回调，无需登录态
func (h *Handler) PaymentCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.PaymentService.HandleCallback(c.Request.Form)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentBadSignature):
			respondError(c, response.CodeBadRequest, "invalid callback signature", nil)
		case errors.Is(err, service.ErrPaymentNotFound):
			respondError(c, response.CodeNotFound, "payment not found", nil)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrPaymentAmountMismatch):
			respondError(c, response.CodeBadRequest, "callback amount mismatch", nil)
		default:
			respondError(c, response.CodeInternal, "payment callback failed", err)
		}
		return
	}
	response.Success(c, result)
}
