package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/phimart/phimart/internal/logger"
	"github.com/phimart/phimart/internal/provider"
	"github.com/phimart/phimart/internal/queue"
	"github.com/phimart/phimart/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == "" {
		logger.Debugw("worker_order_status_email_skip_invalid_payload")
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	receiverEmail, err := c.OrderRepo.ResolveReceiverEmail(order.ID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	receiverEmail = strings.TrimSpace(receiverEmail)
	if receiverEmail == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver", "order_id", order.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_status_email_skip_email_service_nil", "order_id", order.ID)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderStatusEmailInput{
		OrderID: order.ID,
		Status:  status,
		Amount:  order.TotalPrice,
	}
	if err := c.EmailService.SendOrderStatusEmail(receiverEmail, input); err != nil {
		if errors.Is(err, service.ErrEmailDisabled) || errors.Is(err, service.ErrEmailNotConfigured) {
			logger.Debugw("worker_order_status_email_skip_disabled", "order_id", order.ID)
			return nil
		}
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", order.ID,
			"receiver_email", receiverEmail,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_timeout_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == "" {
		logger.Debugw("worker_order_timeout_cancel_skip_invalid_payload")
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_timeout_cancel_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.CancelExpiredOrder(payload.OrderID); err != nil {
		logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}
