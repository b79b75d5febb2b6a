package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/constants"
	"github.com/phimart/phimart/internal/logger"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/payment/sslcommerz"
	"github.com/phimart/phimart/internal/queue"
	"github.com/phimart/phimart/internal/repository"

	"gorm.io/gorm"
)

// PaymentService 支付服务
type PaymentService struct {
	cfg         *config.PaymentConfig
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewPaymentService 创建支付服务
func NewPaymentService(cfg *config.PaymentConfig, paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, queueClient *queue.Client) *PaymentService {
	return &PaymentService{
		cfg:         cfg,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// InitiateResult 支付发起结果
type InitiateResult struct {
	PaymentURL    string       `json:"payment_url"`
	TransactionID string       `json:"transaction_id"`
	Amount        models.Money `json:"amount"`
}

// CallbackResult 回调处理结果
type CallbackResult struct {
	OrderID       string `json:"order_id"`
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

func (s *PaymentService) gatewayConfig() *sslcommerz.Config {
	return &sslcommerz.Config{
		StoreID:       s.cfg.StoreID,
		StorePassword: s.cfg.StorePassword,
		GatewayURL:    s.cfg.GatewayURL,
		SuccessURL:    s.cfg.SuccessURL,
		FailURL:       s.cfg.FailURL,
		CancelURL:     s.cfg.CancelURL,
		NotifyURL:     s.cfg.NotifyURL,
		TimeoutMS:     s.cfg.TimeoutMS,
	}
}

// Initiate 为未支付订单创建网关支付会话，返回收银台跳转地址。
// 同一订单重复发起会复用固定交易号并覆盖原会话记录。
func (s *PaymentService) Initiate(ctx context.Context, orderID string, actor uint) (*InitiateResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil || order.UserID != actor {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusNotPaid {
		return nil, ErrOrderNotPayable
	}

	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	transactionID := constants.TransactionIDPrefix + order.ID
	productName := "order " + order.ID
	if len(order.Items) > 0 {
		productName = order.Items[0].ProductName
	}

	result, err := sslcommerz.CreateSession(ctx, s.gatewayConfig(), sslcommerz.CreateInput{
		TransactionID: transactionID,
		Amount:        order.TotalPrice.String(),
		Currency:      "BDT",
		ProductName:   productName,
		CustomerName:  user.FullName(),
		CustomerEmail: user.Email,
		CustomerPhone: user.PhoneNumber,
		CustomerAddr:  user.Address,
	})
	if err != nil {
		logger.Errorw("payment_session_create_failed",
			"order_id", order.ID,
			"transaction_id", transactionID,
			"error", err,
		)
		return nil, ErrPaymentInitFailed
	}

	now := time.Now()
	existing, err := s.paymentRepo.GetByTransactionID(transactionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Status = constants.PaymentStatusInitiated
		existing.Amount = order.TotalPrice
		existing.SessionKey = result.SessionKey
		existing.GatewayURL = result.GatewayPageURL
		existing.FailedReason = ""
		existing.UpdatedAt = now
		if err := s.paymentRepo.Update(existing); err != nil {
			return nil, err
		}
	} else {
		record := &models.Payment{
			OrderID:       order.ID,
			TransactionID: transactionID,
			Amount:        order.TotalPrice,
			Status:        constants.PaymentStatusInitiated,
			SessionKey:    result.SessionKey,
			GatewayURL:    result.GatewayPageURL,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.paymentRepo.Create(record); err != nil {
			return nil, err
		}
	}

	return &InitiateResult{
		PaymentURL:    result.GatewayPageURL,
		TransactionID: transactionID,
		Amount:        order.TotalPrice,
	}, nil
}

// HandleCallback 处理网关支付回调。
// 验签通过后按网关状态落账：成功回调在同一事务内将订单从未支付推进到待发货、
// 更新支付记录并扣减库存，重复回调按影响行数幂等处理。
func (s *PaymentService) HandleCallback(form url.Values) (*CallbackResult, error) {
	if err := sslcommerz.VerifyCallback(s.gatewayConfig(), form); err != nil {
		logger.Warnw("payment_callback_bad_signature", "error", err)
		return nil, ErrPaymentBadSignature
	}

	transactionID := strings.TrimSpace(form.Get("tran_id"))
	gatewayStatus := strings.ToUpper(strings.TrimSpace(form.Get("status")))

	payment, err := s.paymentRepo.GetByTransactionID(transactionID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()

	switch gatewayStatus {
	case constants.GatewayStatusValid, constants.GatewayStatusValidated:
		if amount := strings.TrimSpace(form.Get("amount")); amount != "" {
			paid, err := models.NewMoneyFromString(amount)
			if err != nil || !paid.Equal(payment.Amount.Decimal) {
				logger.Warnw("payment_callback_amount_mismatch",
					"transaction_id", transactionID,
					"expected", payment.Amount.String(),
					"got", amount,
				)
				return nil, ErrPaymentAmountMismatch
			}
		}
		// 重复成功回调直接返回
		if payment.Status == constants.PaymentStatusSuccess {
			return s.callbackResult(order.ID, payment.Status), nil
		}

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			orderRepo := s.orderRepo.WithTx(tx)
			paymentRepo := s.paymentRepo.WithTx(tx)
			productRepo := s.productRepo.WithTx(tx)

			affected, err := orderRepo.UpdateStatusFrom(order.ID, constants.OrderStatusNotPaid, constants.OrderStatusReadyToShip, map[string]interface{}{
				"paid_at":    now,
				"updated_at": now,
			})
			if err != nil {
				return err
			}
			// 并发回调仅第一个推进订单状态，其余按已处理返回
			if affected == 0 {
				return nil
			}

			payment.Status = constants.PaymentStatusSuccess
			payment.PaidAt = &now
			payment.CallbackAt = &now
			payment.UpdatedAt = now
			if err := paymentRepo.Update(payment); err != nil {
				return err
			}

			for i := range order.Items {
				item := order.Items[i]
				rows, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if rows == 0 {
					// 支付窗口内库存被其他订单耗尽，保留订单并记录超卖
					logger.Warnw("payment_stock_decrement_skipped",
						"order_id", order.ID,
						"product_id", item.ProductID,
						"quantity", item.Quantity,
					)
				}
			}
			return nil
		})
		if err != nil {
			logger.Errorw("payment_callback_tx_failed",
				"order_id", order.ID,
				"transaction_id", transactionID,
				"error", err,
			)
			return nil, ErrOrderUpdateFailed
		}

		s.enqueueStatusEmail(order.ID, constants.OrderStatusReadyToShip)
		return s.callbackResult(order.ID, constants.PaymentStatusSuccess), nil

	case constants.GatewayStatusFailed, constants.GatewayStatusCanceled:
		// 仅未落账的支付记录可标记失败，订单保持未支付可重新发起
		if payment.Status == constants.PaymentStatusInitiated {
			payment.Status = constants.PaymentStatusFailed
			payment.FailedReason = strings.TrimSpace(form.Get("error"))
			if payment.FailedReason == "" {
				payment.FailedReason = gatewayStatus
			}
			payment.CallbackAt = &now
			payment.UpdatedAt = now
			if err := s.paymentRepo.Update(payment); err != nil {
				return nil, err
			}
		}
		return s.callbackResult(order.ID, constants.PaymentStatusFailed), nil

	default:
		logger.Warnw("payment_callback_unknown_status",
			"transaction_id", transactionID,
			"status", gatewayStatus,
		)
		return nil, ErrPaymentBadSignature
	}
}

// ListByOrder 获取订单支付记录（归属用户或管理员）
func (s *PaymentService) ListByOrder(orderID string, actor uint, actorIsStaff bool) ([]models.Payment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actorIsStaff && order.UserID != actor {
		return nil, ErrOrderNotFound
	}
	return s.paymentRepo.ListByOrderID(orderID)
}

func (s *PaymentService) callbackResult(orderID string, paymentStatus string) *CallbackResult {
	status := ""
	if order, err := s.orderRepo.GetByID(orderID); err == nil && order != nil {
		status = order.Status
	}
	return &CallbackResult{
		OrderID:       orderID,
		OrderStatus:   status,
		PaymentStatus: paymentStatus,
	}
}

func (s *PaymentService) enqueueStatusEmail(orderID string, status string) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  status,
	}); err != nil {
		logger.Warnw("payment_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}
