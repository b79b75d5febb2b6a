package service

import (
	"errors"
	"time"

	"github.com/phimart/phimart/internal/constants"
	"github.com/phimart/phimart/internal/logger"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/queue"
	"github.com/phimart/phimart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	queueClient   *queue.Client
	expireMinutes int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, queueClient *queue.Client, expireMinutes int) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		queueClient:   queueClient,
		expireMinutes: expireMinutes,
	}
}

// allowedTransitions 订单状态机，未列出的状态对一律拒绝
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusNotPaid: {
		constants.OrderStatusReadyToShip: true,
		constants.OrderStatusCanceled:    true,
	},
	constants.OrderStatusReadyToShip: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// OrderListResult 订单列表结果
type OrderListResult struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// CreateOrder 将购物车转换为订单：快照商品名称与单价，同一事务内删除购物车
func (s *OrderService) CreateOrder(userID uint, cartID string) (*models.Order, error) {
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if cart == nil || cart.UserID != userID {
		return nil, ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	now := time.Now()
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart.Items))
	for i := range cart.Items {
		cartItem := cart.Items[i]
		product := cartItem.Product
		if product == nil {
			product, err = s.productRepo.GetByID(cartItem.ProductID)
			if err != nil {
				return nil, ErrOrderFetchFailed
			}
			if product == nil {
				return nil, ErrProductNotFound
			}
		}
		if product.Stock < cartItem.Quantity {
			return nil, ErrStockInsufficient
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    cartItem.Quantity,
			TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
			CreatedAt:   now,
		})
	}

	order := &models.Order{
		UserID:     userID,
		Status:     constants.OrderStatusNotPaid,
		TotalPrice: models.NewMoneyFromDecimal(total),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		if err := cartRepo.DeleteItemsByCart(cart.ID); err != nil {
			return err
		}
		affected, err := cartRepo.Delete(cart.ID)
		if err != nil {
			return err
		}
		// 并发下单时第一个删除购物车的事务胜出，其余整体回滚
		if affected == 0 {
			return ErrCartNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return nil, ErrCartNotFound
		}
		logger.Errorw("order_create_tx_failed", "cart_id", cartID, "user_id", userID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	if s.queueClient != nil {
		expireMinutes := s.expireMinutes
		if expireMinutes <= 0 {
			expireMinutes = 15
		}
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
			OrderID: order.ID,
		}, time.Duration(expireMinutes)*time.Minute); err != nil {
			logger.Errorw("order_enqueue_timeout_cancel_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
		s.enqueueStatusEmail(order.ID, constants.OrderStatusNotPaid)
	}

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

// CancelOrder 取消订单，仅未支付订单允许，操作者须为订单归属用户或管理员
func (s *OrderService) CancelOrder(orderID string, actor uint, actorIsStaff bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actorIsStaff && order.UserID != actor {
		return nil, ErrPermissionDenied
	}
	if order.Status != constants.OrderStatusNotPaid {
		return nil, ErrOrderCancelNotAllowed
	}

	now := time.Now()
	affected, err := s.orderRepo.UpdateStatusFrom(order.ID, constants.OrderStatusNotPaid, constants.OrderStatusCanceled, map[string]interface{}{
		"canceled_at": now,
		"updated_at":  now,
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if affected == 0 {
		// 并发状态变更抢先，按当前状态拒绝
		return nil, ErrOrderCancelNotAllowed
	}

	s.enqueueStatusEmail(order.ID, constants.OrderStatusCanceled)

	order.Status = constants.OrderStatusCanceled
	order.CanceledAt = &now
	order.UpdatedAt = now
	return order, nil
}

// UpdateStatus 管理端更新订单状态，仅允许状态机内列出的迁移
func (s *OrderService) UpdateStatus(orderID string, targetStatus string, actorIsStaff bool) (*models.Order, error) {
	if !actorIsStaff {
		return nil, ErrPermissionDenied
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !allowedTransitions[order.Status][targetStatus] {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if targetStatus == constants.OrderStatusCanceled {
		updates["canceled_at"] = now
	}
	affected, err := s.orderRepo.UpdateStatusFrom(order.ID, order.Status, targetStatus, updates)
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if affected == 0 {
		return nil, ErrOrderStatusInvalid
	}

	s.enqueueStatusEmail(order.ID, targetStatus)

	order.Status = targetStatus
	order.UpdatedAt = now
	return order, nil
}

// Get 获取订单详情，归属用户或管理员可见
func (s *OrderService) Get(orderID string, actor uint, actorIsStaff bool) (*models.Order, error) {
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
	return order, nil
}

// List 订单列表，普通用户仅可见本人订单，管理员可见全部
func (s *OrderService) List(actor uint, actorIsStaff bool, filter repository.OrderListFilter) (*OrderListResult, error) {
	if !actorIsStaff {
		filter.UserID = actor
	}
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	return &OrderListResult{Orders: orders, Total: total}, nil
}

// CancelExpiredOrder 支付窗口超时后的取消（worker 调用），已非未支付状态则不动作
func (s *OrderService) CancelExpiredOrder(orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.Status != constants.OrderStatusNotPaid {
		return nil
	}
	now := time.Now()
	affected, err := s.orderRepo.UpdateStatusFrom(order.ID, constants.OrderStatusNotPaid, constants.OrderStatusCanceled, map[string]interface{}{
		"canceled_at": now,
		"updated_at":  now,
	})
	if err != nil {
		return err
	}
	if affected > 0 {
		s.enqueueStatusEmail(order.ID, constants.OrderStatusCanceled)
	}
	return nil
}

func (s *OrderService) enqueueStatusEmail(orderID string, status string) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  status,
	}); err != nil {
		logger.Warnw("order_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}
