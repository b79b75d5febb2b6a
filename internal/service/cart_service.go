package service

import (
	"errors"
	"strings"

	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"

	"gorm.io/gorm"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartDetail 购物车详情（含按当前单价计算的合计）
type CartDetail struct {
	Cart       *models.Cart `json:"cart"`
	TotalPrice models.Money `json:"total_price"`
}

// GetOrCreate 获取用户购物车，不存在则创建
func (s *CartService) GetOrCreate(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{UserID: userID}
	if err := s.cartRepo.Create(cart); err != nil {
		// 并发创建时唯一索引冲突，重新读取已有购物车
		if isDuplicateKeyErr(err) {
			existing, fetchErr := s.cartRepo.GetByUser(userID)
			if fetchErr != nil {
				return nil, fetchErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return cart, nil
}

// Get 获取购物车详情（仅限购物车归属用户）
func (s *CartService) Get(cartID string, actor uint) (*CartDetail, error) {
	cart, err := s.loadOwnedCart(cartID, actor)
	if err != nil {
		return nil, err
	}
	return &CartDetail{Cart: cart, TotalPrice: cartTotal(cart)}, nil
}

// AddItem 添加商品到购物车，同一商品重复添加累加数量
func (s *CartService) AddItem(cartID string, productID uint, quantity int, actor uint) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.loadOwnedCart(cartID, actor); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	var item *models.CartItem
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		existing, err := cartRepo.GetItemForUpdate(cartID, productID)
		if err != nil {
			return err
		}
		if existing == nil {
			created := &models.CartItem{
				CartID:    cartID,
				ProductID: productID,
				Quantity:  quantity,
			}
			if err := cartRepo.CreateItem(created); err != nil {
				if !isDuplicateKeyErr(err) {
					return err
				}
				// 并发插入撞唯一索引，改为锁定已有行累加
				existing, err = cartRepo.GetItemForUpdate(cartID, productID)
				if err != nil {
					return err
				}
				if existing == nil {
					return ErrCartItemNotFound
				}
				existing.Quantity += quantity
				if err := cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity); err != nil {
					return err
				}
				item = existing
				return nil
			}
			item = created
			return nil
		}
		existing.Quantity += quantity
		if err := cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity); err != nil {
			return err
		}
		item = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// UpdateItemQuantity 覆盖更新购物车项数量
func (s *CartService) UpdateItemQuantity(cartID string, itemID uint, quantity int, actor uint) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.loadOwnedCart(cartID, actor); err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItemByID(cartID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(cartID string, itemID uint, actor uint) error {
	if _, err := s.loadOwnedCart(cartID, actor); err != nil {
		return err
	}
	affected, err := s.cartRepo.DeleteItem(cartID, itemID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Delete 删除整个购物车
func (s *CartService) Delete(cartID string, actor uint) error {
	if _, err := s.loadOwnedCart(cartID, actor); err != nil {
		return err
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		if err := cartRepo.DeleteItemsByCart(cartID); err != nil {
			return err
		}
		if _, err := cartRepo.Delete(cartID); err != nil {
			return err
		}
		return nil
	})
}

// loadOwnedCart 读取购物车并校验归属，非归属用户与不存在同样返回 ErrCartNotFound
func (s *CartService) loadOwnedCart(cartID string, actor uint) (*models.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, ErrCartNotFound
	}
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.UserID != actor {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

func cartTotal(cart *models.Cart) models.Money {
	if cart == nil {
		return models.Money{}
	}
	total := models.Money{}
	for i := range cart.Items {
		total = models.NewMoneyFromDecimal(total.Add(cart.Items[i].TotalPrice().Decimal))
	}
	return total
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique") || strings.Contains(message, "duplicate")
}
