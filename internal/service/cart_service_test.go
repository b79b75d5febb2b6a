package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"

	"gorm.io/gorm"
)

func newTestCartService(db *gorm.DB) *CartService {
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func TestGetOrCreateReusesCart(t *testing.T) {
	db := newServiceTestDB(t, "cart_get_or_create")
	user := seedTestUser(t, db, "buyer@example.com", false)
	svc := newTestCartService(db)

	first, err := svc.GetOrCreate(user.ID)
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	second, err := svc.GetOrCreate(user.ID)
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cart, got %s and %s", first.ID, second.ID)
	}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	db := newServiceTestDB(t, "cart_add_item")
	user := seedTestUser(t, db, "buyer@example.com", false)
	product := seedTestProduct(t, db, "Earphones", "10.00", 50)
	cart := seedTestCart(t, db, user.ID)
	svc := newTestCartService(db)

	if _, err := svc.AddItem(cart.ID, product.ID, 2, user.ID); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	item, err := svc.AddItem(cart.ID, product.ID, 3, user.ID)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("expected quantity 5 after repeat add, got %d", item.Quantity)
	}

	// 同一商品只应有一行购物车项
	var count int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cart items error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cart item row, got %d", count)
	}
}

func TestAddItemConcurrentFirstAdd(t *testing.T) {
	db := newServiceTestDB(t, "cart_add_concurrent")
	user := seedTestUser(t, db, "buyer@example.com", false)
	product := seedTestProduct(t, db, "Earphones", "10.00", 50)
	cart := seedTestCart(t, db, user.ID)
	svc := newTestCartService(db)

	// 两个并发请求同时往空购物车加同一商品，应合并为一行并累加数量
	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(cart.ID, product.ID, 1, user.ID)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent AddItem error: %v", err)
		}
	}

	var items []models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).Find(&items).Error; err != nil {
		t.Fatalf("load cart items error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 cart item row, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddItemValidations(t *testing.T) {
	db := newServiceTestDB(t, "cart_add_validate")
	owner := seedTestUser(t, db, "owner@example.com", false)
	other := seedTestUser(t, db, "other@example.com", false)
	product := seedTestProduct(t, db, "Watch", "20.00", 10)
	cart := seedTestCart(t, db, owner.ID)
	svc := newTestCartService(db)

	if _, err := svc.AddItem(cart.ID, product.ID, 0, owner.ID); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.AddItem(cart.ID, product.ID, 1, other.ID); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound for foreign cart, got %v", err)
	}
	if _, err := svc.AddItem(cart.ID, product.ID+100, 1, owner.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateItemQuantityOverrides(t *testing.T) {
	db := newServiceTestDB(t, "cart_update_item")
	user := seedTestUser(t, db, "buyer@example.com", false)
	product := seedTestProduct(t, db, "Rice", "6.20", 100)
	cart := seedTestCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 2})

	var seeded models.CartItem
	if err := db.Where("cart_id = ?", cart.ID).First(&seeded).Error; err != nil {
		t.Fatalf("load cart item error: %v", err)
	}

	svc := newTestCartService(db)
	item, err := svc.UpdateItemQuantity(cart.ID, seeded.ID, 7, user.ID)
	if err != nil {
		t.Fatalf("UpdateItemQuantity error: %v", err)
	}
	if item.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", item.Quantity)
	}

	if _, err := svc.UpdateItemQuantity(cart.ID, seeded.ID, -1, user.ID); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.UpdateItemQuantity(cart.ID, seeded.ID+100, 1, user.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	db := newServiceTestDB(t, "cart_remove_item")
	user := seedTestUser(t, db, "buyer@example.com", false)
	product := seedTestProduct(t, db, "Shirt", "4.50", 10)
	cart := seedTestCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1})

	var seeded models.CartItem
	if err := db.Where("cart_id = ?", cart.ID).First(&seeded).Error; err != nil {
		t.Fatalf("load cart item error: %v", err)
	}

	svc := newTestCartService(db)
	if err := svc.RemoveItem(cart.ID, seeded.ID, user.ID); err != nil {
		t.Fatalf("RemoveItem error: %v", err)
	}
	if err := svc.RemoveItem(cart.ID, seeded.ID, user.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound on second remove, got %v", err)
	}
}

func TestCartTotalUsesCurrentPrices(t *testing.T) {
	db := newServiceTestDB(t, "cart_total")
	user := seedTestUser(t, db, "buyer@example.com", false)
	earphones := seedTestProduct(t, db, "Earphones", "10.00", 50)
	book := seedTestProduct(t, db, "Algorithms", "5.50", 20)
	cart := seedTestCart(t, db, user.ID,
		models.CartItem{ProductID: earphones.ID, Quantity: 2},
		models.CartItem{ProductID: book.ID, Quantity: 1},
	)

	svc := newTestCartService(db)
	detail, err := svc.Get(cart.ID, user.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got := detail.TotalPrice.String(); got != "25.50" {
		t.Fatalf("expected total 25.50, got %s", got)
	}

	// 购物车阶段价格未锁定，改价后合计随之变化
	earphones.Price = testMoney(t, "12.00")
	if err := db.Save(earphones).Error; err != nil {
		t.Fatalf("update product price error: %v", err)
	}
	detail, err = svc.Get(cart.ID, user.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got := detail.TotalPrice.String(); got != "29.50" {
		t.Fatalf("expected total 29.50 after price change, got %s", got)
	}
}

func TestDeleteCart(t *testing.T) {
	db := newServiceTestDB(t, "cart_delete")
	user := seedTestUser(t, db, "buyer@example.com", false)
	product := seedTestProduct(t, db, "Watch", "20.00", 10)
	cart := seedTestCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1})

	svc := newTestCartService(db)
	if err := svc.Delete(cart.ID, user.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.Get(cart.ID, user.ID); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound after delete, got %v", err)
	}
	var itemCount int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count cart items error: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("expected cart items removed, got %d", itemCount)
	}
}
