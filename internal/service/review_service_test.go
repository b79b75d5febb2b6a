package service

import (
	"errors"
	"testing"

	"github.com/phimart/phimart/internal/repository"

	"gorm.io/gorm"
)

func newTestReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(repository.NewReviewRepository(db), repository.NewProductRepository(db))
}

func TestCreateReviewOncePerUser(t *testing.T) {
	db := newServiceTestDB(t, "review_create")
	user := seedTestUser(t, db, "buyer@example.com", false)
	product := seedTestProduct(t, db, "Earphones", "10.00", 50)
	svc := newTestReviewService(db)

	review, err := svc.Create(product.ID, user.ID, ReviewInput{Ratings: 4, Comment: "good sound"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if review.Ratings != 4 {
		t.Fatalf("expected ratings 4, got %d", review.Ratings)
	}

	// 同一用户对同一商品只能评价一次
	if _, err := svc.Create(product.ID, user.ID, ReviewInput{Ratings: 5, Comment: "again"}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}

	if _, err := svc.Create(product.ID+100, user.ID, ReviewInput{Ratings: 3}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateReviewRatingsBounds(t *testing.T) {
	db := newServiceTestDB(t, "review_ratings")
	user := seedTestUser(t, db, "buyer@example.com", false)
	product := seedTestProduct(t, db, "Watch", "20.00", 10)
	svc := newTestReviewService(db)

	for _, ratings := range []int{0, 6, -1} {
		if _, err := svc.Create(product.ID, user.ID, ReviewInput{Ratings: ratings}); !errors.Is(err, ErrReviewInvalidRatings) {
			t.Fatalf("expected ErrReviewInvalidRatings for %d, got %v", ratings, err)
		}
	}
}

func TestUpdateReviewAuthorOnly(t *testing.T) {
	db := newServiceTestDB(t, "review_update")
	author := seedTestUser(t, db, "author@example.com", false)
	other := seedTestUser(t, db, "other@example.com", false)
	product := seedTestProduct(t, db, "Rice", "6.20", 100)
	svc := newTestReviewService(db)

	review, err := svc.Create(product.ID, author.ID, ReviewInput{Ratings: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Update(review.ID, other.ID, ReviewInput{Ratings: 1}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	updated, err := svc.Update(review.ID, author.ID, ReviewInput{Ratings: 5, Comment: "better than expected"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Ratings != 5 {
		t.Fatalf("expected ratings 5, got %d", updated.Ratings)
	}
}

func TestDeleteReviewAuthorOrStaff(t *testing.T) {
	db := newServiceTestDB(t, "review_delete")
	author := seedTestUser(t, db, "author@example.com", false)
	other := seedTestUser(t, db, "other@example.com", false)
	staff := seedTestUser(t, db, "staff@example.com", true)
	product := seedTestProduct(t, db, "Shirt", "4.50", 10)
	svc := newTestReviewService(db)

	review, err := svc.Create(product.ID, author.ID, ReviewInput{Ratings: 2, Comment: "runs small"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.Delete(review.ID, other.ID, false); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.Delete(review.ID, staff.ID, true); err != nil {
		t.Fatalf("staff Delete error: %v", err)
	}
	if err := svc.Delete(review.ID, staff.ID, true); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound after delete, got %v", err)
	}
}

func TestListReviewsByProduct(t *testing.T) {
	db := newServiceTestDB(t, "review_list")
	alice := seedTestUser(t, db, "alice@example.com", false)
	bob := seedTestUser(t, db, "bob@example.com", false)
	product := seedTestProduct(t, db, "Algorithms", "5.50", 20)
	svc := newTestReviewService(db)

	if _, err := svc.Create(product.ID, alice.ID, ReviewInput{Ratings: 5, Comment: "classic"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(product.ID, bob.ID, ReviewInput{Ratings: 4}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	result, err := svc.ListByProduct(repository.ReviewListFilter{Page: 1, PageSize: 10, ProductID: product.ID})
	if err != nil {
		t.Fatalf("ListByProduct error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 reviews, got %d", result.Total)
	}

	if _, err := svc.ListByProduct(repository.ReviewListFilter{Page: 1, PageSize: 10, ProductID: product.ID + 100}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
