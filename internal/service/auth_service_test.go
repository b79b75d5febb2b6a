package service

import (
	"errors"
	"testing"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"

	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "unit-test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireHours = 1
	return NewAuthService(cfg, repository.NewUserRepository(db))
}

func TestRegisterNormalizesEmail(t *testing.T) {
	db := newServiceTestDB(t, "auth_register")
	svc := newTestAuthService(db)

	user, err := svc.Register(RegisterInput{
		Email:     "  Buyer@Example.COM ",
		Password:  "secret123",
		FirstName: "Test",
		LastName:  "Buyer",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}

	// 大小写不同视为同一邮箱
	if _, err := svc.Register(RegisterInput{Email: "BUYER@example.com", Password: "other456"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad email, got %v", err)
	}
	if _, err := svc.Register(RegisterInput{Email: "new@example.com", Password: "   "}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	db := newServiceTestDB(t, "auth_login")
	svc := newTestAuthService(db)

	if _, err := svc.Register(RegisterInput{Email: "buyer@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	result, err := svc.Login("buyer@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token issued")
	}
	if result.User.LastLoginAt == nil {
		t.Fatalf("expected last_login_at set")
	}

	if _, err := svc.Login("buyer@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	db := newServiceTestDB(t, "auth_login_disabled")
	svc := newTestAuthService(db)

	user, err := svc.Register(RegisterInput{Email: "buyer@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable user error: %v", err)
	}

	if _, err := svc.Login("buyer@example.com", "secret123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestCreateUserPersistsActiveFlag(t *testing.T) {
	db := newServiceTestDB(t, "auth_active_flag")
	users := repository.NewUserRepository(db)

	// is_active 的 false 必须原样落库，不能被列默认值顶掉
	disabled := &models.User{Email: "disabled@example.com", PasswordHash: "x", IsActive: false}
	if err := db.Create(disabled).Error; err != nil {
		t.Fatalf("create user error: %v", err)
	}
	reloaded, err := users.GetByID(disabled.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if reloaded.IsActive {
		t.Fatalf("expected is_active false after reload, got true")
	}

	enabled := &models.User{Email: "enabled@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(enabled).Error; err != nil {
		t.Fatalf("create user error: %v", err)
	}
	reloaded, err = users.GetByID(enabled.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !reloaded.IsActive {
		t.Fatalf("expected is_active true after reload, got false")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	db := newServiceTestDB(t, "auth_jwt")
	svc := newTestAuthService(db)
	staff := seedTestUser(t, db, "staff@example.com", true)

	token, expiresAt, err := svc.GenerateJWT(staff)
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatalf("expected non zero expiry")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT error: %v", err)
	}
	if claims.UserID != staff.ID {
		t.Fatalf("expected user id %d, got %d", staff.ID, claims.UserID)
	}
	if claims.Email != staff.Email {
		t.Fatalf("expected email %s, got %s", staff.Email, claims.Email)
	}
	if !claims.IsStaff {
		t.Fatalf("expected is_staff claim")
	}

	// 密钥不一致的 token 拒绝
	otherCfg := &config.Config{}
	otherCfg.JWT.SecretKey = "another-secret-key-0123456789abcdef"
	other := NewAuthService(otherCfg, repository.NewUserRepository(db))
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("expected parse failure with different secret")
	}

	if _, err := svc.ParseJWT("not.a.token"); err == nil {
		t.Fatalf("expected parse failure for malformed token")
	}
}
