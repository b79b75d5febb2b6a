package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const testJWTSecret = "router-test-secret-0123456789abcdef"

func newRouterTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db error: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db error: %v", err)
	}
	return db
}

func signTestToken(t *testing.T, secret string, userID uint, email string, isStaff bool) string {
	t.Helper()
	claims := service.JWTClaims{
		UserID:  userID,
		Email:   email,
		IsStaff: isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token error: %v", err)
	}
	return token
}

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestJWTAuthMiddlewareChecksUserState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newRouterTestDB(t, "router_jwt_state")
	userRepo := repository.NewUserRepository(db)

	active := &models.User{Email: "active@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(active).Error; err != nil {
		t.Fatalf("seed user error: %v", err)
	}
	disabled := &models.User{Email: "disabled@example.com", PasswordHash: "x", IsActive: false}
	if err := db.Create(disabled).Error; err != nil {
		t.Fatalf("seed user error: %v", err)
	}

	r := gin.New()
	r.Use(JWTAuthMiddleware(testJWTSecret, userRepo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 200, "user_id": c.GetUint("user_id")})
	})

	do := func(token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		return w
	}

	statusCode := func(t *testing.T, w *httptest.ResponseRecorder) int {
		t.Helper()
		var resp struct {
			StatusCode int `json:"status_code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		return resp.StatusCode
	}

	if got := statusCode(t, do(signTestToken(t, testJWTSecret, active.ID, active.Email, false))); got != 200 {
		t.Fatalf("active user status_code want 200 got %d", got)
	}
	if got := statusCode(t, do(signTestToken(t, testJWTSecret, disabled.ID, disabled.Email, false))); got != 401 {
		t.Fatalf("disabled user status_code want 401 got %d", got)
	}
	if got := statusCode(t, do(signTestToken(t, testJWTSecret, active.ID+100, "ghost@example.com", false))); got != 401 {
		t.Fatalf("unknown user status_code want 401 got %d", got)
	}
	if got := statusCode(t, do(signTestToken(t, "wrong-secret-0123456789abcdefghij", active.ID, active.Email, false))); got != 401 {
		t.Fatalf("wrong secret status_code want 401 got %d", got)
	}
	if got := statusCode(t, do("")); got != 401 {
		t.Fatalf("missing token status_code want 401 got %d", got)
	}
}

func TestStaffMiddlewareDerivesFromDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newRouterTestDB(t, "router_staff")
	userRepo := repository.NewUserRepository(db)

	// 数据库里不是管理员，即使 token 声明 is_staff 也应拒绝
	member := &models.User{Email: "member@example.com", PasswordHash: "x", IsActive: true, IsStaff: false}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("seed user error: %v", err)
	}
	staff := &models.User{Email: "staff@example.com", PasswordHash: "x", IsActive: true, IsStaff: true}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("seed user error: %v", err)
	}

	r := gin.New()
	r.Use(JWTAuthMiddleware(testJWTSecret, userRepo), StaffMiddleware())
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 200})
	})

	do := func(userID uint, email string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, testJWTSecret, userID, email, true))
		r.ServeHTTP(w, req)
		var resp struct {
			StatusCode int `json:"status_code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		return resp.StatusCode
	}

	if got := do(staff.ID, staff.Email); got != 200 {
		t.Fatalf("staff status_code want 200 got %d", got)
	}
	if got := do(member.ID, member.Email); got != 403 {
		t.Fatalf("member status_code want 403 got %d", got)
	}
}
