package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/provider"
	"github.com/phimart/phimart/internal/service"

	"github.com/gin-gonic/gin"
)

func TestPaymentCallbackRejectsUnsignedForm(t *testing.T) {
	gin.SetMode(gin.TestMode)

	paymentCfg := &config.PaymentConfig{
		StoreID:       "teststore",
		StorePassword: "test_store_password",
		GatewayURL:    "https://sandbox.example.com/api",
	}
	h := New(&provider.Container{
		PaymentService: service.NewPaymentService(paymentCfg, nil, nil, nil, nil, nil),
	})

	form := url.Values{}
	form.Set("tran_id", "txn_abc")
	form.Set("status", "VALID")
	form.Set("amount", "25.50")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req

	h.PaymentCallback(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected http status 200, got %d", w.Code)
	}
	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status_code 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Msg, "signature") {
		t.Fatalf("expected signature error message, got %q", resp.Msg)
	}
}
