package sslcommerz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func testConfig(gatewayURL string) *Config {
	return &Config{
		StoreID:       "teststore",
		StorePassword: "test_store_password",
		GatewayURL:    gatewayURL,
		SuccessURL:    "https://shop.example.com/payments/success",
		FailURL:       "https://shop.example.com/payments/fail",
		CancelURL:     "https://shop.example.com/payments/cancel",
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for nil config, got %v", err)
	}
	if err := ValidateConfig(&Config{StoreID: "s"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing password, got %v", err)
	}
	if err := ValidateConfig(&Config{StoreID: "s", StorePassword: "p"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing gateway url, got %v", err)
	}
	if err := ValidateConfig(&Config{StoreID: "s", StorePassword: "p", GatewayURL: "ftp://x"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for non http gateway url, got %v", err)
	}
	if err := ValidateConfig(testConfig("https://sandbox.example.com/api")); err != nil {
		t.Fatalf("ValidateConfig error: %v", err)
	}
}

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form error: %v", err)
		}
		if got := r.PostFormValue("store_id"); got != "teststore" {
			t.Errorf("expected store_id teststore, got %s", got)
		}
		if got := r.PostFormValue("tran_id"); got != "txn_abc" {
			t.Errorf("expected tran_id txn_abc, got %s", got)
		}
		if got := r.PostFormValue("currency"); got != "BDT" {
			t.Errorf("expected default currency BDT, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"SUCCESS","sessionkey":"sess-1","GatewayPageURL":"https://sandbox.example.com/pay/sess-1"}`))
	}))
	defer server.Close()

	result, err := CreateSession(context.Background(), testConfig(server.URL), CreateInput{
		TransactionID: "txn_abc",
		Amount:        "25.50",
	})
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	if result.SessionKey != "sess-1" {
		t.Fatalf("expected session key sess-1, got %s", result.SessionKey)
	}
	if result.GatewayPageURL != "https://sandbox.example.com/pay/sess-1" {
		t.Fatalf("unexpected gateway page url: %s", result.GatewayPageURL)
	}
}

func TestCreateSessionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"FAILED","failedreason":"store credentials invalid"}`))
	}))
	defer server.Close()

	_, err := CreateSession(context.Background(), testConfig(server.URL), CreateInput{
		TransactionID: "txn_abc",
		Amount:        "25.50",
	})
	if !errors.Is(err, ErrSessionRejected) {
		t.Fatalf("expected ErrSessionRejected, got %v", err)
	}
}

func TestCreateSessionMissingInput(t *testing.T) {
	_, err := CreateSession(context.Background(), testConfig("https://sandbox.example.com/api"), CreateInput{})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed for missing tran_id/amount, got %v", err)
	}
}

func signedForm(storePassword string, keys []string, values map[string]string) url.Values {
	form := url.Values{}
	parts := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		form.Set(key, values[key])
		parts = append(parts, key+"="+values[key])
	}
	parts = append(parts, "store_passwd="+signMD5(storePassword))
	form.Set("verify_key", strings.Join(keys, ","))
	form.Set("verify_sign", signMD5(strings.Join(parts, "&")))
	return form
}

func TestVerifyCallback(t *testing.T) {
	cfg := testConfig("https://sandbox.example.com/api")
	form := signedForm(cfg.StorePassword, []string{"amount", "status", "tran_id"}, map[string]string{
		"amount":  "25.50",
		"status":  "VALID",
		"tran_id": "txn_abc",
	})

	if err := VerifyCallback(cfg, form); err != nil {
		t.Fatalf("VerifyCallback error: %v", err)
	}

	// 大写签名同样接受
	upper := url.Values{}
	for k, vs := range form {
		upper[k] = append([]string(nil), vs...)
	}
	upper.Set("verify_sign", strings.ToUpper(upper.Get("verify_sign")))
	if err := VerifyCallback(cfg, upper); err != nil {
		t.Fatalf("VerifyCallback uppercase sign error: %v", err)
	}
}

func TestVerifyCallbackTampered(t *testing.T) {
	cfg := testConfig("https://sandbox.example.com/api")
	form := signedForm(cfg.StorePassword, []string{"amount", "status", "tran_id"}, map[string]string{
		"amount":  "25.50",
		"status":  "VALID",
		"tran_id": "txn_abc",
	})
	form.Set("amount", "0.01")

	if err := VerifyCallback(cfg, form); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyCallbackMissingSignature(t *testing.T) {
	cfg := testConfig("https://sandbox.example.com/api")

	form := url.Values{}
	form.Set("status", "VALID")
	if err := VerifyCallback(cfg, form); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid for missing verify_sign, got %v", err)
	}

	// 密钥不一致时验签失败
	other := testConfig("https://sandbox.example.com/api")
	other.StorePassword = "another_password"
	signed := signedForm(cfg.StorePassword, []string{"status", "tran_id"}, map[string]string{
		"status":  "VALID",
		"tran_id": "txn_abc",
	})
	if err := VerifyCallback(other, signed); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid with wrong password, got %v", err)
	}
}
