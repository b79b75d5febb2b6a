package sslcommerz

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrConfigInvalid 网关配置不完整
	ErrConfigInvalid = errors.New("sslcommerz: config invalid")
	// ErrRequestFailed 网关请求失败
	ErrRequestFailed = errors.New("sslcommerz: request failed")
	// ErrResponseInvalid 网关响应无法解析
	ErrResponseInvalid = errors.New("sslcommerz: response invalid")
	// ErrSessionRejected 网关拒绝创建支付会话
	ErrSessionRejected = errors.New("sslcommerz: session rejected")
	// ErrSignatureInvalid 回调验签失败
	ErrSignatureInvalid = errors.New("sslcommerz: signature invalid")
)

const defaultTimeout = 10 * time.Second

// Config SSLCommerz 网关配置
type Config struct {
	StoreID       string `json:"store_id"`
	StorePassword string `json:"store_password"`
	GatewayURL    string `json:"gateway_url"`
	SuccessURL    string `json:"success_url"`
	FailURL       string `json:"fail_url"`
	CancelURL     string `json:"cancel_url"`
	NotifyURL     string `json:"notify_url"`
	TimeoutMS     int    `json:"timeout_ms"`
}

func (c *Config) normalize() {
	c.StoreID = strings.TrimSpace(c.StoreID)
	c.StorePassword = strings.TrimSpace(c.StorePassword)
	c.GatewayURL = strings.TrimSpace(c.GatewayURL)
	c.SuccessURL = strings.TrimSpace(c.SuccessURL)
	c.FailURL = strings.TrimSpace(c.FailURL)
	c.CancelURL = strings.TrimSpace(c.CancelURL)
	c.NotifyURL = strings.TrimSpace(c.NotifyURL)
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutMS > 0 {
		return time.Duration(c.TimeoutMS) * time.Millisecond
	}
	return defaultTimeout
}

// ValidateConfig 校验网关配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrConfigInvalid
	}
	cfg.normalize()
	if cfg.StoreID == "" || cfg.StorePassword == "" {
		return fmt.Errorf("%w: store_id/store_password required", ErrConfigInvalid)
	}
	if cfg.GatewayURL == "" {
		return fmt.Errorf("%w: gateway_url required", ErrConfigInvalid)
	}
	if !strings.HasPrefix(cfg.GatewayURL, "http://") && !strings.HasPrefix(cfg.GatewayURL, "https://") {
		return fmt.Errorf("%w: gateway_url must be http(s)", ErrConfigInvalid)
	}
	return nil
}

// CreateInput 创建支付会话的业务参数
type CreateInput struct {
	TransactionID string
	Amount        string
	Currency      string
	ProductName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CustomerAddr  string
}

// CreateResult 支付会话创建结果
type CreateResult struct {
	SessionKey     string
	GatewayPageURL string
}

type createResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// CreateSession 调用网关创建支付会话，返回收银台跳转地址
func CreateSession(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.TransactionID) == "" || strings.TrimSpace(input.Amount) == "" {
		return nil, fmt.Errorf("%w: tran_id/amount required", ErrRequestFailed)
	}
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = "BDT"
	}

	params := url.Values{}
	params.Set("store_id", cfg.StoreID)
	params.Set("store_passwd", cfg.StorePassword)
	params.Set("total_amount", input.Amount)
	params.Set("currency", currency)
	params.Set("tran_id", input.TransactionID)
	params.Set("success_url", cfg.SuccessURL)
	params.Set("fail_url", cfg.FailURL)
	params.Set("cancel_url", cfg.CancelURL)
	if cfg.NotifyURL != "" {
		params.Set("ipn_url", cfg.NotifyURL)
	}
	params.Set("shipping_method", "NO")
	params.Set("num_of_item", "1")
	params.Set("product_name", valueOr(input.ProductName, "order"))
	params.Set("product_category", "general")
	params.Set("product_profile", "general")
	params.Set("cus_name", valueOr(input.CustomerName, "customer"))
	params.Set("cus_email", valueOr(input.CustomerEmail, "unknown@example.com"))
	params.Set("cus_add1", valueOr(input.CustomerAddr, "N/A"))
	params.Set("cus_city", "N/A")
	params.Set("cus_country", "Bangladesh")
	params.Set("cus_phone", valueOr(input.CustomerPhone, "N/A"))

	body, err := postForm(ctx, cfg.GatewayURL, params, cfg.timeout())
	if err != nil {
		return nil, err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if !strings.EqualFold(resp.Status, "SUCCESS") {
		reason := strings.TrimSpace(resp.FailedReason)
		if reason == "" {
			reason = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrSessionRejected, reason)
	}
	if resp.GatewayPageURL == "" {
		return nil, fmt.Errorf("%w: empty GatewayPageURL", ErrResponseInvalid)
	}
	return &CreateResult{
		SessionKey:     resp.SessionKey,
		GatewayPageURL: resp.GatewayPageURL,
	}, nil
}

// VerifyCallback 校验网关回调签名。
// 网关在回调中带 verify_key（参与签名的字段名列表，逗号分隔）与 verify_sign，
// 按 verify_key 顺序拼接 k=v&，追加 store_passwd=md5(商户密钥) 后取 MD5 与 verify_sign 比对。
func VerifyCallback(cfg *Config, form url.Values) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	verifySign := strings.ToLower(strings.TrimSpace(firstValue(form, "verify_sign")))
	verifyKey := strings.TrimSpace(firstValue(form, "verify_key"))
	if verifySign == "" || verifyKey == "" {
		return fmt.Errorf("%w: missing verify_sign/verify_key", ErrSignatureInvalid)
	}

	parts := make([]string, 0, 16)
	for _, key := range strings.Split(verifyKey, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		parts = append(parts, key+"="+firstValue(form, key))
	}
	parts = append(parts, "store_passwd="+signMD5(cfg.StorePassword))

	expected := signMD5(strings.Join(parts, "&"))
	if expected != verifySign {
		return ErrSignatureInvalid
	}
	return nil
}

func postForm(ctx context.Context, endpoint string, params url.Values, timeout time.Duration) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http status %d", ErrRequestFailed, resp.StatusCode)
	}
	return body, nil
}

// signMD5 小写十六进制 MD5
func signMD5(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

func firstValue(form url.Values, key string) string {
	if vs, ok := form[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func valueOr(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
