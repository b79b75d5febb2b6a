package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/constants"
	"github.com/phimart/phimart/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderID string
	Status  string
	Amount  models.Money
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(toEmail string, input OrderStatusEmailInput) error {
	subject, body := buildOrderStatusContent(input)
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildOrderStatusContent(input OrderStatusEmailInput) (string, string) {
	label := orderStatusLabel(input.Status)
	subject := fmt.Sprintf("Order %s - %s", input.OrderID, label)
	switch input.Status {
	case constants.OrderStatusReadyToShip:
		return subject, fmt.Sprintf("Your payment of %s for order %s was received. The order is now being prepared for shipment.", input.Amount.String(), input.OrderID)
	case constants.OrderStatusCanceled:
		return subject, fmt.Sprintf("Your order %s (total %s) has been canceled. If you already paid, please contact support.", input.OrderID, input.Amount.String())
	case constants.OrderStatusShipped:
		return subject, fmt.Sprintf("Your order %s has been shipped.", input.OrderID)
	case constants.OrderStatusDelivered:
		return subject, fmt.Sprintf("Your order %s has been delivered. Thank you for shopping with us.", input.OrderID)
	default:
		return subject, fmt.Sprintf("Your order %s (total %s) is awaiting payment.", input.OrderID, input.Amount.String())
	}
}

func orderStatusLabel(status string) string {
	switch status {
	case constants.OrderStatusNotPaid:
		return "Awaiting Payment"
	case constants.OrderStatusReadyToShip:
		return "Ready To Ship"
	case constants.OrderStatusShipped:
		return "Shipped"
	case constants.OrderStatusDelivered:
		return "Delivered"
	case constants.OrderStatusCanceled:
		return "Canceled"
	default:
		return status
	}
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
