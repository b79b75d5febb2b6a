package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/constants"
)

func TestSendOrderStatusEmailGuards(t *testing.T) {
	input := OrderStatusEmailInput{OrderID: "order-1", Status: constants.OrderStatusReadyToShip}

	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendOrderStatusEmail("buyer@example.com", input); !errors.Is(err, ErrEmailDisabled) {
		t.Fatalf("expected ErrEmailDisabled, got %v", err)
	}

	unconfigured := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := unconfigured.SendOrderStatusEmail("buyer@example.com", input); !errors.Is(err, ErrEmailNotConfigured) {
		t.Fatalf("expected ErrEmailNotConfigured, got %v", err)
	}

	configured := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	})
	if err := configured.SendOrderStatusEmail("not-an-email", input); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestBuildOrderStatusContent(t *testing.T) {
	amount := testMoney(t, "25.50")

	subject, body := buildOrderStatusContent(OrderStatusEmailInput{
		OrderID: "order-1",
		Status:  constants.OrderStatusReadyToShip,
		Amount:  amount,
	})
	if !strings.Contains(subject, "Ready To Ship") {
		t.Fatalf("unexpected subject: %s", subject)
	}
	if !strings.Contains(body, "25.50") {
		t.Fatalf("expected amount in body, got: %s", body)
	}

	subject, body = buildOrderStatusContent(OrderStatusEmailInput{
		OrderID: "order-2",
		Status:  constants.OrderStatusCanceled,
		Amount:  amount,
	})
	if !strings.Contains(subject, "Canceled") {
		t.Fatalf("unexpected subject: %s", subject)
	}
	if !strings.Contains(body, "canceled") {
		t.Fatalf("unexpected body: %s", body)
	}
}
