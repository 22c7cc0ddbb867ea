package service

import (
	"context"
	"time"

	"github.com/bagdasarian/team-credits/internal/domain"
)

type PurchaseService interface {
	// StartCheckout создает платежную сессию с учетом скидки за размер команды и возвращает URL оплаты
	StartCheckout(ctx context.Context, manager domain.Identity, credits int) (string, error)

	// ConfirmPayment проверяет подпись события провайдера и начисляет кредиты
	ConfirmPayment(ctx context.Context, payload []byte, signature string) (*domain.WebhookResult, error)
}

type PurchaseOptions struct {
	BasePricePerCredit float64
	Currency           string
	ProductName        string
	ExternalTimeout    time.Duration
}
