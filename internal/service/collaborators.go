package service

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
)

// IdentityVerifier проверяет bearer-токен и возвращает личность менеджера
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// Mailer отправляет HTML-письма; ошибка возвращается синхронно
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// PaymentProvider создает платежные сессии и проверяет подпись вебхуков
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (string, error)
	ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error)
}

// PasswordAuthenticator выдает токены по email и паролю
type PasswordAuthenticator interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
}
