package repository

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
)

type CreditRepository interface {
	GetByManager(ctx context.Context, managerEmail string) (*domain.CreditBalance, error)
	// Upsert прибавляет amount к балансу, создавая запись при отсутствии
	Upsert(ctx context.Context, managerEmail string, amount int) (*domain.CreditBalance, error)
	Update(ctx context.Context, managerEmail string, credits int) (*domain.CreditBalance, error)
	// UpdateIfVersion записывает баланс только если версия не изменилась
	UpdateIfVersion(ctx context.Context, managerEmail string, credits int, version int64) (*domain.CreditBalance, error)
	// ApplyPayment атомарно фиксирует событие оплаты и начисляет кредиты.
	// applied == false, если событие с таким sessionID уже обработано.
	ApplyPayment(ctx context.Context, event *domain.PaymentEvent) (balance *domain.CreditBalance, applied bool, err error)
}
