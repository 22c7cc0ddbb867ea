package service

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
)

type LedgerService interface {
	// GetBalance возвращает баланс менеджера; при отсутствии записи или ошибке чтения - 0
	GetBalance(ctx context.Context, managerEmail string) int

	// Credit начисляет amount кредитов, создавая запись при первой покупке
	Credit(ctx context.Context, managerEmail string, amount int) (int, error)

	// SetBalance перезаписывает баланс существующей записи
	SetBalance(ctx context.Context, managerEmail string, newBalance int) (*domain.CreditBalance, error)

	// Adjust изменяет баланс на delta с проверкой версии записи
	Adjust(ctx context.Context, managerEmail string, delta int) (*domain.CreditBalance, error)

	// CreditOnce начисляет кредиты по событию оплаты не более одного раза на сессию
	CreditOnce(ctx context.Context, event *domain.PaymentEvent) (balance int, applied bool, err error)
}
