package service

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
)

type CreditService interface {
	// GetCredits возвращает текущий баланс менеджера
	GetCredits(ctx context.Context, manager domain.Identity) int

	// InvalidateCredit возвращает менеджеру кредит неиспользованного приглашения
	InvalidateCredit(ctx context.Context, manager domain.Identity, memberEmail string) (*domain.InvalidationResult, error)
}
