package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bagdasarian/team-credits/internal/domain"
)

// withTimeout ограничивает вызов внешнего сервиса; нулевой timeout оставляет ctx как есть
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// outcome превращает ошибку в метку для метрик
func outcome(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return strings.ToLower(domainErr.Code)
	}
	return "internal_error"
}
