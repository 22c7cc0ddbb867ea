package repository

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
)

type TeamMemberRepository interface {
	Create(ctx context.Context, member *domain.TeamMember) error
	GetByManager(ctx context.Context, managerEmail string) ([]*domain.TeamMember, error)
	GetByEmail(ctx context.Context, managerEmail, memberEmail string) (*domain.TeamMember, error)
	CountByManagerExcludingStatus(ctx context.Context, managerEmail string, status domain.MemberStatus) (int, error)
	// UpdateCredits записывает кредиты участника, только если его кредиты и статус
	// совпадают с прочитанным снимком member. Иначе возвращает ErrVersionConflict.
	UpdateCredits(ctx context.Context, member *domain.TeamMember, credits int) error
	UpdateStatus(ctx context.Context, id string, status domain.MemberStatus) error
}
