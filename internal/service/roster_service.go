package service

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
)

type RosterService interface {
	ListMembers(ctx context.Context, managerEmail string) ([]*domain.TeamMember, error)
	// CountActive считает участников со статусом, отличным от Pending
	CountActive(ctx context.Context, managerEmail string) (int, error)
	AddMember(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error)
	FindMember(ctx context.Context, managerEmail, memberEmail string) (*domain.TeamMember, error)
	SetMemberCredits(ctx context.Context, managerEmail, memberEmail string, credits int) (*domain.TeamMember, error)
	// UpdateMemberCredits меняет кредиты участника относительно ранее прочитанного снимка.
	// Если запись успела измениться, возвращает ErrConcurrentUpdate.
	UpdateMemberCredits(ctx context.Context, snapshot *domain.TeamMember, credits int) (*domain.TeamMember, error)
	SetMemberStatus(ctx context.Context, managerEmail, memberEmail string, status domain.MemberStatus) (*domain.TeamMember, error)
}
