package service

import (
	"context"
	"time"

	"github.com/bagdasarian/team-credits/internal/domain"
)

type TeamService interface {
	// Invite приглашает участника: письмо с купоном, списание кредита, запись в команду
	Invite(ctx context.Context, manager domain.Identity, email string) (*domain.InviteResult, error)

	// ListMembers возвращает всех приглашенных менеджером участников
	ListMembers(ctx context.Context, manager domain.Identity) ([]*domain.TeamMember, error)

	// Notify переводит участника в новый статус и уведомляет менеджера письмом
	Notify(ctx context.Context, manager domain.Identity, memberEmail string, action domain.NotificationAction) error
}

type TeamOptions struct {
	LinkBaseURL     string
	ExternalTimeout time.Duration
}
