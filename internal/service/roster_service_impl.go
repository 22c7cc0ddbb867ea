package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/repository"
	"github.com/google/uuid"
)

const teamStore = "team store"

type rosterService struct {
	memberRepo repository.TeamMemberRepository
}

// NewRosterService создает новый экземпляр RosterService
func NewRosterService(memberRepo repository.TeamMemberRepository) RosterService {
	return &rosterService{memberRepo: memberRepo}
}

func (s *rosterService) ListMembers(ctx context.Context, managerEmail string) ([]*domain.TeamMember, error) {
	members, err := s.memberRepo.GetByManager(ctx, managerEmail)
	if err != nil {
		return nil, domain.NewUpstreamError(teamStore, "list members", err)
	}
	return members, nil
}

func (s *rosterService) CountActive(ctx context.Context, managerEmail string) (int, error) {
	count, err := s.memberRepo.CountByManagerExcludingStatus(ctx, managerEmail, domain.MemberStatusPending)
	if err != nil {
		return 0, domain.NewUpstreamError(teamStore, "count active members", err)
	}
	return count, nil
}

// AddMember присваивает участнику новый ID и время приглашения и сохраняет его
func (s *rosterService) AddMember(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error) {
	stored := *member
	stored.ID = uuid.NewString()
	stored.InvitedAt = time.Now()

	if err := s.memberRepo.Create(ctx, &stored); err != nil {
		return nil, domain.NewUpstreamError(teamStore, "create member", err)
	}
	return &stored, nil
}

func (s *rosterService) FindMember(ctx context.Context, managerEmail, memberEmail string) (*domain.TeamMember, error) {
	member, err := s.memberRepo.GetByEmail(ctx, managerEmail, memberEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.DomainError{
				Code:    domain.CodeNotFound,
				Message: "Team member not found: " + memberEmail,
			}
		}
		return nil, domain.NewUpstreamError(teamStore, "find member", err)
	}
	return member, nil
}

func (s *rosterService) SetMemberCredits(ctx context.Context, managerEmail, memberEmail string, credits int) (*domain.TeamMember, error) {
	if credits < 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("Invalid credit value (%d) for %s", credits, memberEmail))
	}

	member, err := s.FindMember(ctx, managerEmail, memberEmail)
	if err != nil {
		return nil, err
	}

	return s.UpdateMemberCredits(ctx, member, credits)
}

func (s *rosterService) UpdateMemberCredits(ctx context.Context, snapshot *domain.TeamMember, credits int) (*domain.TeamMember, error) {
	if credits < 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("Invalid credit value (%d) for %s", credits, snapshot.Email))
	}

	if err := s.memberRepo.UpdateCredits(ctx, snapshot, credits); err != nil {
		return nil, s.updateError(err, snapshot.Email, "update member credits")
	}

	updated := *snapshot
	updated.Credits = credits
	return &updated, nil
}

func (s *rosterService) SetMemberStatus(ctx context.Context, managerEmail, memberEmail string, status domain.MemberStatus) (*domain.TeamMember, error) {
	member, err := s.FindMember(ctx, managerEmail, memberEmail)
	if err != nil {
		return nil, err
	}

	if member.Status == status {
		return member, nil
	}

	if err := s.memberRepo.UpdateStatus(ctx, member.ID, status); err != nil {
		return nil, s.updateError(err, memberEmail, "update member status")
	}

	member.Status = status
	return member, nil
}

func (s *rosterService) updateError(err error, memberEmail, operation string) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return domain.ErrConcurrentUpdate
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.DomainError{
			Code:    domain.CodeNotFound,
			Message: "Team member not found: " + memberEmail,
		}
	}
	return domain.NewUpstreamError(teamStore, operation, err)
}
