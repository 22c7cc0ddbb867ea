package service

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/metrics"
	"github.com/sirupsen/logrus"
)

type creditService struct {
	roster  RosterService
	ledger  LedgerService
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewCreditService создает новый экземпляр CreditService
func NewCreditService(roster RosterService, ledger LedgerService, log logrus.FieldLogger, m *metrics.Metrics) CreditService {
	return &creditService{
		roster:  roster,
		ledger:  ledger,
		log:     log,
		metrics: m,
	}
}

func (s *creditService) GetCredits(ctx context.Context, manager domain.Identity) int {
	return s.ledger.GetBalance(ctx, manager.Email)
}

func (s *creditService) InvalidateCredit(ctx context.Context, manager domain.Identity, memberEmail string) (*domain.InvalidationResult, error) {
	result, err := s.invalidate(ctx, manager, memberEmail)
	if err != nil {
		s.metrics.RecordInvalidation(outcome(err))
		return nil, err
	}
	s.metrics.RecordInvalidation("invalidated")
	return result, nil
}

// invalidate возвращает кредит менеджеру, затем списывает его с участника.
// Запись участника условная: если параллельный запрос уже забрал кредит,
// она не проходит и возврат менеджеру откатывается обратной корректировкой.
func (s *creditService) invalidate(ctx context.Context, manager domain.Identity, memberEmail string) (*domain.InvalidationResult, error) {
	if memberEmail == "" {
		return nil, domain.NewInvalidInputError("Team member email is required")
	}
	if !IsValidEmail(memberEmail) {
		return nil, domain.NewInvalidInputError("Invalid email format")
	}

	member, err := s.roster.FindMember(ctx, manager.Email, memberEmail)
	if err != nil {
		return nil, err
	}

	if member.Status != domain.MemberStatusPending {
		return nil, domain.NewInvalidStateError("Cannot invalidate credit for an active team member")
	}

	if member.Credits < 1 {
		return nil, &domain.DomainError{
			Code:    domain.CodeNotFound,
			Message: "No credits found for this team member",
		}
	}

	if _, err := s.ledger.Adjust(ctx, manager.Email, 1); err != nil {
		return nil, err
	}

	if _, err := s.roster.UpdateMemberCredits(ctx, member, member.Credits-1); err != nil {
		s.compensate(ctx, manager.Email, memberEmail)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"manager": manager.Email,
		"member":  memberEmail,
	}).Info("credit invalidated")

	return &domain.InvalidationResult{
		Status:          "credit_invalidated",
		Email:           memberEmail,
		CreditsRestored: 1,
	}, nil
}

func (s *creditService) compensate(ctx context.Context, managerEmail, memberEmail string) {
	entry := s.log.WithFields(logrus.Fields{
		"manager": managerEmail,
		"member":  memberEmail,
	})

	if _, err := s.ledger.Adjust(ctx, managerEmail, -1); err != nil {
		entry.WithError(err).Error("failed to reverse manager credit after member write failure")
		s.metrics.RecordCompensation("invalidate", "failed")
		return
	}
	entry.Warn("manager credit reversed after member write failure")
	s.metrics.RecordCompensation("invalidate", "reversed")
}
