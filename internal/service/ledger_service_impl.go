package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/repository"
	"github.com/sirupsen/logrus"
)

const creditStore = "credit store"

type ledgerService struct {
	creditRepo repository.CreditRepository
	log        logrus.FieldLogger
}

// NewLedgerService создает новый экземпляр LedgerService
func NewLedgerService(creditRepo repository.CreditRepository, log logrus.FieldLogger) LedgerService {
	return &ledgerService{
		creditRepo: creditRepo,
		log:        log,
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, managerEmail string) int {
	balance, err := s.creditRepo.GetByManager(ctx, managerEmail)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WithError(err).WithField("manager", managerEmail).Error("Error getting credits")
		}
		return 0
	}
	return balance.Credits
}

func (s *ledgerService) Credit(ctx context.Context, managerEmail string, amount int) (int, error) {
	if amount <= 0 {
		return 0, domain.NewInvalidInputError("credit amount must be positive")
	}

	balance, err := s.creditRepo.Upsert(ctx, managerEmail, amount)
	if err != nil {
		return 0, domain.NewUpstreamError(creditStore, "credit", err)
	}
	return balance.Credits, nil
}

func (s *ledgerService) SetBalance(ctx context.Context, managerEmail string, newBalance int) (*domain.CreditBalance, error) {
	if newBalance < 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid credit value (%d) for %s", newBalance, managerEmail))
	}

	balance, err := s.creditRepo.Update(ctx, managerEmail, newBalance)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("credit record for " + managerEmail)
		}
		return nil, domain.NewUpstreamError(creditStore, "set balance", err)
	}
	return balance, nil
}

func (s *ledgerService) Adjust(ctx context.Context, managerEmail string, delta int) (*domain.CreditBalance, error) {
	current, err := s.creditRepo.GetByManager(ctx, managerEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if delta < 0 {
				return nil, domain.ErrInsufficientCredits
			}
			return nil, domain.NewNotFoundError("credit record for " + managerEmail)
		}
		return nil, domain.NewUpstreamError(creditStore, "read balance", err)
	}

	newBalance := current.Credits + delta
	if newBalance < 0 {
		return nil, domain.ErrInsufficientCredits
	}

	updated, err := s.creditRepo.UpdateIfVersion(ctx, managerEmail, newBalance, current.Version)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.log.WithFields(logrus.Fields{
				"manager": managerEmail,
				"version": current.Version,
			}).Warn("credit balance changed concurrently")
			return nil, domain.ErrConcurrentUpdate
		}
		return nil, domain.NewUpstreamError(creditStore, "write balance", err)
	}
	return updated, nil
}

func (s *ledgerService) CreditOnce(ctx context.Context, event *domain.PaymentEvent) (int, bool, error) {
	if event.Credits <= 0 {
		return 0, false, domain.NewInvalidInputError("credit amount must be positive")
	}

	balance, applied, err := s.creditRepo.ApplyPayment(ctx, event)
	if err != nil {
		return 0, false, domain.NewUpstreamError(creditStore, "apply payment", err)
	}
	if !applied {
		return s.GetBalance(ctx, event.ManagerEmail), false, nil
	}
	return balance.Credits, true, nil
}
