package service

import (
	"context"
	"math"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	defaultCurrency    = "inr"
	defaultProductName = "Credits Purchase"
)

type purchaseService struct {
	roster   RosterService
	ledger   LedgerService
	provider PaymentProvider
	opts     PurchaseOptions
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

// NewPurchaseService создает новый экземпляр PurchaseService
func NewPurchaseService(
	roster RosterService,
	ledger LedgerService,
	provider PaymentProvider,
	opts PurchaseOptions,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) PurchaseService {
	if opts.Currency == "" {
		opts.Currency = defaultCurrency
	}
	if opts.ProductName == "" {
		opts.ProductName = defaultProductName
	}
	return &purchaseService{
		roster:   roster,
		ledger:   ledger,
		provider: provider,
		opts:     opts,
		log:      log,
		metrics:  m,
	}
}

func (s *purchaseService) StartCheckout(ctx context.Context, manager domain.Identity, credits int) (string, error) {
	if credits <= 0 {
		s.metrics.RecordCheckout(outcome(domain.ErrInvalidInput))
		return "", domain.NewInvalidInputError("Invalid credits amount")
	}

	teamSize, err := s.roster.CountActive(ctx, manager.Email)
	if err != nil {
		s.metrics.RecordCheckout(outcome(err))
		return "", err
	}

	discount := ApplyDiscount(teamSize)
	unitPrice := UnitPrice(s.opts.BasePricePerCredit, discount)

	req := domain.CheckoutRequest{
		ManagerEmail: manager.Email,
		Credits:      credits,
		UnitAmount:   int64(math.Round(unitPrice * 100)),
		Currency:     s.opts.Currency,
		ProductName:  s.opts.ProductName,
	}

	ctx, cancel := withTimeout(ctx, s.opts.ExternalTimeout)
	defer cancel()

	url, err := s.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.metrics.RecordCheckout("upstream_failure")
		return "", domain.NewUpstreamError("payment provider", "create checkout session", err)
	}

	s.log.WithFields(logrus.Fields{
		"manager":   manager.Email,
		"credits":   credits,
		"team_size": teamSize,
		"discount":  discount,
	}).Info("checkout session created")
	s.metrics.RecordCheckout("created")

	return url, nil
}

// ConfirmPayment ничего не меняет в балансе, пока подпись не проверена
func (s *purchaseService) ConfirmPayment(ctx context.Context, payload []byte, signature string) (*domain.WebhookResult, error) {
	if signature == "" {
		s.metrics.RecordWebhook("rejected", 0)
		return nil, domain.NewInvalidInputError("Missing payment signature")
	}

	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		s.log.WithError(err).Warn("payment webhook rejected")
		s.metrics.RecordWebhook("rejected", 0)
		return nil, domain.NewInvalidInputError("Invalid payment signature")
	}

	if event.Type != domain.EventCheckoutCompleted {
		s.log.WithField("type", event.Type).Debug("payment event ignored")
		s.metrics.RecordWebhook("ignored", 0)
		return &domain.WebhookResult{Status: "ignored", Message: "Event not handled"}, nil
	}

	if event.ManagerEmail == "" || event.Credits <= 0 {
		s.metrics.RecordWebhook("rejected", 0)
		return nil, domain.NewInvalidInputError("Payment metadata is missing manager email or credits")
	}

	balance, applied, err := s.ledger.CreditOnce(ctx, event)
	if err != nil {
		s.metrics.RecordWebhook("failed", 0)
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"manager": event.ManagerEmail,
		"session": event.SessionID,
		"credits": event.Credits,
		"balance": balance,
	})

	if !applied {
		entry.Info("duplicate payment event skipped")
		s.metrics.RecordWebhook("duplicate", 0)
		return &domain.WebhookResult{Status: "duplicate", Message: "Payment already processed"}, nil
	}

	entry.Info("credits purchased")
	s.metrics.RecordWebhook("credited", event.Credits)
	return &domain.WebhookResult{Status: "success", Message: "Credits updated successfully"}, nil
}
