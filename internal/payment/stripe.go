package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	metadataManagerEmail = "manager_email"
	metadataCredits      = "credits"
)

// ErrInvalidSignature - подпись вебхука не прошла проверку
var ErrInvalidSignature = errors.New("invalid webhook signature")

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// StripeProvider создает Checkout-сессии и проверяет вебхуки Stripe
type StripeProvider struct {
	api    *client.API
	config StripeConfig
}

func NewStripeProvider(config StripeConfig, backends *stripe.Backends) *StripeProvider {
	return &StripeProvider{
		api:    client.New(config.SecretKey, backends),
		config: config,
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(p.config.SuccessURL),
		CancelURL:          stripe.String(p.config.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
					UnitAmount: stripe.Int64(req.UnitAmount),
				},
				Quantity: stripe.Int64(int64(req.Credits)),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataManagerEmail, req.ManagerEmail)
	params.AddMetadata(metadataCredits, strconv.Itoa(req.Credits))

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return session.URL, nil
}

// ParseWebhook проверяет подпись и разбирает событие; метаданные читаются только для завершенных сессий
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &domain.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return result, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session: %w", err)
	}

	result.SessionID = session.ID
	result.ManagerEmail = session.Metadata[metadataManagerEmail]
	if raw, ok := session.Metadata[metadataCredits]; ok {
		credits, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("stripe: invalid credits metadata %q: %w", raw, err)
		}
		result.Credits = credits
	}

	return result, nil
}
