package domain

import "time"

type CreditBalance struct {
	ID           string
	ManagerEmail string
	Credits      int
	Version      int64
	LastUpdated  time.Time
}

// PaymentEvent - проверенное событие платежного провайдера
type PaymentEvent struct {
	ID           string
	Type         string
	SessionID    string
	ManagerEmail string
	Credits      int
}

const EventCheckoutCompleted = "checkout.session.completed"

// InvalidationResult - результат возврата кредита менеджеру
type InvalidationResult struct {
	Status          string
	Email           string
	CreditsRestored int
}

// WebhookResult - ответ провайдеру на доставку события
type WebhookResult struct {
	Status  string
	Message string
}

// CheckoutRequest - параметры платежной сессии на покупку кредитов
type CheckoutRequest struct {
	ManagerEmail string
	Credits      int
	UnitAmount   int64
	Currency     string
	ProductName  string
}
