// Package mocks содержит testify-моки репозиториев и внешних сервисов для тестов.
package mocks

import (
	"context"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTeamMemberRepository struct {
	mock.Mock
}

func (m *MockTeamMemberRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) GetByManager(ctx context.Context, managerEmail string) ([]*domain.TeamMember, error) {
	args := m.Called(ctx, managerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TeamMember), args.Error(1)
}

func (m *MockTeamMemberRepository) GetByEmail(ctx context.Context, managerEmail, memberEmail string) (*domain.TeamMember, error) {
	args := m.Called(ctx, managerEmail, memberEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamMemberRepository) CountByManagerExcludingStatus(ctx context.Context, managerEmail string, status domain.MemberStatus) (int, error) {
	args := m.Called(ctx, managerEmail, status)
	return args.Int(0), args.Error(1)
}

func (m *MockTeamMemberRepository) UpdateCredits(ctx context.Context, member *domain.TeamMember, credits int) error {
	args := m.Called(ctx, member, credits)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) UpdateStatus(ctx context.Context, id string, status domain.MemberStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) GetByManager(ctx context.Context, managerEmail string) (*domain.CreditBalance, error) {
	args := m.Called(ctx, managerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditBalance), args.Error(1)
}

func (m *MockCreditRepository) Upsert(ctx context.Context, managerEmail string, amount int) (*domain.CreditBalance, error) {
	args := m.Called(ctx, managerEmail, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditBalance), args.Error(1)
}

func (m *MockCreditRepository) Update(ctx context.Context, managerEmail string, credits int) (*domain.CreditBalance, error) {
	args := m.Called(ctx, managerEmail, credits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditBalance), args.Error(1)
}

func (m *MockCreditRepository) UpdateIfVersion(ctx context.Context, managerEmail string, credits int, version int64) (*domain.CreditBalance, error) {
	args := m.Called(ctx, managerEmail, credits, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditBalance), args.Error(1)
}

func (m *MockCreditRepository) ApplyPayment(ctx context.Context, event *domain.PaymentEvent) (*domain.CreditBalance, bool, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.CreditBalance), args.Bool(1), args.Error(2)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentProvider) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentEvent), args.Error(1)
}

type MockIdentityVerifier struct {
	mock.Mock
}

func (m *MockIdentityVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Identity), args.Error(1)
}

type MockPasswordAuthenticator struct {
	mock.Mock
}

func (m *MockPasswordAuthenticator) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}
