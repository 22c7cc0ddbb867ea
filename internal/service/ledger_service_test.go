package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/mocks"
	"github.com/bagdasarian/team-credits/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const managerEmail = "manager@example.com"

func setupLedger(t *testing.T) (LedgerService, *mocks.MockCreditRepository, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	repo := new(mocks.MockCreditRepository)
	return NewLedgerService(repo, logger), repo, hook
}

func TestLedgerService_GetBalance(t *testing.T) {
	t.Run("возвращает баланс существующей записи", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 7}, nil)

		assert.Equal(t, 7, ledger.GetBalance(context.Background(), managerEmail))
	})

	t.Run("нет записи - ноль", func(t *testing.T) {
		ledger, repo, hook := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).Return(nil, repository.ErrNotFound)

		assert.Equal(t, 0, ledger.GetBalance(context.Background(), managerEmail))
		assert.Empty(t, hook.AllEntries())
	})

	t.Run("ошибка хранилища логируется и дает ноль", func(t *testing.T) {
		ledger, repo, hook := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).Return(nil, errors.New("connection reset"))

		assert.Equal(t, 0, ledger.GetBalance(context.Background(), managerEmail))
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	})
}

func TestLedgerService_Credit(t *testing.T) {
	t.Run("первая покупка создает запись", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("Upsert", mock.Anything, managerEmail, 10).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 10, Version: 1}, nil)

		balance, err := ledger.Credit(context.Background(), managerEmail, 10)

		require.NoError(t, err)
		assert.Equal(t, 10, balance)
	})

	t.Run("неположительное количество", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)

		for _, amount := range []int{0, -3} {
			_, err := ledger.Credit(context.Background(), managerEmail, amount)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		}
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("сбой хранилища", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("Upsert", mock.Anything, managerEmail, 5).Return(nil, errors.New("timeout"))

		_, err := ledger.Credit(context.Background(), managerEmail, 5)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}

func TestLedgerService_SetBalance(t *testing.T) {
	t.Run("успешная перезапись", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("Update", mock.Anything, managerEmail, 3).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 3}, nil)

		balance, err := ledger.SetBalance(context.Background(), managerEmail, 3)

		require.NoError(t, err)
		assert.Equal(t, 3, balance.Credits)
	})

	t.Run("отрицательный баланс отклоняется", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)

		_, err := ledger.SetBalance(context.Background(), managerEmail, -1)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("нет записи", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("Update", mock.Anything, managerEmail, 3).Return(nil, repository.ErrNotFound)

		_, err := ledger.SetBalance(context.Background(), managerEmail, 3)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLedgerService_Adjust(t *testing.T) {
	current := &domain.CreditBalance{ManagerEmail: managerEmail, Credits: 2, Version: 4}

	t.Run("списание с проверкой версии", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).Return(current, nil)
		repo.On("UpdateIfVersion", mock.Anything, managerEmail, 1, int64(4)).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 1, Version: 5}, nil)

		balance, err := ledger.Adjust(context.Background(), managerEmail, -1)

		require.NoError(t, err)
		assert.Equal(t, 1, balance.Credits)
		assert.Equal(t, int64(5), balance.Version)
	})

	t.Run("баланс не уходит в минус", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).Return(current, nil)

		_, err := ledger.Adjust(context.Background(), managerEmail, -3)

		assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
		repo.AssertNotCalled(t, "UpdateIfVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("версия изменилась параллельно", func(t *testing.T) {
		ledger, repo, hook := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).Return(current, nil)
		repo.On("UpdateIfVersion", mock.Anything, managerEmail, 3, int64(4)).Return(nil, repository.ErrVersionConflict)

		_, err := ledger.Adjust(context.Background(), managerEmail, 1)

		assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		repo.AssertNumberOfCalls(t, "UpdateIfVersion", 1)
	})

	t.Run("нет записи при списании", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).Return(nil, repository.ErrNotFound)

		_, err := ledger.Adjust(context.Background(), managerEmail, -1)
		assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
	})

	t.Run("нет записи при пополнении", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("GetByManager", mock.Anything, managerEmail).Return(nil, repository.ErrNotFound)

		_, err := ledger.Adjust(context.Background(), managerEmail, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLedgerService_CreditOnce(t *testing.T) {
	event := &domain.PaymentEvent{
		ID:           "evt_1",
		Type:         domain.EventCheckoutCompleted,
		SessionID:    "cs_1",
		ManagerEmail: managerEmail,
		Credits:      10,
	}

	t.Run("первое событие начисляет кредиты", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("ApplyPayment", mock.Anything, event).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 10}, true, nil)

		balance, applied, err := ledger.CreditOnce(context.Background(), event)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, 10, balance)
	})

	t.Run("повтор события не начисляет", func(t *testing.T) {
		ledger, repo, _ := setupLedger(t)
		repo.On("ApplyPayment", mock.Anything, event).Return(nil, false, nil)
		repo.On("GetByManager", mock.Anything, managerEmail).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 10}, nil)

		balance, applied, err := ledger.CreditOnce(context.Background(), event)

		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, 10, balance)
	})
}
