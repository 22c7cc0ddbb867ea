package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creditColumnNames = []string{"id", "manager_email", "credits", "version", "last_updated"}

func setupCreditRepo(t *testing.T) (*creditRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewCreditRepository(db), mock
}

func TestCreditRepository_GetByManager(t *testing.T) {
	t.Run("успешное получение баланса", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM credits WHERE manager_email = \\$1").
			WithArgs("boss@corp.io").
			WillReturnRows(sqlmock.NewRows(creditColumnNames).AddRow("c-1", "boss@corp.io", 7, 3, now))

		balance, err := repo.GetByManager(context.Background(), "boss@corp.io")

		require.NoError(t, err)
		assert.Equal(t, 7, balance.Credits)
		assert.Equal(t, int64(3), balance.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: записи нет", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM credits").
			WithArgs("new@corp.io").
			WillReturnRows(sqlmock.NewRows(creditColumnNames))

		balance, err := repo.GetByManager(context.Background(), "new@corp.io")

		assert.Nil(t, balance)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditRepository_Upsert(t *testing.T) {
	repo, mock := setupCreditRepo(t)

	mock.ExpectQuery("INSERT INTO credits (.+) ON CONFLICT \\(manager_email\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "boss@corp.io", 10, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(creditColumnNames).AddRow("c-1", "boss@corp.io", 15, 2, time.Now()))

	balance, err := repo.Upsert(context.Background(), "boss@corp.io", 10)

	require.NoError(t, err)
	assert.Equal(t, 15, balance.Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRepository_Update(t *testing.T) {
	t.Run("успешная установка баланса", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectQuery("UPDATE credits SET credits = \\$2").
			WithArgs("boss@corp.io", 4, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(creditColumnNames).AddRow("c-1", "boss@corp.io", 4, 5, time.Now()))

		balance, err := repo.Update(context.Background(), "boss@corp.io", 4)

		require.NoError(t, err)
		assert.Equal(t, 4, balance.Credits)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: записи для обновления нет", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectQuery("UPDATE credits").
			WithArgs("new@corp.io", 4, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(creditColumnNames))

		balance, err := repo.Update(context.Background(), "new@corp.io", 4)

		assert.Nil(t, balance)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditRepository_UpdateIfVersion(t *testing.T) {
	t.Run("версия совпала", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectQuery("UPDATE credits (.+) WHERE manager_email = \\$1 AND version = \\$4").
			WithArgs("boss@corp.io", 2, sqlmock.AnyArg(), int64(7)).
			WillReturnRows(sqlmock.NewRows(creditColumnNames).AddRow("c-1", "boss@corp.io", 2, 8, time.Now()))

		balance, err := repo.UpdateIfVersion(context.Background(), "boss@corp.io", 2, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(8), balance.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: версия изменилась", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectQuery("UPDATE credits").
			WithArgs("boss@corp.io", 2, sqlmock.AnyArg(), int64(7)).
			WillReturnRows(sqlmock.NewRows(creditColumnNames))

		balance, err := repo.UpdateIfVersion(context.Background(), "boss@corp.io", 2, 7)

		assert.Nil(t, balance)
		assert.True(t, errors.Is(err, repository.ErrVersionConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditRepository_ApplyPayment(t *testing.T) {
	event := &domain.PaymentEvent{
		ID:           "evt_1",
		Type:         domain.EventCheckoutCompleted,
		SessionID:    "cs_test_1",
		ManagerEmail: "boss@corp.io",
		Credits:      10,
	}

	t.Run("новое событие начисляет кредиты в транзакции", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO payment_events (.+) ON CONFLICT \\(session_id\\) DO NOTHING").
			WithArgs("cs_test_1", "evt_1", "boss@corp.io", 10, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO credits").
			WithArgs(sqlmock.AnyArg(), "boss@corp.io", 10, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(creditColumnNames).AddRow("c-1", "boss@corp.io", 10, 1, time.Now()))
		mock.ExpectCommit()

		balance, applied, err := repo.ApplyPayment(context.Background(), event)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, 10, balance.Credits)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("повторная доставка ничего не начисляет", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO payment_events").
			WithArgs("cs_test_1", "evt_1", "boss@corp.io", 10, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		balance, applied, err := repo.ApplyPayment(context.Background(), event)

		require.NoError(t, err)
		assert.False(t, applied)
		assert.Nil(t, balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка начисления откатывает транзакцию", func(t *testing.T) {
		repo, mock := setupCreditRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO payment_events").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO credits").
			WillReturnError(errors.New("database error"))
		mock.ExpectRollback()

		_, applied, err := repo.ApplyPayment(context.Background(), event)

		require.Error(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
