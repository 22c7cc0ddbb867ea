package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/repository"
	"github.com/google/uuid"
)

const creditColumns = `id, manager_email, credits, version, last_updated`

const upsertCreditsQuery = `
	INSERT INTO credits (id, manager_email, credits, version, last_updated)
	VALUES ($1, $2, $3, 1, $4)
	ON CONFLICT (manager_email) DO UPDATE
	SET credits = credits.credits + EXCLUDED.credits,
	    version = credits.version + 1,
	    last_updated = EXCLUDED.last_updated
	RETURNING ` + creditColumns

type creditRepository struct {
	db       *sql.DB
	executor DBExecutor
}

func NewCreditRepository(db *sql.DB) *creditRepository {
	return &creditRepository{db: db, executor: db}
}

func scanCredit(row rowScanner) (*domain.CreditBalance, error) {
	balance := &domain.CreditBalance{}
	err := row.Scan(
		&balance.ID,
		&balance.ManagerEmail,
		&balance.Credits,
		&balance.Version,
		&balance.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (r *creditRepository) GetByManager(ctx context.Context, managerEmail string) (*domain.CreditBalance, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM credits
		WHERE manager_email = $1
	`

	balance, err := scanCredit(r.executor.QueryRowContext(ctx, query, managerEmail))
	if err != nil {
		return nil, repository.HandleNoRowsError(err)
	}
	return balance, nil
}

func (r *creditRepository) Upsert(ctx context.Context, managerEmail string, amount int) (*domain.CreditBalance, error) {
	return scanCredit(r.executor.QueryRowContext(
		ctx,
		upsertCreditsQuery,
		uuid.NewString(),
		managerEmail,
		amount,
		time.Now(),
	))
}

func (r *creditRepository) Update(ctx context.Context, managerEmail string, credits int) (*domain.CreditBalance, error) {
	query := `
		UPDATE credits
		SET credits = $2, version = version + 1, last_updated = $3
		WHERE manager_email = $1
		RETURNING ` + creditColumns

	balance, err := scanCredit(r.executor.QueryRowContext(ctx, query, managerEmail, credits, time.Now()))
	if err != nil {
		return nil, repository.HandleNoRowsError(err)
	}
	return balance, nil
}

func (r *creditRepository) UpdateIfVersion(ctx context.Context, managerEmail string, credits int, version int64) (*domain.CreditBalance, error) {
	query := `
		UPDATE credits
		SET credits = $2, version = version + 1, last_updated = $3
		WHERE manager_email = $1 AND version = $4
		RETURNING ` + creditColumns

	balance, err := scanCredit(r.executor.QueryRowContext(ctx, query, managerEmail, credits, time.Now(), version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrVersionConflict
		}
		return nil, err
	}
	return balance, nil
}

func (r *creditRepository) ApplyPayment(ctx context.Context, event *domain.PaymentEvent) (*domain.CreditBalance, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO payment_events (session_id, event_id, manager_email, credits, processed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO NOTHING
	`

	now := time.Now()
	result, err := tx.ExecContext(ctx, query, event.SessionID, event.ID, event.ManagerEmail, event.Credits, now)
	if err != nil {
		return nil, false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	if rowsAffected == 0 {
		return nil, false, nil
	}

	balance, err := scanCredit(tx.QueryRowContext(
		ctx,
		upsertCreditsQuery,
		uuid.NewString(),
		event.ManagerEmail,
		event.Credits,
		now,
	))
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return balance, true, nil
}
