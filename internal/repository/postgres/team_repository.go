package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/repository"
)

const memberColumns = `id, manager_email, team_member_email, status, invited_at, generation_link, result_page_link, credits`

type teamMemberRepository struct {
	executor DBExecutor
}

func NewTeamMemberRepository(db *sql.DB) *teamMemberRepository {
	return &teamMemberRepository{executor: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.TeamMember, error) {
	member := &domain.TeamMember{}
	var status string
	err := row.Scan(
		&member.ID,
		&member.ManagerEmail,
		&member.Email,
		&status,
		&member.InvitedAt,
		&member.GenerationLink,
		&member.ResultPageLink,
		&member.Credits,
	)
	if err != nil {
		return nil, err
	}
	member.Status = domain.MemberStatus(status)
	return member, nil
}

func (r *teamMemberRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	query := `
		INSERT INTO team_members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.executor.ExecContext(
		ctx,
		query,
		member.ID,
		member.ManagerEmail,
		member.Email,
		string(member.Status),
		member.InvitedAt,
		member.GenerationLink,
		member.ResultPageLink,
		member.Credits,
	)
	return err
}

func (r *teamMemberRepository) GetByManager(ctx context.Context, managerEmail string) ([]*domain.TeamMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM team_members
		WHERE manager_email = $1
		ORDER BY invited_at
	`

	rows, err := r.executor.QueryContext(ctx, query, managerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.TeamMember, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// GetByEmail возвращает самое свежее приглашение участника у менеджера
func (r *teamMemberRepository) GetByEmail(ctx context.Context, managerEmail, memberEmail string) (*domain.TeamMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM team_members
		WHERE manager_email = $1 AND team_member_email = $2
		ORDER BY invited_at DESC
		LIMIT 1
	`

	member, err := scanMember(r.executor.QueryRowContext(ctx, query, managerEmail, memberEmail))
	if err != nil {
		return nil, repository.HandleNoRowsError(err)
	}
	return member, nil
}

func (r *teamMemberRepository) CountByManagerExcludingStatus(ctx context.Context, managerEmail string, status domain.MemberStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM team_members
		WHERE manager_email = $1 AND status <> $2
	`

	var count int
	if err := r.executor.QueryRowContext(ctx, query, managerEmail, string(status)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *teamMemberRepository) UpdateCredits(ctx context.Context, member *domain.TeamMember, credits int) error {
	query := `
		UPDATE team_members
		SET credits = $2
		WHERE id = $1 AND credits = $3 AND status = $4
	`

	err := r.execAffectingOne(ctx, query, member.ID, credits, member.Credits, string(member.Status))
	if errors.Is(err, repository.ErrNotFound) {
		return repository.ErrVersionConflict
	}
	return err
}

func (r *teamMemberRepository) UpdateStatus(ctx context.Context, id string, status domain.MemberStatus) error {
	query := `
		UPDATE team_members
		SET status = $2
		WHERE id = $1
	`

	return r.execAffectingOne(ctx, query, id, string(status))
}

func (r *teamMemberRepository) execAffectingOne(ctx context.Context, query string, args ...any) error {
	result, err := r.executor.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
