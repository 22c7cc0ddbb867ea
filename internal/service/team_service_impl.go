package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	inviteSubject = "Your Coupon for AI SuitUp"
	inviteBody    = "<strong>Your coupon code is: %s</strong>"
)

type teamService struct {
	roster  RosterService
	ledger  LedgerService
	mailer  Mailer
	opts    TeamOptions
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewTeamService создает новый экземпляр TeamService
func NewTeamService(
	roster RosterService,
	ledger LedgerService,
	mailer Mailer,
	opts TeamOptions,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) TeamService {
	return &teamService{
		roster:  roster,
		ledger:  ledger,
		mailer:  mailer,
		opts:    opts,
		log:     log,
		metrics: m,
	}
}

// Invite проверяет предусловия по порядку; письмо уходит строго до списания кредита
func (s *teamService) Invite(ctx context.Context, manager domain.Identity, email string) (*domain.InviteResult, error) {
	result, err := s.invite(ctx, manager, email)
	if err != nil {
		s.metrics.RecordInvite(outcome(err))
		return nil, err
	}
	s.metrics.RecordInvite("invited")
	return result, nil
}

func (s *teamService) invite(ctx context.Context, manager domain.Identity, email string) (*domain.InviteResult, error) {
	if !IsValidEmail(email) {
		return nil, domain.NewInvalidInputError("Invalid email format")
	}

	if email == manager.Email {
		return nil, domain.NewInvalidInputError("Manager cannot invite themselves")
	}

	members, err := s.roster.ListMembers(ctx, manager.Email)
	if err != nil {
		return nil, err
	}
	if isAlreadyInvited(email, members) {
		return nil, domain.NewConflictError(fmt.Sprintf("Team member with email %s is already invited", email))
	}

	if s.ledger.GetBalance(ctx, manager.Email) < 1 {
		return nil, domain.ErrInsufficientCredits
	}

	coupon := uuid.NewString()
	if err := s.sendMail(ctx, email, inviteSubject, fmt.Sprintf(inviteBody, coupon)); err != nil {
		return nil, domain.NewEmailDeliveryError(err)
	}

	if _, err := s.ledger.Adjust(ctx, manager.Email, -1); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"manager": manager.Email,
			"member":  email,
		}).Error("coupon was sent but credit debit failed")
		return nil, err
	}

	member := &domain.TeamMember{
		ManagerEmail:   manager.Email,
		Email:          email,
		Status:         domain.MemberStatusPending,
		GenerationLink: s.link("generate", email),
		ResultPageLink: s.link("results", email),
		Credits:        1,
	}

	if _, err := s.roster.AddMember(ctx, member); err != nil {
		s.refund(ctx, manager.Email, email)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"manager": manager.Email,
		"member":  email,
	}).Info("team member invited")

	return &domain.InviteResult{Status: "invited", Email: email}, nil
}

// refund возвращает списанный кредит, если участник не был сохранен
func (s *teamService) refund(ctx context.Context, managerEmail, memberEmail string) {
	entry := s.log.WithFields(logrus.Fields{
		"manager": managerEmail,
		"member":  memberEmail,
	})

	if _, err := s.ledger.Adjust(ctx, managerEmail, 1); err != nil {
		entry.WithError(err).Error("failed to refund credit after member write failure")
		s.metrics.RecordCompensation("invite", "failed")
		return
	}
	entry.Warn("credit refunded after member write failure")
	s.metrics.RecordCompensation("invite", "refunded")
}

func (s *teamService) ListMembers(ctx context.Context, manager domain.Identity) ([]*domain.TeamMember, error) {
	return s.roster.ListMembers(ctx, manager.Email)
}

func (s *teamService) Notify(ctx context.Context, manager domain.Identity, memberEmail string, action domain.NotificationAction) error {
	if memberEmail == "" || action == "" {
		return domain.NewInvalidInputError("Missing Team member email or action")
	}

	var (
		subject string
		body    string
		status  domain.MemberStatus
	)
	switch action {
	case domain.ActionUploadCompleted:
		subject = "Team Member Completed Upload"
		body = fmt.Sprintf("<p>Your team member <b>%s</b> has successfully uploaded their picture.</p>", memberEmail)
		status = domain.MemberStatusActive
	case domain.ActionHeadshotsReceived:
		subject = "AI-Generated Headshots Ready"
		body = fmt.Sprintf("<p>Your team member <b>%s</b> has received their AI-generated headshots.</p>", memberEmail)
		status = domain.MemberStatusCompleted
	default:
		return domain.NewInvalidInputError("Invalid action type.")
	}

	if _, err := s.roster.SetMemberStatus(ctx, manager.Email, memberEmail, status); err != nil {
		return err
	}

	if err := s.sendMail(ctx, manager.Email, subject, body); err != nil {
		return &domain.DomainError{
			Code:    domain.CodeEmailDelivery,
			Message: fmt.Sprintf("Failed to send notification email: %v", err),
		}
	}

	return nil
}

func (s *teamService) sendMail(ctx context.Context, to, subject, body string) error {
	ctx, cancel := withTimeout(ctx, s.opts.ExternalTimeout)
	defer cancel()
	return s.mailer.Send(ctx, to, subject, body)
}

func (s *teamService) link(kind, email string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.LinkBaseURL, "/"), kind, email)
}

func isAlreadyInvited(email string, members []*domain.TeamMember) bool {
	for _, member := range members {
		if member.Email == email && member.Status == domain.MemberStatusPending {
			return true
		}
	}
	return false
}
