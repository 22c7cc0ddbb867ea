package domain

import "time"

type TeamMember struct {
	ID             string
	ManagerEmail   string
	Email          string
	Status         MemberStatus
	InvitedAt      time.Time
	GenerationLink string
	ResultPageLink string
	Credits        int
}

type MemberStatus string

const (
	MemberStatusPending   MemberStatus = "Pending"
	MemberStatusActive    MemberStatus = "Active"
	MemberStatusCompleted MemberStatus = "Completed"
)

// NotificationAction - событие от участника, о котором уведомляется менеджер
type NotificationAction string

const (
	ActionUploadCompleted   NotificationAction = "upload_completed"
	ActionHeadshotsReceived NotificationAction = "headshots_received"
)

// InviteResult - ответ на успешное приглашение
type InviteResult struct {
	Status string
	Email  string
}
