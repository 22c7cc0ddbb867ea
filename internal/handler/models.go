package handler

import "time"

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

type InviteResponse struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

type TeamMemberResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Status         string    `json:"status"`
	InvitedAt      time.Time `json:"invitedAt"`
	GenerationLink string    `json:"generation_link"`
	ResultPageLink string    `json:"result_page_link"`
	ManagerEmail   string    `json:"manager_email"`
	Credits        int       `json:"credits"`
}

type NotificationRequest struct {
	TeamMemberEmail string `json:"team_member_email"`
	Action          string `json:"action"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type BuyCreditsRequest struct {
	Credits int `json:"credits"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type CreditsResponse struct {
	Credits int `json:"credits"`
}

type InvalidateCreditRequest struct {
	TeamMemberEmail string `json:"team_member_email"`
}

type InvalidateCreditResponse struct {
	Status          string `json:"status"`
	Email           string `json:"email"`
	CreditsRestored int    `json:"creditsRestored"`
}

type RootResponse struct {
	Message string `json:"message"`
}
