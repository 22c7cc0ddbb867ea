package handler

import (
	"net/http"

	"github.com/bagdasarian/team-credits/internal/domain"
)

func (h *Handler) InviteTeamMember(w http.ResponseWriter, r *http.Request) {
	manager, _ := IdentityFromContext(r.Context())

	var req InviteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, err)
		return
	}

	result, err := h.teamService.Invite(r.Context(), manager, req.Email)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, InviteResponse{
		Status: result.Status,
		Email:  result.Email,
	})
}

func (h *Handler) GetTeamMembers(w http.ResponseWriter, r *http.Request) {
	manager, _ := IdentityFromContext(r.Context())

	members, err := h.teamService.ListMembers(r.Context(), manager)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if len(members) == 0 {
		h.handleError(w, &domain.DomainError{
			Code:    domain.CodeNotFound,
			Message: "No team members found",
		})
		return
	}

	writeJSON(w, http.StatusOK, domainMembersToHTTP(members))
}

func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	manager, _ := IdentityFromContext(r.Context())

	var req NotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, err)
		return
	}

	err := h.teamService.Notify(r.Context(), manager, req.TeamMemberEmail, domain.NotificationAction(req.Action))
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "Notification sent",
	})
}
