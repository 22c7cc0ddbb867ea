package handler

import "github.com/bagdasarian/team-credits/internal/domain"

func domainMemberToHTTP(member *domain.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		ID:             member.ID,
		Email:          member.Email,
		Status:         string(member.Status),
		InvitedAt:      member.InvitedAt,
		GenerationLink: member.GenerationLink,
		ResultPageLink: member.ResultPageLink,
		ManagerEmail:   member.ManagerEmail,
		Credits:        member.Credits,
	}
}

func domainMembersToHTTP(members []*domain.TeamMember) []TeamMemberResponse {
	result := make([]TeamMemberResponse, 0, len(members))
	for _, member := range members {
		result = append(result, domainMemberToHTTP(member))
	}
	return result
}

func domainLoginToHTTP(result *domain.LoginResult) LoginResponse {
	return LoginResponse{
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	}
}

func domainInvalidationToHTTP(result *domain.InvalidationResult) InvalidateCreditResponse {
	return InvalidateCreditResponse{
		Status:          result.Status,
		Email:           result.Email,
		CreditsRestored: result.CreditsRestored,
	}
}
