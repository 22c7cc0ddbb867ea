package server

import (
	"net/http"

	"github.com/bagdasarian/team-credits/internal/handler"
)

// SetupRoutes регистрирует маршруты; protect оборачивает маршруты, требующие токена менеджера
func SetupRoutes(mux *http.ServeMux, h *handler.Handler, protect func(http.Handler) http.Handler, metrics http.Handler) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /credits/webhook", h.PaymentWebhook)

	mux.Handle("POST /team/invite_team_member", protect(http.HandlerFunc(h.InviteTeamMember)))
	mux.Handle("GET /team/get_team_members", protect(http.HandlerFunc(h.GetTeamMembers)))
	mux.Handle("POST /team/send_notification", protect(http.HandlerFunc(h.SendNotification)))
	mux.Handle("POST /credits/buy_credits", protect(http.HandlerFunc(h.BuyCredits)))
	mux.Handle("GET /credits/get_credits", protect(http.HandlerFunc(h.GetCredits)))
	mux.Handle("POST /credits/invalidate_credit", protect(http.HandlerFunc(h.InvalidateCredit)))

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}
