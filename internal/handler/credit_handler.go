package handler

import (
	"io"
	"net/http"

	"github.com/bagdasarian/team-credits/internal/domain"
)

const maxWebhookBody = 64 << 10

func (h *Handler) BuyCredits(w http.ResponseWriter, r *http.Request) {
	manager, _ := IdentityFromContext(r.Context())

	var req BuyCreditsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, err)
		return
	}

	checkoutURL, err := h.purchaseService.StartCheckout(r.Context(), manager, req.Credits)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{CheckoutURL: checkoutURL})
}

// PaymentWebhook вызывается платежным провайдером; подлинность проверяется по подписи, а не по токену
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.handleError(w, domain.NewInvalidInputError("Invalid payload format"))
		return
	}

	result, err := h.purchaseService.ConfirmPayment(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  result.Status,
		Message: result.Message,
	})
}

func (h *Handler) GetCredits(w http.ResponseWriter, r *http.Request) {
	manager, _ := IdentityFromContext(r.Context())

	writeJSON(w, http.StatusOK, CreditsResponse{
		Credits: h.creditService.GetCredits(r.Context(), manager),
	})
}

func (h *Handler) InvalidateCredit(w http.ResponseWriter, r *http.Request) {
	manager, _ := IdentityFromContext(r.Context())

	var req InvalidateCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, err)
		return
	}

	result, err := h.creditService.InvalidateCredit(r.Context(), manager, req.TeamMemberEmail)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainInvalidationToHTTP(result))
}
