package handler

import (
	"github.com/bagdasarian/team-credits/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	teamService     service.TeamService
	creditService   service.CreditService
	purchaseService service.PurchaseService
	authenticator   service.PasswordAuthenticator
	log             logrus.FieldLogger
}

func NewHandler(
	teamService service.TeamService,
	creditService service.CreditService,
	purchaseService service.PurchaseService,
	authenticator service.PasswordAuthenticator,
	log logrus.FieldLogger,
) *Handler {
	return &Handler{
		teamService:     teamService,
		creditService:   creditService,
		purchaseService: purchaseService,
		authenticator:   authenticator,
		log:             log,
	}
}
