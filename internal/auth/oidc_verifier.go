package auth

import (
	"context"
	"fmt"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/coreos/go-oidc/v3/oidc"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// OIDCVerifier проверяет ID-токены провайдера идентификации по его JWKS
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// NewFirebaseVerifier получает метаданные провайдера проекта и создает верификатор
func NewFirebaseVerifier(ctx context.Context, projectID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, firebaseIssuerPrefix+projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to discover identity provider: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: projectID}),
	}, nil
}

// NewOIDCVerifier создает верификатор поверх заданного набора ключей
func NewOIDCVerifier(issuer, clientID string, keySet oidc.KeySet) *OIDCVerifier {
	return &OIDCVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: clientID}),
	}
}

func (v *OIDCVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.NewUnauthorizedError("Missing authorization token")
	}

	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired token")
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid token claims")
	}

	if claims.Email == "" {
		return domain.Identity{}, domain.NewUnauthorizedError("Token has no email claim")
	}

	return domain.Identity{Subject: idToken.Subject, Email: claims.Email}, nil
}
