package auth

import (
	"context"
	"errors"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier проверяет токены, подписанные общим секретом (HS256).
// Используется в локальной разработке и тестах вместо внешнего провайдера.
type JWTVerifier struct {
	secret []byte
	issuer string
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.NewUnauthorizedError("Missing authorization token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired token")
	}

	if claims.Email == "" {
		return domain.Identity{}, domain.NewUnauthorizedError("Token has no email claim")
	}

	return domain.Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// Sign выпускает токен с теми же параметрами, что ожидает Verify
func (v *JWTVerifier) Sign(claims Claims) (string, error) {
	if v.issuer != "" && claims.Issuer == "" {
		claims.Issuer = v.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
