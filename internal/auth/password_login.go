package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/sirupsen/logrus"
)

const DefaultSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// PasswordLogin обменивает email и пароль на токены провайдера идентификации
type PasswordLogin struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     logrus.FieldLogger
}

func NewPasswordLogin(baseURL, apiKey string, timeout time.Duration, log logrus.FieldLogger) *PasswordLogin {
	if baseURL == "" {
		baseURL = DefaultSignInURL
	}
	return &PasswordLogin{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type signInError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (l *PasswordLogin) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewInvalidInputError("Email and password are required")
	}

	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	endpoint := l.baseURL + "?key=" + url.QueryEscape(l.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError("identity provider", "sign in", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr signInError
		message := "Login failed"
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, domain.NewUpstreamError("identity provider", "sign in", fmt.Errorf("status %d: %s", resp.StatusCode, message))
		}
		l.log.WithField("email", email).Info("login rejected by identity provider")
		return nil, domain.NewUnauthorizedError(message)
	}

	var data signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, domain.NewUpstreamError("identity provider", "decode sign-in response", err)
	}

	expiresIn, err := strconv.Atoi(data.ExpiresIn)
	if err != nil {
		return nil, domain.NewUpstreamError("identity provider", "decode sign-in response", err)
	}

	return &domain.LoginResult{
		IDToken:      data.IDToken,
		RefreshToken: data.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
