package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bagdasarian/team-credits/internal/auth"
	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/handler"
	"github.com/bagdasarian/team-credits/internal/metrics"
	"github.com/bagdasarian/team-credits/internal/mocks"
	"github.com/bagdasarian/team-credits/internal/ratelimit"
	"github.com/bagdasarian/team-credits/internal/repository"
	"github.com/bagdasarian/team-credits/internal/service"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const managerEmail = "manager@example.com"

type testEnv struct {
	handler    http.Handler
	memberRepo *mocks.MockTeamMemberRepository
	creditRepo *mocks.MockCreditRepository
	mailer     *mocks.MockMailer
	provider   *mocks.MockPaymentProvider
	login      *mocks.MockPasswordAuthenticator
	token      string
}

func setupServer(t *testing.T, requestLimit int) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()

	env := &testEnv{
		memberRepo: new(mocks.MockTeamMemberRepository),
		creditRepo: new(mocks.MockCreditRepository),
		mailer:     new(mocks.MockMailer),
		provider:   new(mocks.MockPaymentProvider),
		login:      new(mocks.MockPasswordAuthenticator),
	}

	verifier, err := auth.NewJWTVerifier("test-secret", "")
	require.NoError(t, err)
	env.token, err = verifier.Sign(auth.Claims{
		Email: managerEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	roster := service.NewRosterService(env.memberRepo)
	ledger := service.NewLedgerService(env.creditRepo, logger)

	h := handler.NewHandler(
		service.NewTeamService(roster, ledger, env.mailer, service.TeamOptions{LinkBaseURL: "https://app.example.com"}, logger, m),
		service.NewCreditService(roster, ledger, logger, m),
		service.NewPurchaseService(roster, ledger, env.provider, service.PurchaseOptions{BasePricePerCredit: 10}, logger, m),
		env.login,
		logger,
	)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	srv := NewServer(h, Options{
		Addr:     ":0",
		Verifier: verifier,
		Limiter:  ratelimit.NewLimiter(client, requestLimit, time.Minute, "test"),
		Metrics:  m,
		Logger:   logger,
	})
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Root(t *testing.T) {
	env := setupServer(t, 100)

	rec := env.do(t, http.MethodGet, "/", nil, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello User - ")

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/unknown", nil, false).Code)
}

func TestServer_Login(t *testing.T) {
	env := setupServer(t, 100)
	env.login.On("Login", mock.Anything, managerEmail, "secret").
		Return(&domain.LoginResult{IDToken: "id", RefreshToken: "refresh", ExpiresIn: 3600}, nil)

	rec := env.do(t, http.MethodPost, "/auth/login", handler.LoginRequest{Email: managerEmail, Password: "secret"}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, handler.LoginResponse{IDToken: "id", RefreshToken: "refresh", ExpiresIn: 3600}, resp)
}

func TestServer_InviteTeamMember(t *testing.T) {
	t.Run("успешное приглашение", func(t *testing.T) {
		env := setupServer(t, 100)
		env.memberRepo.On("GetByManager", mock.Anything, managerEmail).Return([]*domain.TeamMember{}, nil)
		env.creditRepo.On("GetByManager", mock.Anything, managerEmail).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 1, Version: 1}, nil)
		env.mailer.On("Send", mock.Anything, "alice@example.com", mock.Anything, mock.Anything).Return(nil)
		env.creditRepo.On("UpdateIfVersion", mock.Anything, managerEmail, 0, int64(1)).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 0, Version: 2}, nil)
		env.memberRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		rec := env.do(t, http.MethodPost, "/team/invite_team_member", handler.InviteRequest{Email: "alice@example.com"}, true)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.InviteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, handler.InviteResponse{Status: "invited", Email: "alice@example.com"}, resp)
	})

	t.Run("без токена", func(t *testing.T) {
		env := setupServer(t, 100)

		rec := env.do(t, http.MethodPost, "/team/invite_team_member", handler.InviteRequest{Email: "alice@example.com"}, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env.memberRepo.AssertNotCalled(t, "GetByManager", mock.Anything, mock.Anything)
	})

	t.Run("битое тело запроса", func(t *testing.T) {
		env := setupServer(t, 100)
		req := httptest.NewRequest(http.MethodPost, "/team/invite_team_member", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+env.token)
		rec := httptest.NewRecorder()

		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetTeamMembers(t *testing.T) {
	t.Run("список участников", func(t *testing.T) {
		env := setupServer(t, 100)
		env.memberRepo.On("GetByManager", mock.Anything, managerEmail).Return([]*domain.TeamMember{
			{ID: "m1", ManagerEmail: managerEmail, Email: "alice@example.com", Status: domain.MemberStatusPending, Credits: 1},
		}, nil)

		rec := env.do(t, http.MethodGet, "/team/get_team_members", nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []handler.TeamMemberResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "alice@example.com", resp[0].Email)
		assert.Equal(t, "Pending", resp[0].Status)
	})

	t.Run("пустая команда", func(t *testing.T) {
		env := setupServer(t, 100)
		env.memberRepo.On("GetByManager", mock.Anything, managerEmail).Return([]*domain.TeamMember{}, nil)

		rec := env.do(t, http.MethodGet, "/team/get_team_members", nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Credits(t *testing.T) {
	t.Run("баланс", func(t *testing.T) {
		env := setupServer(t, 100)
		env.creditRepo.On("GetByManager", mock.Anything, managerEmail).
			Return(nil, repository.ErrNotFound)

		rec := env.do(t, http.MethodGet, "/credits/get_credits", nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"credits":0}`, rec.Body.String())
	})

	t.Run("покупка", func(t *testing.T) {
		env := setupServer(t, 100)
		env.memberRepo.On("CountByManagerExcludingStatus", mock.Anything, managerEmail, domain.MemberStatusPending).Return(0, nil)
		env.provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return("https://pay.example.com/cs_1", nil)

		rec := env.do(t, http.MethodPost, "/credits/buy_credits", handler.BuyCreditsRequest{Credits: 5}, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"checkout_url":"https://pay.example.com/cs_1"}`, rec.Body.String())
	})

	t.Run("вебхук без подписи", func(t *testing.T) {
		env := setupServer(t, 100)

		rec := env.do(t, http.MethodPost, "/credits/webhook", map[string]string{"id": "evt"}, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.provider.AssertNotCalled(t, "ParseWebhook", mock.Anything, mock.Anything)
	})

	t.Run("вебхук с подписью", func(t *testing.T) {
		env := setupServer(t, 100)
		event := &domain.PaymentEvent{ID: "evt_1", Type: domain.EventCheckoutCompleted, SessionID: "cs_1", ManagerEmail: managerEmail, Credits: 10}
		env.provider.On("ParseWebhook", mock.Anything, "t=1,v1=sig").Return(event, nil)
		env.creditRepo.On("ApplyPayment", mock.Anything, event).
			Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 10}, true, nil)

		req := httptest.NewRequest(http.MethodPost, "/credits/webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=sig")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","message":"Credits updated successfully"}`, rec.Body.String())
	})

	t.Run("возврат кредита активного участника", func(t *testing.T) {
		env := setupServer(t, 100)
		env.memberRepo.On("GetByEmail", mock.Anything, managerEmail, "alice@example.com").
			Return(&domain.TeamMember{ID: "m1", Email: "alice@example.com", Status: domain.MemberStatusActive, Credits: 1}, nil)

		rec := env.do(t, http.MethodPost, "/credits/invalidate_credit", handler.InvalidateCreditRequest{TeamMemberEmail: "alice@example.com"}, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), domain.CodeInvalidState)
	})
}

func TestServer_RateLimitAndMetrics(t *testing.T) {
	env := setupServer(t, 2)
	env.creditRepo.On("GetByManager", mock.Anything, managerEmail).
		Return(&domain.CreditBalance{ManagerEmail: managerEmail, Credits: 3}, nil)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/credits/get_credits", nil, true).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/credits/get_credits", nil, true).Code)

	limited := env.do(t, http.MethodGet, "/credits/get_credits", nil, true)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	rec := env.do(t, http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `team_credits_http_requests_total{method="GET",path="GET /credits/get_credits",status="429"} 1`)
}
