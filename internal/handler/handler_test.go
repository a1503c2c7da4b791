package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/handler"
	"servicehub/internal/middleware"
	"servicehub/internal/mocks"
	"servicehub/internal/service/audit"
	"servicehub/internal/service/auth"
	"servicehub/internal/service/interest"
	"servicehub/internal/service/trade"
	"servicehub/internal/service/wallet"
)

type tokens map[string]*domain.User

func (t tokens) ValidateAccessToken(token string) (*auth.Claims, error) {
	u, ok := t[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (t tokens) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range t {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fixture struct {
	app      *fiber.App
	users    tokens
	interest *mocks.InterestService
	wallet   *mocks.WalletService
	trade    *mocks.TradeService
	audit    *mocks.AuditService
}

func newFixture() *fixture {
	content := domain.AdminRoleContentManager
	finance := domain.AdminRoleFinanceManager

	f := &fixture{
		users: tokens{
			"home":    {ID: uuid.New(), Name: "Ada", Role: domain.RoleHomeowner, Status: domain.UserStatusActive},
			"trade":   {ID: uuid.New(), Name: "Bayo", Role: domain.RoleTradesperson, Status: domain.UserStatusActive},
			"cms":     {ID: uuid.New(), Role: domain.RoleAdmin, AdminRole: &content, Status: domain.UserStatusActive},
			"finance": {ID: uuid.New(), Role: domain.RoleAdmin, AdminRole: &finance, Status: domain.UserStatusActive},
		},
		interest: new(mocks.InterestService),
		wallet:   new(mocks.WalletService),
		trade:    new(mocks.TradeService),
		audit:    new(mocks.AuditService),
	}

	h := &handler.Handlers{
		Auth:         handler.NewAuthHandler(nil, nil),
		User:         handler.NewUserHandler(nil),
		Job:          handler.NewJobHandler(nil),
		Interest:     handler.NewInterestHandler(f.interest),
		Message:      handler.NewMessageHandler(nil),
		Wallet:       handler.NewWalletHandler(f.wallet),
		Notification: handler.NewNotificationHandler(nil),
		Content:      handler.NewContentHandler(nil, f.audit),
		Trade:        handler.NewTradeHandler(f.trade, nil, f.audit),
		Admin:        handler.NewAdminHandler(nil),
		Audit:        handler.NewAuditHandler(f.audit),
		Dashboard:    handler.NewDashboardHandler(nil),
	}

	f.app = fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(zap.NewNop())})
	handler.RegisterRoutes(f.app, h, f.users)
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return f.send(t, req, token)
}

func (f *fixture) send(t *testing.T, req *http.Request, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture()

	for _, path := range []string{"/api/interests/my-interests", "/api/wallet/balance", "/api/admin/dashboard"} {
		resp, body := f.do(t, "GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "Not authenticated", body["detail"], path)
	}

	resp, body := f.do(t, "GET", "/api/wallet/balance", "forged", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired token", body["detail"])
}

func TestAdminRoutesCheckPermissions(t *testing.T) {
	f := newFixture()

	resp, body := f.do(t, "GET", "/api/admin/dashboard", "home", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", body["detail"])

	resp, _ = f.do(t, "GET", "/api/admin/users", "cms", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, "PUT", "/api/admin/wallet/funding/"+uuid.NewString()+"/confirm", "cms", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, "POST", "/api/admin/trades", "finance", map[string]string{"name": "Tiling"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	f.trade.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInterest(t *testing.T) {
	jobID := uuid.New()

	t.Run("created", func(t *testing.T) {
		f := newFixture()
		tp := f.users["trade"]
		f.interest.On("Create", mock.Anything, tp, domain.CreateInterestInput{JobID: jobID, Message: "I can start Monday"}).
			Return(&domain.Interest{ID: uuid.New(), JobID: jobID, TradespersonID: tp.ID, Status: domain.InterestPending}, nil).Once()

		resp, body := f.do(t, "POST", "/api/interests", "trade", map[string]interface{}{
			"job_id":  jobID,
			"message": "I can start Monday",
		})

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "pending", body["status"])
		f.interest.AssertExpectations(t)
	})

	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"duplicate", interest.ErrAlreadyInterested, fiber.StatusConflict, "You have already shown interest in this job"},
		{"missing job", interest.ErrJobNotFound, fiber.StatusNotFound, "Job not found"},
		{"closed job", interest.ErrJobNotAccepting, fiber.StatusBadRequest, "Job is not accepting interest"},
		{"homeowner", interest.ErrTradespersonOnly, fiber.StatusForbidden, "Only tradespeople can show interest in jobs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.interest.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			resp, body := f.do(t, "POST", "/api/interests", "trade", map[string]interface{}{"job_id": jobID})

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.detail, body["detail"])
		})
	}
}

func TestPayAccess(t *testing.T) {
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.interest.On("PayAccess", mock.Anything, f.users["trade"], id).Return(&domain.AccessPayment{
			Interest:     &domain.Interest{ID: id, Status: domain.InterestPaidAccess},
			BalanceCoins: 40,
		}, nil).Once()

		resp, body := f.do(t, "POST", "/api/interests/"+id.String()+"/pay-access", "trade", nil)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 40, body["new_balance_coins"])
	})

	t.Run("insufficient balance", func(t *testing.T) {
		f := newFixture()
		f.interest.On("PayAccess", mock.Anything, mock.Anything, id).Return(nil, interest.ErrInsufficientBalance).Once()

		resp, body := f.do(t, "POST", "/api/interests/"+id.String()+"/pay-access", "trade", nil)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Insufficient wallet balance", body["detail"])
	})

	t.Run("bad id", func(t *testing.T) {
		f := newFixture()

		resp, _ := f.do(t, "POST", "/api/interests/not-a-uuid/pay-access", "trade", nil)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		f.interest.AssertNotCalled(t, "PayAccess", mock.Anything, mock.Anything, mock.Anything)
	})
}

func fundingRequest(t *testing.T, amount string, proof []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("amount_naira", amount))
	if proof != nil {
		part, err := w.CreateFormFile("proof", "receipt.png")
		require.NoError(t, err)
		_, err = part.Write(proof)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/wallet/fund", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestRequestFunding(t *testing.T) {
	t.Run("forwards amount and proof", func(t *testing.T) {
		f := newFixture()
		user := f.users["trade"]
		f.wallet.On("RequestFunding", mock.Anything, user.ID, mock.MatchedBy(func(in wallet.FundingInput) bool {
			return in.AmountNaira == 5000 && in.FileName == "receipt.png" && in.Size == int64(len("png-bytes")) && in.Reader != nil
		})).Return(&domain.WalletTransaction{ID: uuid.New(), Status: domain.TxPending}, nil).Once()

		resp, body := f.send(t, fundingRequest(t, "5000", []byte("png-bytes")), "trade")

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "pending", body["status"])
		f.wallet.AssertExpectations(t)
	})

	t.Run("non numeric amount", func(t *testing.T) {
		f := newFixture()

		resp, body := f.send(t, fundingRequest(t, "lots", nil), "trade")

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Amount_naira must be a whole number", body["detail"])
		f.wallet.AssertNotCalled(t, "RequestFunding", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing proof", func(t *testing.T) {
		f := newFixture()
		f.wallet.On("RequestFunding", mock.Anything, mock.Anything, mock.MatchedBy(func(in wallet.FundingInput) bool {
			return in.Reader == nil
		})).Return(nil, wallet.ErrProofRequired).Once()

		resp, body := f.send(t, fundingRequest(t, "5000", nil), "trade")

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Proof of payment is required", body["detail"])
	})
}

func TestTransactionsTypeFilter(t *testing.T) {
	f := newFixture()
	user := f.users["home"]
	f.wallet.On("Transactions", mock.Anything, user.ID, "funding", mock.MatchedBy(func(p domain.PaginationParams) bool {
		return p.PageSize == 5
	})).Return(domain.PaginatedResponse[domain.WalletTransaction]{Data: []domain.WalletTransaction{}}, nil).Once()

	resp, _ := f.do(t, "GET", "/api/wallet/transactions?type=funding&limit=5", "home", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	f.wallet.AssertExpectations(t)
}

func TestTradeMutationsAreAudited(t *testing.T) {
	f := newFixture()
	admin := f.users["cms"]
	created := &domain.Trade{ID: uuid.New(), Name: "Tiling", Slug: "tiling", IsActive: true}

	f.trade.On("Create", mock.Anything, domain.TradeInput{Name: "Tiling"}).Return(created, nil).Once()
	f.audit.On("Record", mock.Anything, admin.ID, "create", audit.EntityTrade, created.ID, mock.Anything).Once()

	resp, body := f.do(t, "POST", "/api/admin/trades", "cms", map[string]string{"name": "Tiling"})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "tiling", body["slug"])
	f.trade.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestTradeErrorsSkipAudit(t *testing.T) {
	f := newFixture()
	f.trade.On("Create", mock.Anything, mock.Anything).Return(nil, trade.ErrTradeExists).Once()

	resp, body := f.do(t, "POST", "/api/admin/trades", "cms", map[string]string{"name": "Tiling"})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body["detail"].(string), "A trade"))
	f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublicTradeList(t *testing.T) {
	f := newFixture()
	f.trade.On("List", mock.Anything, true).Return([]domain.Trade{{Name: "Plumbing"}}, nil).Once()

	req := httptest.NewRequest("GET", "/api/trades", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var trades []domain.Trade
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trades))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, trades, 1)
}
