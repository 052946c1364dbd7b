package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "gatewaysandbox/internal/errors"
	"gatewaysandbox/internal/sandbox"
	"gatewaysandbox/internal/validation"
)

// MockOTPStore is a mock implementation of sandbox.OTPStore.
type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Save(ctx context.Context, number, code string, ttl time.Duration) error {
	return m.Called(ctx, number, code, ttl).Error(0)
}

func (m *MockOTPStore) Verify(ctx context.Context, number, code string) error {
	return m.Called(ctx, number, code).Error(0)
}

func newSandboxHandler(store sandbox.OTPStore) *SandboxHandler {
	return NewSandboxHandler(
		sandbox.NewANM(),
		sandbox.NewExpressPay(sandbox.NewCardValidator()),
		sandbox.NewNalo(),
		sandbox.NewWigal(store, 5*time.Minute),
	)
}

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		username string
		allowed  bool
	}{
		{name: "valid", apiKey: "sandbox-key", username: "merchant", allowed: true},
		{name: "wrong key", apiKey: "other", username: "merchant"},
		{name: "missing username", apiKey: "sandbox-key"},
		{name: "missing key", username: "merchant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/anm/check_wallet_balance", nil)
			if tt.apiKey != "" {
				req.Header.Set(HeaderAPIKey, tt.apiKey)
			}
			if tt.username != "" {
				req.Header.Set(HeaderUsername, tt.username)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RequireAPIKey("sandbox-key")(func(c echo.Context) error {
				return c.NoContent(http.StatusNoContent)
			})(c)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, http.StatusNoContent, rec.Code)
				return
			}
			assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
		})
	}
}

func TestSandboxHandler_ANMDebitCredit(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		expectedKind apperrors.Kind
		ok           bool
	}{
		{name: "accepted", amount: "250.00", ok: true},
		{name: "over balance", amount: "10000.01", expectedKind: apperrors.KindPaymentRequired},
		{name: "negative", amount: "-5", expectedKind: apperrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSandboxHandler(new(MockOTPStore))
			body := `{"service_id":"1","trans_type":"CTM","customer_number":"0241234567",` +
				`"amount":` + tt.amount + `,"nw":"MTN","exttrid":"ref-1"}`
			c, rec := newContext(http.MethodPost, "/api/v1/anm/debit-credit/sendRequest", body, nil)

			err := h.ANMDebitCredit(c)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `"resp_code":"015"`)
				return
			}
			assert.True(t, apperrors.Is(err, tt.expectedKind), "got %v", err)
		})
	}
}

func TestSandboxHandler_ANMDebitCreditRequiresFields(t *testing.T) {
	h := newSandboxHandler(new(MockOTPStore))
	c, _ := newContext(http.MethodPost, "/api/v1/anm/debit-credit/sendRequest", `{"amount":5}`, nil)

	msg, fields, ok := validation.Describe(h.ANMDebitCredit(c))
	require.True(t, ok)
	assert.NotEmpty(t, fields)
	assert.Contains(t, msg, "service_id is required")
}

func TestSandboxHandler_ANMValidateOTP(t *testing.T) {
	h := newSandboxHandler(new(MockOTPStore))

	c, _ := newContext(http.MethodPost, "/api/v1/anm/auto-debit/otp-validation",
		`{"service_id":"1","uniq_ref_id":"u-1","operation":"subscribe","otp_code":"000000"}`, nil)
	assert.True(t, apperrors.Is(h.ANMValidateOTP(c), apperrors.KindTimeout))

	c, rec := newContext(http.MethodPost, "/api/v1/anm/auto-debit/otp-validation",
		`{"service_id":"1","uniq_ref_id":"u-1","operation":"subscribe","otp_code":"123456"}`, nil)
	require.NoError(t, h.ANMValidateOTP(c))
	assert.Contains(t, rec.Body.String(), `"status":"Active"`)
}

func TestSandboxHandler_NaloCollection(t *testing.T) {
	h := newSandboxHandler(new(MockOTPStore))
	body := `{"merchant_id":"m-1","service_name":"MOMO_TRANSACTION","trans_hash":"h","account_number":"0241234567",` +
		`"account_name":"Ama","description":"test","reference":"r-1","network":"mtn","amount":"10",` +
		`"callback":"https://merchant.example.com/cb"}`
	c, rec := newContext(http.MethodPost, "/api/v1/nalo/client/collection", body, nil)

	require.NoError(t, h.NaloCollection(c))
	var resp struct {
		Data sandbox.CollectionOrder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PENDING", resp.Data.Status)
	assert.NotEmpty(t, resp.Data.OrderID)
}

func TestSandboxHandler_WigalOTP(t *testing.T) {
	store := new(MockOTPStore)
	store.On("Save", mock.Anything, "0241234567", mock.AnythingOfType("string"), 5*time.Minute).Return(nil)
	store.On("Verify", mock.Anything, "0241234567", "1234").Return(nil)
	h := newSandboxHandler(store)

	body := `{"senderid":"Sandbox","type":"NUMERIC","messagetemplate":"Your code is %OTPCODE%",` +
		`"length":6,"expiry":5,"number":"0241234567"}`
	c, rec := newContext(http.MethodPost, "/api/v1/wigal/sms/otp/generate", body, nil)
	require.NoError(t, h.WigalGenerateOTP(c))
	assert.Contains(t, rec.Body.String(), "OTP processed for delivery")

	c, rec = newContext(http.MethodPost, "/api/v1/wigal/sms/otp/verify", `{"otpcode":"1234","number":"0241234567"}`, nil)
	require.NoError(t, h.WigalVerifyOTP(c))
	assert.Contains(t, rec.Body.String(), "OTP verified successfully")
	store.AssertExpectations(t)
}

func TestSandboxHandler_WigalTemplateWithoutPlaceholder(t *testing.T) {
	store := new(MockOTPStore)
	h := newSandboxHandler(store)

	body := `{"senderid":"Sandbox","type":"NUMERIC","messagetemplate":"Your code",` +
		`"length":6,"expiry":5,"number":"0241234567"}`
	c, _ := newContext(http.MethodPost, "/api/v1/wigal/sms/otp/generate", body, nil)

	assert.True(t, apperrors.Is(h.WigalGenerateOTP(c), apperrors.KindUnprocessableEntity))
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
