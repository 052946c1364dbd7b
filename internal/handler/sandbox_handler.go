package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "gatewaysandbox/internal/errors"
	"gatewaysandbox/internal/sandbox"
)

// Header names checked by RequireAPIKey.
const (
	HeaderAPIKey   = "apikey"
	HeaderUsername = "username"
)

// RequireAPIKey guards the sandbox gateways that authenticate with an
// apikey/username header pair.
func RequireAPIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(HeaderAPIKey)
			user := c.Request().Header.Get(HeaderUsername)
			if got == "" || user == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return apperrors.Unauthorized("Invalid API key or username")
			}
			return next(c)
		}
	}
}

// SandboxHandler exposes the gateway simulators.
type SandboxHandler struct {
	anm   *sandbox.ANM
	xpay  *sandbox.ExpressPay
	nalo  *sandbox.Nalo
	wigal *sandbox.Wigal
}

// NewSandboxHandler creates a handler over the four simulators.
func NewSandboxHandler(anm *sandbox.ANM, xpay *sandbox.ExpressPay, nalo *sandbox.Nalo, wigal *sandbox.Wigal) *SandboxHandler {
	return &SandboxHandler{anm: anm, xpay: xpay, nalo: nalo, wigal: wigal}
}

// ANMWalletBalance handles POST /anm/check_wallet_balance.
func (h *SandboxHandler) ANMWalletBalance(c echo.Context) error {
	var req sandbox.BalanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.anm.WalletBalance(req))
}

// ANMTransactionStatus handles POST /anm/checkTransaction.
func (h *SandboxHandler) ANMTransactionStatus(c echo.Context) error {
	var req sandbox.TransactionStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.anm.TransactionStatus(req))
}

// ANMSendSMS handles POST /anm/sendSms.
func (h *SandboxHandler) ANMSendSMS(c echo.Context) error {
	var req sandbox.SMSRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ack, err := h.anm.SendSMS(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ack)
}

// ANMDebitCredit handles POST /anm/debit-credit/sendRequest.
func (h *SandboxHandler) ANMDebitCredit(c echo.Context) error {
	var req sandbox.DebitCreditRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ack, err := h.anm.DebitCredit(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ack)
}

// ANMValidateOTP handles POST /anm/auto-debit/otp-validation.
func (h *SandboxHandler) ANMValidateOTP(c echo.Context) error {
	var req sandbox.OTPValidationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sub, err := h.anm.ValidateOTP(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sub)
}

// ExpressPayInitiate handles POST /express-pay/direct/initiate.
func (h *SandboxHandler) ExpressPayInitiate(c echo.Context) error {
	var req sandbox.DirectInitiateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.xpay.Initiate(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// ExpressPayCard handles POST /express-pay/direct/card.
func (h *SandboxHandler) ExpressPayCard(c echo.Context) error {
	var req sandbox.CardPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.xpay.PayWithCard(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// ExpressPayMomo handles POST /express-pay/direct/momo.
func (h *SandboxHandler) ExpressPayMomo(c echo.Context) error {
	var req sandbox.MomoPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.xpay.PayWithMomo(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// ExpressPayQuery handles POST /express-pay/direct/query.
func (h *SandboxHandler) ExpressPayQuery(c echo.Context) error {
	var req sandbox.DirectQueryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.xpay.Query(req))
}

// NaloToken handles POST /nalo/client/token.
func (h *SandboxHandler) NaloToken(c echo.Context) error {
	var req sandbox.TokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.nalo.IssueToken(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// NaloCollection handles POST /nalo/client/collection.
func (h *SandboxHandler) NaloCollection(c echo.Context) error {
	var req sandbox.CollectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.nalo.InitiateCollection(req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// WigalGenerateOTP handles POST /wigal/sms/otp/generate.
func (h *SandboxHandler) WigalGenerateOTP(c echo.Context) error {
	var req sandbox.OTPGenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	delivery, err := h.wigal.GenerateOTP(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Status:  statusSuccess,
		Message: "OTP processed for delivery",
		Data:    delivery,
	})
}

// WigalVerifyOTP handles POST /wigal/sms/otp/verify.
func (h *SandboxHandler) WigalVerifyOTP(c echo.Context) error {
	var req sandbox.OTPVerifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.wigal.VerifyOTP(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: "OTP verified successfully"})
}
