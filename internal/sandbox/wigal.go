package sandbox

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	apperrors "gatewaysandbox/internal/errors"
)

const otpPlaceholder = "%OTPCODE%"

var otpAlphabets = map[string]string{
	"NUMERIC":      "0123456789",
	"ALPHABETIC":   "ABCDEFGHJKLMNPQRSTUVWXYZ",
	"ALPHANUMERIC": "ABCDEFGHJKLMNPQRSTUVWXYZ23456789",
}

// OTPGenerateRequest asks the gateway to send a one-time code.
type OTPGenerateRequest struct {
	SenderID        string `json:"senderid" validate:"required"`
	Type            string `json:"type" validate:"required"`
	MessageTemplate string `json:"messagetemplate" validate:"required"`
	Length          int    `json:"length" validate:"required"`
	ExpiryMinutes   int    `json:"expiry" validate:"omitempty,gt=0"`
	Number          string `json:"number" validate:"required"`
}

// OTPVerifyRequest checks a code previously sent to a number.
type OTPVerifyRequest struct {
	Code   string `json:"otpcode" validate:"required"`
	Number string `json:"number" validate:"required"`
}

// OTPDelivery is the simulated outgoing message. The code is echoed so that
// sandbox clients can complete the verify step.
type OTPDelivery struct {
	Number    string    `json:"number"`
	Message   string    `json:"message"`
	Code      string    `json:"otpcode"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Wigal simulates the Wigal SMS OTP API.
type Wigal struct {
	store      OTPStore
	defaultTTL time.Duration
	now        func() time.Time
}

// NewWigal creates a new Wigal simulator backed by store. Codes requested
// without an expiry live for defaultTTL.
func NewWigal(store OTPStore, defaultTTL time.Duration) *Wigal {
	return &Wigal{store: store, defaultTTL: defaultTTL, now: time.Now}
}

// GenerateOTP renders the template with a fresh code and stores it for verification.
func (w *Wigal) GenerateOTP(ctx context.Context, req OTPGenerateRequest) (*OTPDelivery, error) {
	if !strings.Contains(req.MessageTemplate, otpPlaceholder) {
		return nil, apperrors.Unprocessable("Message template must contain %OTPCODE% placeholder")
	}
	if !accountNumberPattern.MatchString(req.Number) {
		return nil, apperrors.Validation("Invalid phone number format")
	}
	if req.Length < 4 || req.Length > 8 {
		return nil, apperrors.Validation("OTP length must be between 4 and 8")
	}
	alphabet, ok := otpAlphabets[strings.ToUpper(req.Type)]
	if !ok {
		return nil, apperrors.Validation("Invalid OTP type. Must be NUMERIC, ALPHANUMERIC, or ALPHABETIC")
	}

	code, err := randomCode(alphabet, req.Length)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	ttl := w.defaultTTL
	if req.ExpiryMinutes > 0 {
		ttl = time.Duration(req.ExpiryMinutes) * time.Minute
	}
	if err := w.store.Save(ctx, req.Number, code, ttl); err != nil {
		return nil, err
	}
	return &OTPDelivery{
		Number:    req.Number,
		Message:   strings.ReplaceAll(req.MessageTemplate, otpPlaceholder, code),
		Code:      code,
		ExpiresAt: w.now().Add(ttl).UTC(),
	}, nil
}

// VerifyOTP consumes the code sent to req.Number.
func (w *Wigal) VerifyOTP(ctx context.Context, req OTPVerifyRequest) error {
	if !accountNumberPattern.MatchString(req.Number) {
		return apperrors.Validation("Invalid phone number format")
	}
	return w.store.Verify(ctx, req.Number, strings.ToUpper(req.Code))
}

func randomCode(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}
