package sandbox

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gatewaysandbox/internal/errors"
)

func TestANM_DebitCredit(t *testing.T) {
	anm := NewANM()

	tests := []struct {
		name         string
		amount       string
		expectedKind apperrors.Kind
		ok           bool
	}{
		{"accepted", "250.00", 0, true},
		{"at limit", "10000", 0, true},
		{"over limit", "10000.01", apperrors.KindPaymentRequired, false},
		{"zero", "0", apperrors.KindValidation, false},
		{"negative", "-5", apperrors.KindValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, err := anm.DebitCredit(DebitCreditRequest{Amount: decimal.RequireFromString(tt.amount)})
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "015", ack.Code)
				return
			}
			assert.True(t, apperrors.Is(err, tt.expectedKind))
			assert.Nil(t, ack)
		})
	}
}

func TestANM_ValidateOTP(t *testing.T) {
	anm := NewANM()
	base := OTPValidationRequest{ServiceID: "svc", UniqRefID: "ref-1", Operation: "validate"}

	t.Run("no otp", func(t *testing.T) {
		sub, err := anm.ValidateOTP(base)
		require.NoError(t, err)
		assert.Equal(t, "ref-1", sub.UniqRefID)
	})

	t.Run("valid otp", func(t *testing.T) {
		req := base
		req.OTPCode = "123456"
		sub, err := anm.ValidateOTP(req)
		require.NoError(t, err)
		assert.Equal(t, "Active", sub.Status)
	})

	t.Run("expired otp", func(t *testing.T) {
		req := base
		req.OTPCode = "000000"
		_, err := anm.ValidateOTP(req)
		assert.True(t, apperrors.Is(err, apperrors.KindTimeout))
	})

	t.Run("invalid otp", func(t *testing.T) {
		req := base
		req.OTPCode = "999999"
		_, err := anm.ValidateOTP(req)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}

func TestANM_SendSMS(t *testing.T) {
	anm := NewANM()

	_, err := anm.SendSMS(SMSRequest{RecipientNumber: "0241234567"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	ack, err := anm.SendSMS(SMSRequest{RecipientNumber: "233241234567"})
	require.NoError(t, err)
	assert.Equal(t, "082", ack.Code)
}

func TestANM_TransactionStatus(t *testing.T) {
	status := NewANM().TransactionStatus(TransactionStatusRequest{ExtTrID: "4243846988303"})
	assert.Equal(t, "4243846988303", status.Ref)
	assert.Len(t, status.ID, 12)
}
