package sandbox

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "gatewaysandbox/internal/errors"
)

const (
	msgInvalidOTP          = "Invalid OTP code"
	msgExpiredOTP          = "OTP code has expired"
	msgInsufficientBalance = "Insufficient balance to process request"

	// Magic codes understood by the auto-debit OTP validation endpoint.
	anmValidOTP   = "123456"
	anmExpiredOTP = "000000"
)

// anmBalanceLimit is the largest amount the simulated wallet can cover.
var anmBalanceLimit = decimal.NewFromInt(10000)

// WalletBalance is the static balance sheet returned by the ANM simulator.
type WalletBalance struct {
	SMSBalance          decimal.Decimal `json:"sms_bal"`
	PayoutBalance       decimal.Decimal `json:"payout_bal"`
	BillPayBalance      decimal.Decimal `json:"billpay_bal"`
	AvailableCollection decimal.Decimal `json:"available_collect_bal"`
	AirtimeBalance      decimal.Decimal `json:"airtime_bal"`
	ActualCollection    decimal.Decimal `json:"actual_collect_bal"`
}

// BalanceRequest asks for the wallet balance.
type BalanceRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	TransType string `json:"trans_type" validate:"required"`
	Timestamp string `json:"ts" validate:"required"`
}

// TransactionStatusRequest queries a previous transaction.
type TransactionStatusRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	TransType string `json:"trans_type" validate:"required"`
	ExtTrID   string `json:"exttrid" validate:"required"`
}

// TransactionStatus is the result of a transaction query.
type TransactionStatus struct {
	Status  string `json:"trans_status"`
	Ref     string `json:"trans_ref"`
	ID      string `json:"trans_id"`
	Message string `json:"message"`
}

// SMSRequest queues an SMS.
type SMSRequest struct {
	ServiceID       string `json:"service_id" validate:"required"`
	TransType       string `json:"trans_type" validate:"required"`
	SenderID        string `json:"sender_id" validate:"required"`
	RecipientNumber string `json:"recipient_number" validate:"required"`
	MsgType         string `json:"msg_type" validate:"required"`
	MsgBody         string `json:"msg_body" validate:"required"`
	UniqueID        string `json:"unique_id"`
}

// DebitCreditRequest moves money to or from a customer wallet.
type DebitCreditRequest struct {
	ServiceID      string          `json:"service_id" validate:"required"`
	TransType      string          `json:"trans_type" validate:"required"`
	CustomerNumber string          `json:"customer_number" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Network        string          `json:"nw" validate:"required"`
	Reference      string          `json:"reference"`
	CallbackURL    string          `json:"callback_url" validate:"omitempty,url"`
	ExtTrID        string          `json:"exttrid" validate:"required"`
	Timestamp      string          `json:"ts"`
}

// OTPValidationRequest confirms an auto-debit subscription.
type OTPValidationRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	UniqRefID string `json:"uniq_ref_id" validate:"required"`
	Operation string `json:"operation" validate:"required"`
	OTPCode   string `json:"otp_code"`
}

// Ack is the generic acknowledgement of an accepted request.
type Ack struct {
	Description string `json:"resp_desc"`
	Code        string `json:"resp_code"`
}

// Subscription describes an auto-debit mandate.
type Subscription struct {
	ServiceID string `json:"service_id"`
	UniqRefID string `json:"uniq_ref_id"`
	Operation string `json:"operation"`
	Status    string `json:"status"`
}

// ANM simulates the Apps-and-Mobile wallet gateway.
type ANM struct{}

// NewANM creates a new ANM simulator.
func NewANM() *ANM {
	return &ANM{}
}

// WalletBalance returns the fixed sandbox balances.
func (a *ANM) WalletBalance(_ BalanceRequest) WalletBalance {
	return WalletBalance{
		SMSBalance:          decimal.NewFromInt(56),
		PayoutBalance:       decimal.RequireFromString("3.72"),
		BillPayBalance:      decimal.RequireFromString("4.4"),
		AvailableCollection: decimal.RequireFromString("359.765"),
		AirtimeBalance:      decimal.RequireFromString("30.9"),
		ActualCollection:    decimal.RequireFromString("359.765"),
	}
}

// TransactionStatus reports every queried transaction as successful.
func (a *ANM) TransactionStatus(req TransactionStatusRequest) TransactionStatus {
	return TransactionStatus{
		Status:  "000/01",
		Ref:     req.ExtTrID,
		ID:      newNumericRef(),
		Message: "SUCCESSFUL",
	}
}

// SendSMS queues a message to a Ghanaian number in international format.
func (a *ANM) SendSMS(req SMSRequest) (*Ack, error) {
	if !strings.HasPrefix(req.RecipientNumber, "233") || len(req.RecipientNumber) < 12 {
		return nil, apperrors.Validation("Invalid recipient phone number format")
	}
	return &Ack{Description: "Message successfully queued for delivery", Code: "082"}, nil
}

// DebitCredit accepts positive amounts up to the simulated balance.
func (a *ANM) DebitCredit(req DebitCreditRequest) (*Ack, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.Validation("Invalid amount")
	}
	if req.Amount.GreaterThan(anmBalanceLimit) {
		return nil, apperrors.PaymentRequired(msgInsufficientBalance)
	}
	return &Ack{Description: "Request successfully received for processing", Code: "015"}, nil
}

// ValidateOTP checks the optional OTP of an auto-debit request. "000000"
// simulates an expired code and any code other than "123456" is rejected.
func (a *ANM) ValidateOTP(req OTPValidationRequest) (*Subscription, error) {
	switch {
	case req.OTPCode == "":
	case req.OTPCode == anmExpiredOTP:
		return nil, apperrors.Timeout(msgExpiredOTP)
	case req.OTPCode != anmValidOTP:
		return nil, apperrors.NotFound(msgInvalidOTP)
	}
	return &Subscription{
		ServiceID: req.ServiceID,
		UniqRefID: req.UniqRefID,
		Operation: req.Operation,
		Status:    "Active",
	}, nil
}

// newNumericRef returns a twelve digit reference derived from a random UUID.
func newNumericRef() string {
	id := uuid.New()
	var b strings.Builder
	for _, c := range id {
		b.WriteByte('0' + c%10)
		if b.Len() == 12 {
			break
		}
	}
	return b.String()
}
