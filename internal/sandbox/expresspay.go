package sandbox

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "gatewaysandbox/internal/errors"
)

const expressPayCurrency = "GHS"

var ghanaMobilePattern = regexp.MustCompile(`^0\d{9}$`)

// mobileNetworks are the accepted mobile money networks.
var mobileNetworks = map[string]struct{}{
	"MTN":        {},
	"VODAFONE":   {},
	"AIRTELTIGO": {},
}

func validNetwork(n string) bool {
	_, ok := mobileNetworks[strings.ToUpper(n)]
	return ok
}

// DirectInitiateRequest opens a direct payment and obtains a token.
type DirectInitiateRequest struct {
	MerchantID string          `json:"merchant-id" validate:"required"`
	APIKey     string          `json:"api-key" validate:"required"`
	Currency   string          `json:"currency" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	OrderID    string          `json:"order-id" validate:"required"`
	PostURL    string          `json:"post-url" validate:"required"`
}

// DirectInitiateResponse carries the payment token.
type DirectInitiateResponse struct {
	Status  int    `json:"status"`
	OrderID string `json:"order-id"`
	Token   string `json:"token"`
}

// CardPaymentRequest submits card details against a token.
type CardPaymentRequest struct {
	Token      string `json:"token" validate:"required"`
	Number     string `json:"card-number" validate:"required"`
	HolderName string `json:"card-holder-name" validate:"required"`
	Expiry     string `json:"card-expiry" validate:"required"`
	CVV        string `json:"card-cvv" validate:"required"`
	Address    string `json:"card-address" validate:"required"`
	City       string `json:"card-city" validate:"required"`
	State      string `json:"card-state" validate:"required"`
	Zipcode    string `json:"card-zipcode" validate:"required"`
	Country    string `json:"card-country" validate:"required"`
}

// MomoPaymentRequest submits mobile money authorization against a token.
type MomoPaymentRequest struct {
	Token     string `json:"token" validate:"required"`
	Number    string `json:"mobile-number" validate:"required"`
	Network   string `json:"mobile-network" validate:"required"`
	AuthToken string `json:"mobile-auth-token" validate:"required"`
}

// DirectQueryRequest looks up a direct payment.
type DirectQueryRequest struct {
	MerchantID string `json:"merchant-id" validate:"required"`
	APIKey     string `json:"api-key" validate:"required"`
	Token      string `json:"token" validate:"required"`
}

// PaymentInfo describes the instrument used for a payment.
type PaymentInfo struct {
	Type   string `json:"type"`
	Masked string `json:"masked,omitempty"`
	BIN    string `json:"bin,omitempty"`
	Name   string `json:"name,omitempty"`
}

// PaymentResult is the outcome of a direct payment.
type PaymentResult struct {
	Result        int         `json:"result"`
	ResultText    string      `json:"result-text"`
	Token         string      `json:"token"`
	TransactionID string      `json:"transaction-id"`
	Currency      string      `json:"currency"`
	DateProcessed string      `json:"date-processed"`
	Instrument    PaymentInfo `json:"pmt-info"`
}

// ExpressPay simulates the ExpressPay direct payment API.
type ExpressPay struct {
	cards *CardValidator
	now   func() time.Time
}

// NewExpressPay creates a new ExpressPay simulator.
func NewExpressPay(cards *CardValidator) *ExpressPay {
	return &ExpressPay{cards: cards, now: time.Now}
}

// Initiate validates the payment request and issues a token.
func (x *ExpressPay) Initiate(req DirectInitiateRequest) (*DirectInitiateResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.Validation("Invalid amount. Must be a positive number")
	}
	if req.Currency != expressPayCurrency {
		return nil, apperrors.Validation("Invalid currency. Only GHS is supported")
	}
	if !isAbsoluteURL(req.PostURL) {
		return nil, apperrors.Validation("Invalid post-url format")
	}
	return &DirectInitiateResponse{
		Status:  1,
		OrderID: req.OrderID,
		Token:   strings.ReplaceAll(uuid.NewString(), "-", ""),
	}, nil
}

// PayWithCard charges a card. Only the masked number is echoed back.
func (x *ExpressPay) PayWithCard(req CardPaymentRequest) (*PaymentResult, error) {
	if err := x.cards.Validate(req.Number, req.Expiry, req.CVV); err != nil {
		return nil, err
	}
	return &PaymentResult{
		Result:        1,
		ResultText:    "Approved",
		Token:         req.Token,
		TransactionID: newNumericRef(),
		Currency:      expressPayCurrency,
		DateProcessed: x.now().UTC().Format(time.DateTime),
		Instrument: PaymentInfo{
			Type:   "card",
			Masked: MaskCardNumber(req.Number),
			BIN:    BIN(req.Number),
			Name:   req.HolderName,
		},
	}, nil
}

// PayWithMomo charges a mobile money wallet.
func (x *ExpressPay) PayWithMomo(req MomoPaymentRequest) (*PaymentResult, error) {
	if !ghanaMobilePattern.MatchString(req.Number) {
		return nil, apperrors.Validation("Invalid mobile number format. Expected format: 0XXXXXXXXX")
	}
	if !validNetwork(req.Network) {
		return nil, apperrors.Validation("Invalid mobile network. Supported: MTN, VODAFONE, AIRTELTIGO")
	}
	return &PaymentResult{
		Result:        1,
		ResultText:    "Approved",
		Token:         req.Token,
		TransactionID: newNumericRef(),
		Currency:      expressPayCurrency,
		DateProcessed: x.now().UTC().Format(time.DateTime),
		Instrument:    PaymentInfo{Type: "momo", Name: strings.ToUpper(req.Network)},
	}, nil
}

// Query reports every known token as settled.
func (x *ExpressPay) Query(req DirectQueryRequest) *PaymentResult {
	return &PaymentResult{
		Result:        1,
		ResultText:    "Success",
		Token:         req.Token,
		TransactionID: newNumericRef(),
		Currency:      expressPayCurrency,
		DateProcessed: x.now().UTC().Format(time.DateTime),
	}
}
