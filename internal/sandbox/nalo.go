package sandbox

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "gatewaysandbox/internal/errors"
)

var accountNumberPattern = regexp.MustCompile(`^\d{10}$`)

// TokenRequest asks for a client API payment token.
type TokenRequest struct {
	MerchantID string `json:"merchant_id" validate:"required"`
}

// TokenResponse carries a client API payment token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CollectionRequest initiates a mobile money collection.
type CollectionRequest struct {
	MerchantID    string          `json:"merchant_id" validate:"required"`
	ServiceName   string          `json:"service_name" validate:"required"`
	TransHash     string          `json:"trans_hash" validate:"required"`
	AccountNumber string          `json:"account_number" validate:"required"`
	AccountName   string          `json:"account_name" validate:"required"`
	Description   string          `json:"description" validate:"required"`
	Reference     string          `json:"reference" validate:"required"`
	Network       string          `json:"network" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Callback      string          `json:"callback" validate:"required"`
}

// CollectionOrder is a pending collection.
type CollectionOrder struct {
	OrderID   string          `json:"order_id"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
	Timestamp string          `json:"timestamp"`
}

// Nalo simulates the Nalo client payment API.
type Nalo struct {
	tokenTTL time.Duration
	now      func() time.Time
}

// NewNalo creates a new Nalo simulator.
func NewNalo() *Nalo {
	return &Nalo{tokenTTL: 15 * time.Minute, now: time.Now}
}

// IssueToken returns an opaque payment token for a merchant.
func (n *Nalo) IssueToken(req TokenRequest) (*TokenResponse, error) {
	if strings.TrimSpace(req.MerchantID) == "" {
		return nil, apperrors.Validation("Invalid merchant_id format")
	}
	return &TokenResponse{
		Token:     uuid.NewString(),
		ExpiresAt: n.now().Add(n.tokenTTL).UTC(),
	}, nil
}

// InitiateCollection validates the collection and returns a PENDING order.
func (n *Nalo) InitiateCollection(req CollectionRequest) (*CollectionOrder, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.Validation("Invalid amount. Must be a positive number")
	}
	if !validNetwork(req.Network) {
		return nil, apperrors.Validation("Invalid network. Must be one of: MTN, VODAFONE, AIRTELTIGO")
	}
	if !accountNumberPattern.MatchString(req.AccountNumber) {
		return nil, apperrors.Validation("Invalid account_number. Must be 10 digits")
	}
	return &CollectionOrder{
		OrderID:   uuid.NewString(),
		Status:    "PENDING",
		Amount:    req.Amount,
		Reference: req.Reference,
		Timestamp: n.now().UTC().Format(time.DateTime),
	}, nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
