package sandbox

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "gatewaysandbox/internal/errors"
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	nonDigit      = regexp.MustCompile(`\D`)
)

// CardValidator checks card details submitted to the direct card endpoint.
type CardValidator struct {
	now func() time.Time
}

// NewCardValidator creates a new card validator.
func NewCardValidator() *CardValidator {
	return &CardValidator{now: time.Now}
}

// Validate checks number, expiry (MM/YY) and CVV. A malformed CVV is a 400;
// a number failing the Luhn check or a past expiry is a 422.
func (v *CardValidator) Validate(cardNumber, expiry, cvv string) error {
	if !cvvPattern.MatchString(cvv) {
		return apperrors.Validation("Invalid CVV format. Must be 3 or 4 digits")
	}
	if !luhnValid(normalizeCardNumber(cardNumber)) {
		return apperrors.Unprocessable("Invalid card number")
	}
	if !expiryPattern.MatchString(expiry) {
		return apperrors.Validation("Invalid card expiry format. Expected MM/YY")
	}
	if !v.notExpired(expiry) {
		return apperrors.Unprocessable("Card has expired")
	}
	return nil
}

// MaskCardNumber masks a card number, showing only the last 4 digits.
func MaskCardNumber(cardNumber string) string {
	cardNumber = normalizeCardNumber(cardNumber)
	if len(cardNumber) < 4 {
		return "****"
	}
	return "****" + cardNumber[len(cardNumber)-4:]
}

// BIN returns the first six digits of a card number.
func BIN(cardNumber string) string {
	cardNumber = normalizeCardNumber(cardNumber)
	if len(cardNumber) < 6 {
		return cardNumber
	}
	return cardNumber[:6]
}

func normalizeCardNumber(cardNumber string) string {
	return nonDigit.ReplaceAllString(cardNumber, "")
}

func luhnValid(digits string) bool {
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// notExpired treats a card as valid through the last day of its expiry month.
func (v *CardValidator) notExpired(expiry string) bool {
	parts := strings.Split(expiry, "/")
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])

	firstOfNextMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return v.now().UTC().Before(firstOfNextMonth)
}
