package sandbox

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"gatewaysandbox/internal/cache"
	apperrors "gatewaysandbox/internal/errors"
)

const (
	otpKeyPrefix = "sandbox:otp:"
	// expiredRetention keeps an expired code around long enough to answer
	// with 408 instead of 404.
	expiredRetention = 10 * time.Minute
)

// OTPStore keeps one pending code per phone number.
type OTPStore interface {
	Save(ctx context.Context, number, code string, ttl time.Duration) error
	Verify(ctx context.Context, number, code string) error
}

type otpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedisOTPStore stores codes in Redis. Unlike the rest of the cache users it
// does not fail safe: a code that cannot be written or read is an error.
type RedisOTPStore struct {
	cache *cache.Client
	now   func() time.Time
}

var _ OTPStore = (*RedisOTPStore)(nil)

// NewRedisOTPStore creates a new OTP store.
func NewRedisOTPStore(c *cache.Client) *RedisOTPStore {
	return &RedisOTPStore{cache: c, now: time.Now}
}

// Save replaces any pending code for number.
func (s *RedisOTPStore) Save(ctx context.Context, number, code string, ttl time.Duration) error {
	rec := otpRecord{Code: code, ExpiresAt: s.now().Add(ttl)}
	if err := s.cache.PutJSON(ctx, otpKeyPrefix+number, rec, ttl+expiredRetention); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Verify consumes the pending code for number. Unknown or mismatched codes
// are NotFound; a matching code past its expiry is Timeout. A mismatch leaves
// the pending code in place. Concurrent calls with the right code succeed at
// most once.
func (s *RedisOTPStore) Verify(ctx context.Context, number, code string) error {
	consumed, err := s.cache.CompareAndDelete(ctx, otpKeyPrefix+number, func(data []byte) (bool, error) {
		if data == nil {
			return false, apperrors.NotFound(msgInvalidOTP)
		}
		var rec otpRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return false, err
		}
		if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
			return false, apperrors.NotFound(msgInvalidOTP)
		}
		if !s.now().Before(rec.ExpiresAt) {
			return false, apperrors.Timeout(msgExpiredOTP)
		}
		return true, nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}
	if !consumed {
		// another request consumed it between our read and delete
		return apperrors.NotFound(msgInvalidOTP)
	}
	return nil
}
