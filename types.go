package secureurl

import (
	"fmt"
	"time"
)

// Expiry bound defaults, applied when the configuration leaves them unset.
const (
	DefaultMinExpiry     = 20 * time.Second
	DefaultMaxExpiry     = time.Hour
	DefaultExpiry        = 5 * time.Minute
	DefaultObjectNameMax = 1024
)

// SignedURL is the result of a successful issue operation.
type SignedURL struct {
	// URL is the signed, time-limited download URL.
	URL string `json:"url"`
	// ExpiresAt is the instant the URL stops being valid.
	ExpiresAt time.Time `json:"-"`
}

// ExpiryBounds holds the allowed range and default for requested URL
// lifetimes. Zero values are replaced by the package defaults.
type ExpiryBounds struct {
	Min     time.Duration
	Max     time.Duration
	Default time.Duration
}

// WithDefaults returns a copy of b with zero fields replaced by the
// package-level expiry defaults.
func (b ExpiryBounds) WithDefaults() ExpiryBounds {
	if b.Min <= 0 {
		b.Min = DefaultMinExpiry
	}
	if b.Max <= 0 {
		b.Max = DefaultMaxExpiry
	}
	if b.Default <= 0 {
		b.Default = DefaultExpiry
	}
	return b
}

// Contains reports whether d falls within the allowed range (inclusive).
func (b ExpiryBounds) Contains(d time.Duration) bool {
	return d >= b.Min && d <= b.Max
}

// Validate checks that the bounds form a usable range.
func (b ExpiryBounds) Validate() error {
	if b.Min <= 0 || b.Max < b.Min {
		return fmt.Errorf("validate expiry bounds: %w: min %s, max %s", ErrInvalidInput, b.Min, b.Max)
	}
	if !b.Contains(b.Default) {
		return fmt.Errorf("validate expiry bounds: %w: default %s outside [%s, %s]", ErrInvalidInput, b.Default, b.Min, b.Max)
	}
	return nil
}
