package secureurl

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ObjectStore defines the interface to the storage backend holding the
// objects referenced by incoming requests. The production implementation is
// Google Cloud Storage (see the gcs package); the interface allows
// alternative implementations for testing.
//
// Implementations must be safe for concurrent use by multiple in-flight
// requests: a single long-lived store is shared by the whole process.
// Implementations should apply a bounded per-call timeout and classify
// backend failures into the package sentinel errors.
type ObjectStore interface {
	// Stat checks that an object exists in the bucket.
	//
	// Returns:
	//   - nil if the object exists
	//   - ErrObjectNotFound if it does not
	//   - ErrAuthFailed if the backend rejects the caller's credentials
	//   - ErrBackendUnavailable on timeouts and transient backend errors
	Stat(ctx context.Context, name string) error

	// SignURL produces a time-limited signed GET URL for an object,
	// valid for ttl from the current time. It does not check that the
	// object exists.
	//
	// Returns:
	//   - ErrAuthFailed if the signing credential is missing or rejected
	//   - ErrBackendUnavailable on timeouts and transient backend errors
	SignURL(ctx context.Context, name string, ttl time.Duration) (string, error)
}

// Issuer produces signed download URLs for validated requests. It is
// stateless across requests; the only shared resource is the underlying
// ObjectStore, injected once at construction.
type Issuer struct {
	store  ObjectStore
	bounds ExpiryBounds
}

// IssuerConfig holds configuration options for Issuer.
type IssuerConfig struct {
	// Bounds restricts the expiry durations Issue accepts.
	// Zero fields fall back to the package defaults.
	Bounds ExpiryBounds
}

// NewIssuer creates an Issuer backed by the given store.
func NewIssuer(store ObjectStore, cfg IssuerConfig) (*Issuer, error) {
	if store == nil {
		return nil, errors.New("new issuer: store cannot be nil")
	}

	bounds := cfg.Bounds.WithDefaults()
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("new issuer: %w", err)
	}

	return &Issuer{
		store:  store,
		bounds: bounds,
	}, nil
}

// Bounds returns the expiry bounds the issuer enforces.
func (i *Issuer) Bounds() ExpiryBounds {
	return i.bounds
}

// Issue checks that the named object exists and returns a signed URL valid
// for expiresIn from now. An expiresIn of zero selects the configured
// default.
//
// The operation performs at most one existence check and one signing call;
// there are no internal retries. A failed call surfaces immediately.
//
// Error types returned:
//   - ErrInvalidInput: empty or malformed filename, expiry outside bounds
//   - ErrObjectNotFound: object absent from the bucket
//   - ErrAuthFailed: signing credential missing, invalid, or rejected
//   - ErrBackendUnavailable: timeout or transient backend failure
func (i *Issuer) Issue(ctx context.Context, filename string, expiresIn time.Duration) (SignedURL, error) {
	// Fail fast before touching the backend
	if err := ctx.Err(); err != nil {
		return SignedURL{}, fmt.Errorf("issue: %w", err)
	}

	if filename == "" {
		return SignedURL{}, fmt.Errorf("issue: %w: filename cannot be empty", ErrInvalidInput)
	}

	if !IsValidObjectName(filename) {
		return SignedURL{}, fmt.Errorf("issue %q: %w: invalid object name", filename, ErrInvalidInput)
	}

	if expiresIn == 0 {
		expiresIn = i.bounds.Default
	}

	if !i.bounds.Contains(expiresIn) {
		return SignedURL{}, fmt.Errorf("issue %q: %w: expiry %s outside [%s, %s]",
			filename, ErrInvalidInput, expiresIn, i.bounds.Min, i.bounds.Max)
	}

	if err := i.store.Stat(ctx, filename); err != nil {
		return SignedURL{}, fmt.Errorf("issue %q: %w", filename, err)
	}

	expiresAt := time.Now().Add(expiresIn)

	url, err := i.store.SignURL(ctx, filename, expiresIn)
	if err != nil {
		return SignedURL{}, fmt.Errorf("issue %q: sign failed: %w", filename, err)
	}

	return SignedURL{URL: url, ExpiresAt: expiresAt}, nil
}
