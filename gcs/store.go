// Package gcs provides the Google Cloud Storage backend for secureurl.
// It performs object existence checks and V4 signed URL generation against
// a single bucket, classifying backend failures into the secureurl sentinel
// errors.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/Choreogrifi/cgf-secure-url-service/signing"
)

// DefaultCallTimeout bounds each backend call when the configuration does
// not specify one.
const DefaultCallTimeout = 10 * time.Second

// Config holds configuration options for Store.
type Config struct {
	// Bucket is the bucket holding the downloadable objects.
	Bucket string
	// CallTimeout bounds each existence check and signing call.
	CallTimeout time.Duration
	// Credential is the explicit signing credential. When nil, the SDK
	// detects a signing identity from the ambient credentials
	// (service-account based signing on the deployment platform).
	Credential *signing.Credential
}

// Store implements secureurl.ObjectStore on a Google Cloud Storage bucket.
// It holds one storage client for the lifetime of the process; the client
// is safe for concurrent use by all in-flight requests.
type Store struct {
	client      *storage.Client
	bucket      string
	callTimeout time.Duration
	cred        *signing.Credential
}

// New creates a Store with its own storage client. opts are passed through
// to the underlying client, allowing credential and endpoint injection.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Store, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}

	store, err := NewWithClient(client, cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// NewWithClient creates a Store on an existing storage client. The caller
// keeps ownership of the client unless Close is called.
func NewWithClient(client *storage.Client, cfg Config) (*Store, error) {
	if client == nil {
		return nil, errors.New("gcs: client cannot be nil")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("gcs: bucket cannot be empty")
	}

	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}

	return &Store{
		client:      client,
		bucket:      cfg.Bucket,
		callTimeout: callTimeout,
		cred:        cfg.Credential,
	}, nil
}

// Bucket returns the bucket the store operates on.
func (s *Store) Bucket() string {
	return s.bucket
}

// Close releases the underlying storage client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Stat checks that an object exists in the bucket. Failures are classified
// into the secureurl sentinel errors.
func (s *Store) Stat(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	_, err := s.client.Bucket(s.bucket).Object(name).Attrs(ctx)
	if err != nil {
		return fmt.Errorf("stat %q: %w", name, classify(err))
	}

	return nil
}

// SignURL produces a V4 signed GET URL for an object, valid for ttl from
// now. The URL instructs browsers to download the object as an attachment.
func (s *Store) SignURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("sign %q: %w", name, classifySigning(err))
	}

	u, err := s.client.Bucket(s.bucket).SignedURL(name, s.signedURLOptions(name, ttl))
	if err != nil {
		return "", fmt.Errorf("sign %q: %w", name, classifySigning(err))
	}

	return u, nil
}

func (s *Store) signedURLOptions(name string, ttl time.Duration) *storage.SignedURLOptions {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
		QueryParameters: url.Values{
			"response-content-disposition": {fmt.Sprintf("attachment; filename=%s", name)},
		},
	}

	if s.cred != nil {
		opts.GoogleAccessID = s.cred.GoogleAccessID
		opts.PrivateKey = s.cred.PrivateKey
	}

	return opts
}
