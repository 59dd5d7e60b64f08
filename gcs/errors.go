package gcs

import (
	"context"
	"errors"
	"fmt"
	"net"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	secureurl "github.com/Choreogrifi/cgf-secure-url-service"
)

// classify maps a storage backend error to a secureurl sentinel error.
// The backend detail is kept in the message for logging; handlers respond
// based on the sentinel only.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrObjectNotExist), errors.Is(err, storage.ErrBucketNotExist):
		return secureurl.ErrObjectNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", secureurl.ErrBackendUnavailable, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("%w: %v", secureurl.ErrAuthFailed, err)
		case apiErr.Code == 404:
			return secureurl.ErrObjectNotFound
		default:
			// 429, 5xx, and anything else the API throws at us
			return fmt.Errorf("%w: %v", secureurl.ErrBackendUnavailable, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", secureurl.ErrBackendUnavailable, err)
	}

	return fmt.Errorf("%w: %v", secureurl.ErrBackendUnavailable, err)
}

// classifySigning maps a URL-signing error to a sentinel error. Signing is
// credential work, so unclassified failures count as authentication
// failures rather than backend ones.
func classifySigning(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", secureurl.ErrBackendUnavailable, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == 429 || apiErr.Code >= 500) {
		return fmt.Errorf("%w: %v", secureurl.ErrBackendUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", secureurl.ErrBackendUnavailable, err)
	}

	return fmt.Errorf("%w: %v", secureurl.ErrAuthFailed, err)
}
