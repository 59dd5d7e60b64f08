package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	secureurl "github.com/Choreogrifi/cgf-secure-url-service"
	securlhttp "github.com/Choreogrifi/cgf-secure-url-service/http"
)

// MockService is a mock implementation of http.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Issue(ctx context.Context, filename string, expiresIn time.Duration) (secureurl.SignedURL, error) {
	args := m.Called(ctx, filename, expiresIn)
	return args.Get(0).(secureurl.SignedURL), args.Error(1)
}

func newTestHandler(service securlhttp.Service) *securlhttp.Handler {
	return securlhttp.NewHandler(&securlhttp.HandlerConfig{}, service)
}

func doRequest(t *testing.T, handler *securlhttp.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) securlhttp.ErrorResponse {
	t.Helper()
	var body securlhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandler_SignedURL_Success_DefaultExpiry(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "reports/q1.csv", 5*time.Minute).
		Return(secureurl.SignedURL{URL: "https://storage.googleapis.com/claims/reports/q1.csv?X-Goog-Expires=300"}, nil)

	rec := doRequest(t, handler, "/v1/url/?filename=reports/q1.csv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body securlhttp.SignedURLResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.URL, "reports/q1.csv")

	service.AssertExpectations(t)
}

func TestHandler_SignedURL_ExplicitExpiry(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "file.txt", 90*time.Second).
		Return(secureurl.SignedURL{URL: "https://example.com/file.txt?sig=x"}, nil)

	rec := doRequest(t, handler, "/v1/url/?filename=file.txt&expires_in=90")

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestHandler_SignedURL_MissingFilename(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	rec := doRequest(t, handler, "/v1/url/")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, securlhttp.CodeValidation, body.Code)
	assert.Equal(t, "/v1/url/", body.Details.RequestPath)

	// Backend is never consulted
	service.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_SignedURL_EmptyFilename(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	rec := doRequest(t, handler, "/v1/url/?filename=")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	service.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_SignedURL_NonIntegerExpiry(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	// A present-but-empty value is still a supplied value and must be
	// rejected like any other non-integer.
	for _, raw := range []string{"abc", "1.5", "300s", ""} {
		rec := doRequest(t, handler, "/v1/url/?filename=file.txt&expires_in="+raw)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "expires_in=%q", raw)
		body := decodeError(t, rec)
		assert.Equal(t, securlhttp.CodeValidation, body.Code)
	}

	service.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_SignedURL_ExpiryOutOfRange(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	for _, raw := range []string{"19", "3601", "-60", "0"} {
		rec := doRequest(t, handler, "/v1/url/?filename=file.txt&expires_in="+raw)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "expires_in=%q", raw)

		body := decodeError(t, rec)
		assert.Equal(t, securlhttp.CodeValidation, body.Code)
		assert.Equal(t, "validation_error", body.Details.ErrorType)
	}

	service.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_SignedURL_BoundaryExpiries(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "file.txt", 20*time.Second).
		Return(secureurl.SignedURL{URL: "https://example.com/a"}, nil)
	service.On("Issue", mock.Anything, "file.txt", 3600*time.Second).
		Return(secureurl.SignedURL{URL: "https://example.com/b"}, nil)

	for _, raw := range []string{"20", "3600"} {
		rec := doRequest(t, handler, "/v1/url/?filename=file.txt&expires_in="+raw)
		assert.Equal(t, http.StatusOK, rec.Code, "expires_in=%q", raw)
	}

	service.AssertExpectations(t)
}

func TestHandler_SignedURL_NotFound(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "missing.txt", mock.Anything).
		Return(secureurl.SignedURL{}, fmt.Errorf("issue %q: %w", "missing.txt", secureurl.ErrObjectNotFound))

	rec := doRequest(t, handler, "/v1/url/?filename=missing.txt")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, securlhttp.CodeFileNotFound, body.Code)
	assert.Equal(t, "object_not_found", body.Details.ErrorType)
	assert.Equal(t, "/v1/url/", body.Details.RequestPath)
}

func TestHandler_SignedURL_AuthFailure_Sanitized(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	// The wrapped error carries backend detail that must never reach the client
	backendErr := fmt.Errorf("sign %q: %w: token=super-secret-credential rejected",
		"file.txt", secureurl.ErrAuthFailed)
	service.On("Issue", mock.Anything, "file.txt", mock.Anything).
		Return(secureurl.SignedURL{}, backendErr)

	rec := doRequest(t, handler, "/v1/url/?filename=file.txt")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "super-secret-credential")

	body := decodeError(t, rec)
	assert.Equal(t, securlhttp.CodeAuthFailed, body.Code)
	assert.Equal(t, "authentication_failure", body.Details.ErrorType)
}

func TestHandler_SignedURL_BackendUnavailable(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "file.txt", mock.Anything).
		Return(secureurl.SignedURL{}, fmt.Errorf("stat: %w: deadline exceeded", secureurl.ErrBackendUnavailable))

	rec := doRequest(t, handler, "/v1/url/?filename=file.txt")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, securlhttp.CodeUnavailable, body.Code)
	assert.Equal(t, "backend_unavailable", body.Details.ErrorType)
}

func TestHandler_SignedURL_UnexpectedError(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "file.txt", mock.Anything).
		Return(secureurl.SignedURL{}, errors.New("nil pointer somewhere deep"))

	rec := doRequest(t, handler, "/v1/url/?filename=file.txt")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, securlhttp.CodeUnexpected, body.Code)
	assert.Equal(t, "unexpected", body.Details.ErrorType)
	assert.NotContains(t, rec.Body.String(), "nil pointer")
}

func TestHandler_SignedURL_InvalidObjectNameFromIssuer(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "../../etc/passwd", mock.Anything).
		Return(secureurl.SignedURL{}, fmt.Errorf("issue: %w", secureurl.ErrInvalidInput))

	rec := doRequest(t, handler, "/v1/url/?filename=../../etc/passwd")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, securlhttp.CodeValidation, body.Code)
}

func TestHandler_CustomBounds(t *testing.T) {
	service := new(MockService)
	handler := securlhttp.NewHandler(&securlhttp.HandlerConfig{
		Bounds: secureurl.ExpiryBounds{
			Min:     time.Minute,
			Max:     10 * time.Minute,
			Default: 2 * time.Minute,
		},
	}, service)

	service.On("Issue", mock.Anything, "file.txt", 2*time.Minute).
		Return(secureurl.SignedURL{URL: "https://example.com/a"}, nil)
	service.On("Issue", mock.Anything, "file.txt", 5*time.Minute).
		Return(secureurl.SignedURL{URL: "https://example.com/b"}, nil)

	// Default follows the configured bounds
	rec := doRequest(t, handler, "/v1/url/?filename=file.txt")
	assert.Equal(t, http.StatusOK, rec.Code)

	// 300s is fine against the package defaults but out of range here
	rec = doRequest(t, handler, "/v1/url/?filename=file.txt&expires_in=300")
	assert.Equal(t, http.StatusOK, rec.Code, "300s within custom bounds")

	rec = doRequest(t, handler, "/v1/url/?filename=file.txt&expires_in=30")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_Echo(t *testing.T) {
	service := new(MockService)
	handler := securlhttp.NewHandler(&securlhttp.HandlerConfig{
		Echo: securlhttp.EchoInfo{
			ProjectName: "cgf-secure-url-service",
			Environment: "test",
			Bucket:      "cgf-files-test",
			Debug:       true,
		},
	}, service)

	rec := doRequest(t, handler, "/echo/")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "cgf-secure-url-service", body["project_name"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, "cgf-files-test", body["bucket_name"])
	assert.Equal(t, true, body["debug"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandler_TraceHeadersPresent(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	service.On("Issue", mock.Anything, "file.txt", mock.Anything).
		Return(secureurl.SignedURL{URL: "https://example.com/a"}, nil)

	rec := doRequest(t, handler, "/v1/url/?filename=file.txt")

	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Span-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}
