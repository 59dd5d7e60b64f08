package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type urlResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details struct {
		ErrorType   string `json:"error_type"`
		Message     string `json:"message"`
		RequestPath string `json:"request_path"`
	} `json:"details"`
}

// TestE2E_SignedURLFlow tests signed URL issuance against a storage emulator.
func TestE2E_SignedURLFlow(t *testing.T) {
	emulator := getSharedEmulator(t)

	const bucket = "cgf-files-test"
	seedBucket(t, emulator, bucket, map[string]string{
		"reports/q3.pdf": "pdf bytes",
		"hello.txt":      "Hello, World!",
	})

	baseURL, cleanup := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		Environment: "test",
		Bucket:      bucket,
		SigningFile: writeServiceAccountKey(t),
		Emulator:    emulator,
	})
	defer cleanup()

	client := &http.Client{}

	getURL := func(t *testing.T, query url.Values) (*http.Response, []byte) {
		t.Helper()
		resp, err := client.Get(baseURL + "/v1/url/?" + query.Encode())
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, body
	}

	t.Run("issues signed URL for existing object", func(t *testing.T) {
		resp, body := getURL(t, url.Values{"filename": {"reports/q3.pdf"}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var decoded urlResponse
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Contains(t, decoded.URL, bucket)
		assert.Contains(t, decoded.URL, "reports/q3.pdf")
		assert.Contains(t, decoded.URL, "X-Goog-Signature=")
		assert.Contains(t, decoded.URL, "X-Goog-Expires=300")
	})

	t.Run("honors explicit expires_in", func(t *testing.T) {
		resp, body := getURL(t, url.Values{"filename": {"hello.txt"}, "expires_in": {"600"}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var decoded urlResponse
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Contains(t, decoded.URL, "X-Goog-Expires=600")
	})

	t.Run("attaches download disposition", func(t *testing.T) {
		resp, body := getURL(t, url.Values{"filename": {"hello.txt"}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var decoded urlResponse
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Contains(t, decoded.URL, "response-content-disposition")
	})

	t.Run("missing object returns 404 envelope", func(t *testing.T) {
		resp, body := getURL(t, url.Values{"filename": {"no/such/object.txt"}})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var decoded errorResponse
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, "FILE_NOT_FOUND", decoded.Code)
		assert.Equal(t, "object_not_found", decoded.Details.ErrorType)
		assert.Equal(t, "/v1/url/", decoded.Details.RequestPath)
	})

	t.Run("missing filename returns 422", func(t *testing.T) {
		resp, body := getURL(t, url.Values{})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var decoded errorResponse
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, "VALIDATION_ERROR", decoded.Code)
	})

	t.Run("out of range expires_in returns 422", func(t *testing.T) {
		for _, expiresIn := range []string{"5", "4000", "-1", "abc", ""} {
			resp, body := getURL(t, url.Values{"filename": {"hello.txt"}, "expires_in": {expiresIn}})
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "expires_in=%s", expiresIn)

			var decoded errorResponse
			require.NoError(t, json.Unmarshal(body, &decoded))
			assert.Equal(t, "VALIDATION_ERROR", decoded.Code, "expires_in=%s", expiresIn)
		}
	})

	t.Run("boundary expiries accepted", func(t *testing.T) {
		for _, expiresIn := range []string{"20", "3600"} {
			resp, _ := getURL(t, url.Values{"filename": {"hello.txt"}, "expires_in": {expiresIn}})
			assert.Equal(t, http.StatusOK, resp.StatusCode, "expires_in=%s", expiresIn)
		}
	})

	t.Run("echo reports deployment info", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/echo/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var decoded map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		assert.Equal(t, "test", decoded["environment"])
		assert.Equal(t, bucket, decoded["bucket_name"])
	})

	t.Run("responses carry trace headers", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/echo/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
		assert.NotEmpty(t, resp.Header.Get("X-Span-ID"))
		assert.NotEmpty(t, resp.Header.Get("X-Process-Time"))
	})
}
