// Package http provides the HTTP surface for the signed URL service.
//
// It exposes a single operational endpoint, GET /v1/url/, which validates
// the filename and expires_in query parameters, asks the issuer for a
// signed URL, and maps every failure into one fixed JSON error shape:
//
//	{
//	  "code": "FILE_NOT_FOUND",
//	  "message": "...",
//	  "details": {"error_type": "...", "message": "...", "request_path": "/v1/url/"}
//	}
//
// Status codes: 200 on success, 422 for validation failures (rejected
// before any backend call), 404 when the object is absent, 500 for
// authentication and backend failures. Response messages are sanitized;
// backend detail is only logged.
//
// # Middleware
//
// Every request passes through TraceMiddleware (uuid trace id, X-Trace-ID
// and X-Process-Time response headers, request logging) and Recoverer
// (panics become the sanitized 500 error shape, so no raw fault ever
// reaches a client). CORS support is optional and configured per
// deployment.
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    Bounds: secureurl.ExpiryBounds{}.WithDefaults(),
//	}
//	handler := http.NewHandler(&handlerCfg, issuer)
//	http.ListenAndServe(":8080", handler.Router())
//
// The service parameter must implement the Service interface with an Issue
// method.
package http
