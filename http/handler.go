package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	secureurl "github.com/Choreogrifi/cgf-secure-url-service"
)

// Service is the issuer operation the HTTP layer depends on.
type Service interface {
	Issue(ctx context.Context, filename string, expiresIn time.Duration) (secureurl.SignedURL, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// EchoInfo is the deployment information reported by GET /echo/.
type EchoInfo struct {
	ProjectName string
	Environment string
	Bucket      string
	Debug       bool
}

type HandlerConfig struct {
	// Bounds restricts and defaults the expires_in parameter.
	// Zero fields fall back to the package defaults.
	Bounds secureurl.ExpiryBounds
	CORS   CORSConfig
	Echo   EchoInfo
}

// Handler provides the HTTP handlers for signed URL issuance.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	cfg.Bounds = cfg.Bounds.WithDefaults()
	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler with the service routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(TraceMiddleware)
	r.Use(Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/url/", h.handleSignedURL)
	})
	r.Get("/echo/", h.handleEcho)

	return r
}

func (h *Handler) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filename := q.Get("filename")
	if filename == "" {
		WriteError(w, r, http.StatusUnprocessableEntity, CodeValidation,
			"filename query parameter is required", errorTypeValidation)
		return
	}

	bounds := h.config.Bounds
	expiresIn := bounds.Default

	// Presence matters: "expires_in=" with an empty value is still a
	// supplied value and must parse as an integer.
	if vals, ok := q["expires_in"]; ok {
		seconds, err := strconv.Atoi(vals[0])
		if err != nil {
			WriteError(w, r, http.StatusUnprocessableEntity, CodeValidation,
				"expires_in must be an integer number of seconds", errorTypeValidation)
			return
		}

		expiresIn = time.Duration(seconds) * time.Second
		if !bounds.Contains(expiresIn) {
			WriteError(w, r, http.StatusUnprocessableEntity, CodeValidation,
				fmt.Sprintf("expires_in must be between %d and %d seconds",
					int(bounds.Min.Seconds()), int(bounds.Max.Seconds())),
				errorTypeValidation)
			return
		}
	}

	signed, err := h.service.Issue(r.Context(), filename, expiresIn)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, SignedURLResponse{URL: signed.URL})
}

func (h *Handler) handleEcho(w http.ResponseWriter, r *http.Request) {
	info := h.config.Echo
	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"project_name": info.ProjectName,
		"environment":  info.Environment,
		"bucket_name":  info.Bucket,
		"debug":        info.Debug,
		"timestamp":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
