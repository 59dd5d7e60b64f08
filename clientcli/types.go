package clientcli

// GetURLOptions configures a signed URL request.
type GetURLOptions struct {
	Filename  string
	ExpiresIn int // seconds, 0 = server default
}

// GetURLResult represents a signed URL returned by the server.
type GetURLResult struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// EchoResult represents the server's diagnostic echo response.
type EchoResult struct {
	ProjectName string `json:"project_name"`
	Environment string `json:"environment"`
	BucketName  string `json:"bucket_name"`
	Debug       bool   `json:"debug"`
	Timestamp   string `json:"timestamp"`
}

// serverURLResponse mirrors the server's signed URL JSON response.
type serverURLResponse struct {
	URL string `json:"url"`
}

// serverErrorResponse mirrors the server's error JSON envelope.
type serverErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details struct {
		ErrorType   string `json:"error_type"`
		Message     string `json:"message"`
		RequestPath string `json:"request_path"`
	} `json:"details"`
}
