// Package signing resolves the service-account credential used to sign
// download URLs. Credentials can come from a Google service-account JSON key
// file, from inline configuration, or be left unset so the storage SDK
// detects a signing identity from the process environment.
package signing

import (
	"errors"
	"fmt"
)

// Credential identifies the service account that signs URLs.
type Credential struct {
	// GoogleAccessID is the service account email performing the signing.
	GoogleAccessID string
	// PrivateKey is the PEM-encoded private key matching GoogleAccessID.
	PrivateKey []byte
}

// Config holds configuration for resolving a signing credential.
type Config struct {
	// File is the path to a Google service-account JSON key file.
	File string `mapstructure:"file"`
	// GoogleAccessID overrides the service account email from File.
	GoogleAccessID string `mapstructure:"google_access_id"`
	// PrivateKey overrides the PEM private key from File.
	PrivateKey string `mapstructure:"private_key"`
}

// Resolve builds a Credential from configuration. Inline values take
// precedence over values loaded from File. A nil Credential (with nil
// error) means nothing was configured and the storage SDK should detect
// the signing identity itself.
func Resolve(cfg Config) (*Credential, error) {
	var cred Credential

	if cfg.File != "" {
		fileCred, err := LoadServiceAccountFile(cfg.File)
		if err != nil {
			return nil, err
		}
		cred = *fileCred
	}

	if cfg.GoogleAccessID != "" {
		cred.GoogleAccessID = cfg.GoogleAccessID
	}
	if cfg.PrivateKey != "" {
		cred.PrivateKey = []byte(cfg.PrivateKey)
	}

	if cred.GoogleAccessID == "" && len(cred.PrivateKey) == 0 {
		return nil, nil
	}

	if cred.GoogleAccessID == "" {
		return nil, errors.New("resolve signing credential: private key set without google access id")
	}
	if len(cred.PrivateKey) == 0 {
		return nil, fmt.Errorf("resolve signing credential: no private key for %s", cred.GoogleAccessID)
	}

	return &cred, nil
}
