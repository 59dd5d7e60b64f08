// Package secureurl issues time-limited, cryptographically signed download
// URLs for objects held in a cloud storage bucket.
//
// The package is a thin, stateless façade over a storage backend's URL
// signing primitive: a request names an object and an expiry, the issuer
// verifies the object exists and returns a signed URL granting temporary
// download access without separate authentication.
//
// # Key Components
//
//   - Issuer: validates a request and produces a SignedURL
//   - ObjectStore: interface to the storage backend (existence check + signing)
//   - Sentinel errors: ErrObjectNotFound, ErrAuthFailed, ErrBackendUnavailable
//
// # Example Usage
//
//	store, err := gcs.New(ctx, gcs.Config{Bucket: "my-bucket"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	issuer, err := secureurl.NewIssuer(store, secureurl.IssuerConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	signed, err := issuer.Issue(ctx, "reports/q1.csv", 5*time.Minute)
//
// See the http package for the REST API implementation and the gcs package
// for the Google Cloud Storage backend.
package secureurl
