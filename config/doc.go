// Package config provides configuration management for the signed URL
// service using viper.
//
// Configuration sources, in order of precedence (highest to lowest):
//
//	flags > environment variables > config files > environment defaults > base defaults
//
// Environment variables use the SECURL prefix with underscores standing in
// for dots, e.g. SECURL_STORAGE_BUCKET maps to storage.bucket.
//
// A named deployment environment (local, development, test, staging,
// production) selects an overlay of defaults such as the bucket name and
// log level; any explicit source still overrides the overlay.
package config
