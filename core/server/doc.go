// Package server holds configuration for the HTTP layer.
//
// It only defines the Config struct (port and API key); the actual Fiber
// application is assembled in cmd/start.go so that features can register
// their own routes through the loader.
package server
