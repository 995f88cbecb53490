// Package fuelprices provides a client for the fuel prices backend API.
package fuelprices

import "time"

// Config holds configuration for the fuel prices API client.
type Config struct {
	BaseURL string        `yaml:"base_url"` // Base URL for the API (e.g., "http://localhost:8000")
	Timeout time.Duration `yaml:"timeout"`  // HTTP request timeout
}

// DefaultTimeout is used when no timeout is configured.
const DefaultTimeout = 10 * time.Second
