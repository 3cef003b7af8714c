// Copyright (c) 2025 BVK Chaitanya

package perpapi

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

var RestURL = url.URL{
	Scheme: "https",
	Host:   "perp-api.zhen8558.workers.dev",
	Path:   "/trpc/trades",
}

type Options struct {
	// RestURL is the trades procedure endpoint. Package level RestURL is used
	// when empty.
	RestURL string

	// Timeout to use for the HTTP requests. Zero means requests never time out.
	HttpClientTimeout time.Duration

	// RequestsPerSecond limits the rate of page fetches. Zero means no limit.
	RequestsPerSecond float64
}

func (v *Options) setDefaults() {
	if v.RestURL == "" {
		v.RestURL = RestURL.String()
	}
}

// Check validates the options.
func (v *Options) Check() error {
	u, err := url.Parse(v.RestURL)
	if err != nil {
		return fmt.Errorf("could not parse rest url %q: %w", v.RestURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("rest url %q must be an http or https url: %w", v.RestURL, os.ErrInvalid)
	}
	if u.Host == "" {
		return fmt.Errorf("rest url %q has no host: %w", v.RestURL, os.ErrInvalid)
	}
	if v.HttpClientTimeout < 0 {
		return fmt.Errorf("http client timeout cannot be negative: %w", os.ErrInvalid)
	}
	if v.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative: %w", os.ErrInvalid)
	}
	return nil
}
