// Copyright (c) 2023 BVK Chaitanya

package cmdutil

import (
	"flag"
	"os"
	"time"

	"github.com/bvk/pnlhistory/perpapi"
)

// APIURLEnv names the environment variable consulted when the -api-url flag
// is empty.
const APIURLEnv = "PNLHISTORY_API_URL"

type ClientFlags struct {
	apiURL      string
	HTTPTimeout time.Duration
	RateLimit   float64
}

func (cf *ClientFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&cf.apiURL, "api-url", "", "trades api endpoint (default="+perpapi.RestURL.String()+" or "+APIURLEnv+" value)")
	fset.DurationVar(&cf.HTTPTimeout, "http-timeout", 0, "http client timeout (zero waits forever)")
	fset.Float64Var(&cf.RateLimit, "rate-limit", 0, "max page requests per second (zero is unlimited)")
}

func (cf *ClientFlags) APIURL() string {
	if cf.apiURL != "" {
		return cf.apiURL
	}
	if v := os.Getenv(APIURLEnv); len(v) != 0 {
		return v
	}
	return perpapi.RestURL.String()
}

func (cf *ClientFlags) Options() *perpapi.Options {
	return &perpapi.Options{
		RestURL:           cf.APIURL(),
		HttpClientTimeout: cf.HTTPTimeout,
		RequestsPerSecond: cf.RateLimit,
	}
}

func (cf *ClientFlags) NewClient() (*perpapi.Client, error) {
	return perpapi.New(cf.Options())
}
