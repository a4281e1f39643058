// Package llm provides the generative model client and the request gateway
// used by the tailoring pipeline.
package llm

import "time"

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"
	// DefaultTemperature balances rewriting freedom against factual drift.
	DefaultTemperature = 0.7
	// DefaultMaxOutputTokens bounds the response; a full tailored resume plus
	// keyword lists fits well under this.
	DefaultMaxOutputTokens = 16384
	// DefaultRequestTimeout bounds a single model round-trip.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultRetryAttempts is the number of retries after the initial call.
	DefaultRetryAttempts = 3
	// DefaultRetryBaseDelay is the backoff base; retry n sleeps base * 2^n.
	DefaultRetryBaseDelay = 1 * time.Second
)

// Config holds model and retry configuration for the gateway.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	RequestTimeout  time.Duration
	RetryAttempts   int
	RetryBaseDelay  time.Duration
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
		RequestTimeout:  DefaultRequestTimeout,
		RetryAttempts:   DefaultRetryAttempts,
		RetryBaseDelay:  DefaultRetryBaseDelay,
	}
}
