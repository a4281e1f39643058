package llm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/logger"
)

// Response is the raw result of one successful gateway request. It is
// transient: consumed immediately by the repair parser, never persisted.
type Response struct {
	Text string
	// Truncated is set when the trailing non-whitespace character is not a
	// closing brace or bracket, a strong signal the model hit its output
	// limit mid-structure. The gateway only flags this; recovery is the
	// reconciliation engine's responsibility.
	Truncated bool
}

// Gateway sends prompts to the model with bounded retry and exponential
// backoff. It is stateless after construction and safe for concurrent use.
type Gateway struct {
	client Client
	config *Config
	log    *zap.Logger
}

// NewGateway creates a gateway around a model client.
func NewGateway(client Client, config *Config, log *zap.Logger) *Gateway {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{client: client, config: config, log: log}
}

// Model returns the underlying model identifier.
func (g *Gateway) Model() string {
	return g.client.Model()
}

// Request sends the prompt plus system instruction to the model. Transient
// failures are retried up to the configured attempt count with exponential
// backoff; exhausting the budget returns a single *GatewayError.
func (g *Gateway) Request(ctx context.Context, prompt, systemInstruction string) (*Response, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		text, err := g.requestOnce(ctx, prompt, systemInstruction)
		if err == nil {
			return g.inspect(text), nil
		}
		lastErr = err

		g.log.Warn("model request failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("model", g.client.Model()),
		)

		if attempt >= g.config.RetryAttempts {
			break
		}

		delay := g.config.RetryBaseDelay * (1 << attempt)
		g.log.Warn("retrying model request",
			zap.Duration("delay", delay),
			zap.Int("next_attempt", attempt+1),
			zap.Int("max_attempts", g.config.RetryAttempts),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			lastErr = ctx.Err()
			return nil, &GatewayError{Model: g.client.Model(), Attempts: attempt + 1, Cause: lastErr}
		}
	}

	return nil, &GatewayError{
		Model:    g.client.Model(),
		Attempts: g.config.RetryAttempts + 1,
		Cause:    lastErr,
	}
}

func (g *Gateway) requestOnce(ctx context.Context, prompt, systemInstruction string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.config.RequestTimeout)
	defer cancel()

	start := time.Now()
	text, err := g.client.GenerateJSON(reqCtx, prompt, systemInstruction)
	if err != nil {
		return "", err
	}

	g.log.Info("model request complete",
		zap.String("model", g.client.Model()),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("response_length", len(text)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return text, nil
}

// inspect flags possibly-truncated responses.
func (g *Gateway) inspect(text string) *Response {
	resp := &Response{Text: text}

	trimmed := strings.TrimRight(text, " \t\r\n")
	if !strings.HasSuffix(trimmed, "}") && !strings.HasSuffix(trimmed, "]") {
		resp.Truncated = true
		g.log.Warn("response may be truncated, missing closing brace or bracket",
			zap.String("response_tail", logger.Truncate(trimmed[max(0, len(trimmed)-50):], 50)),
		)
	}

	return resp
}
