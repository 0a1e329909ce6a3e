package dialogue

import (
	"context"

	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// FallbackGenerator wraps a primary generator with a fallback provider.
// If the primary fails, it retries with the fallback.
type FallbackGenerator struct {
	primary  TextGenerator
	fallback TextGenerator
	logger   *logging.Logger
}

// NewFallbackGenerator creates a fallback-enabled generator. fallback may
// be nil, in which case only the primary is used.
func NewFallbackGenerator(primary, fallback TextGenerator, logger *logging.Logger) *FallbackGenerator {
	if primary == nil {
		panic("dialogue: primary generator cannot be nil")
	}
	if logger == nil {
		panic("dialogue: logger cannot be nil")
	}
	return &FallbackGenerator{primary: primary, fallback: fallback, logger: logger}
}

func (g *FallbackGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := g.primary.Generate(ctx, prompt)
	if err == nil {
		return text, nil
	}

	g.logger.Warn("primary generator failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", g.fallback != nil,
	)
	if g.fallback == nil {
		return "", err
	}

	text, fallbackErr := g.fallback.Generate(ctx, prompt)
	if fallbackErr != nil {
		g.logger.Error("fallback generator also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return "", fallbackErr
	}
	return text, nil
}
