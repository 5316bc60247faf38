package generation

import "context"

// DefaultMaxRegenerations is how many extra attempts the quality gate makes
// after the first rejected generation.
const DefaultMaxRegenerations = 2

// Generator produces cleaned text for a request. *Client implements it.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// QualityGate wraps a Generator with the low-quality regeneration loop.
type QualityGate struct {
	gen              Generator
	maxRegenerations int
	isLowQuality     func(string) bool
}

// NewQualityGate returns a gate using IsLowQualityGeneration and
// DefaultMaxRegenerations.
func NewQualityGate(gen Generator) *QualityGate {
	return &QualityGate{
		gen:              gen,
		maxRegenerations: DefaultMaxRegenerations,
		isLowQuality:     IsLowQualityGeneration,
	}
}

// WithMaxRegenerations overrides the regeneration bound.
func (g *QualityGate) WithMaxRegenerations(n int) *QualityGate {
	if n < 0 {
		n = 0
	}
	g.maxRegenerations = n
	return g
}

// Generate requests text and regenerates, strictly sequentially, while the
// result is low quality, up to the regeneration bound. On any failure the
// previous value is returned unchanged alongside the error, so callers can
// assign the first return value without losing existing text.
func (g *QualityGate) Generate(ctx context.Context, req Request, previous string) (string, error) {
	attempts := 1 + g.maxRegenerations
	var last string
	for i := 0; i < attempts; i++ {
		text, err := g.gen.Generate(ctx, req)
		if err != nil {
			return previous, err
		}
		if !g.isLowQuality(text) {
			return text, nil
		}
		last = text
		if ctx.Err() != nil {
			return previous, ctx.Err()
		}
	}
	return previous, &LowQualityError{Attempts: attempts, Last: last}
}

// Ungated adapts a Generator to the previous-preserving signature of
// QualityGate without applying the quality check. Summaries and cover
// letters use it; experience text goes through the gate.
type Ungated struct {
	Gen Generator
}

// Generate returns the generated text, or previous unchanged on error.
func (u Ungated) Generate(ctx context.Context, req Request, previous string) (string, error) {
	text, err := u.Gen.Generate(ctx, req)
	if err != nil {
		return previous, err
	}
	return text, nil
}
