// Package resolver resolves placeholder spans concurrently through a text generator.
//
// Every placeholder gets its own request; all requests run at once and the resolver waits
// for all of them. The first failure cancels the rest and fails the whole batch, because a
// half-resolved command line must never be assembled.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"sprinkle/internal/logging"
	"sprinkle/internal/perception"
	"sprinkle/internal/span"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMask replaces the placeholder being resolved inside its context prompt.
const DefaultMask = "YOUR ANSWER IS HERE"

// Resolver fans placeholder spans out to a Generator.
type Resolver struct {
	gen            perception.Generator
	mask           string
	includeContext bool
	limit          int
	logger         *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMask sets the text substituted for the placeholder in the context prompt.
func WithMask(mask string) Option {
	return func(r *Resolver) { r.mask = mask }
}

// WithoutContext sends only the raw placeholder, no masked full prompt.
func WithoutContext() Option {
	return func(r *Resolver) { r.includeContext = false }
}

// WithConcurrencyLimit caps in-flight requests. n <= 0 means unbounded.
func WithConcurrencyLimit(n int) Option {
	return func(r *Resolver) { r.limit = n }
}

// WithLogger overrides the resolver category logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver backed by gen.
func New(gen perception.Generator, opts ...Option) *Resolver {
	r := &Resolver{
		gen:            gen,
		mask:           DefaultMask,
		includeContext: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Get(logging.CategoryResolver)
	}
	return r
}

// Error reports the placeholder whose resolution failed the batch.
type Error struct {
	Placeholder span.Span
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolve %q at [%d,%d): %v", e.Placeholder.Text, e.Placeholder.Start, e.Placeholder.End, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Resolve resolves every placeholder against fullPrompt and returns one span per input,
// index-aligned with placeholders and carrying the same offsets. On any failure it returns
// nil and the first error.
func (r *Resolver) Resolve(ctx context.Context, placeholders []span.Span, fullPrompt string) ([]span.Span, error) {
	if len(placeholders) == 0 {
		return nil, nil
	}

	timer := logging.StartTimer(logging.CategoryResolver, "resolve")
	defer timer.Stop()

	resolved := make([]span.Span, len(placeholders))
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for i, p := range placeholders {
		g.Go(func() error {
			surrounding := ""
			if r.includeContext {
				surrounding = Mask(fullPrompt, p.Text, r.mask)
			}
			out, err := r.gen.Generate(gctx, p.Text, surrounding)
			if err != nil {
				return &Error{Placeholder: p, Err: err}
			}
			resolved[i] = p.WithText(TrimQuotes(strings.TrimSpace(out)))
			if r.logger.Core().Enabled(zap.DebugLevel) {
				r.logger.Debug("searching for "+p.Text+", got "+resolved[i].Text,
					zap.Int("start", p.Start), zap.Int("end", p.End))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Mask returns prompt with every occurrence of placeholder replaced by mask.
func Mask(prompt, placeholder, mask string) string {
	if placeholder == "" {
		return prompt
	}
	return strings.ReplaceAll(prompt, placeholder, mask)
}

// TrimQuotes removes exactly one matching pair of single or double quotes wrapping s.
func TrimQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}
	return s
}
