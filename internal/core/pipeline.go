// Package core wires the stages of a sprinkle run together:
// parse, resolve, assemble, review, record and dispatch.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sprinkle/internal/logging"
	"sprinkle/internal/span"
	"sprinkle/internal/store"
	"sprinkle/internal/tactile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyPrompt is returned when the prompt is empty after trimming.
var ErrEmptyPrompt = errors.New("no prompt was provided")

// slowResolve is the resolution time above which a run logs a warning.
const slowResolve = 10 * time.Second

// Resolver turns placeholder spans into resolved spans, index-aligned.
type Resolver interface {
	Resolve(ctx context.Context, placeholders []span.Span, fullPrompt string) ([]span.Span, error)
}

// Editor lets the user review text before dispatch.
type Editor func(ctx context.Context, initial string) (string, error)

// Dispatcher performs the terminal action.
type Dispatcher interface {
	Dispatch(text string, mode tactile.Mode) error
}

// History records completed runs.
type History interface {
	Record(ctx context.Context, e store.Entry) error
}

// Result describes one assembled command.
type Result struct {
	RunID        string
	Prompt       string
	Command      string
	Placeholders int
	Edited       bool
}

// Pipeline runs prompts end to end. It is safe to reuse across runs.
type Pipeline struct {
	resolver   Resolver
	dispatcher Dispatcher
	editor     Editor
	history    History
	mode       tactile.Mode
	newID      func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMode selects print or execute. Execute is the default.
func WithMode(mode tactile.Mode) Option {
	return func(p *Pipeline) { p.mode = mode }
}

// WithEditor enables the review step.
func WithEditor(e Editor) Option {
	return func(p *Pipeline) { p.editor = e }
}

// WithHistory records every dispatched run.
func WithHistory(h History) Option {
	return func(p *Pipeline) { p.history = h }
}

// WithIDGenerator replaces the run id source.
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// NewPipeline creates a pipeline. resolver is only consulted for prompts that contain
// placeholders.
func NewPipeline(resolver Resolver, dispatcher Dispatcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver:   resolver,
		dispatcher: dispatcher,
		mode:       tactile.ModeExecute,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build parses and resolves prompt and returns the assembled command without reviewing
// or dispatching it.
func (p *Pipeline) Build(ctx context.Context, prompt string) (Result, error) {
	res := Result{RunID: p.newID(), Prompt: prompt}
	log := logging.WithRequestID(logging.CategoryPipeline, res.RunID)

	if strings.TrimSpace(prompt) == "" {
		return res, ErrEmptyPrompt
	}
	log.Debug("Processing prompt: " + prompt)

	placeholders, literals := span.Parse(prompt)
	res.Placeholders = len(placeholders)
	if len(placeholders) == 0 {
		log.Debug("no placeholders, using prompt as is")
		res.Command = prompt
		return res, nil
	}

	timer := logging.StartTimer(logging.CategoryPipeline, "resolve")
	resolved, err := p.resolver.Resolve(ctx, placeholders, prompt)
	timer.StopWithThreshold(slowResolve)
	if err != nil {
		return res, err
	}

	res.Command = span.Assemble(resolved, literals)
	log.Debug("assembled command", zap.Int("placeholders", res.Placeholders), zap.String("command", res.Command))
	return res, nil
}

// Run builds the command, lets the user review it when an editor is set, records it and
// dispatches it. In execute mode a successful Run does not return.
func (p *Pipeline) Run(ctx context.Context, prompt string) error {
	res, err := p.Build(ctx, prompt)
	if err != nil {
		return err
	}
	log := logging.WithRequestID(logging.CategoryPipeline, res.RunID)

	if p.editor != nil {
		edited, err := p.editor(ctx, res.Command)
		if err != nil {
			log.Debug("review ended without a command", zap.Error(err))
			return err
		}
		res.Edited = edited != res.Command
		res.Command = edited
	}

	if p.history != nil {
		entry := store.Entry{
			ID:           res.RunID,
			Prompt:       res.Prompt,
			Command:      res.Command,
			Mode:         p.mode.String(),
			Placeholders: res.Placeholders,
			Edited:       res.Edited,
		}
		if err := p.history.Record(ctx, entry); err != nil {
			log.Warn("failed to record history", zap.Error(err))
		}
	}

	log.Debug("dispatching", zap.Stringer("mode", p.mode))
	if err := p.dispatcher.Dispatch(res.Command, p.mode); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

// LazyResolver defers building the real resolver until a prompt with placeholders needs
// it, so configuration problems only surface when the service is actually required.
func LazyResolver(build func() (Resolver, error)) Resolver {
	return &lazyResolver{build: build}
}

type lazyResolver struct {
	build func() (Resolver, error)
	once  sync.Once
	r     Resolver
	err   error
}

func (l *lazyResolver) Resolve(ctx context.Context, placeholders []span.Span, fullPrompt string) ([]span.Span, error) {
	l.once.Do(func() { l.r, l.err = l.build() })
	if l.err != nil {
		return nil, l.err
	}
	return l.r.Resolve(ctx, placeholders, fullPrompt)
}
