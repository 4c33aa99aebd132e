package minipy

import (
	"log/slog"
	"time"
)

// Compiler runs the resolve, check and translate pipeline and logs each
// phase.
type Compiler struct {
	logger *slog.Logger
	opts   TranslateOptions
}

// NewCompiler returns a Compiler. A nil logger discards all output.
func NewCompiler(logger *slog.Logger, opts TranslateOptions) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{logger: logger, opts: opts}
}

// Parse reads a (program ...) form. Failures are wrapped in a *PhaseError.
func (c *Compiler) Parse(src string) (*Program, error) {
	start := time.Now()
	p, err := ParseProgram(src)
	if err != nil {
		c.logger.Debug("parse failed", "error", err)
		return nil, &PhaseError{Phase: PhaseParse, Err: err}
	}
	c.logger.Debug("parsed", "statements", len(p.Body), "duration", time.Since(start))
	return p, nil
}

// Resolve runs name resolution. Failures are wrapped in a *PhaseError.
func (c *Compiler) Resolve(p *Program) (*ResolvedProgram, error) {
	start := time.Now()
	resolved, err := p.Resolve()
	if err != nil {
		c.logger.Debug("name resolution failed", "error", err)
		return nil, &PhaseError{Phase: PhaseResolve, Err: err}
	}
	c.logger.Debug("names resolved",
		"statements", len(p.Body),
		"symbols", resolved.Symbols().Len(),
		"duration", time.Since(start))
	return resolved, nil
}

// Analyze resolves and type checks p.
func (c *Compiler) Analyze(p *Program) (*CheckedProgram, error) {
	resolved, err := c.Resolve(p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	checked, err := resolved.Check()
	if err != nil {
		c.logger.Debug("type check failed", "error", err)
		return nil, &PhaseError{Phase: PhaseCheck, Err: err}
	}
	c.logger.Debug("types checked", "duration", time.Since(start))
	return checked, nil
}

// Compile translates p to Python source.
func (c *Compiler) Compile(p *Program) (string, error) {
	checked, err := c.Analyze(p)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out := checked.Translate(c.opts)
	c.logger.Debug("translated", "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

// CompileSource parses src and translates the program it holds.
func (c *Compiler) CompileSource(src string) (string, error) {
	p, err := c.Parse(src)
	if err != nil {
		return "", err
	}
	return c.Compile(p)
}
