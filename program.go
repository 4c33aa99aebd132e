package minipy

import "strings"

// Program is an unresolved translation unit: the top-level statements in
// source order.
type Program struct {
	Body Body
}

func NewProgram(body ...*Stmt) *Program {
	return &Program{Body: body}
}

func (p *Program) Copy() *Program {
	return &Program{Body: p.Body.Copy()}
}

func (p *Program) Equal(other *Program) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Body.Equal(other.Body)
}

func (p *Program) Destroy() {
	p.Body.Destroy()
	p.Body = nil
}

// Resolve binds every identifier in p. On success p is owned by the
// returned ResolvedProgram and must not be resolved again.
func (p *Program) Resolve() (*ResolvedProgram, error) {
	st := NewSymbolTable()
	syms := NewSymbols()
	if err := p.Body.ResolveNames(st, syms); err != nil {
		return nil, err
	}
	if err := st.ExitScope(); err != nil {
		return nil, err
	}
	return &ResolvedProgram{program: p, symbols: syms}, nil
}

// ResolvedProgram is a program whose names are all bound.
type ResolvedProgram struct {
	program *Program
	symbols *Symbols
}

func (r *ResolvedProgram) Program() *Program { return r.program }
func (r *ResolvedProgram) Symbols() *Symbols { return r.symbols }

// Check type checks the program, stopping at the first failure.
func (r *ResolvedProgram) Check() (*CheckedProgram, error) {
	if _, err := r.program.Body.TypeCheck(r.symbols); err != nil {
		return nil, err
	}
	return &CheckedProgram{resolved: r}, nil
}

// CheckedProgram is a resolved and type-checked program, the only input
// accepted by program-level translation.
type CheckedProgram struct {
	resolved *ResolvedProgram
}

func (c *CheckedProgram) Program() *Program { return c.resolved.program }
func (c *CheckedProgram) Symbols() *Symbols { return c.resolved.symbols }

// Translate renders the program as Python, each top-level statement
// followed by a newline.
func (c *CheckedProgram) Translate(opts TranslateOptions) string {
	tr := newTranslator(opts)
	var b strings.Builder
	for _, s := range c.resolved.program.Body {
		b.WriteString(tr.stmt(s, ""))
		b.WriteString("\n")
	}
	return b.String()
}
