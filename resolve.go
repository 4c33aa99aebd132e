package minipy

import "fmt"

// Name resolution
//
// Each ResolveNames method walks its subtree depth-first, left to right,
// declaring symbols in syms and binding them in st. The first failure is
// returned; bindings made before it stay in place.

func (e *Expr) ResolveNames(st *SymbolTable, syms *Symbols) error {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case ExprName:
		id, ok := st.Lookup(e.Name)
		if !ok {
			return fmt.Errorf("error: '%s' used before declaration: %w", e.Name, ErrUnresolvedName)
		}
		e.Symbol = id
		return nil

	case ExprInt, ExprStr:
		return nil

	default:
		if err := e.Left.ResolveNames(st, syms); err != nil {
			return err
		}
		return e.Right.ResolveNames(st, syms)
	}
}

func (s *Stmt) ResolveNames(st *SymbolTable, syms *Symbols) error {
	switch s.Kind {
	case StmtDecl:
		return s.Decl.ResolveNames(st, syms)

	case StmtExpr, StmtPrint, StmtReturn:
		return s.Expr.ResolveNames(st, syms)

	case StmtIf:
		if err := s.Expr.ResolveNames(st, syms); err != nil {
			return err
		}
		err := st.withScope(func() error {
			return s.Body.ResolveNames(st, syms)
		})
		if err != nil {
			return err
		}
		return st.withScope(func() error {
			return s.Else.ResolveNames(st, syms)
		})

	case StmtFor:
		// The loop header lives in the enclosing scope, the body in its own.
		for _, e := range []*Expr{s.Init, s.Expr, s.Step} {
			if err := e.ResolveNames(st, syms); err != nil {
				return err
			}
		}
		return st.withScope(func() error {
			return s.Body.ResolveNames(st, syms)
		})

	case StmtBlock:
		return st.withScope(func() error {
			return s.Body.ResolveNames(st, syms)
		})

	default:
		return fmt.Errorf("error: cannot resolve statement of kind %s", s.Kind)
	}
}

func (d *Decl) ResolveNames(st *SymbolTable, syms *Symbols) error {
	switch d.Kind {
	case DeclVar:
		d.Symbol = syms.Declare(d.Name, d.Type, SymbolVariable, st.Depth())
		if err := st.Bind(d.Name, d.Symbol); err != nil {
			return err
		}
		// The variable is already visible inside its own initializer.
		return d.Init.ResolveNames(st, syms)

	case DeclFunc:
		d.Symbol = syms.Declare(d.Name, d.Type, SymbolFunction, st.Depth())
		if err := st.Bind(d.Name, d.Symbol); err != nil {
			return err
		}
		if len(d.Body) == 0 {
			return nil
		}
		return st.withScope(func() error {
			if err := bindParams(d.Type, st, syms); err != nil {
				return err
			}
			return d.Body.ResolveNames(st, syms)
		})

	default:
		return fmt.Errorf("error: cannot resolve declaration of kind %s", d.Kind)
	}
}

// bindParams declares the parameters of a function type in the innermost
// scope. A repeated parameter name fails with ErrDuplicateBinding.
func bindParams(typ *Datatype, st *SymbolTable, syms *Symbols) error {
	if typ == nil || typ.Kind != TypeFunction {
		return nil
	}
	for _, p := range typ.Params {
		id := syms.Declare(p.Name, p.Type, SymbolParameter, st.Depth())
		if err := st.Bind(p.Name, id); err != nil {
			return err
		}
	}
	return nil
}

func (b Body) ResolveNames(st *SymbolTable, syms *Symbols) error {
	for _, s := range b {
		if err := s.ResolveNames(st, syms); err != nil {
			return err
		}
	}
	return nil
}
