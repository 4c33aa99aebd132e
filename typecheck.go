package minipy

import "fmt"

// Type checking
//
// TypeCheck returns the type of an expression as a fresh Datatype owned by
// the caller, or nil for statements and declarations. Names must have been
// resolved against syms first.

func mismatch(format string, args ...any) error {
	return fmt.Errorf("error: "+format+": %w", append(args, ErrTypeMismatch)...)
}

func (e *Expr) TypeCheck(syms *Symbols) (*Datatype, error) {
	if e == nil {
		return nil, mismatch("missing operand")
	}

	switch e.Kind {
	case ExprNot:
		return e.checkUnary(syms, TypeBoolean)

	case ExprIncrement, ExprDecrement:
		return e.checkUnary(syms, TypeInteger)

	case ExprAnd, ExprOr:
		if err := e.checkOperands(syms, TypeBoolean); err != nil {
			return nil, err
		}
		return BooleanType(), nil

	case ExprLess, ExprLessEq, ExprGreater, ExprGreaterEq, ExprEqual, ExprNotEqual:
		return e.checkComparison(syms)

	case ExprAdd, ExprSub, ExprMul, ExprDiv, ExprMod:
		if err := e.checkOperands(syms, TypeInteger); err != nil {
			return nil, err
		}
		return IntegerType(), nil

	case ExprAssign:
		left, right, err := e.operandTypes(syms)
		if err != nil {
			return nil, err
		}
		if !TypesEqual(left, right) {
			return nil, mismatch("cannot assign %s to %s", right, left)
		}
		return left, nil

	case ExprCall:
		return e.checkCall(syms)

	case ExprSubscript:
		left, right, err := e.operandTypes(syms)
		if err != nil {
			return nil, err
		}
		if left.Kind != TypeArray {
			return nil, mismatch("cannot index %s", left)
		}
		if right.Kind != TypeInteger {
			return nil, mismatch("array index must be int, got %s", right)
		}
		return left.Elem.Copy(), nil

	case ExprArg:
		return e.Left.TypeCheck(syms)

	case ExprName:
		sym := syms.Get(e.Symbol)
		if sym == nil {
			return nil, fmt.Errorf("error: '%s' is not bound to a symbol: %w", e.Name, ErrUnresolvedName)
		}
		return sym.Type.Copy(), nil

	case ExprInt:
		return IntegerType(), nil

	case ExprStr:
		return StringType(), nil

	default:
		return nil, fmt.Errorf("error: cannot type check expression of kind %d", e.Kind)
	}
}

// checkUnary requires the operand to have kind want and yields that type.
func (e *Expr) checkUnary(syms *Symbols, want TypeKind) (*Datatype, error) {
	operand, err := e.Left.TypeCheck(syms)
	if err != nil {
		return nil, err
	}
	if operand.Kind != want {
		expected := &Datatype{Kind: want}
		return nil, mismatch("operand of '%s' must be %s, got %s", e.Kind, expected, operand)
	}
	return operand, nil
}

func (e *Expr) operandTypes(syms *Symbols) (*Datatype, *Datatype, error) {
	left, err := e.Left.TypeCheck(syms)
	if err != nil {
		return nil, nil, err
	}
	right, err := e.Right.TypeCheck(syms)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// checkOperands requires both operands to have kind want.
func (e *Expr) checkOperands(syms *Symbols, want TypeKind) error {
	left, right, err := e.operandTypes(syms)
	if err != nil {
		return err
	}
	if left.Kind != want || right.Kind != want {
		expected := &Datatype{Kind: want}
		return mismatch("operands of '%s' must be %s, got %s and %s", e.Kind, expected, left, right)
	}
	return nil
}

func (e *Expr) checkComparison(syms *Symbols) (*Datatype, error) {
	left, right, err := e.operandTypes(syms)
	if err != nil {
		return nil, err
	}
	if !left.isComparable() || !right.isComparable() {
		return nil, mismatch("cannot compare %s with %s", left, right)
	}
	if !TypesEqual(left, right) {
		return nil, mismatch("operands of '%s' differ: %s and %s", e.Kind, left, right)
	}
	return BooleanType(), nil
}

// checkCall matches the Arg chain against the parameters of the callee
// position by position. There is no overloading and no variadic call.
func (e *Expr) checkCall(syms *Symbols) (*Datatype, error) {
	callee, err := e.Left.TypeCheck(syms)
	if err != nil {
		return nil, err
	}
	if callee.Kind != TypeFunction {
		return nil, mismatch("cannot call %s", callee)
	}

	arg := e.Right
	for i, param := range callee.Params {
		if arg == nil {
			return nil, mismatch("call expects %d arguments, got %d", len(callee.Params), i)
		}
		if arg.Kind != ExprArg {
			return nil, mismatch("malformed argument list")
		}
		argType, err := arg.Left.TypeCheck(syms)
		if err != nil {
			return nil, err
		}
		if !TypesEqual(argType, param.Type) {
			return nil, mismatch("argument %d (%s) must be %s, got %s", i+1, param.Name, param.Type, argType)
		}
		arg = arg.Right
	}
	if arg != nil {
		return nil, mismatch("call expects %d arguments, got %d", len(callee.Params), len(argList(e.Right)))
	}

	return callee.Return.Copy(), nil
}

func (s *Stmt) TypeCheck(syms *Symbols) (*Datatype, error) {
	switch s.Kind {
	case StmtDecl:
		return s.Decl.TypeCheck(syms)

	case StmtExpr, StmtPrint:
		_, err := s.Expr.TypeCheck(syms)
		return nil, err

	case StmtReturn:
		// The returned value is not compared against the function's
		// declared return type.
		if s.Expr == nil {
			return nil, nil
		}
		_, err := s.Expr.TypeCheck(syms)
		return nil, err

	case StmtIf:
		// Any well-typed condition is accepted.
		if _, err := s.Expr.TypeCheck(syms); err != nil {
			return nil, err
		}
		if _, err := s.Body.TypeCheck(syms); err != nil {
			return nil, err
		}
		return s.Else.TypeCheck(syms)

	case StmtFor:
		// Only the header is checked. The condition is not required to be
		// bool, and the body is never visited.
		for _, e := range []*Expr{s.Init, s.Expr, s.Step} {
			if _, err := e.TypeCheck(syms); err != nil {
				return nil, err
			}
		}
		return nil, nil

	case StmtBlock:
		return s.Body.TypeCheck(syms)

	default:
		return nil, fmt.Errorf("error: cannot type check statement of kind %s", s.Kind)
	}
}

func (d *Decl) TypeCheck(syms *Symbols) (*Datatype, error) {
	switch d.Kind {
	case DeclVar:
		// Only the initializer itself is checked; it is not compared with
		// the declared type.
		if d.Init == nil {
			return nil, nil
		}
		_, err := d.Init.TypeCheck(syms)
		return nil, err

	case DeclFunc:
		if _, err := d.Body.TypeCheck(syms); err != nil {
			return nil, fmt.Errorf("in function '%s': %w", d.Name, err)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("error: cannot type check declaration of kind %s", d.Kind)
	}
}

// TypeCheck checks every statement in order and stops at the first failure.
func (b Body) TypeCheck(syms *Symbols) (*Datatype, error) {
	for _, s := range b {
		if _, err := s.TypeCheck(syms); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
