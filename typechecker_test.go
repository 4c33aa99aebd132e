package minipy

import (
	"testing"

	"github.com/nalgeon/be"
)

// checkInScope resolves decls, then resolves and type checks e against them.
func checkInScope(t *testing.T, decls Body, e *Expr) (*Datatype, error) {
	t.Helper()
	st := NewSymbolTable()
	syms := NewSymbols()
	be.Err(t, decls.ResolveNames(st, syms), nil)
	be.Err(t, e.ResolveNames(st, syms), nil)
	return e.TypeCheck(syms)
}

func varDecl(name string, typ *Datatype) *Stmt {
	return NewDeclStmt(NewVarDecl(name, typ, nil))
}

func TestTypeCheckLiterals(t *testing.T) {
	typ, err := NewInt(7).TypeCheck(nil)
	be.Err(t, err, nil)
	be.Equal(t, typ, IntegerType())

	typ, err = NewStr("s").TypeCheck(nil)
	be.Err(t, err, nil)
	be.Equal(t, typ, StringType())
}

func TestTypeCheckExpressions(t *testing.T) {
	decls := Body{
		varDecl("n", IntegerType()),
		varDecl("m", IntegerType()),
		varDecl("b", BooleanType()),
		varDecl("c", CharacterType()),
		varDecl("s", StringType()),
		varDecl("xs", ArrayOf(IntegerType())),
		varDecl("grid", ArrayOf(ArrayOf(CharacterType()))),
		varDecl("v", VoidType()),
		NewDeclStmt(NewFuncDecl("f", FunctionOf(BooleanType(), Param{"x", IntegerType()}), nil)),
	}

	n := func() *Expr { return NewName("n") }
	b := func() *Expr { return NewName("b") }
	s := func() *Expr { return NewName("s") }

	tests := []struct {
		name     string
		expr     *Expr
		expected *Datatype // nil means a type mismatch
	}{
		{"not bool", NewNot(b()), BooleanType()},
		{"not int", NewNot(n()), nil},
		{"increment int", NewIncrement(n()), IntegerType()},
		{"decrement int", NewDecrement(n()), IntegerType()},
		{"increment string", NewIncrement(s()), nil},
		{"and bools", NewAnd(b(), b()), BooleanType()},
		{"or bool and int", NewOr(b(), n()), nil},
		{"less ints", NewLess(n(), NewName("m")), BooleanType()},
		{"equal strings", NewEqual(s(), NewStr("x")), BooleanType()},
		{"not equal chars", NewNotEqual(NewName("c"), NewName("c")), BooleanType()},
		{"greater bools", NewGreater(b(), b()), BooleanType()},
		{"compare int with string", NewLessEq(n(), s()), nil},
		{"compare arrays", NewEqual(NewName("xs"), NewName("xs")), nil},
		{"compare voids", NewGreaterEq(NewName("v"), NewName("v")), nil},
		{"compare functions", NewEqual(NewName("f"), NewName("f")), nil},
		{"add ints", NewAdd(n(), NewInt(1)), IntegerType()},
		{"sub ints", NewSub(n(), NewInt(1)), IntegerType()},
		{"mul ints", NewMul(n(), n()), IntegerType()},
		{"div ints", NewDiv(n(), NewInt(2)), IntegerType()},
		{"mod ints", NewMod(n(), NewInt(2)), IntegerType()},
		{"string plus int", NewAdd(NewStr("x"), NewInt(1)), nil},
		{"add bools", NewAdd(b(), b()), nil},
		{"assign same type", NewAssign(s(), NewStr("y")), StringType()},
		{"assign array", NewAssign(NewName("xs"), NewName("xs")), ArrayOf(IntegerType())},
		{"assign mismatch", NewAssign(n(), s()), nil},
		{"subscript", NewSubscript(NewName("xs"), NewInt(0)), IntegerType()},
		{"nested subscript", NewSubscript(NewSubscript(NewName("grid"), n()), NewInt(1)), CharacterType()},
		{"subscript non-array", NewSubscript(s(), NewInt(0)), nil},
		{"subscript by string", NewSubscript(NewName("xs"), s()), nil},
		{"call", NewCall(NewName("f"), Args(NewInt(1))), BooleanType()},
		{"call non-function", NewCall(n(), Args(NewInt(1))), nil},
		{"arg yields its argument", NewArg(s(), nil), StringType()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			typ, err := checkInScope(t, decls.Copy(), test.expr)
			if test.expected == nil {
				be.Err(t, err, ErrTypeMismatch)
				be.True(t, typ == nil)
				return
			}
			be.Err(t, err, nil)
			be.Equal(t, typ, test.expected)
		})
	}
}

func TestTypeCheckAssignmentAfterDeclaration(t *testing.T) {
	// int total = 0; total = total + 1;
	decls := Body{NewDeclStmt(NewVarDecl("total", IntegerType(), NewInt(0)))}
	assign := NewAssign(NewName("total"), NewAdd(NewName("total"), NewInt(1)))

	typ, err := checkInScope(t, decls, assign)
	be.Err(t, err, nil)
	be.Equal(t, typ, IntegerType())
}

func TestTypeCheckStringPlusInteger(t *testing.T) {
	typ, err := NewAdd(NewStr("x"), NewInt(1)).TypeCheck(NewSymbols())
	be.Err(t, err, ErrTypeMismatch)
	be.True(t, typ == nil)
	be.Equal(t, err.Error(), "error: operands of 'add' must be int, got string and int: type mismatch")
}

func TestTypeCheckCallArity(t *testing.T) {
	decls := func() Body {
		return Body{NewDeclStmt(NewFuncDecl("g", FunctionOf(StringType(), Param{"x", IntegerType()}), nil))}
	}

	// No arguments.
	_, err := checkInScope(t, decls(), NewCall(NewName("g"), nil))
	be.Err(t, err, ErrTypeMismatch)
	be.Err(t, err, "call expects 1 arguments, got 0")

	// One string argument.
	_, err = checkInScope(t, decls(), NewCall(NewName("g"), Args(NewStr("no"))))
	be.Err(t, err, ErrTypeMismatch)
	be.Err(t, err, "argument 1 (x) must be int, got string")

	// Too many arguments.
	_, err = checkInScope(t, decls(), NewCall(NewName("g"), Args(NewInt(1), NewInt(2))))
	be.Err(t, err, ErrTypeMismatch)
	be.Err(t, err, "call expects 1 arguments, got 2")

	// Exactly one integer argument yields the declared return type.
	typ, err := checkInScope(t, decls(), NewCall(NewName("g"), Args(NewInt(1))))
	be.Err(t, err, nil)
	be.Equal(t, typ, StringType())
}

func TestTypeCheckCallResultIsACopy(t *testing.T) {
	st := NewSymbolTable()
	syms := NewSymbols()
	decl := NewFuncDecl("h", FunctionOf(ArrayOf(IntegerType())), nil)
	be.Err(t, decl.ResolveNames(st, syms), nil)

	call := NewCall(NewName("h"), nil)
	be.Err(t, call.ResolveNames(st, syms), nil)
	typ, err := call.TypeCheck(syms)
	be.Err(t, err, nil)

	typ.Destroy()
	be.Equal(t, decl.Type.Return.Kind, TypeArray)
}

func TestTypeCheckUnresolvedName(t *testing.T) {
	_, err := NewName("ghost").TypeCheck(NewSymbols())
	be.Err(t, err, ErrUnresolvedName)
}

func TestTypeCheckMissingOperand(t *testing.T) {
	_, err := NewNot(nil).TypeCheck(NewSymbols())
	be.Err(t, err, ErrTypeMismatch)
}

func TestTypeCheckStatementsYieldNoType(t *testing.T) {
	resolved, err := DemoProgram().Resolve()
	be.Err(t, err, nil)

	for _, s := range resolved.Program().Body {
		typ, err := s.TypeCheck(resolved.Symbols())
		be.Err(t, err, nil)
		be.True(t, typ == nil)
	}
}

func checkProgram(t *testing.T, p *Program) error {
	t.Helper()
	resolved, err := p.Resolve()
	be.Err(t, err, nil)
	_, err = resolved.Check()
	return err
}

func TestTypeCheckVarDeclaredTypeNotCompared(t *testing.T) {
	// The initializer is checked on its own; its type is never compared
	// with the declared type.
	p := NewProgram(NewDeclStmt(NewVarDecl("x", IntegerType(), NewStr("not an int"))))
	be.Err(t, checkProgram(t, p), nil)

	// A broken initializer still fails.
	p = NewProgram(NewDeclStmt(NewVarDecl("x", IntegerType(), NewAdd(NewStr("a"), NewInt(1)))))
	be.Err(t, checkProgram(t, p), ErrTypeMismatch)
}

func TestTypeCheckConditionsNeedNotBeBoolean(t *testing.T) {
	p := NewProgram(
		varDecl("i", IntegerType()),
		NewIf(NewName("i"), Body{NewPrint(NewInt(1))}, nil),
		NewFor(NewAssign(NewName("i"), NewInt(0)), NewName("i"), NewIncrement(NewName("i")), nil),
	)
	be.Err(t, checkProgram(t, p), nil)
}

func TestTypeCheckForHeaderNotBody(t *testing.T) {
	badStep := NewProgram(
		varDecl("s", StringType()),
		NewFor(NewAssign(NewName("s"), NewStr("")), NewEqual(NewName("s"), NewStr("")), NewIncrement(NewName("s")), nil),
	)
	be.Err(t, checkProgram(t, badStep), ErrTypeMismatch)

	badCondition := NewProgram(
		varDecl("i", IntegerType()),
		NewFor(NewAssign(NewName("i"), NewInt(0)), NewNot(NewName("i")), NewIncrement(NewName("i")), nil),
	)
	be.Err(t, checkProgram(t, badCondition), ErrTypeMismatch)

	// An ill-typed body still passes; only the loop header is checked.
	badBody := NewProgram(
		NewDeclStmt(NewVarDecl("i", IntegerType(), NewInt(0))),
		NewFor(NewAssign(NewName("i"), NewInt(0)), NewLess(NewName("i"), NewInt(3)), NewIncrement(NewName("i")),
			Body{NewExprStmt(NewAdd(NewStr("x"), NewInt(1)))}),
	)
	be.Err(t, checkProgram(t, badBody), nil)

	// The body is still resolved.
	unresolved := NewProgram(
		NewFor(nil, NewInt(1), nil, Body{NewPrint(NewName("ghost"))}),
	)
	_, err := unresolved.Resolve()
	be.Err(t, err, ErrUnresolvedName)
}

func TestTypeCheckIfBranches(t *testing.T) {
	p := NewProgram(
		varDecl("b", BooleanType()),
		NewIf(NewName("b"), Body{NewPrint(NewName("b"))}, Body{NewPrint(NewNot(NewInt(1)))}),
	)
	be.Err(t, checkProgram(t, p), ErrTypeMismatch)
}

func TestTypeCheckFunctionBodyFailure(t *testing.T) {
	p := NewProgram(NewDeclStmt(NewFuncDecl("broken", FunctionOf(VoidType()), Body{
		NewPrint(NewInt(1)),
		NewExprStmt(NewAdd(NewStr("a"), NewInt(1))),
		NewPrint(NewInt(2)),
	})))
	err := checkProgram(t, p)
	be.Err(t, err, ErrTypeMismatch)
	be.Err(t, err, "in function 'broken': ")
}

func TestTypeCheckReturnNotComparedWithSignature(t *testing.T) {
	p := NewProgram(NewDeclStmt(NewFuncDecl("f", FunctionOf(IntegerType()), Body{
		NewReturn(NewStr("text")),
	})))
	be.Err(t, checkProgram(t, p), nil)

	p = NewProgram(NewDeclStmt(NewFuncDecl("g", FunctionOf(VoidType()), Body{NewReturn(nil)})))
	be.Err(t, checkProgram(t, p), nil)
}

func TestTypeCheckDemoProgram(t *testing.T) {
	be.Err(t, checkProgram(t, DemoProgram()), nil)
}
