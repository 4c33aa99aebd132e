package minipy

// ExprKind represents the variant of an Expr
type ExprKind int

const (
	exprInvalid ExprKind = iota

	// Unary: operand in Left.
	ExprNot
	ExprIncrement
	ExprDecrement

	// Binary: Left and Right.
	ExprAnd
	ExprOr
	ExprLess
	ExprLessEq
	ExprGreater
	ExprGreaterEq
	ExprEqual
	ExprNotEqual
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprMod
	ExprArg  // Left is the argument, Right the rest of the chain (may be nil)
	ExprCall // Left is the callee, Right the Arg chain (may be nil)
	ExprSubscript
	ExprAssign

	// Leaves.
	ExprName
	ExprInt
	ExprStr
)

var exprKindNames = map[ExprKind]string{
	ExprNot:       "not",
	ExprIncrement: "inc",
	ExprDecrement: "dec",
	ExprAnd:       "and",
	ExprOr:        "or",
	ExprLess:      "lt",
	ExprLessEq:    "le",
	ExprGreater:   "gt",
	ExprGreaterEq: "ge",
	ExprEqual:     "eq",
	ExprNotEqual:  "ne",
	ExprAdd:       "add",
	ExprSub:       "sub",
	ExprMul:       "mul",
	ExprDiv:       "div",
	ExprMod:       "mod",
	ExprArg:       "arg",
	ExprCall:      "call",
	ExprSubscript: "index",
	ExprAssign:    "assign",
	ExprName:      "name",
	ExprInt:       "int",
	ExprStr:       "str",
}

func (k ExprKind) String() string {
	if name, ok := exprKindNames[k]; ok {
		return name
	}
	return "invalid"
}

func (k ExprKind) isUnary() bool {
	return k == ExprNot || k == ExprIncrement || k == ExprDecrement
}

func (k ExprKind) isBinary() bool {
	return k >= ExprAnd && k <= ExprAssign
}

func (k ExprKind) isComparison() bool {
	return k >= ExprLess && k <= ExprNotEqual
}

func (k ExprKind) isArithmetic() bool {
	return k >= ExprAdd && k <= ExprMod
}

// Expr is an expression node. It exclusively owns Left and Right.
type Expr struct {
	Kind  ExprKind
	Left  *Expr
	Right *Expr
	// ExprName:
	Name   string
	Symbol SymbolID
	// ExprInt:
	Int int64
	// ExprStr:
	Str string
}

func newUnary(kind ExprKind, operand *Expr) *Expr {
	return &Expr{Kind: kind, Left: operand}
}

func newBinary(kind ExprKind, left, right *Expr) *Expr {
	return &Expr{Kind: kind, Left: left, Right: right}
}

func NewNot(operand *Expr) *Expr       { return newUnary(ExprNot, operand) }
func NewIncrement(operand *Expr) *Expr { return newUnary(ExprIncrement, operand) }
func NewDecrement(operand *Expr) *Expr { return newUnary(ExprDecrement, operand) }

func NewAnd(left, right *Expr) *Expr       { return newBinary(ExprAnd, left, right) }
func NewOr(left, right *Expr) *Expr        { return newBinary(ExprOr, left, right) }
func NewLess(left, right *Expr) *Expr      { return newBinary(ExprLess, left, right) }
func NewLessEq(left, right *Expr) *Expr    { return newBinary(ExprLessEq, left, right) }
func NewGreater(left, right *Expr) *Expr   { return newBinary(ExprGreater, left, right) }
func NewGreaterEq(left, right *Expr) *Expr { return newBinary(ExprGreaterEq, left, right) }
func NewEqual(left, right *Expr) *Expr     { return newBinary(ExprEqual, left, right) }
func NewNotEqual(left, right *Expr) *Expr  { return newBinary(ExprNotEqual, left, right) }
func NewAdd(left, right *Expr) *Expr       { return newBinary(ExprAdd, left, right) }
func NewSub(left, right *Expr) *Expr       { return newBinary(ExprSub, left, right) }
func NewMul(left, right *Expr) *Expr       { return newBinary(ExprMul, left, right) }
func NewDiv(left, right *Expr) *Expr       { return newBinary(ExprDiv, left, right) }
func NewMod(left, right *Expr) *Expr       { return newBinary(ExprMod, left, right) }
func NewSubscript(array, index *Expr) *Expr {
	return newBinary(ExprSubscript, array, index)
}
func NewAssign(target, value *Expr) *Expr { return newBinary(ExprAssign, target, value) }

// NewArg links one argument in front of the rest of an argument chain.
// next is nil for the last argument.
func NewArg(arg, next *Expr) *Expr { return newBinary(ExprArg, arg, next) }

// NewCall builds a call; args is an Arg chain or nil for no arguments.
func NewCall(callee, args *Expr) *Expr { return newBinary(ExprCall, callee, args) }

// Args builds an Arg chain from left to right. It returns nil for no
// arguments.
func Args(args ...*Expr) *Expr {
	var chain *Expr
	for i := len(args) - 1; i >= 0; i-- {
		chain = NewArg(args[i], chain)
	}
	return chain
}

func NewName(name string) *Expr { return &Expr{Kind: ExprName, Name: name} }
func NewInt(value int64) *Expr  { return &Expr{Kind: ExprInt, Int: value} }
func NewStr(value string) *Expr { return &Expr{Kind: ExprStr, Str: value} }

// argList flattens an Arg chain. Anything that is not an Arg node ends the
// walk and is returned as the final element.
func argList(chain *Expr) []*Expr {
	var result []*Expr
	for chain != nil {
		if chain.Kind != ExprArg {
			return append(result, chain)
		}
		result = append(result, chain.Left)
		chain = chain.Right
	}
	return result
}

// Destroy releases the subtree owned by e. Symbols are left untouched.
func (e *Expr) Destroy() {
	if e == nil {
		return
	}
	e.Left.Destroy()
	e.Right.Destroy()
	*e = Expr{}
}

// Copy returns an independent deep copy of e. Names in the copy are unbound.
func (e *Expr) Copy() *Expr {
	if e == nil {
		return nil
	}
	return &Expr{
		Kind:  e.Kind,
		Left:  e.Left.Copy(),
		Right: e.Right.Copy(),
		Name:  e.Name,
		Int:   e.Int,
		Str:   e.Str,
	}
}

// Equal reports whether other has the same variant and recursively equal
// children and payloads. Resolved symbols are not compared.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}

	switch e.Kind {
	case ExprName:
		return e.Name == other.Name
	case ExprInt:
		return e.Int == other.Int
	case ExprStr:
		return e.Str == other.Str
	default:
		return e.Left.Equal(other.Left) && e.Right.Equal(other.Right)
	}
}
