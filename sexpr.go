package minipy

import (
	"fmt"
	"strconv"

	"github.com/strager/minipy/sexy"
)

// S-expression form
//
// Programs are read from and written to the sexy syntax:
//
//	(program
//	  (func twice (function int (n int))
//	    (return (mul n 2)))
//	  (print (call twice 21)))
//
// A bare symbol is a name, an integer is an integer literal and a string
// is a string literal. The empty list stands for a missing expression.

// ParseProgram reads a (program ...) form.
func ParseProgram(src string) (*Program, error) {
	node, err := parseSexy(src)
	if err != nil {
		return nil, err
	}
	return DecodeProgram(node)
}

// ParseExpr reads a single expression.
func ParseExpr(src string) (*Expr, error) {
	node, err := parseSexy(src)
	if err != nil {
		return nil, err
	}
	return decodeExpr(node)
}

// ParseType reads a single type such as (array int).
func ParseType(src string) (*Datatype, error) {
	node, err := parseSexy(src)
	if err != nil {
		return nil, err
	}
	return decodeType(node)
}

func parseSexy(src string) (*sexy.Node, error) {
	node, err := sexy.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("error: %w: %w", ErrSyntax, err)
	}
	return node, nil
}

func malformed(n *sexy.Node, format string, args ...any) error {
	return fmt.Errorf("error: line %d: %s: %w", n.Line, fmt.Sprintf(format, args...), ErrSyntax)
}

// DecodeProgram converts an already parsed (program ...) datum.
func DecodeProgram(n *sexy.Node) (*Program, error) {
	if n.Head() != "program" {
		return nil, malformed(n, "expected (program ...), got %s", n)
	}
	body, err := decodeBody(n.Items[1:])
	if err != nil {
		return nil, err
	}
	return &Program{Body: body}, nil
}

var typeNames = map[string]TypeKind{
	"void":   TypeVoid,
	"bool":   TypeBoolean,
	"char":   TypeCharacter,
	"int":    TypeInteger,
	"string": TypeString,
}

func decodeType(n *sexy.Node) (*Datatype, error) {
	if n.Type == sexy.NodeSymbol {
		kind, ok := typeNames[n.Text]
		if !ok {
			return nil, malformed(n, "unknown type '%s'", n.Text)
		}
		return &Datatype{Kind: kind}, nil
	}

	switch n.Head() {
	case "array":
		if len(n.Items) != 2 {
			return nil, malformed(n, "array type takes one element type")
		}
		elem, err := decodeType(n.Items[1])
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil

	case "function":
		if len(n.Items) < 2 {
			return nil, malformed(n, "function type needs a return type")
		}
		ret, err := decodeType(n.Items[1])
		if err != nil {
			return nil, err
		}
		var params []Param
		for _, item := range n.Items[2:] {
			if item.Type != sexy.NodeList || len(item.Items) != 2 {
				return nil, malformed(item, "parameter must be (name type)")
			}
			name, err := decodeIdentifier(item.Items[0])
			if err != nil {
				return nil, err
			}
			typ, err := decodeType(item.Items[1])
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Name: name, Type: typ})
		}
		return FunctionOf(ret, params...), nil

	default:
		return nil, malformed(n, "expected a type, got %s", n)
	}
}

func decodeIdentifier(n *sexy.Node) (string, error) {
	if n.Type != sexy.NodeSymbol || !isIdentifier(n.Text) {
		return "", malformed(n, "expected an identifier, got %s", n)
	}
	return n.Text, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !letter && (i == 0 || !digit) {
			return false
		}
	}
	return true
}

var exprKindsByName = func() map[string]ExprKind {
	m := make(map[string]ExprKind, len(exprKindNames))
	for kind, name := range exprKindNames {
		if kind.isUnary() || kind.isBinary() {
			m[name] = kind
		}
	}
	return m
}()

func decodeExpr(n *sexy.Node) (*Expr, error) {
	switch n.Type {
	case sexy.NodeSymbol:
		name, err := decodeIdentifier(n)
		if err != nil {
			return nil, err
		}
		return NewName(name), nil
	case sexy.NodeInteger:
		value, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return nil, malformed(n, "invalid integer %s", n.Text)
		}
		return NewInt(value), nil
	case sexy.NodeString:
		return NewStr(n.Text), nil
	}

	if len(n.Items) == 0 {
		return nil, nil
	}
	head := n.Head()
	kind, ok := exprKindsByName[head]
	if !ok {
		return nil, malformed(n, "unknown expression form '%s'", n.Items[0])
	}

	operands, err := decodeExprs(n.Items[1:])
	if err != nil {
		return nil, err
	}

	switch {
	case kind == ExprCall:
		if len(operands) == 0 {
			return nil, malformed(n, "call needs a callee")
		}
		callee, args := operands[0], operands[1:]
		// A lone (arg ...) operand is the chain itself.
		if len(args) == 1 && n.Items[2].Head() == "arg" {
			return NewCall(callee, args[0]), nil
		}
		return NewCall(callee, Args(args...)), nil

	case kind == ExprArg:
		if len(operands) != 1 && len(operands) != 2 {
			return nil, malformed(n, "arg takes an argument and an optional rest")
		}
		operands = append(operands, nil)
		return NewArg(operands[0], operands[1]), nil

	case kind.isUnary():
		if len(operands) != 1 {
			return nil, malformed(n, "'%s' takes one operand, got %d", head, len(operands))
		}
		return newUnary(kind, operands[0]), nil

	default:
		if len(operands) != 2 {
			return nil, malformed(n, "'%s' takes two operands, got %d", head, len(operands))
		}
		return newBinary(kind, operands[0], operands[1]), nil
	}
}

func decodeExprs(nodes []*sexy.Node) ([]*Expr, error) {
	result := make([]*Expr, 0, len(nodes))
	for _, node := range nodes {
		e, err := decodeExpr(node)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

func decodeBody(nodes []*sexy.Node) (Body, error) {
	var body Body
	for _, node := range nodes {
		s, err := decodeStmt(node)
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	return body, nil
}

// decodeBranch reads (then stmts...) or (else stmts...).
func decodeBranch(n *sexy.Node, head string) (Body, error) {
	if n.Head() != head {
		return nil, malformed(n, "expected (%s ...), got %s", head, n)
	}
	return decodeBody(n.Items[1:])
}

func decodeStmt(n *sexy.Node) (*Stmt, error) {
	items := n.Items
	switch n.Head() {
	case "var":
		if len(items) != 3 && len(items) != 4 {
			return nil, malformed(n, "var takes a name, a type and an optional initializer")
		}
		name, err := decodeIdentifier(items[1])
		if err != nil {
			return nil, err
		}
		typ, err := decodeType(items[2])
		if err != nil {
			return nil, err
		}
		var init *Expr
		if len(items) == 4 {
			if init, err = decodeExpr(items[3]); err != nil {
				return nil, err
			}
		}
		return NewDeclStmt(NewVarDecl(name, typ, init)), nil

	case "func":
		if len(items) < 3 {
			return nil, malformed(n, "func takes a name, a function type and a body")
		}
		name, err := decodeIdentifier(items[1])
		if err != nil {
			return nil, err
		}
		typ, err := decodeType(items[2])
		if err != nil {
			return nil, err
		}
		if typ.Kind != TypeFunction {
			return nil, malformed(items[2], "func '%s' needs a function type, got %s", name, typ)
		}
		body, err := decodeBody(items[3:])
		if err != nil {
			return nil, err
		}
		return NewDeclStmt(NewFuncDecl(name, typ, body)), nil

	case "if":
		if len(items) != 3 && len(items) != 4 {
			return nil, malformed(n, "if takes a condition, (then ...) and an optional (else ...)")
		}
		cond, err := decodeExpr(items[1])
		if err != nil {
			return nil, err
		}
		then, err := decodeBranch(items[2], "then")
		if err != nil {
			return nil, err
		}
		var els Body
		if len(items) == 4 {
			if els, err = decodeBranch(items[3], "else"); err != nil {
				return nil, err
			}
		}
		return NewIf(cond, then, els), nil

	case "for":
		if len(items) < 4 {
			return nil, malformed(n, "for takes an initializer, a condition, a step and a body")
		}
		header, err := decodeExprs(items[1:4])
		if err != nil {
			return nil, err
		}
		body, err := decodeBody(items[4:])
		if err != nil {
			return nil, err
		}
		return NewFor(header[0], header[1], header[2], body), nil

	case "block":
		body, err := decodeBody(items[1:])
		if err != nil {
			return nil, err
		}
		return NewBlock(body), nil

	case "print":
		if len(items) != 2 {
			return nil, malformed(n, "print takes one expression")
		}
		e, err := decodeExpr(items[1])
		if err != nil {
			return nil, err
		}
		return NewPrint(e), nil

	case "return":
		if len(items) > 2 {
			return nil, malformed(n, "return takes at most one expression")
		}
		var e *Expr
		if len(items) == 2 {
			var err error
			if e, err = decodeExpr(items[1]); err != nil {
				return nil, err
			}
		}
		return NewReturn(e), nil

	case "then", "else", "program":
		return nil, malformed(n, "unexpected (%s ...) in statement position", n.Head())

	default:
		e, err := decodeExpr(n)
		if err != nil {
			return nil, err
		}
		return NewExprStmt(e), nil
	}
}

// SExpr returns the canonical S-expression form of p.
func (p *Program) SExpr() *sexy.Node {
	return sexy.NewList(append([]*sexy.Node{sexy.NewSymbol("program")}, p.Body.sexprs()...)...)
}

// SExpr returns the S-expression form of t.
func (t *Datatype) SExpr() *sexy.Node {
	if t == nil {
		return sexy.NewSymbol("<nil>")
	}
	switch t.Kind {
	case TypeVoid:
		return sexy.NewSymbol("void")
	case TypeBoolean:
		return sexy.NewSymbol("bool")
	case TypeCharacter:
		return sexy.NewSymbol("char")
	case TypeInteger:
		return sexy.NewSymbol("int")
	case TypeString:
		return sexy.NewSymbol("string")
	case TypeArray:
		return sexy.NewList(sexy.NewSymbol("array"), t.Elem.SExpr())
	case TypeFunction:
		items := []*sexy.Node{sexy.NewSymbol("function"), t.Return.SExpr()}
		for _, p := range t.Params {
			items = append(items, sexy.NewList(sexy.NewSymbol(p.Name), p.Type.SExpr()))
		}
		return sexy.NewList(items...)
	default:
		return sexy.NewSymbol("<invalid>")
	}
}

// SExpr returns the S-expression form of e. A nil e is the empty list.
func (e *Expr) SExpr() *sexy.Node {
	if e == nil {
		return sexy.NewList()
	}
	switch e.Kind {
	case ExprName:
		return sexy.NewSymbol(e.Name)
	case ExprInt:
		return sexy.NewInteger(strconv.FormatInt(e.Int, 10))
	case ExprStr:
		return sexy.NewString(e.Str)
	case ExprCall:
		items := []*sexy.Node{sexy.NewSymbol("call"), e.Left.SExpr()}
		if args, ok := flatArgs(e.Right); ok {
			for _, arg := range args {
				items = append(items, arg.SExpr())
			}
		} else {
			items = append(items, e.Right.SExpr())
		}
		return sexy.NewList(items...)
	}

	head := sexy.NewSymbol(e.Kind.String())
	if e.Kind.isUnary() {
		return sexy.NewList(head, e.Left.SExpr())
	}
	if e.Kind == ExprArg && e.Right == nil {
		return sexy.NewList(head, e.Left.SExpr())
	}
	return sexy.NewList(head, e.Left.SExpr(), e.Right.SExpr())
}

// flatArgs flattens a chain that can be written as plain call operands.
func flatArgs(chain *Expr) ([]*Expr, bool) {
	var args []*Expr
	for ; chain != nil; chain = chain.Right {
		if chain.Kind != ExprArg || (chain.Left != nil && chain.Left.Kind == ExprArg) {
			return nil, false
		}
		args = append(args, chain.Left)
	}
	return args, true
}

// SExpr returns the S-expression form of s.
func (s *Stmt) SExpr() *sexy.Node {
	switch s.Kind {
	case StmtDecl:
		return s.Decl.SExpr()
	case StmtExpr:
		return s.Expr.SExpr()
	case StmtPrint:
		return sexy.NewList(sexy.NewSymbol("print"), s.Expr.SExpr())
	case StmtReturn:
		if s.Expr == nil {
			return sexy.NewList(sexy.NewSymbol("return"))
		}
		return sexy.NewList(sexy.NewSymbol("return"), s.Expr.SExpr())
	case StmtIf:
		items := []*sexy.Node{
			sexy.NewSymbol("if"),
			s.Expr.SExpr(),
			s.Body.branch("then"),
		}
		if len(s.Else) > 0 {
			items = append(items, s.Else.branch("else"))
		}
		return sexy.NewList(items...)
	case StmtFor:
		items := []*sexy.Node{sexy.NewSymbol("for"), s.Init.SExpr(), s.Expr.SExpr(), s.Step.SExpr()}
		return sexy.NewList(append(items, s.Body.sexprs()...)...)
	case StmtBlock:
		return sexy.NewList(append([]*sexy.Node{sexy.NewSymbol("block")}, s.Body.sexprs()...)...)
	default:
		return sexy.NewSymbol("<invalid>")
	}
}

// SExpr returns the S-expression form of d.
func (d *Decl) SExpr() *sexy.Node {
	switch d.Kind {
	case DeclVar:
		items := []*sexy.Node{sexy.NewSymbol("var"), sexy.NewSymbol(d.Name), d.Type.SExpr()}
		if d.Init != nil {
			items = append(items, d.Init.SExpr())
		}
		return sexy.NewList(items...)
	case DeclFunc:
		items := []*sexy.Node{sexy.NewSymbol("func"), sexy.NewSymbol(d.Name), d.Type.SExpr()}
		return sexy.NewList(append(items, d.Body.sexprs()...)...)
	default:
		return sexy.NewSymbol("<invalid>")
	}
}

func (b Body) sexprs() []*sexy.Node {
	nodes := make([]*sexy.Node, len(b))
	for i, s := range b {
		nodes[i] = s.SExpr()
	}
	return nodes
}

func (b Body) branch(head string) *sexy.Node {
	return sexy.NewList(append([]*sexy.Node{sexy.NewSymbol(head)}, b.sexprs()...)...)
}

// SExpr lists the arena as ((name kind type depth) ...) in declaration
// order.
func (s *Symbols) SExpr() *sexy.Node {
	items := make([]*sexy.Node, 0, s.Len())
	for _, sym := range s.All() {
		items = append(items, sexy.NewList(
			sexy.NewSymbol(sym.Name),
			sexy.NewSymbol(sym.Kind.String()),
			sym.Type.SExpr(),
			sexy.NewInteger(strconv.Itoa(sym.Depth)),
		))
	}
	return sexy.NewList(items...)
}
