package minipy

// StmtKind represents the variant of a Stmt
type StmtKind int

const (
	stmtInvalid StmtKind = iota
	StmtDecl
	StmtExpr
	StmtIf
	StmtFor
	StmtBlock
	StmtPrint
	StmtReturn
)

func (k StmtKind) String() string {
	switch k {
	case StmtDecl:
		return "decl"
	case StmtExpr:
		return "expr"
	case StmtIf:
		return "if"
	case StmtFor:
		return "for"
	case StmtBlock:
		return "block"
	case StmtPrint:
		return "print"
	case StmtReturn:
		return "return"
	default:
		return "invalid"
	}
}

// Body is an ordered statement sequence owned by its parent node.
type Body []*Stmt

// Stmt is a statement node. It exclusively owns every child.
type Stmt struct {
	Kind StmtKind
	// StmtDecl:
	Decl *Decl
	// StmtExpr, StmtPrint, StmtReturn (may be nil), and the condition of
	// StmtIf and StmtFor:
	Expr *Expr
	// StmtFor:
	Init *Expr
	Step *Expr
	// StmtIf (then branch), StmtFor, StmtBlock:
	Body Body
	// StmtIf:
	Else Body
}

func NewDeclStmt(decl *Decl) *Stmt { return &Stmt{Kind: StmtDecl, Decl: decl} }
func NewExprStmt(expr *Expr) *Stmt { return &Stmt{Kind: StmtExpr, Expr: expr} }
func NewPrint(expr *Expr) *Stmt    { return &Stmt{Kind: StmtPrint, Expr: expr} }

// NewReturn builds a return statement; expr may be nil.
func NewReturn(expr *Expr) *Stmt { return &Stmt{Kind: StmtReturn, Expr: expr} }

func NewIf(cond *Expr, then, els Body) *Stmt {
	return &Stmt{Kind: StmtIf, Expr: cond, Body: then, Else: els}
}

func NewFor(init, cond, step *Expr, body Body) *Stmt {
	return &Stmt{Kind: StmtFor, Init: init, Expr: cond, Step: step, Body: body}
}

func NewBlock(body Body) *Stmt { return &Stmt{Kind: StmtBlock, Body: body} }

// DeclKind represents the variant of a Decl
type DeclKind int

const (
	declInvalid DeclKind = iota
	DeclVar
	DeclFunc
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclFunc:
		return "func"
	default:
		return "invalid"
	}
}

// Decl is a variable or function declaration.
type Decl struct {
	Kind DeclKind
	Name string
	// Type is shared with the declared Symbol after name resolution.
	Type *Datatype
	// DeclVar (may be nil):
	Init *Expr
	// DeclFunc:
	Body Body

	Symbol SymbolID
}

// NewVarDecl declares a variable; init may be nil.
func NewVarDecl(name string, typ *Datatype, init *Expr) *Decl {
	return &Decl{Kind: DeclVar, Name: name, Type: typ, Init: init}
}

// NewFuncDecl declares a function. typ must be a function type.
func NewFuncDecl(name string, typ *Datatype, body Body) *Decl {
	return &Decl{Kind: DeclFunc, Name: name, Type: typ, Body: body}
}

// Destroy releases the subtree owned by s.
func (s *Stmt) Destroy() {
	if s == nil {
		return
	}
	s.Decl.Destroy()
	s.Expr.Destroy()
	s.Init.Destroy()
	s.Step.Destroy()
	s.Body.Destroy()
	s.Else.Destroy()
	*s = Stmt{}
}

// Copy returns an independent deep copy of s with every name unbound.
func (s *Stmt) Copy() *Stmt {
	if s == nil {
		return nil
	}
	return &Stmt{
		Kind: s.Kind,
		Decl: s.Decl.Copy(),
		Expr: s.Expr.Copy(),
		Init: s.Init.Copy(),
		Step: s.Step.Copy(),
		Body: s.Body.Copy(),
		Else: s.Else.Copy(),
	}
}

func (s *Stmt) Equal(other *Stmt) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Kind == other.Kind &&
		s.Decl.Equal(other.Decl) &&
		s.Init.Equal(other.Init) &&
		s.Expr.Equal(other.Expr) &&
		s.Step.Equal(other.Step) &&
		s.Body.Equal(other.Body) &&
		s.Else.Equal(other.Else)
}

// Destroy releases the subtree owned by d. The declared type is only
// detached: the Symbol bound to d may still refer to it.
func (d *Decl) Destroy() {
	if d == nil {
		return
	}
	d.Init.Destroy()
	d.Body.Destroy()
	*d = Decl{}
}

func (d *Decl) Copy() *Decl {
	if d == nil {
		return nil
	}
	return &Decl{
		Kind: d.Kind,
		Name: d.Name,
		Type: d.Type.Copy(),
		Init: d.Init.Copy(),
		Body: d.Body.Copy(),
	}
}

func (d *Decl) Equal(other *Decl) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Kind == other.Kind &&
		d.Name == other.Name &&
		TypesEqual(d.Type, other.Type) &&
		d.Init.Equal(other.Init) &&
		d.Body.Equal(other.Body)
}

// Destroy releases every statement in b.
func (b Body) Destroy() {
	for i, s := range b {
		s.Destroy()
		b[i] = nil
	}
}

func (b Body) Copy() Body {
	if b == nil {
		return nil
	}
	result := make(Body, len(b))
	for i, s := range b {
		result[i] = s.Copy()
	}
	return result
}

// Equal compares two bodies element by element. A nil body equals an empty
// one.
func (b Body) Equal(other Body) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if !b[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
