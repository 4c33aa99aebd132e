package minipy

import "strings"

// TypeKind represents the variant of a Datatype
type TypeKind int

const (
	typeInvalid TypeKind = iota
	TypeVoid
	TypeBoolean
	TypeCharacter
	TypeInteger
	TypeString
	TypeArray
	TypeFunction
)

// Param is one named parameter of a function type.
type Param struct {
	Name string
	Type *Datatype
}

// Datatype represents a type in the source language.
type Datatype struct {
	Kind TypeKind
	// TypeArray:
	Elem *Datatype
	// TypeFunction:
	Return *Datatype
	Params []Param
}

func VoidType() *Datatype      { return &Datatype{Kind: TypeVoid} }
func BooleanType() *Datatype   { return &Datatype{Kind: TypeBoolean} }
func CharacterType() *Datatype { return &Datatype{Kind: TypeCharacter} }
func IntegerType() *Datatype   { return &Datatype{Kind: TypeInteger} }
func StringType() *Datatype    { return &Datatype{Kind: TypeString} }

// ArrayOf takes ownership of elem.
func ArrayOf(elem *Datatype) *Datatype {
	return &Datatype{Kind: TypeArray, Elem: elem}
}

// FunctionOf takes ownership of ret and of every parameter type.
func FunctionOf(ret *Datatype, params ...Param) *Datatype {
	return &Datatype{Kind: TypeFunction, Return: ret, Params: params}
}

// TypesEqual compares two types structurally. Parameter names take part in
// the comparison of function types.
func TypesEqual(a, b *Datatype) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case TypeArray:
		return TypesEqual(a.Elem, b.Elem)
	case TypeFunction:
		return TypesEqual(a.Return, b.Return) && paramsEqual(a.Params, b.Params)
	default:
		return true
	}
}

// Equal reports whether t and other are structurally identical.
func (t *Datatype) Equal(other *Datatype) bool {
	return TypesEqual(t, other)
}

// Copy returns a deep copy of t.
func (t *Datatype) Copy() *Datatype {
	if t == nil {
		return nil
	}
	c := &Datatype{Kind: t.Kind}
	switch t.Kind {
	case TypeArray:
		c.Elem = t.Elem.Copy()
	case TypeFunction:
		c.Return = t.Return.Copy()
		c.Params = copyParams(t.Params)
	}
	return c
}

// Destroy releases the element, return and parameter types owned by t.
func (t *Datatype) Destroy() {
	if t == nil {
		return
	}
	t.Elem.Destroy()
	t.Return.Destroy()
	destroyParams(t.Params)
	*t = Datatype{}
}

// isComparable reports whether values of type t may appear as operands of a
// comparison operator.
func (t *Datatype) isComparable() bool {
	switch t.Kind {
	case TypeVoid, TypeArray, TypeFunction:
		return false
	default:
		return true
	}
}

// Translate renders t as a Python type annotation.
func (t *Datatype) Translate() string {
	if t == nil {
		return "None"
	}
	switch t.Kind {
	case TypeVoid:
		return "None"
	case TypeBoolean:
		return "bool"
	case TypeCharacter, TypeString:
		return "str"
	case TypeInteger:
		return "int"
	case TypeArray:
		return "list[" + t.Elem.Translate() + "]"
	case TypeFunction:
		return "callable"
	default:
		return "object"
	}
}

// String returns the S-expression spelling of t, e.g. "(array int)".
func (t *Datatype) String() string {
	return t.SExpr().String()
}

func copyParams(params []Param) []Param {
	if params == nil {
		return nil
	}
	result := make([]Param, len(params))
	for i, p := range params {
		result[i] = Param{Name: p.Name, Type: p.Type.Copy()}
	}
	return result
}

func destroyParams(params []Param) {
	for i := range params {
		params[i].Type.Destroy()
		params[i].Type = nil
	}
}

func paramsEqual(a, b []Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !TypesEqual(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

// translateParams renders a parameter list as "x : int, y : str".
func translateParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " : " + p.Type.Translate()
	}
	return strings.Join(parts, ", ")
}
