package minipy

import (
	"strconv"
	"strings"
)

// IndentUnit is the indentation added for every nested Python block.
const IndentUnit = "    "

// TranslateOptions controls the layout of the generated Python.
type TranslateOptions struct {
	// IndentUnit is added per nesting level. Empty means IndentUnit.
	IndentUnit string
}

type translator struct {
	unit string
}

func newTranslator(opts TranslateOptions) translator {
	unit := opts.IndentUnit
	if unit == "" {
		unit = IndentUnit
	}
	return translator{unit: unit}
}

var defaultTranslator = translator{unit: IndentUnit}

// Python operator precedence, lowest first. Statement-like operators sit
// below everything else.
const (
	precStatement = iota
	precOr
	precAnd
	precNot
	precCompare
	precAdditive
	precMultiplicative
	precPostfix
	precAtom
)

func (e *Expr) precedence() int {
	switch e.Kind {
	case ExprAssign, ExprIncrement, ExprDecrement:
		return precStatement
	case ExprOr:
		return precOr
	case ExprAnd:
		return precAnd
	case ExprNot:
		return precNot
	case ExprLess, ExprLessEq, ExprGreater, ExprGreaterEq, ExprEqual, ExprNotEqual:
		return precCompare
	case ExprAdd, ExprSub:
		return precAdditive
	case ExprMul, ExprDiv, ExprMod:
		return precMultiplicative
	case ExprCall, ExprSubscript:
		return precPostfix
	default:
		return precAtom
	}
}

var binaryOperators = map[ExprKind]string{
	ExprAnd:       " and ",
	ExprOr:        " or ",
	ExprLess:      " < ",
	ExprLessEq:    " <= ",
	ExprGreater:   " > ",
	ExprGreaterEq: " >= ",
	ExprEqual:     " == ",
	ExprNotEqual:  " != ",
	ExprAdd:       " + ",
	ExprSub:       " - ",
	ExprMul:       " * ",
	ExprDiv:       " // ",
	ExprMod:       " % ",
	ExprAssign:    " = ",
}

// Translate renders e as Python source. e must have been resolved and type
// checked; nothing is validated here.
func (e *Expr) Translate(indent string) string {
	return defaultTranslator.expr(e, indent)
}

func (tr translator) expr(e *Expr, indent string) string {
	if e == nil {
		return ""
	}

	switch e.Kind {
	case ExprNot:
		return "not " + tr.operand(e.Left, precNot, indent)
	case ExprIncrement:
		return tr.expr(e.Left, indent) + " += 1"
	case ExprDecrement:
		return tr.expr(e.Left, indent) + " -= 1"
	case ExprArg:
		parts := []string{}
		for _, arg := range argList(e) {
			parts = append(parts, tr.expr(arg, indent))
		}
		return strings.Join(parts, ", ")
	case ExprCall:
		return tr.operand(e.Left, precPostfix, indent) + "(" + tr.expr(e.Right, indent) + ")"
	case ExprSubscript:
		return tr.operand(e.Left, precPostfix, indent) + "[" + tr.expr(e.Right, indent) + "]"
	case ExprAssign:
		return tr.expr(e.Left, indent) + " = " + tr.expr(e.Right, indent)
	case ExprName:
		return e.Name
	case ExprInt:
		return strconv.FormatInt(e.Int, 10)
	case ExprStr:
		return strconv.Quote(e.Str)
	}

	op, ok := binaryOperators[e.Kind]
	if !ok {
		return ""
	}
	prec := e.precedence()
	// Left-associative: an equal-precedence operand needs parentheses only
	// on the right. Python chains comparisons, so those need them on both
	// sides.
	leftMin, rightMin := prec, prec+1
	if prec == precCompare {
		leftMin = prec + 1
	}
	return tr.operand(e.Left, leftMin, indent) + op + tr.operand(e.Right, rightMin, indent)
}

// operand renders e, parenthesized when it binds looser than min.
func (tr translator) operand(e *Expr, min int, indent string) string {
	text := tr.expr(e, indent)
	if e != nil && e.precedence() < min {
		return "(" + text + ")"
	}
	return text
}

// Translate renders s with indent as its leading indentation. The result
// has no trailing newline.
func (s *Stmt) Translate(indent string) string {
	return defaultTranslator.stmt(s, indent)
}

func (tr translator) stmt(s *Stmt, indent string) string {
	inner := indent + tr.unit

	switch s.Kind {
	case StmtDecl:
		return indent + tr.decl(s.Decl, indent)

	case StmtExpr:
		return indent + tr.expr(s.Expr, indent)

	case StmtPrint:
		return indent + "print(" + tr.expr(s.Expr, indent) + ")"

	case StmtReturn:
		if s.Expr == nil {
			return indent + "return"
		}
		return indent + "return " + tr.expr(s.Expr, indent)

	case StmtIf:
		result := indent + "if " + tr.expr(s.Expr, indent) + ":\n" + tr.body(s.Body, inner)
		if len(s.Else) > 0 {
			result += "\n" + indent + "else:\n" + tr.body(s.Else, inner)
		}
		return result

	case StmtFor:
		// The step is emitted once, after the body, at the body's
		// indentation.
		result := indent + tr.expr(s.Init, indent) + "\n"
		result += indent + "while " + tr.expr(s.Expr, indent) + ":\n"
		result += tr.body(s.Body, inner) + "\n"
		result += inner + tr.expr(s.Step, indent)
		return result

	case StmtBlock:
		// Python has no bare nested block, so the statements stay at the
		// enclosing indentation instead of one level deeper.
		return tr.body(s.Body, indent)

	default:
		return ""
	}
}

// Translate renders d without leading indentation; nested bodies are
// indented relative to indent.
func (d *Decl) Translate(indent string) string {
	return defaultTranslator.decl(d, indent)
}

func (tr translator) decl(d *Decl, indent string) string {
	switch d.Kind {
	case DeclVar:
		result := d.Name + " : " + d.Type.Translate()
		if d.Init != nil {
			result += " = " + tr.expr(d.Init, indent)
		}
		return result

	case DeclFunc:
		var params []Param
		var ret *Datatype
		if d.Type != nil && d.Type.Kind == TypeFunction {
			params, ret = d.Type.Params, d.Type.Return
		}
		return "def " + d.Name + "(" + translateParams(params) + ") -> " + ret.Translate() + ":\n" +
			tr.body(d.Body, indent+tr.unit)

	default:
		return ""
	}
}

// Translate renders every statement of b at indent, one per line.
func (b Body) Translate(indent string) string {
	return defaultTranslator.body(b, indent)
}

func (tr translator) body(b Body, indent string) string {
	if len(b) == 0 {
		return indent + "pass"
	}
	lines := make([]string, len(b))
	for i, s := range b {
		lines[i] = tr.stmt(s, indent)
	}
	return strings.Join(lines, "\n")
}
