package minipy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/minipy/sexy"
)

func TestSexyAllTests(t *testing.T) {
	// Find all test files in the test/ directory
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		fileName := filepath.Base(testFile)
		testName := strings.TrimSuffix(fileName, ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					runSexyTestCase(t, testFile, tc)
				})
			}
		})
	}
}

// sexyResult is everything a test case can assert on. The semantic passes
// stop at the first failure, leaving later fields empty.
type sexyResult struct {
	ast        *sexy.Node
	resolveErr error
	symbols    *Symbols
	typeErr    error
	types      []*Datatype
	python     string
}

func runSexyTestCase(t *testing.T, file string, tc sexy.TestCase) {
	var result sexyResult
	switch tc.InputType {
	case sexy.InputTypeExpr:
		e, err := ParseExpr(tc.Input)
		if err != nil {
			t.Fatalf("%s:%d: %v", file, tc.InputLine, err)
		}
		result = analyzeExpr(e)
	case sexy.InputTypeProgram:
		p, err := ParseProgram(tc.Input)
		if err != nil {
			t.Fatalf("%s:%d: %v", file, tc.InputLine, err)
		}
		result = analyzeProgram(p)
	default:
		t.Fatalf("Unknown input type: %s", tc.InputType)
	}

	for i, assertion := range tc.Assertions {
		t.Run("assertion_"+string(rune('a'+i)), func(t *testing.T) {
			where := fmt.Sprintf("%s:%d", file, assertion.Line)
			switch assertion.Type {
			case sexy.AssertionTypeAST:
				assertSexyMatch(t, where, result.ast, assertion.ParsedSexy, "root")

			case sexy.AssertionTypeSymbols:
				if result.resolveErr != nil {
					t.Fatalf("%s: unexpected resolve error: %v", where, result.resolveErr)
				}
				assertSexyMatch(t, where, result.symbols.SExpr(), assertion.ParsedSexy, "root")

			case sexy.AssertionTypeTypes:
				requireChecked(t, where, result)
				got := make([]*sexy.Node, len(result.types))
				for j, typ := range result.types {
					got[j] = typ.SExpr()
				}
				want := assertion.ParsedSexy
				if tc.InputType == sexy.InputTypeExpr {
					assertSexyMatch(t, where, got[0], want, "root")
				} else {
					assertSexyMatch(t, where, sexy.NewList(got...), want, "root")
				}

			case sexy.AssertionTypePython:
				requireChecked(t, where, result)
				be.Equal(t, strings.TrimRight(result.python, "\n"), assertion.Content)

			case sexy.AssertionTypeResolveError:
				if result.resolveErr == nil {
					t.Fatalf("%s: expected resolve error %q, got none", where, assertion.Content)
				}
				be.True(t, errors.Is(result.resolveErr, ErrUnresolvedName) ||
					errors.Is(result.resolveErr, ErrDuplicateBinding))
				be.Err(t, result.resolveErr, assertion.Content)

			case sexy.AssertionTypeTypeError:
				if result.resolveErr != nil {
					t.Fatalf("%s: unexpected resolve error: %v", where, result.resolveErr)
				}
				if result.typeErr == nil {
					t.Fatalf("%s: expected type error %q, got none", where, assertion.Content)
				}
				be.Err(t, result.typeErr, ErrTypeMismatch)
				be.Err(t, result.typeErr, assertion.Content)

			default:
				t.Fatalf("%s: unknown assertion type: %s", where, assertion.Type)
			}
		})
	}
}

func requireChecked(t *testing.T, where string, result sexyResult) {
	t.Helper()
	if result.resolveErr != nil {
		t.Fatalf("%s: unexpected resolve error: %v", where, result.resolveErr)
	}
	if result.typeErr != nil {
		t.Fatalf("%s: unexpected type error: %v", where, result.typeErr)
	}
}

// analyzeExpr runs an expression through every phase in an empty global
// scope.
func analyzeExpr(e *Expr) sexyResult {
	result := sexyResult{ast: e.SExpr()}

	st := NewSymbolTable()
	syms := NewSymbols()
	result.symbols = syms
	if err := e.ResolveNames(st, syms); err != nil {
		result.resolveErr = err
		return result
	}

	typ, err := e.TypeCheck(syms)
	if err != nil {
		result.typeErr = err
		return result
	}
	result.types = []*Datatype{typ}
	result.python = e.Translate("")
	return result
}

// analyzeProgram runs a program through every phase. Its types are those of
// the top-level expression and print statements, in order.
func analyzeProgram(p *Program) sexyResult {
	result := sexyResult{ast: p.SExpr()}

	resolved, err := p.Resolve()
	if err != nil {
		result.resolveErr = err
		return result
	}
	result.symbols = resolved.Symbols()

	checked, err := resolved.Check()
	if err != nil {
		result.typeErr = err
		return result
	}
	for _, s := range p.Body {
		if s.Kind != StmtExpr && s.Kind != StmtPrint {
			continue
		}
		typ, err := s.Expr.TypeCheck(result.symbols)
		if err != nil {
			result.typeErr = err
			return result
		}
		result.types = append(result.types, typ)
	}
	result.python = checked.Translate(TranslateOptions{})
	return result
}

// assertSexyMatch recursively matches a produced datum against the expected
// one, reporting the path of the first difference.
func assertSexyMatch(t *testing.T, where string, got, want *sexy.Node, path string) {
	t.Helper()
	if got == nil || want == nil {
		if got != want {
			t.Errorf("%s: at %s: expected %v, got %v", where, path, want, got)
		}
		return
	}

	if got.Type != want.Type {
		t.Errorf("%s: at %s: expected %s %s, got %s %s", where, path, want.Type, want, got.Type, got)
		return
	}

	if want.IsAtom() {
		if got.Text != want.Text {
			t.Errorf("%s: at %s: expected %s, got %s", where, path, want, got)
		}
		return
	}

	if len(got.Items) != len(want.Items) {
		t.Errorf("%s: at %s: expected %d items, got %d\n  expected: %s\n  got:      %s",
			where, path, len(want.Items), len(got.Items), want, got)
		return
	}
	for i := range want.Items {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		if head := want.Head(); head != "" {
			childPath = fmt.Sprintf("%s.%s[%d]", path, head, i)
		}
		assertSexyMatch(t, where, got.Items[i], want.Items[i], childPath)
	}
}
