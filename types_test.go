package minipy

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestTypesEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Datatype
		expected bool
	}{
		{
			name:     "same primitive types",
			a:        IntegerType(),
			b:        IntegerType(),
			expected: true,
		},
		{
			name:     "different primitive types",
			a:        IntegerType(),
			b:        BooleanType(),
			expected: false,
		},
		{
			name:     "char is not string",
			a:        CharacterType(),
			b:        StringType(),
			expected: false,
		},
		{
			name:     "same array types",
			a:        ArrayOf(IntegerType()),
			b:        ArrayOf(IntegerType()),
			expected: true,
		},
		{
			name:     "different array element types",
			a:        ArrayOf(IntegerType()),
			b:        ArrayOf(StringType()),
			expected: false,
		},
		{
			name:     "nested arrays",
			a:        ArrayOf(ArrayOf(CharacterType())),
			b:        ArrayOf(ArrayOf(CharacterType())),
			expected: true,
		},
		{
			name:     "array against its element",
			a:        ArrayOf(IntegerType()),
			b:        IntegerType(),
			expected: false,
		},
		{
			name:     "same function types",
			a:        FunctionOf(IntegerType(), Param{"x", IntegerType()}),
			b:        FunctionOf(IntegerType(), Param{"x", IntegerType()}),
			expected: true,
		},
		{
			name:     "different return types",
			a:        FunctionOf(IntegerType()),
			b:        FunctionOf(VoidType()),
			expected: false,
		},
		{
			name:     "different parameter counts",
			a:        FunctionOf(VoidType(), Param{"x", IntegerType()}),
			b:        FunctionOf(VoidType()),
			expected: false,
		},
		{
			name:     "different parameter types",
			a:        FunctionOf(VoidType(), Param{"x", IntegerType()}),
			b:        FunctionOf(VoidType(), Param{"x", StringType()}),
			expected: false,
		},
		{
			name:     "parameter names are compared",
			a:        FunctionOf(VoidType(), Param{"x", IntegerType()}),
			b:        FunctionOf(VoidType(), Param{"y", IntegerType()}),
			expected: false,
		},
		{
			name:     "both nil",
			a:        nil,
			b:        nil,
			expected: true,
		},
		{
			name:     "one nil",
			a:        IntegerType(),
			b:        nil,
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, TypesEqual(test.a, test.b), test.expected)
			be.Equal(t, TypesEqual(test.b, test.a), test.expected)
		})
	}
}

func TestTypeCopy(t *testing.T) {
	original := FunctionOf(ArrayOf(IntegerType()),
		Param{"xs", ArrayOf(StringType())},
		Param{"n", IntegerType()})

	c := original.Copy()
	be.True(t, c.Equal(original))

	// The copy shares no nodes with the original.
	be.True(t, c != original)
	be.True(t, c.Return != original.Return)
	be.True(t, c.Params[0].Type != original.Params[0].Type)
	be.True(t, c.Params[0].Type.Elem != original.Params[0].Type.Elem)

	c.Params[1].Type.Kind = TypeBoolean
	be.True(t, !c.Equal(original))
	be.Equal(t, original.Params[1].Type.Kind, TypeInteger)

	var missing *Datatype
	be.True(t, missing.Copy() == nil)
}

func TestTypeDestroy(t *testing.T) {
	elem := IntegerType()
	arr := ArrayOf(elem)
	arr.Destroy()

	be.Equal(t, arr.Kind, typeInvalid)
	be.True(t, arr.Elem == nil)
	be.Equal(t, elem.Kind, typeInvalid)

	fn := FunctionOf(VoidType(), Param{"x", IntegerType()})
	param := fn.Params[0].Type
	fn.Destroy()
	be.True(t, param.Kind == typeInvalid)
	be.True(t, fn.Params == nil)

	var missing *Datatype
	missing.Destroy()
}

func TestTypeTranslate(t *testing.T) {
	tests := []struct {
		typ      *Datatype
		expected string
	}{
		{VoidType(), "None"},
		{BooleanType(), "bool"},
		{CharacterType(), "str"},
		{IntegerType(), "int"},
		{StringType(), "str"},
		{ArrayOf(IntegerType()), "list[int]"},
		{ArrayOf(ArrayOf(CharacterType())), "list[list[str]]"},
		{FunctionOf(IntegerType(), Param{"x", IntegerType()}), "callable"},
		{&Datatype{}, "object"},
		{nil, "None"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			be.Equal(t, test.typ.Translate(), test.expected)
		})
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ      *Datatype
		expected string
	}{
		{VoidType(), "void"},
		{BooleanType(), "bool"},
		{CharacterType(), "char"},
		{IntegerType(), "int"},
		{StringType(), "string"},
		{ArrayOf(ArrayOf(IntegerType())), "(array (array int))"},
		{FunctionOf(VoidType()), "(function void)"},
		{FunctionOf(IntegerType(), Param{"x", IntegerType()}, Param{"s", StringType()}), "(function int (x int) (s string))"},
		{&Datatype{}, "<invalid>"},
		{nil, "<nil>"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			be.Equal(t, test.typ.String(), test.expected)
		})
	}
}

func TestTranslateParams(t *testing.T) {
	be.Equal(t, translateParams(nil), "")
	be.Equal(t, translateParams([]Param{{"x", IntegerType()}}), "x : int")
	be.Equal(t,
		translateParams([]Param{{"x", IntegerType()}, {"names", ArrayOf(StringType())}}),
		"x : int, names : list[str]")
}

func TestIsComparable(t *testing.T) {
	be.True(t, IntegerType().isComparable())
	be.True(t, BooleanType().isComparable())
	be.True(t, CharacterType().isComparable())
	be.True(t, StringType().isComparable())
	be.True(t, !VoidType().isComparable())
	be.True(t, !ArrayOf(IntegerType()).isComparable())
	be.True(t, !FunctionOf(VoidType()).isComparable())
}
