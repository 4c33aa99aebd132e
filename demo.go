package minipy

// DemoProgram builds the reference program
//
//	int accum_from_zero_to(int x) {
//	    int i;
//	    int total = 0;
//	    for (i = 0; i < x; i++) { total = total + i; }
//	    return total;
//	}
//	int main() { int result = accum_from_zero_to(10); print result; return 0; }
//	main();
//
// through the node constructors.
func DemoProgram() *Program {
	accum := NewFuncDecl("accum_from_zero_to",
		FunctionOf(IntegerType(), Param{Name: "x", Type: IntegerType()}),
		Body{
			NewDeclStmt(NewVarDecl("i", IntegerType(), nil)),
			NewDeclStmt(NewVarDecl("total", IntegerType(), NewInt(0))),
			NewFor(
				NewAssign(NewName("i"), NewInt(0)),
				NewLess(NewName("i"), NewName("x")),
				NewIncrement(NewName("i")),
				Body{
					NewExprStmt(NewAssign(NewName("total"), NewAdd(NewName("total"), NewName("i")))),
				},
			),
			NewReturn(NewName("total")),
		})

	main := NewFuncDecl("main",
		FunctionOf(IntegerType()),
		Body{
			NewDeclStmt(NewVarDecl("result", IntegerType(),
				NewCall(NewName("accum_from_zero_to"), Args(NewInt(10))))),
			NewPrint(NewName("result")),
			NewReturn(NewInt(0)),
		})

	return NewProgram(
		NewDeclStmt(accum),
		NewDeclStmt(main),
		NewExprStmt(NewCall(NewName("main"), nil)),
	)
}
