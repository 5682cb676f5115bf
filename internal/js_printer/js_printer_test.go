package js_printer

import (
	"fmt"
	"math"
	"testing"

	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/test"
)

func id(name string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EIdentifier{Name: name}}
}

func num(value float64) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ENumber{Value: value}}
}

func str(value string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EString{Value: value}}
}

func verbatim(text string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EVerbatim{Code: js_ast.VerbatimText(text)}}
}

func unary(op js_ast.OpCode, value js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EUnary{Op: op, Value: value}}
}

func binary(op js_ast.OpCode, left js_ast.Expr, right js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
}

func dot(target js_ast.Expr, name string) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EDot{Target: target, Name: name}}
}

func index(target js_ast.Expr, value js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EIndex{Target: target, Index: value}}
}

func arrow(arg string, stmts ...js_ast.Stmt) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EArrow{
		Args: []js_ast.Arg{{Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Name: arg}}}},
		Body: js_ast.FnBody{Stmts: stmts},
	}}
}

func call(target js_ast.Expr, args ...js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.ECall{Target: target, Args: args}}
}

func exprStmt(value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SExpr{Value: value}}
}

func local(kind js_ast.LocalKind, name string, value *js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SLocal{Kind: kind, Decls: []js_ast.Decl{{
		Binding:    js_ast.Binding{Data: &js_ast.BIdentifier{Name: name}},
		ValueOrNil: value,
	}}}}
}

func expectPrintedCommon(t *testing.T, name string, tree js_ast.AST, expected string, options Options) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		js := Print(tree, options).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, name string, stmts []js_ast.Stmt, expected string) {
	t.Helper()
	expectPrintedCommon(t, name, js_ast.AST{Stmts: stmts}, expected, Options{})
}

func expectPrintedMinify(t *testing.T, name string, stmts []js_ast.Stmt, expected string) {
	t.Helper()
	expectPrintedCommon(t, name+" [minified]", js_ast.AST{Stmts: stmts}, expected, Options{
		MinifyWhitespace: true,
	})
}

// Prints "x = <value>;"
func expectPrintedAssign(t *testing.T, value js_ast.Expr, expected string, expectedMinify string) {
	t.Helper()
	stmts := []js_ast.Stmt{js_ast.AssignStmt(id("x"), value)}
	expectPrinted(t, expected, stmts, "x = "+expected+";\n")
	expectPrintedMinify(t, expected, stmts, "x="+expectedMinify+";")
}

func expectPrintedNumber(t *testing.T, value float64, expected string, expectedMinify string) {
	t.Helper()
	expectPrintedAssign(t, num(value), expected, expectedMinify)
}

func TestNumber(t *testing.T) {
	// Check "1eN"
	expectPrintedNumber(t, 1e-100, "1e-100", "1e-100")
	expectPrintedNumber(t, 1e-4, "1e-4", "1e-4")
	expectPrintedNumber(t, 1e-3, "1e-3", ".001")
	expectPrintedNumber(t, 1e-2, "0.01", ".01")
	expectPrintedNumber(t, 1e-1, "0.1", ".1")
	expectPrintedNumber(t, 1e0, "1", "1")
	expectPrintedNumber(t, 1e1, "10", "10")
	expectPrintedNumber(t, 1e2, "100", "100")
	expectPrintedNumber(t, 1e3, "1e3", "1e3")
	expectPrintedNumber(t, 1e4, "1e4", "1e4")
	expectPrintedNumber(t, 1e100, "1e100", "1e100")

	// Check "12eN"
	expectPrintedNumber(t, 12e-100, "12e-100", "12e-100")
	expectPrintedNumber(t, 12e-5, "12e-5", "12e-5")
	expectPrintedNumber(t, 12e-4, "12e-4", ".0012")
	expectPrintedNumber(t, 12e-3, "0.012", ".012")
	expectPrintedNumber(t, 12e-1, "1.2", "1.2")
	expectPrintedNumber(t, 12e1, "120", "120")
	expectPrintedNumber(t, 12e2, "1200", "1200")
	expectPrintedNumber(t, 12e3, "12e3", "12e3")
	expectPrintedNumber(t, 12e100, "12e100", "12e100")

	// Check cases for "A.BeX" => "ABeY" simplification
	expectPrintedNumber(t, 123456789, "123456789", "123456789")
	expectPrintedNumber(t, 1000000000123456789, "1000000000123456800", "1000000000123456800")
	expectPrintedNumber(t, 10000000000123456789, "10000000000123458e3", "10000000000123458e3")

	// int32
	expectPrintedNumber(t, 2147483647, "2147483647", "2147483647")
	expectPrintedNumber(t, -2147483648, "-2147483648", "-2147483648")

	// uint64
	expectPrintedNumber(t, 18446744073709551616, "18446744073709552e3", "18446744073709552e3")
	expectPrintedNumber(t, -18446744073709551616, "-18446744073709552e3", "-18446744073709552e3")
}

func TestInfinity(t *testing.T) {
	expectPrintedNumber(t, math.NaN(), "NaN", "NaN")
	expectPrintedNumber(t, math.Inf(1), "Infinity", "Infinity")
	expectPrintedNumber(t, math.Inf(-1), "-Infinity", "-Infinity")

	expectPrintedAssign(t, dot(num(math.Inf(-1)), "toString"), "(-Infinity).toString", "(-Infinity).toString")
	expectPrintedAssign(t, binary(js_ast.BinOpSub, id("y"), num(math.Inf(-1))), "y - -Infinity", "y- -Infinity")
}

func TestString(t *testing.T) {
	expectPrintedAssign(t, str(""), `""`, `""`)
	expectPrintedAssign(t, str("\b"), `"\b"`, `"\b"`)
	expectPrintedAssign(t, str("\f"), `"\f"`, `"\f"`)
	expectPrintedAssign(t, str("\t"), "\"\t\"", "\"\t\"")
	expectPrintedAssign(t, str("\v"), `"\v"`, `"\v"`)
	expectPrintedAssign(t, str("\n"), `"\n"`, `"\n"`)
	expectPrintedAssign(t, str("'"), `"'"`, `"'"`)
	expectPrintedAssign(t, str("\""), `'"'`, `'"'`)
	expectPrintedAssign(t, str("'\""), "`'\"`", "`'\"`")
	expectPrintedAssign(t, str("\\"), `"\\"`, `"\\"`)
	expectPrintedAssign(t, str("\x00"), `"\0"`, `"\0"`)
	expectPrintedAssign(t, str("\x00!"), `"\0!"`, `"\0!"`)
	expectPrintedAssign(t, str("\x001"), `"\x001"`, `"\x001"`)
	expectPrintedAssign(t, str("\x07"), `"\x07"`, `"\x07"`)
	expectPrintedAssign(t, str("\x1B"), `"\x1B"`, `"\x1B"`)
	expectPrintedAssign(t, str("\uABCD"), "\"\uABCD\"", "\"\uABCD\"")
	expectPrintedAssign(t, str("\U000123AB"), "\"\U000123AB\"", "\"\U000123AB\"")
	expectPrintedAssign(t, str("\u2028\u2029\uFEFF"), `"\u2028\u2029\uFEFF"`, `"\u2028\u2029\uFEFF"`)
	expectPrintedAssign(t, str("\xFF"), `"\uFFFD"`, `"\uFFFD"`)

	// "${" only needs escaping inside template literals
	expectPrintedAssign(t, str("''\"\"${"), "`''\"\"\\${`", "`''\"\"\\${`")
	expectPrintedAssign(t, str("'\"`"), `"'\"` + "`" + `"`, `"'\"` + "`" + `"`)
}

func TestAvoidSlashScript(t *testing.T) {
	expectPrintedAssign(t, str("</script>"), `"<\/script>"`, `"<\/script>"`)
	expectPrintedAssign(t, str("</SCRIPT>"), `"<\/SCRIPT>"`, `"<\/SCRIPT>"`)
	expectPrintedAssign(t, str("</scripty"), `"<\/scripty"`, `"<\/scripty"`)
	expectPrintedAssign(t, str("</scrip"), `"</scrip"`, `"</scrip"`)
	expectPrintedAssign(t, str("/script"), `"/script"`, `"/script"`)
}

func TestUnary(t *testing.T) {
	expectPrintedAssign(t, unary(js_ast.UnOpNeg, unary(js_ast.UnOpNeg, id("y"))), "- -y", "- -y")
	expectPrintedAssign(t, unary(js_ast.UnOpNeg, unary(js_ast.UnOpPreDec, id("y"))), "- --y", "- --y")
	expectPrintedAssign(t, unary(js_ast.UnOpPos, unary(js_ast.UnOpPreInc, id("y"))), "+ ++y", "+ ++y")
	expectPrintedAssign(t, unary(js_ast.UnOpNot, unary(js_ast.UnOpNot, id("y"))), "!!y", "!!y")
	expectPrintedAssign(t, unary(js_ast.UnOpTypeof, id("y")), "typeof y", "typeof y")
	expectPrintedAssign(t, unary(js_ast.UnOpVoid, num(0)), "void 0", "void 0")
	expectPrintedAssign(t, unary(js_ast.UnOpPostInc, id("y")), "y++", "y++")
	expectPrintedAssign(t, unary(js_ast.UnOpNeg, binary(js_ast.BinOpAdd, id("a"), id("b"))), "-(a + b)", "-(a+b)")
	expectPrintedAssign(t, binary(js_ast.BinOpAdd, id("a"), unary(js_ast.UnOpPos, id("b"))), "a + +b", "a+ +b")
	expectPrintedAssign(t, binary(js_ast.BinOpSub, id("a"), num(-1)), "a - -1", "a- -1")
	expectPrintedAssign(t, js_ast.Expr{Data: &js_ast.EUndefined{}}, "void 0", "void 0")
}

func TestBinary(t *testing.T) {
	a, b, c := id("a"), id("b"), id("c")

	expectPrintedAssign(t, binary(js_ast.BinOpAdd, binary(js_ast.BinOpAdd, a, b), c), "a + b + c", "a+b+c")
	expectPrintedAssign(t, binary(js_ast.BinOpAdd, a, binary(js_ast.BinOpAdd, b, c)), "a + (b + c)", "a+(b+c)")
	expectPrintedAssign(t, binary(js_ast.BinOpMul, binary(js_ast.BinOpAdd, a, b), c), "(a + b) * c", "(a+b)*c")
	expectPrintedAssign(t, binary(js_ast.BinOpPow, a, binary(js_ast.BinOpPow, b, c)), "a ** b ** c", "a**b**c")
	expectPrintedAssign(t, binary(js_ast.BinOpPow, binary(js_ast.BinOpPow, a, b), c), "(a ** b) ** c", "(a**b)**c")
	expectPrintedAssign(t, binary(js_ast.BinOpPow, unary(js_ast.UnOpNeg, a), b), "(-a) ** b", "(-a)**b")
	expectPrintedAssign(t, binary(js_ast.BinOpPow, num(-1), b), "(-1) ** b", "(-1)**b")
	expectPrintedAssign(t, binary(js_ast.BinOpIn, a, b), "a in b", "a in b")
	expectPrintedAssign(t, binary(js_ast.BinOpInstanceof, a, b), "a instanceof b", "a instanceof b")
	expectPrintedAssign(t, binary(js_ast.BinOpComma, a, b), "(a, b)", "(a,b)")

	// "??" can't be mixed with "||" or "&&" without parentheses
	expectPrintedAssign(t, binary(js_ast.BinOpNullishCoalescing, binary(js_ast.BinOpLogicalOr, a, b), c), "(a || b) ?? c", "(a||b)??c")
	expectPrintedAssign(t, binary(js_ast.BinOpNullishCoalescing, a, binary(js_ast.BinOpLogicalAnd, b, c)), "a ?? (b && c)", "a??(b&&c)")
	expectPrintedAssign(t, binary(js_ast.BinOpLogicalOr, binary(js_ast.BinOpLogicalAnd, a, b), c), "a && b || c", "a&&b||c")

	// Assignments are right-associative
	expectPrintedAssign(t, js_ast.Assign(a, js_ast.Assign(b, c)), "a = b = c", "a=b=c")
	expectPrintedAssign(t,
		binary(js_ast.BinOpLogicalOr, a, js_ast.Assign(id("a"), js_ast.Expr{Data: &js_ast.EObject{}})),
		"a || (a = {})", "a||(a={})")
}

func TestMember(t *testing.T) {
	expectPrintedAssign(t, dot(id("a"), "b"), "a.b", "a.b")
	expectPrintedAssign(t, dot(id("a"), "b c"), `a["b c"]`, `a["b c"]`)
	expectPrintedAssign(t, dot(num(1), "toString"), "1 .toString", "1 .toString")
	expectPrintedAssign(t, dot(num(1.5), "toString"), "1.5 .toString", "1.5 .toString")
	expectPrintedAssign(t, dot(num(-1), "toString"), "(-1).toString", "(-1).toString")
	expectPrintedAssign(t, dot(binary(js_ast.BinOpAdd, id("a"), id("b")), "c"), "(a + b).c", "(a+b).c")
	expectPrintedAssign(t, index(id("a"), str("b")), `a["b"]`, `a["b"]`)
	expectPrintedAssign(t, index(id("a"), js_ast.Assign(index(id("a"), str("b")), num(0))), `a[a["b"] = 0]`, `a[a["b"]=0]`)
	expectPrintedAssign(t, dot(call(id("f")), "g"), "f().g", "f().g")
	expectPrintedAssign(t, call(dot(id("f"), "g"), id("a"), id("b")), "f.g(a, b)", "f.g(a,b)")
}

func TestArrow(t *testing.T) {
	fn := arrow("y", exprStmt(id("y")))
	expectPrintedAssign(t, fn, "(y) => {\n  y;\n}", "y=>{y}")
	expectPrintedAssign(t, call(fn, id("z")), "((y) => {\n  y;\n})(z)", "(y=>{y})(z)")

	ret := id("y")
	short := js_ast.Expr{Data: &js_ast.EArrow{
		Args:       []js_ast.Arg{{Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Name: "y"}}}},
		Body:       js_ast.FnBody{Stmts: []js_ast.Stmt{{Data: &js_ast.SReturn{ValueOrNil: &ret}}}},
		PreferExpr: true,
	}}
	expectPrintedAssign(t, short, "(y) => y", "y=>y")

	one := num(1)
	withDefault := js_ast.Expr{Data: &js_ast.EArrow{
		Args: []js_ast.Arg{{Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Name: "y"}}, Default: &one}},
	}}
	expectPrintedAssign(t, withDefault, "(y = 1) => {\n}", "(y=1)=>{}")

	// Objects can't start an arrow expression body
	obj := js_ast.Expr{Data: &js_ast.EObject{}}
	returnsObject := js_ast.Expr{Data: &js_ast.EArrow{
		Body:       js_ast.FnBody{Stmts: []js_ast.Stmt{{Data: &js_ast.SReturn{ValueOrNil: &obj}}}},
		PreferExpr: true,
	}}
	expectPrintedAssign(t, returnsObject, "() => ({})", "()=>({})")
}

func TestLiterals(t *testing.T) {
	expectPrintedAssign(t, js_ast.Expr{Data: &js_ast.EBoolean{Value: true}}, "true", "true")
	expectPrintedAssign(t, js_ast.Expr{Data: &js_ast.EBoolean{Value: false}}, "false", "false")
	expectPrintedAssign(t, js_ast.Expr{Data: &js_ast.ENull{}}, "null", "null")
	expectPrintedAssign(t, js_ast.Expr{Data: &js_ast.EThis{}}, "this", "this")
	expectPrintedAssign(t, js_ast.Expr{Data: &js_ast.EBigInt{Value: "123"}}, "123n", "123n")
	expectPrintedAssign(t, js_ast.Expr{Data: &js_ast.EArray{Items: []js_ast.Expr{num(1), str("x")}}}, `[1, "x"]`, `[1,"x"]`)

	// Objects at the start of a statement must be wrapped
	expectPrinted(t, "object statement", []js_ast.Stmt{exprStmt(js_ast.Expr{Data: &js_ast.EObject{}})}, "({});\n")
}

func TestVerbatimExpr(t *testing.T) {
	expectPrintedAssign(t, verbatim("a + b"), "a + b", "a + b")
	expectPrintedAssign(t, binary(js_ast.BinOpMul, verbatim("a + b"), id("c")), "(a + b) * c", "(a + b)*c")
	expectPrintedAssign(t, unary(js_ast.UnOpNeg, verbatim("-a")), "-(-a)", "-(-a)")
	expectPrintedAssign(t, binary(js_ast.BinOpSub, id("a"), verbatim("-1")), "a - (-1)", "a-(-1)")
	expectPrintedAssign(t, call(verbatim("f")), "(f)()", "(f)()")
}

func TestImport(t *testing.T) {
	path := js_ast.ImportPath{Text: "path"}

	expectPrinted(t, "import path", []js_ast.Stmt{{Data: &js_ast.SImport{Path: path}}}, "import \"path\";\n")
	expectPrintedMinify(t, "import path", []js_ast.Stmt{{Data: &js_ast.SImport{Path: path}}}, "import\"path\";")

	empty := []js_ast.ImportItem{}
	expectPrinted(t, "import {}", []js_ast.Stmt{{Data: &js_ast.SImport{Items: &empty, Path: path, IsSingleLine: true}}},
		"import {} from \"path\";\n")

	items := []js_ast.ImportItem{
		{Kind: js_ast.ImportDefault, Name: js_ast.LocRef{Name: "def"}},
		{Kind: js_ast.ImportNamed, Alias: "a", Name: js_ast.LocRef{Name: "a"}},
		{Kind: js_ast.ImportNamed, Alias: "b", Name: js_ast.LocRef{Name: "c"}},
		{Kind: js_ast.ImportNamed, Alias: "not an identifier", Name: js_ast.LocRef{Name: "d"}},
	}
	stmts := []js_ast.Stmt{{Data: &js_ast.SImport{Items: &items, Path: path, IsSingleLine: true}}}
	expectPrinted(t, "import default and named", stmts,
		"import def, { a, b as c, \"not an identifier\" as d } from \"path\";\n")
	expectPrintedMinify(t, "import default and named", stmts,
		"import def,{a,b as c,\"not an identifier\"as d}from\"path\";")

	star := []js_ast.ImportItem{
		{Kind: js_ast.ImportDefault, Name: js_ast.LocRef{Name: "def"}},
		{Kind: js_ast.ImportStar, Name: js_ast.LocRef{Name: "ns"}},
	}
	expectPrinted(t, "import default and star", []js_ast.Stmt{{Data: &js_ast.SImport{Items: &star, Path: path}}},
		"import def, * as ns from \"path\";\n")

	multiLine := []js_ast.ImportItem{
		{Kind: js_ast.ImportNamed, Alias: "a", Name: js_ast.LocRef{Name: "a"}},
		{Kind: js_ast.ImportNamed, Alias: "b", Name: js_ast.LocRef{Name: "b"}},
	}
	expectPrinted(t, "import multi-line", []js_ast.Stmt{{Data: &js_ast.SImport{Items: &multiLine, Path: path}}},
		"import {\n  a,\n  b\n} from \"path\";\n")
}

func TestExport(t *testing.T) {
	path := js_ast.ImportPath{Text: "path"}

	expectPrinted(t, "export {}", []js_ast.Stmt{{Data: &js_ast.SExportClause{Items: []js_ast.ClauseItem{}, IsSingleLine: true}}},
		"export {};\n")
	expectPrintedMinify(t, "export {}", []js_ast.Stmt{{Data: &js_ast.SExportClause{Items: []js_ast.ClauseItem{}, IsSingleLine: true}}},
		"export{};")

	clause := []js_ast.Stmt{{Data: &js_ast.SExportClause{
		Items: []js_ast.ClauseItem{
			{Alias: "a", Name: js_ast.LocRef{Name: "a"}},
			{Alias: "c", Name: js_ast.LocRef{Name: "b"}},
			{Alias: "default", Name: js_ast.LocRef{Name: "d"}},
		},
		IsSingleLine: true,
	}}}
	expectPrinted(t, "export clause", clause, "export { a, b as c, d as default };\n")
	expectPrintedMinify(t, "export clause", clause, "export{a,b as c,d as default};")

	from := []js_ast.Stmt{{Data: &js_ast.SExportClause{
		Items:        []js_ast.ClauseItem{{Alias: "x y", Name: js_ast.LocRef{Name: "default"}}},
		PathOrNil:    &path,
		IsSingleLine: true,
	}}}
	expectPrinted(t, "export from", from, "export { default as \"x y\" } from \"path\";\n")

	expectPrinted(t, "export star", []js_ast.Stmt{{Data: &js_ast.SExportStar{Path: path}}},
		"export * from \"path\";\n")
	expectPrinted(t, "export star as", []js_ast.Stmt{{Data: &js_ast.SExportStar{Alias: &js_ast.LocRef{Name: "ns"}, Path: path}}},
		"export * as ns from \"path\";\n")
	expectPrintedMinify(t, "export star as", []js_ast.Stmt{{Data: &js_ast.SExportStar{Alias: &js_ast.LocRef{Name: "ns"}, Path: path}}},
		"export*as ns from\"path\";")

	value := id("foo")
	expectPrinted(t, "export default expr", []js_ast.Stmt{{Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Expr: &value}}}},
		"export default foo;\n")

	fn := js_ast.Stmt{Data: &js_ast.SFunction{Code: js_ast.VerbatimText("function () {}")}}
	expectPrinted(t, "export default function", []js_ast.Stmt{{Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &fn}}}},
		"export default function () {}\n")

	decl := local(js_ast.LocalVar, "ns", nil)
	expectPrinted(t, "export var", []js_ast.Stmt{{Data: &js_ast.SExportClause{DeclOrNil: &decl}}},
		"export var ns;\n")

	class := js_ast.Stmt{Data: &js_ast.SClass{Name: &js_ast.LocRef{Name: "Foo"}, Code: js_ast.VerbatimText("class Foo {}")}}
	expectPrinted(t, "export class", []js_ast.Stmt{{Data: &js_ast.SExportClause{DeclOrNil: &class}}},
		"export class Foo {}\n")

	// Exports of declarations without runtime code print nothing
	iface := js_ast.Stmt{Data: &js_ast.SInterface{Name: js_ast.LocRef{Name: "I"}}}
	enum := js_ast.Stmt{Data: &js_ast.SEnum{Name: js_ast.LocRef{Name: "E"}, IsDeclare: true}}
	expectPrinted(t, "export type only", []js_ast.Stmt{
		{Data: &js_ast.SExportClause{DeclOrNil: &iface}},
		{Data: &js_ast.SExportClause{DeclOrNil: &enum}},
	}, "")
}

func TestTypeScriptOnly(t *testing.T) {
	expectPrinted(t, "type only", []js_ast.Stmt{
		{Data: &js_ast.STypeScript{}},
		{Data: &js_ast.SInterface{Name: js_ast.LocRef{Name: "I"}}},
		{Data: &js_ast.STypeAlias{Name: js_ast.LocRef{Name: "T"}}},
		{Data: &js_ast.SEnum{Name: js_ast.LocRef{Name: "E"}, IsDeclare: true}},
		{Data: &js_ast.SNamespace{Name: js_ast.LocRef{Name: "N"}, IsDeclare: true}},
		{Data: &js_ast.SLocal{Decls: []js_ast.Decl{{Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Name: "x"}}}}, IsDeclare: true}},
		{Data: &js_ast.STSImportEquals{Name: js_ast.LocRef{Name: "X"}, Kind: js_ast.KindType}},
	}, "")
}

func TestUnloweredPanics(t *testing.T) {
	for _, stmt := range []js_ast.Stmt{
		{Data: &js_ast.SEnum{Name: js_ast.LocRef{Name: "E"}}},
		{Data: &js_ast.SNamespace{Name: js_ast.LocRef{Name: "N"}}},
		{Data: &js_ast.STSImportEquals{Name: js_ast.LocRef{Name: "X"}}},
	} {
		t.Run(fmt.Sprintf("%T", stmt.Data), func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("Expected a panic")
				}
			}()
			Print(js_ast.AST{Stmts: []js_ast.Stmt{stmt}}, Options{})
		})
	}
}

func TestEnumClosure(t *testing.T) {
	zero := num(0)
	closure := call(
		arrow("Foo",
			local(js_ast.LocalConst, "X", &zero),
			exprStmt(js_ast.Assign(index(id("Foo"), js_ast.Assign(index(id("Foo"), str("X")), id("X"))), str("X"))),
			js_ast.Stmt{Data: &js_ast.SReturn{ValueOrNil: &js_ast.Expr{Data: &js_ast.EIdentifier{Name: "Foo"}}}},
		),
		binary(js_ast.BinOpLogicalOr, id("Foo"), js_ast.Expr{Data: &js_ast.EObject{}}),
	)
	stmts := []js_ast.Stmt{local(js_ast.LocalVar, "Foo", &closure)}

	expectPrinted(t, "enum closure", stmts, `var Foo = ((Foo) => {
  const X = 0;
  Foo[Foo["X"] = X] = "X";
  return Foo;
})(Foo || {});
`)
	expectPrintedMinify(t, "enum closure", stmts, `var Foo=(Foo=>{const X=0;Foo[Foo["X"]=X]="X";return Foo})(Foo||{});`)
}

func TestVerbatim(t *testing.T) {
	one := num(1)
	nested := local(js_ast.LocalVar, "E", &one)
	fn := js_ast.Stmt{Data: &js_ast.SFunction{Code: js_ast.Verbatim{Parts: []js_ast.VerbatimPart{
		{Text: "function f() {\n  "},
		{Stmt: &nested},
		{Text: "\n  return E;\n}"},
	}}}}
	expectPrinted(t, "nested statement", []js_ast.Stmt{fn}, "function f() {\n  var E = 1;\n  return E;\n}\n")
	expectPrintedMinify(t, "nested statement", []js_ast.Stmt{fn}, "function f() {\n  var E=1;\n  return E;\n}")

	// Nested statements that span several lines are indented to match
	closure := call(arrow("E", exprStmt(id("E"))), id("E"))
	multiLine := local(js_ast.LocalVar, "E", &closure)
	second := exprStmt(call(id("g")))
	fn = js_ast.Stmt{Data: &js_ast.SFunction{Code: js_ast.Verbatim{Parts: []js_ast.VerbatimPart{
		{Text: "function f() {\n    "},
		{Stmt: &multiLine},
		{Stmt: &second},
		{Text: "\n}"},
	}}}}
	expectPrinted(t, "nested multi-line statement", []js_ast.Stmt{fn},
		"function f() {\n    var E = ((E) => {\n      E;\n    })(E);\n    g();\n}\n")

	// Verbatim statements are indented like any other statement
	stmts := []js_ast.Stmt{exprStmt(call(arrow("ns", js_ast.Stmt{Data: &js_ast.SVerbatim{Code: js_ast.VerbatimText("if (x) y();")}})))}
	expectPrinted(t, "verbatim statement", stmts, "((ns) => {\n  if (x) y();\n})();\n")

	// Minified verbatim statements that could continue need a semicolon
	stmts = []js_ast.Stmt{
		{Data: &js_ast.SVerbatim{Code: js_ast.VerbatimText("if (x) y()")}},
		{Data: &js_ast.SVerbatim{Code: js_ast.VerbatimText("for (;;) {}")}},
		{Data: &js_ast.SVerbatim{Code: js_ast.VerbatimText("z()")}},
	}
	expectPrintedMinify(t, "verbatim statements", stmts, "if (x) y();for (;;) {}z();")

	// Destructuring keeps its binding as source text
	value := verbatim("foo()")
	destructure := js_ast.Stmt{Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: []js_ast.Decl{{
		Binding:    js_ast.Binding{Data: &js_ast.BVerbatim{Code: js_ast.VerbatimText("{ a, b }"), Names: []string{"a", "b"}}},
		ValueOrNil: &value,
	}}}}
	expectPrinted(t, "destructuring", []js_ast.Stmt{destructure}, "const { a, b } = foo();\n")
	expectPrintedMinify(t, "destructuring", []js_ast.Stmt{destructure}, "const{ a, b }=foo();")
}

func TestHashbang(t *testing.T) {
	tree := js_ast.AST{Hashbang: "#!/usr/bin/env node", Stmts: []js_ast.Stmt{exprStmt(id("x"))}}
	expectPrintedCommon(t, "hashbang", tree, "#!/usr/bin/env node\nx;\n", Options{})
	expectPrintedCommon(t, "hashbang [minified]", tree, "#!/usr/bin/env node\nx;", Options{MinifyWhitespace: true})
}

func TestIndent(t *testing.T) {
	stmts := []js_ast.Stmt{exprStmt(id("x")), {Data: &js_ast.SEmpty{}}}
	expectPrintedCommon(t, "indent", js_ast.AST{Stmts: stmts}, "    x;\n    ;\n", Options{Indent: 2})
}
