package ts_transform

import (
	"fmt"

	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
)

// This turns an enum into a closure that fills in the enum object:
//
//	enum Foo { X, Y = "y" }
//
// becomes
//
//	var Foo = ((Foo) => {
//	  const X = 0;
//	  Foo[Foo["X"] = X] = "X";
//	  const Y = "y";
//	  Foo["Y"] = Y;
//	  return Foo;
//	})(Foo || {});
//
// Passing "Foo || {}" lets several blocks of the same enum add to one object.
// Declared enums have no runtime code, so they return false.
func (t *Transformer) lowerEnum(loc logger.Loc, s *js_ast.SEnum) (js_ast.Stmt, bool) {
	if s.IsDeclare {
		return js_ast.Stmt{}, false
	}

	name := s.Name
	stmtsInsideClosure := t.lowerEnumMembers(s.Values, name)

	closure := js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
		Args: []js_ast.Arg{{Binding: js_ast.Binding{Loc: name.Loc, Data: &js_ast.BIdentifier{Name: name.Name}}}},
		Body: js_ast.FnBody{Loc: loc, Stmts: stmtsInsideClosure},
	}}

	// "Foo || {}"
	argExpr := js_ast.Expr{Loc: name.Loc, Data: &js_ast.EBinary{
		Op:    js_ast.BinOpLogicalOr,
		Left:  js_ast.IdentifierExpr(name.Loc, name.Name),
		Right: js_ast.Expr{Loc: name.Loc, Data: &js_ast.EObject{}},
	}}

	call := js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: closure,
		Args:   []js_ast.Expr{argExpr},
	}}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{
		Kind: js_ast.LocalVar,
		Decls: []js_ast.Decl{{
			Binding:    js_ast.Binding{Loc: name.Loc, Data: &js_ast.BIdentifier{Name: name.Name}},
			ValueOrNil: &call,
		}},
	}}, true
}

// Each member without an initializer continues from the previous member, so
// this carries the "next value" expression from one member to the next. It
// starts as "0" and afterward is always "1 + <previous member>".
func (t *Transformer) lowerEnumMembers(values []js_ast.EnumValue, enumName js_ast.LocRef) []js_ast.Stmt {
	nextValue := js_ast.Expr{Loc: enumName.Loc, Data: &js_ast.ENumber{Value: 0}}
	stmts := make([]js_ast.Stmt, 0, len(values)*2+1)

	for _, value := range values {
		var memberName string
		switch value.NameKind {
		case js_ast.EnumNameIdentifier, js_ast.EnumNameString:
			memberName = value.Name
		case js_ast.EnumNameComputed:
			panic(fmt.Sprintf("Internal error: computed enum member name in %q", enumName.Name))
		case js_ast.EnumNameNumber:
			panic(fmt.Sprintf("Internal error: numeric enum member name %s in %q", value.Name, enumName.Name))
		default:
			panic("Internal error")
		}

		init := nextValue
		if value.ValueOrNil != nil {
			init = *value.ValueOrNil
		}

		// String members don't get a reverse mapping
		_, isString := init.Data.(*js_ast.EString)

		// "Foo["x"]"
		selfRef := t.enumMember(enumName, memberName, value.Loc)

		// Members that can be a local variable are declared as one so that
		// later initializers can refer to them by name. A member with the same
		// name as the enum would shadow the closure argument, so it is only
		// ever accessed as a property.
		if js_ast.IsValidBindingName(memberName) && memberName != enumName.Name {
			constValue := init
			stmts = append(stmts, js_ast.Stmt{Loc: value.Loc, Data: &js_ast.SLocal{
				Kind: js_ast.LocalConst,
				Decls: []js_ast.Decl{{
					Binding:    js_ast.Binding{Loc: value.Loc, Data: &js_ast.BIdentifier{Name: memberName}},
					ValueOrNil: &constValue,
				}},
			}})
			selfRef = js_ast.IdentifierExpr(value.Loc, memberName)
			init = js_ast.IdentifierExpr(value.Loc, memberName)
		}

		// "Foo["x"] = init"
		assign := js_ast.Assign(t.enumMember(enumName, memberName, value.Loc), init)

		// "Foo[Foo["x"] = init] = "x""
		if !isString {
			assign = js_ast.Assign(
				js_ast.Expr{Loc: value.Loc, Data: &js_ast.EIndex{
					Target: js_ast.IdentifierExpr(enumName.Loc, enumName.Name),
					Index:  assign,
				}},
				js_ast.StringExpr(value.Loc, memberName),
			)
		}

		stmts = append(stmts, js_ast.Stmt{Loc: value.Loc, Data: &js_ast.SExpr{Value: assign}})

		// "1 + Foo["x"]"
		nextValue = js_ast.Expr{Loc: value.Loc, Data: &js_ast.EBinary{
			Op:    js_ast.BinOpAdd,
			Left:  js_ast.Expr{Loc: value.Loc, Data: &js_ast.ENumber{Value: 1}},
			Right: selfRef,
		}}
	}

	// "return Foo;"
	returnValue := js_ast.IdentifierExpr(enumName.Loc, enumName.Name)
	stmts = append(stmts, js_ast.Stmt{Loc: enumName.Loc, Data: &js_ast.SReturn{ValueOrNil: &returnValue}})
	return stmts
}

func (t *Transformer) enumMember(enumName js_ast.LocRef, memberName string, loc logger.Loc) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{
		Target: js_ast.IdentifierExpr(enumName.Loc, enumName.Name),
		Index:  js_ast.StringExpr(loc, memberName),
	}}
}
