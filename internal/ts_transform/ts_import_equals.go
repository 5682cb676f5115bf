package ts_transform

import (
	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
)

// This turns "import x = ..." into a plain variable:
//
//	import fs = require("fs")  =>  var fs = require("fs")
//	import Alias = Long.Name   =>  var Alias = Long.Name
func (t *Transformer) lowerImportEquals(loc logger.Loc, s *js_ast.STSImportEquals) js_ast.Stmt {
	var value js_ast.Expr

	if ref, ok := s.Value.Data.(*js_ast.TSExternalModuleReference); ok {
		value = js_ast.Expr{Loc: s.Value.Loc, Data: &js_ast.ECall{
			Target: js_ast.IdentifierExpr(s.Value.Loc, "require"),
			Args:   []js_ast.Expr{js_ast.StringExpr(ref.Path.Loc, ref.Path.Text)},
		}}
	} else {
		value = t.lowerModuleReference(s.Value)
	}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{
		Kind: js_ast.LocalVar,
		Decls: []js_ast.Decl{{
			Binding:    js_ast.Binding{Loc: s.Name.Loc, Data: &js_ast.BIdentifier{Name: s.Name.Name}},
			ValueOrNil: &value,
		}},
	}}
}

// "A.B.C" is parsed as "(A.B).C" so this recurses down the left side and
// builds the member accesses on the way back up
func (t *Transformer) lowerModuleReference(ref js_ast.TSModuleReference) js_ast.Expr {
	switch r := ref.Data.(type) {
	case *js_ast.TSIdentifierName:
		return js_ast.IdentifierExpr(ref.Loc, r.Name)

	case *js_ast.TSQualifiedName:
		return js_ast.Expr{Loc: ref.Loc, Data: &js_ast.EDot{
			Target:  t.lowerModuleReference(r.Left),
			Name:    r.Right,
			NameLoc: r.RightLoc,
		}}

	default:
		panic("Internal error")
	}
}
