package ts_transform

import (
	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
)

type namespaceScope struct {
	// This is the closure argument. It's the namespace name unless a member
	// with the same name would shadow it.
	argName string

	// A nested namespace only declares its "let" once per body
	emittedVars map[string]bool

	// Set when the body exports a variable, which makes it a runtime namespace
	// even if the variable has no initializer
	hasExportedVars bool
}

// This turns a namespace into a closure that fills in the namespace object:
//
//	export namespace ns {
//	  export const x = 1
//	}
//
// becomes
//
//	export var ns;
//	((ns) => {
//	  const x = 1;
//	  ns.x = x;
//	})(ns || (ns = {}));
//
// Namespaces with only types in them have no runtime code at all.
func (t *Transformer) lowerNamespace(
	stmts []js_ast.Stmt, loc logger.Loc, s *js_ast.SNamespace, isExport bool, enclosing *namespaceScope,
) []js_ast.Stmt {
	name := s.Name
	inner := &namespaceScope{argName: name.Name, emittedVars: make(map[string]bool)}

	// "namespace foo { export let foo = 123 }" needs a different argument name
	for _, stmt := range s.Stmts {
		if export, ok := stmt.Data.(*js_ast.SExportClause); ok && export.DeclOrNil != nil {
			stmt = *export.DeclOrNil
		}
		for _, declared := range js_ast.DeclaredNames(stmt) {
			if declared.Name == name.Name {
				inner.argName = "_" + name.Name
			}
		}
	}

	t.namespaceArgs[name.Loc] = inner.argName

	var stmtsInsideClosure []js_ast.Stmt
	for _, stmt := range s.Stmts {
		stmtsInsideClosure = t.visitStmt(stmtsInsideClosure, stmt, inner)
	}

	if !hasRuntimeCode(stmtsInsideClosure) && !inner.hasExportedVars {
		if isExport && enclosing == nil {
			// The elision pass removes this along with any other type exports
			return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{
				DeclOrNil: &js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}},
			}})
		}
		return stmts
	}

	decls := []js_ast.Decl{{Binding: js_ast.Binding{Loc: name.Loc, Data: &js_ast.BIdentifier{Name: name.Name}}}}
	if enclosing == nil {
		// Functions and classes must come before a namespace they merge with,
		// so they already declare the name. An enum may come later, so the
		// namespace still declares it.
		mergesWithDecl := t.rootSymbolFlags(name.Name).Has(js_ast.SymbolFunction | js_ast.SymbolClass)

		if !t.emittedNamespaceVars[name.Name] && !mergesWithDecl {
			// Top-level namespace: "var"
			t.emittedNamespaceVars[name.Name] = true
			local := js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}
			if isExport {
				stmts = append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{DeclOrNil: &local}})
			} else {
				stmts = append(stmts, local)
			}
		} else if isExport && !mergesWithDecl {
			// An earlier block declared the variable without exporting it
			stmts = append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{
				Items:        []js_ast.ClauseItem{{Alias: name.Name, AliasLoc: name.Loc, Name: name}},
				IsSingleLine: true,
			}})
		}
	} else if !enclosing.emittedVars[name.Name] {
		// Nested namespace: "let"
		enclosing.emittedVars[name.Name] = true
		stmts = append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}})
	}

	var argExpr js_ast.Expr
	if isExport && enclosing != nil {
		// "name = enclosing.name || (enclosing.name = {})"
		argExpr = js_ast.Assign(
			js_ast.IdentifierExpr(name.Loc, name.Name),
			js_ast.Expr{Loc: name.Loc, Data: &js_ast.EBinary{
				Op:   js_ast.BinOpLogicalOr,
				Left: namespaceMember(enclosing, name),
				Right: js_ast.Assign(
					namespaceMember(enclosing, name),
					js_ast.Expr{Loc: name.Loc, Data: &js_ast.EObject{}},
				),
			}},
		)
	} else {
		// "name || (name = {})"
		argExpr = js_ast.Expr{Loc: name.Loc, Data: &js_ast.EBinary{
			Op:   js_ast.BinOpLogicalOr,
			Left: js_ast.IdentifierExpr(name.Loc, name.Name),
			Right: js_ast.Assign(
				js_ast.IdentifierExpr(name.Loc, name.Name),
				js_ast.Expr{Loc: name.Loc, Data: &js_ast.EObject{}},
			),
		}}
	}

	closure := js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
		Args: []js_ast.Arg{{Binding: js_ast.Binding{Loc: name.Loc, Data: &js_ast.BIdentifier{Name: inner.argName}}}},
		Body: js_ast.FnBody{Loc: loc, Stmts: stmtsInsideClosure},
	}}

	// Call the closure with the namespace object
	return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: closure,
		Args:   []js_ast.Expr{argExpr},
	}}}})
}

// Exported members are declared as locals and then copied onto the namespace
// object:
//
//	export function f() {}  =>  function f() {} ns.f = f;
func (t *Transformer) visitExportInsideNamespace(stmts []js_ast.Stmt, decl js_ast.Stmt, ns *namespaceScope) []js_ast.Stmt {
	if s, ok := decl.Data.(*js_ast.SNamespace); ok {
		if s.IsDeclare || s.IsStringName {
			return stmts
		}
		return t.lowerNamespace(stmts, decl.Loc, s, true, ns)
	}

	if js_ast.IsTypeScriptOnly(decl) {
		return stmts
	}

	if local, ok := decl.Data.(*js_ast.SLocal); ok {
		return t.visitLocalInsideNamespace(stmts, decl.Loc, local, ns)
	}

	names := js_ast.DeclaredNames(decl)
	stmts = t.visitStmt(stmts, decl, ns)
	for _, name := range names {
		stmts = append(stmts, js_ast.AssignStmt(
			namespaceMember(ns, name),
			js_ast.IdentifierExpr(name.Loc, name.Name),
		))
	}
	return stmts
}

// Exported variables are only ever properties of the namespace object. Every
// use of them was already turned into a property access by the front end.
//
//	export let x = 1, y  =>  ns.x = 1;
//
// Destructuring patterns are still declared as locals and then copied over.
func (t *Transformer) visitLocalInsideNamespace(
	stmts []js_ast.Stmt, loc logger.Loc, s *js_ast.SLocal, ns *namespaceScope,
) []js_ast.Stmt {
	ns.hasExportedVars = true
	for _, decl := range s.Decls {
		if decl.ValueOrNil != nil {
			t.visitVerbatimInExpr(decl.ValueOrNil)
		}

		switch b := decl.Binding.Data.(type) {
		case *js_ast.BIdentifier:
			if decl.ValueOrNil != nil {
				name := js_ast.LocRef{Loc: decl.Binding.Loc, Name: b.Name}
				stmts = append(stmts, js_ast.AssignStmt(namespaceMember(ns, name), *decl.ValueOrNil))
			}

		case *js_ast.BVerbatim:
			t.visitVerbatim(&b.Code)
			stmts = append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: s.Kind, Decls: []js_ast.Decl{decl}}})
			for _, name := range b.Names {
				ref := js_ast.LocRef{Loc: decl.Binding.Loc, Name: name}
				stmts = append(stmts, js_ast.AssignStmt(namespaceMember(ns, ref), js_ast.IdentifierExpr(ref.Loc, name)))
			}
		}
	}
	return stmts
}

func (t *Transformer) namespaceMemberText(member *js_ast.NamespaceMember) string {
	arg, ok := t.namespaceArgs[member.Namespace]
	if !ok {
		// The namespace body was never lowered, so the name is still a local
		return member.Name
	}
	if member.IsShorthand {
		return member.Name + ": " + arg + "." + member.Name
	}
	return arg + "." + member.Name
}

// "ns.name"
func namespaceMember(ns *namespaceScope, name js_ast.LocRef) js_ast.Expr {
	return js_ast.Expr{Loc: name.Loc, Data: &js_ast.EDot{
		Target:  js_ast.IdentifierExpr(name.Loc, ns.argName),
		Name:    name.Name,
		NameLoc: name.Loc,
	}}
}

func hasRuntimeCode(stmts []js_ast.Stmt) bool {
	for _, stmt := range stmts {
		if !js_ast.IsTypeScriptOnly(stmt) {
			return true
		}
	}
	return false
}
