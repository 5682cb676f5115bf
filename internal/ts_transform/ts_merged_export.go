package ts_transform

import (
	"github.com/tserase/tserase/internal/js_ast"
)

// TypeScript lets enums and namespaces be split into several declarations
// with the same name. They all build one object at run time, so only the
// first one may keep its "export":
//
//	export enum Foo { A }  =>  export enum Foo { A }
//	export enum Foo { B }  =>  enum Foo { B }
//
// This must be called on each top-level statement before it's lowered.
func (t *Transformer) TransformStatement(stmt *js_ast.Stmt) {
	s, ok := stmt.Data.(*js_ast.SExportClause)
	if !ok || s.DeclOrNil == nil || s.PathOrNil != nil || !s.Kind.IsValue() {
		return
	}

	var name string
	switch decl := s.DeclOrNil.Data.(type) {
	case *js_ast.SEnum:
		name = decl.Name.Name

	case *js_ast.SNamespace:
		// "declare module 'path' {}" can't be merged with anything
		if decl.IsStringName {
			return
		}
		name = decl.Name.Name

	default:
		return
	}

	if !t.exportNameSet[name] {
		t.exportNameSet[name] = true
		return
	}

	*stmt = *s.DeclOrNil
}
