package ts_transform

import (
	"sort"

	"github.com/tserase/tserase/internal/js_ast"
)

// This removes the top-level imports and exports that only refer to types.
// If that removes every import and export in the file, an "export {}" is
// added instead so that other tools still see the file as an ES module.
//
// This runs in two passes. The first pass decides which re-exported imports
// are values and which are types. The second pass then filters the import and
// export specifiers using that information. The first pass never looks at
// imports, so the passes must not be merged.
//
// This must be called once after every statement has been transformed.
func (t *Transformer) TransformProgram(tree *js_ast.AST) {
	exportNames, exportTypeNames := t.classifyExportNames(tree.Stmts)

	importTypeNames := make(map[string]bool)
	deleteIndexes := []int{}
	importLen := 0

	for index, stmt := range tree.Stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SExportClause:
			importLen++
			if t.filterExportClause(s, importTypeNames) {
				deleteIndexes = append(deleteIndexes, index)
			}

		case *js_ast.SImport:
			importLen++
			if t.filterImport(s, importTypeNames, exportNames, exportTypeNames) {
				deleteIndexes = append(deleteIndexes, index)
			}

		case *js_ast.SExportDefault, *js_ast.SExportStar:
			importLen++
		}
	}

	// Remove empty imports and exports, starting from the end so that the
	// remaining indexes stay valid
	sort.Sort(sort.Reverse(sort.IntSlice(deleteIndexes)))
	for _, index := range deleteIndexes {
		tree.Stmts = append(tree.Stmts[:index], tree.Stmts[index+1:]...)
	}

	// Mark the file as ESM
	if importLen > 0 && importLen == len(deleteIndexes) {
		tree.Stmts = append(tree.Stmts, js_ast.Stmt{Data: &js_ast.SExportClause{
			Items:        []js_ast.ClauseItem{},
			IsSingleLine: true,
		}})
	}
}

// Only names that are imported and not redeclared are classified. Anything
// else is a local declaration and is never removed here.
func (t *Transformer) classifyExportNames(stmts []js_ast.Stmt) (exportNames map[string]bool, exportTypeNames map[string]bool) {
	exportNames = make(map[string]bool)
	exportTypeNames = make(map[string]bool)

	classify := func(name string, isValue bool) {
		if !t.isImportBindingOnly(name) {
			return
		}
		if isValue {
			exportNames[name] = true
		} else {
			exportTypeNames[name] = true
		}
	}

	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SExportClause:
			for _, item := range s.Items {
				classify(item.Alias, s.Kind.IsValue() && item.Kind.IsValue())
			}

		case *js_ast.SExportDefault:
			// There is no "export type default"
			if name, ok := s.IdentifierName(); ok {
				classify(name, true)
			}

		case *js_ast.SExportStar:
			// "export * as ns from 'path'" has no specifier of its own, so
			// the declaration's kind stands in for the specifier's kind
			if s.Alias != nil {
				classify(s.Alias.Name, s.Kind.IsValue())
			}
		}
	}
	return
}

// Returns true if the whole export declaration should be removed
func (t *Transformer) filterExportClause(s *js_ast.SExportClause, importTypeNames map[string]bool) bool {
	items := s.Items[:0]
	for _, item := range s.Items {
		if item.Kind.IsType() || importTypeNames[item.Alias] {
			continue
		}
		items = append(items, item)
	}
	s.Items = items

	if s.Kind.IsType() || t.options.VerbatimModuleSyntax {
		return true
	}

	// A declaration is only removed if it has no runtime code
	hasNoRuntimeDecl := s.DeclOrNil == nil
	if s.DeclOrNil != nil {
		switch s.DeclOrNil.Data.(type) {
		case *js_ast.SInterface, *js_ast.STypeAlias, *js_ast.STypeScript:
			hasNoRuntimeDecl = true
		default:
			hasNoRuntimeDecl = js_ast.IsDeclare(*s.DeclOrNil)
		}
	}
	return hasNoRuntimeDecl && len(s.Items) == 0
}

// Returns true if the whole import declaration should be removed
func (t *Transformer) filterImport(
	s *js_ast.SImport, importTypeNames map[string]bool, exportNames map[string]bool, exportTypeNames map[string]bool,
) bool {
	// "import 'path'" is never removed. Neither is "import {} from 'path'".
	if s.Items == nil {
		return s.Kind.IsType()
	}
	wasEmpty := len(*s.Items) == 0

	items := (*s.Items)[:0]
	for _, item := range *s.Items {
		name := item.Name.Name

		// Default and namespace imports are always kept in this mode
		if t.options.VerbatimModuleSyntax && item.Kind != js_ast.ImportNamed {
			items = append(items, item)
			continue
		}

		if s.Kind.IsType() || item.ImportKind.IsType() {
			importTypeNames[name] = true
			continue
		}

		// This is only re-exported as a type
		if exportTypeNames[name] {
			continue
		}

		// Named imports are never removed just for being unused in this mode
		if t.options.VerbatimModuleSyntax {
			items = append(items, item)
			continue
		}

		if t.hasValueReferences(name) || exportNames[name] {
			items = append(items, item)
		}
	}
	*s.Items = items

	return s.Kind.IsType() || (!wasEmpty && len(items) == 0)
}
