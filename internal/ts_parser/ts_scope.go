package ts_parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
	"github.com/tserase/tserase/internal/semantic"
)

// This builds the scope tree and resolves every identifier to the symbol it
// refers to. Each use is recorded as either a value use or a type use. Only
// top-level imports are ever checked by the transform, but nested scopes are
// still needed so that shadowed names resolve to the right symbol:
//
//	import { x } from "x"
//	function f(x) { return x } // This doesn't use the import
type scopeBuilder struct {
	p     *parser
	table *semantic.Table

	// Each namespace scope is one body of one or more nested namespaces. It's
	// more than one for "namespace a.b.c {}". Outermost comes first.
	namespaces map[js_ast.ScopeID][]namespaceLevel

	// The names exported so far from each namespace, keyed by dotted path.
	// Bodies of the same namespace see each other's exports.
	namespaceExports map[string]map[string]bool

	// Exported variables don't have a local binding after lowering. This is
	// the namespace name of the body that declared each one.
	exportedVars map[js_ast.SymbolID]logger.Loc
}

type namespaceLevel struct {
	path string
	loc  logger.Loc
}

// Nodes that only contain type syntax
var typeNodes = map[string]bool{
	"abstract_method_signature": true,
	"adding_type_annotation":    true,
	"ambient_declaration":       true,
	"array_type":                true,
	"asserts_annotation":        true,
	"conditional_type":          true,
	"constructor_type":          true,
	"extends_type_clause":       true,
	"function_signature":        true,
	"function_type":             true,
	"generic_type":              true,
	"implements_clause":         true,
	"index_signature":           true,
	"index_type_query":          true,
	"infer_type":                true,
	"interface_declaration":     true,
	"intersection_type":         true,
	"literal_type":              true,
	"lookup_type":               true,
	"mapped_type_clause":        true,
	"method_signature":          true,
	"nested_type_identifier":    true,
	"object_type":               true,
	"omitting_type_annotation":  true,
	"opting_type_annotation":    true,
	"parenthesized_type":        true,
	"readonly_type":             true,
	"template_literal_type":     true,
	"tuple_type":                true,
	"type_alias_declaration":    true,
	"type_annotation":           true,
	"type_arguments":            true,
	"type_parameters":           true,
	"type_predicate":            true,
	"type_predicate_annotation": true,
	"type_query":                true,
	"union_type":                true,
}

func (p *parser) buildScopes(root *sitter.Node) *semantic.Table {
	b := &scopeBuilder{
		p:                p,
		table:            semantic.NewTable(),
		namespaces:       make(map[js_ast.ScopeID][]namespaceLevel),
		namespaceExports: make(map[string]map[string]bool),
		exportedVars:     make(map[js_ast.SymbolID]logger.Loc),
	}
	scope := b.table.RootScope()
	b.hoistVars(root, scope)
	b.declareStmts(root, scope)
	for _, child := range namedChildren(root) {
		b.visit(child, scope, false)
	}
	return b.table
}

func (b *scopeBuilder) declare(scope js_ast.ScopeID, name *sitter.Node, flags js_ast.SymbolFlags) {
	if name != nil {
		b.table.Declare(scope, b.p.text(name), b.p.loc(name), flags)
	}
}

// Inside a namespace, a name exported from this or an earlier body of that
// namespace takes precedence over names from outside the namespace
func (b *scopeBuilder) reference(scope js_ast.ScopeID, name *sitter.Node, isType bool) {
	text := b.p.text(name)
	for {
		if id, ok := b.table.GetBinding(scope, text); ok {
			b.table.AddReference(id, js_ast.Reference{Loc: b.p.loc(name), IsType: isType})
			if loc, ok := b.exportedVars[id]; ok && !isType {
				b.p.addNamespaceMember(name, loc)
			}
			return
		}

		levels := b.namespaces[scope]
		for i := len(levels) - 1; i >= 0; i-- {
			if b.namespaceExports[levels[i].path][text] {
				if !isType {
					b.p.addNamespaceMember(name, levels[i].loc)
				}
				return
			}
		}

		parent, ok := b.table.Parent(scope)
		if !ok {
			return
		}
		scope = parent
	}
}

// "var" declarations belong to the nearest function no matter which block
// they're in
func (b *scopeBuilder) hoistVars(node *sitter.Node, scope js_ast.ScopeID) {
	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "variable_declaration":
			for _, decl := range namedChildren(child) {
				if decl.Type() == "variable_declarator" {
					b.declarePattern(decl.ChildByFieldName("name"), scope, js_ast.SymbolFunctionScopedVariable)
				}
			}
			continue

		case "for_in_statement":
			if kind := child.ChildByFieldName("kind"); kind != nil && kind.Type() == "var" {
				b.declarePattern(child.ChildByFieldName("left"), scope, js_ast.SymbolFunctionScopedVariable)
			}

		case "function_declaration", "generator_function_declaration", "function_expression", "function",
			"generator_function", "arrow_function", "method_definition", "class_declaration",
			"abstract_class_declaration", "class", "internal_module", "module", "ambient_declaration":
			continue
		}
		b.hoistVars(child, scope)
	}
}

// Declares the names that a list of statements binds in its own scope
func (b *scopeBuilder) declareStmts(container *sitter.Node, scope js_ast.ScopeID) {
	for _, stmt := range namedChildren(container) {
		b.declareStmt(stmt, scope)
	}
}

func (b *scopeBuilder) declareStmt(stmt *sitter.Node, scope js_ast.ScopeID) {
	switch stmt.Type() {
	case "lexical_declaration":
		for _, decl := range namedChildren(stmt) {
			if decl.Type() == "variable_declarator" {
				b.declarePattern(decl.ChildByFieldName("name"), scope, js_ast.SymbolBlockScopedVariable)
			}
		}

	case "function_declaration", "generator_function_declaration", "function_signature":
		b.declare(scope, stmt.ChildByFieldName("name"), js_ast.SymbolFunction)

	case "class_declaration", "abstract_class_declaration":
		b.declare(scope, stmt.ChildByFieldName("name"), js_ast.SymbolClass)

	case "enum_declaration":
		b.declare(scope, stmt.ChildByFieldName("name"), js_ast.SymbolEnum)

	case "internal_module", "module":
		if name := stmt.ChildByFieldName("name"); name != nil && name.Type() != "string" {
			b.declare(scope, leftmostIdentifier(name), js_ast.SymbolNamespace)
		}

	case "interface_declaration":
		b.declare(scope, stmt.ChildByFieldName("name"), js_ast.SymbolInterface)

	case "type_alias_declaration":
		b.declare(scope, stmt.ChildByFieldName("name"), js_ast.SymbolTypeAlias)

	case "import_alias":
		// This becomes a "var" after lowering
		b.declare(scope, firstNamedChild(stmt), js_ast.SymbolFunctionScopedVariable)

	case "import_statement":
		if clause := childOfType(stmt, "import_require_clause"); clause != nil {
			b.declare(scope, firstNamedChild(clause), js_ast.SymbolFunctionScopedVariable)
			return
		}
		clause := childOfType(stmt, "import_clause")
		if clause == nil {
			return
		}
		for _, child := range namedChildren(clause) {
			switch child.Type() {
			case "identifier":
				b.declare(scope, child, js_ast.SymbolImportBinding)

			case "namespace_import":
				b.declare(scope, firstNamedChild(child), js_ast.SymbolImportBinding)

			case "named_imports":
				for _, specifier := range namedChildren(child) {
					if specifier.Type() != "import_specifier" {
						continue
					}
					if alias := specifier.ChildByFieldName("alias"); alias != nil {
						b.declare(scope, alias, js_ast.SymbolImportBinding)
					} else {
						b.declare(scope, specifier.ChildByFieldName("name"), js_ast.SymbolImportBinding)
					}
				}
			}
		}

	case "export_statement":
		if decl := stmt.ChildByFieldName("declaration"); decl != nil {
			b.declareStmt(decl, scope)
		}

	case "ambient_declaration":
		if inner := firstNamedChild(stmt); inner != nil {
			b.declareStmt(inner, scope)
		}

	case "expression_statement":
		if expr := firstNamedChild(stmt); expr != nil && expr.Type() == "internal_module" {
			b.declareStmt(expr, scope)
		}
	}
}

func isSameNode(a *sitter.Node, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func leftmostIdentifier(node *sitter.Node) *sitter.Node {
	for node.Type() != "identifier" {
		first := firstNamedChild(node)
		if first == nil {
			return nil
		}
		node = first
	}
	return node
}

// Calls the callback for each identifier that a binding pattern declares
func (p *parser) forEachBoundName(pattern *sitter.Node, callback func(*sitter.Node)) {
	if pattern == nil {
		return
	}

	switch pattern.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		callback(pattern)

	case "object_pattern", "array_pattern", "rest_pattern":
		for _, child := range namedChildren(pattern) {
			p.forEachBoundName(child, callback)
		}

	case "pair_pattern":
		p.forEachBoundName(pattern.ChildByFieldName("value"), callback)

	case "assignment_pattern", "object_assignment_pattern":
		p.forEachBoundName(pattern.ChildByFieldName("left"), callback)
	}
}

func (b *scopeBuilder) declarePattern(pattern *sitter.Node, scope js_ast.ScopeID, flags js_ast.SymbolFlags) {
	b.p.forEachBoundName(pattern, func(name *sitter.Node) {
		b.declare(scope, name, flags)
	})
}

// Default values and computed keys in a binding pattern are expressions
func (b *scopeBuilder) visitPattern(pattern *sitter.Node, scope js_ast.ScopeID) {
	if pattern == nil {
		return
	}

	switch pattern.Type() {
	case "identifier", "shorthand_property_identifier_pattern":

	case "object_pattern", "array_pattern", "rest_pattern":
		for _, child := range namedChildren(pattern) {
			b.visitPattern(child, scope)
		}

	case "pair_pattern":
		if key := pattern.ChildByFieldName("key"); key != nil && key.Type() == "computed_property_name" {
			b.visit(key, scope, false)
		}
		b.visitPattern(pattern.ChildByFieldName("value"), scope)

	case "assignment_pattern", "object_assignment_pattern":
		b.visitPattern(pattern.ChildByFieldName("left"), scope)
		b.visit(pattern.ChildByFieldName("right"), scope, false)

	default:
		// Destructuring assignment targets like "[a.b] = c"
		b.visit(pattern, scope, false)
	}
}

func (b *scopeBuilder) visitChildren(node *sitter.Node, scope js_ast.ScopeID, isType bool) {
	for _, child := range namedChildren(node) {
		b.visit(child, scope, isType)
	}
}

func (b *scopeBuilder) visit(node *sitter.Node, scope js_ast.ScopeID, isType bool) {
	if node == nil {
		return
	}
	kind := node.Type()
	if typeNodes[kind] {
		isType = true
	}

	switch kind {
	case "identifier", "shorthand_property_identifier":
		b.reference(scope, node, isType)

	case "type_identifier":
		b.reference(scope, node, true)

	case "import_statement", "property_identifier", "private_property_identifier", "statement_identifier",
		"string", "number", "comment", "hash_bang_line", "regex":

	case "import_alias":
		value := namedChildren(node)
		b.visit(value[len(value)-1], scope, isType)

	case "export_statement":
		b.visitExport(node, scope, isType)

	case "variable_declarator":
		name := node.ChildByFieldName("name")
		b.visitPattern(name, scope)
		for _, child := range namedChildren(node) {
			if !isSameNode(child, name) {
				b.visit(child, scope, isType)
			}
		}

	case "function_declaration", "generator_function_declaration", "function_expression", "function",
		"generator_function", "method_definition", "arrow_function":
		b.visitFunction(node, scope, isType)

	case "class_declaration", "abstract_class_declaration", "class":
		classScope := b.table.AddScope(scope, semantic.ScopeClass)
		if kind == "class" {
			// A class expression's name is only visible inside the class
			b.declare(classScope, node.ChildByFieldName("name"), js_ast.SymbolClass)
		}
		b.declareTypeParameters(node, classScope)
		name := node.ChildByFieldName("name")
		for _, child := range namedChildren(node) {
			if !isSameNode(child, name) {
				b.visit(child, classScope, isType)
			}
		}

	case "interface_declaration", "type_alias_declaration":
		typeScope := b.table.AddScope(scope, semantic.ScopeBlock)
		b.declareTypeParameters(node, typeScope)
		name := node.ChildByFieldName("name")
		for _, child := range namedChildren(node) {
			if !isSameNode(child, name) {
				b.visit(child, typeScope, true)
			}
		}

	case "statement_block", "class_static_block":
		blockScope := b.table.AddScope(scope, semantic.ScopeBlock)
		b.declareStmts(node, blockScope)
		b.visitChildren(node, blockScope, isType)

	case "for_statement", "for_in_statement":
		forScope := b.table.AddScope(scope, semantic.ScopeFor)
		if init := node.ChildByFieldName("initializer"); init != nil {
			b.declareStmt(init, forScope)
		}
		if kind := node.ChildByFieldName("kind"); kind != nil && kind.Type() != "var" {
			b.declarePattern(node.ChildByFieldName("left"), forScope, js_ast.SymbolBlockScopedVariable)
		}
		if left := node.ChildByFieldName("left"); left != nil && node.ChildByFieldName("kind") != nil {
			b.visitPattern(left, forScope)
			for _, child := range namedChildren(node) {
				if !isSameNode(child, left) {
					b.visit(child, forScope, isType)
				}
			}
			return
		}
		b.visitChildren(node, forScope, isType)

	case "catch_clause":
		catchScope := b.table.AddScope(scope, semantic.ScopeCatch)
		param := node.ChildByFieldName("parameter")
		b.declarePattern(param, catchScope, js_ast.SymbolBlockScopedVariable)
		b.visitPattern(param, catchScope)
		b.visit(node.ChildByFieldName("type"), catchScope, true)
		b.visit(node.ChildByFieldName("body"), catchScope, isType)

	case "internal_module", "module":
		// The body becomes a closure, so it's a function scope
		nsScope := b.table.AddScope(scope, semantic.ScopeNamespace)
		if body := node.ChildByFieldName("body"); body != nil {
			b.hoistVars(body, nsScope)
			b.declareStmts(body, nsScope)
			b.declareNamespace(node, body, scope, nsScope)
			b.visitChildren(body, nsScope, isType)
		}

	case "enum_declaration":
		// Members can refer to earlier members by name
		enumScope := b.table.AddScope(scope, semantic.ScopeBlock)
		body := node.ChildByFieldName("body")
		if body == nil {
			return
		}
		for _, member := range namedChildren(body) {
			name := member
			if member.Type() == "enum_assignment" {
				name = firstNamedChild(member)
			}
			if name.Type() == "property_identifier" {
				b.declare(enumScope, name, js_ast.SymbolBlockScopedVariable)
			}
		}
		for _, member := range namedChildren(body) {
			if member.Type() == "enum_assignment" {
				b.visit(member.ChildByFieldName("value"), enumScope, isType)
			}
		}

	case "labeled_statement":
		b.visit(node.ChildByFieldName("body"), scope, isType)

	case "pair":
		if key := node.ChildByFieldName("key"); key != nil && key.Type() == "computed_property_name" {
			b.visit(key, scope, isType)
		}
		b.visit(node.ChildByFieldName("value"), scope, isType)

	case "member_expression":
		b.visit(node.ChildByFieldName("object"), scope, isType)

	default:
		b.visitChildren(node, scope, isType)
	}
}

// Records the exports of one namespace body so that later bodies of the same
// namespace can refer to them
func (b *scopeBuilder) declareNamespace(node *sitter.Node, body *sitter.Node, scope js_ast.ScopeID, nsScope js_ast.ScopeID) {
	name := node.ChildByFieldName("name")
	if name == nil || name.Type() == "string" {
		return
	}

	// "namespace a.b {}" is nested in whatever namespace is around it
	prefix := ""
	var outer *namespaceLevel
	for id, ok := scope, true; ok; id, ok = b.table.Parent(id) {
		if levels := b.namespaces[id]; len(levels) > 0 {
			outer = &levels[len(levels)-1]
			prefix = outer.path + "."
			break
		}
	}

	// The inner parts of a dotted name are exported from the outer ones.
	// Only the levels from this body's own name belong to this scope since
	// outer namespaces are found by walking up to their scopes.
	parts := b.p.dottedName(name)
	if len(parts) == 0 {
		return
	}
	var levels []namespaceLevel
	for i, part := range parts {
		if i > 0 {
			b.addNamespaceExport(outer.path, part.Name)
		}
		levels = append(levels, namespaceLevel{path: prefix + part.Name, loc: part.Loc})
		outer = &levels[len(levels)-1]
		prefix = outer.path + "."
	}
	b.namespaces[nsScope] = levels
	path := outer.path
	loc := outer.loc

	for _, stmt := range namedChildren(body) {
		if stmt.Type() != "export_statement" {
			continue
		}
		decl := stmt.ChildByFieldName("declaration")
		if decl == nil {
			continue
		}
		if decl.Type() == "ambient_declaration" {
			if decl = firstNamedChild(decl); decl == nil {
				continue
			}
		}

		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			for _, declarator := range namedChildren(decl) {
				if declarator.Type() != "variable_declarator" {
					continue
				}
				b.p.forEachBoundName(declarator.ChildByFieldName("name"), func(id *sitter.Node) {
					b.addNamespaceExport(path, b.p.text(id))
					if symbol, ok := b.table.GetBinding(nsScope, b.p.text(id)); ok {
						b.exportedVars[symbol] = loc
					}
				})
			}

		case "internal_module", "module":
			if name := decl.ChildByFieldName("name"); name != nil && name.Type() != "string" {
				if id := leftmostIdentifier(name); id != nil {
					b.addNamespaceExport(path, b.p.text(id))
				}
			}

		case "import_alias":
			b.addNamespaceExport(path, b.p.text(firstNamedChild(decl)))

		case "function_declaration", "generator_function_declaration", "function_signature",
			"class_declaration", "abstract_class_declaration", "enum_declaration":
			if name := decl.ChildByFieldName("name"); name != nil {
				b.addNamespaceExport(path, b.p.text(name))
			}
		}
	}
}

func (b *scopeBuilder) addNamespaceExport(path string, name string) {
	names := b.namespaceExports[path]
	if names == nil {
		names = make(map[string]bool)
		b.namespaceExports[path] = names
	}
	names[name] = true
}

// "export { a, type b }" uses "a" as a value and "b" as a type. Re-exports
// with a "from" clause don't refer to anything in this file.
func (b *scopeBuilder) visitExport(node *sitter.Node, scope js_ast.ScopeID, isType bool) {
	if clause := childOfType(node, "export_clause"); clause != nil {
		if node.ChildByFieldName("source") != nil {
			return
		}
		isTypeClause := hasToken(node, "type")
		for _, specifier := range namedChildren(clause) {
			if specifier.Type() != "export_specifier" {
				continue
			}
			name := specifier.ChildByFieldName("name")
			if name.Type() == "identifier" {
				b.reference(scope, name, isTypeClause || hasToken(specifier, "type"))
			}
		}
		return
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		b.visit(decl, scope, isType)
	}
	if value := node.ChildByFieldName("value"); value != nil {
		b.visit(value, scope, isType)
	}
}

func (b *scopeBuilder) visitFunction(node *sitter.Node, scope js_ast.ScopeID, isType bool) {
	scopeKind := semantic.ScopeFunction
	if node.Type() == "arrow_function" {
		scopeKind = semantic.ScopeArrow
	}
	fnScope := b.table.AddScope(scope, scopeKind)

	switch node.Type() {
	case "function_expression", "function", "generator_function":
		// A function expression's name is only visible inside the function
		b.declare(fnScope, node.ChildByFieldName("name"), js_ast.SymbolFunction)

	case "method_definition":
		if name := node.ChildByFieldName("name"); name != nil && name.Type() == "computed_property_name" {
			b.visit(name, scope, isType)
		}
	}

	b.declareTypeParameters(node, fnScope)

	// "x => x"
	if param := node.ChildByFieldName("parameter"); param != nil {
		b.declare(fnScope, param, js_ast.SymbolFunctionScopedVariable)
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, param := range namedChildren(params) {
			pattern := param.ChildByFieldName("pattern")
			if pattern == nil {
				// Plain JavaScript parameters
				pattern = param
			} else if pattern.Type() == "this" {
				b.visit(param.ChildByFieldName("type"), fnScope, true)
				continue
			}
			b.declarePattern(pattern, fnScope, js_ast.SymbolFunctionScopedVariable)
		}
		for _, param := range namedChildren(params) {
			pattern := param.ChildByFieldName("pattern")
			if pattern == nil {
				b.visitPattern(param, fnScope)
				continue
			}
			b.visitPattern(pattern, fnScope)
			for _, decorator := range namedChildren(param) {
				if decorator.Type() == "decorator" {
					b.visit(decorator, fnScope, isType)
				}
			}
			b.visit(param.ChildByFieldName("type"), fnScope, true)
			b.visit(param.ChildByFieldName("value"), fnScope, isType)
		}
	}

	b.visit(node.ChildByFieldName("return_type"), fnScope, true)

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	if body.Type() != "statement_block" {
		// "() => expr"
		b.visit(body, fnScope, isType)
		return
	}
	b.hoistVars(body, fnScope)
	b.declareStmts(body, fnScope)
	b.visitChildren(body, fnScope, isType)
}

func (b *scopeBuilder) declareTypeParameters(node *sitter.Node, scope js_ast.ScopeID) {
	params := node.ChildByFieldName("type_parameters")
	if params == nil {
		return
	}
	for _, param := range namedChildren(params) {
		if param.Type() == "type_parameter" {
			b.declare(scope, param.ChildByFieldName("name"), js_ast.SymbolTypeAlias)
		}
	}
}
