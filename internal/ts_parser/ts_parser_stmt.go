package ts_parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tserase/tserase/internal/js_ast"
)

func (p *parser) parseProgram(root *sitter.Node) js_ast.AST {
	var result js_ast.AST
	for _, child := range namedChildren(root) {
		if child.Type() == "hash_bang_line" {
			result.Hashbang = strings.TrimRight(p.text(child), "\r\n")
			continue
		}
		result.Stmts = p.appendStmt(result.Stmts, child)
	}
	return result
}

func (p *parser) parseStmtsInBlock(block *sitter.Node) []js_ast.Stmt {
	var stmts []js_ast.Stmt
	for _, child := range namedChildren(block) {
		stmts = p.appendStmt(stmts, child)
	}
	return stmts
}

func (p *parser) appendStmt(stmts []js_ast.Stmt, node *sitter.Node) []js_ast.Stmt {
	loc := p.loc(node)

	switch node.Type() {
	case "empty_statement":
		return stmts

	case "import_statement":
		return append(stmts, p.parseImport(node))

	case "export_statement":
		return append(stmts, p.parseExport(node))

	case "expression_statement":
		expr := firstNamedChild(node)
		if expr == nil {
			return stmts
		}

		// "namespace foo {}" can be parsed as an expression
		if expr.Type() == "internal_module" {
			return append(stmts, p.parseNamespace(expr))
		}

		value := js_ast.Expr{Loc: p.loc(expr), Data: &js_ast.EVerbatim{Code: p.erase(expr)}}
		return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: value}})

	case "lexical_declaration", "variable_declaration", "function_declaration", "generator_function_declaration",
		"function_signature", "class_declaration", "abstract_class_declaration", "enum_declaration", "internal_module",
		"module", "interface_declaration", "type_alias_declaration", "import_alias", "ambient_declaration":
		return append(stmts, p.parseDeclaration(node))

	default:
		return append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SVerbatim{Code: p.erase(node)}})
	}
}

func (p *parser) parseDeclaration(node *sitter.Node) js_ast.Stmt {
	loc := p.loc(node)

	switch node.Type() {
	case "lexical_declaration", "variable_declaration":
		return js_ast.Stmt{Loc: loc, Data: p.parseLocal(node)}

	case "function_declaration", "generator_function_declaration":
		var name *js_ast.LocRef
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			ref := p.locRef(nameNode)
			name = &ref
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Name: name, Code: p.erase(node)}}

	case "class_declaration", "abstract_class_declaration":
		var name *js_ast.LocRef
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			ref := p.locRef(nameNode)
			name = &ref
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Name: name, Code: p.erase(node)}}

	case "enum_declaration":
		return p.parseEnum(node)

	case "internal_module", "module":
		return p.parseNamespace(node)

	case "interface_declaration":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SInterface{Name: p.locRef(node.ChildByFieldName("name"))}}

	case "type_alias_declaration":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeAlias{Name: p.locRef(node.ChildByFieldName("name"))}}

	case "import_alias":
		return p.parseImportAlias(node)

	case "ambient_declaration":
		return p.parseAmbient(node)

	case "function_signature":
		// Overloads don't have a body
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}

	default:
		p.addError(node, "Unexpected "+node.Type())
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
	}
}

func (p *parser) parseLocal(node *sitter.Node) *js_ast.SLocal {
	local := &js_ast.SLocal{Kind: js_ast.LocalVar}
	if node.Type() == "lexical_declaration" {
		if kind := node.ChildByFieldName("kind"); kind != nil && kind.Type() == "const" {
			local.Kind = js_ast.LocalConst
		} else {
			local.Kind = js_ast.LocalLet
		}
	}

	for _, child := range namedChildren(node) {
		if child.Type() != "variable_declarator" {
			continue
		}

		var decl js_ast.Decl
		name := child.ChildByFieldName("name")
		if name.Type() == "identifier" {
			decl.Binding = js_ast.Binding{Loc: p.loc(name), Data: &js_ast.BIdentifier{Name: p.text(name)}}
		} else {
			var names []string
			p.forEachBoundName(name, func(id *sitter.Node) { names = append(names, p.text(id)) })
			decl.Binding = js_ast.Binding{Loc: p.loc(name), Data: &js_ast.BVerbatim{Code: p.erase(name), Names: names}}
		}

		if value := child.ChildByFieldName("value"); value != nil {
			decl.ValueOrNil = &js_ast.Expr{Loc: p.loc(value), Data: &js_ast.EVerbatim{Code: p.erase(value)}}
		}

		local.Decls = append(local.Decls, decl)
	}

	return local
}

// Everything in an ambient declaration is type-only. The declarations that
// the transform knows about keep their node so that it can see the name.
func (p *parser) parseAmbient(node *sitter.Node) js_ast.Stmt {
	loc := p.loc(node)
	inner := firstNamedChild(node)
	if inner == nil || hasToken(node, "global") {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
	}

	switch inner.Type() {
	case "lexical_declaration", "variable_declaration":
		local := p.parseLocal(inner)
		local.IsDeclare = true
		return js_ast.Stmt{Loc: loc, Data: local}

	case "function_declaration", "function_signature":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Name: refOrNil(p, inner.ChildByFieldName("name")), IsDeclare: true}}

	case "class_declaration", "abstract_class_declaration":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Name: refOrNil(p, inner.ChildByFieldName("name")), IsDeclare: true}}

	case "enum_declaration":
		stmt := p.parseEnum(inner)
		stmt.Data.(*js_ast.SEnum).IsDeclare = true
		return stmt

	case "internal_module", "module":
		// The body is never parsed since it can't contain runtime code.
		// Declaration files put things like "export = foo" in here.
		ns := &js_ast.SNamespace{IsDeclare: true}
		if nameNode := inner.ChildByFieldName("name"); nameNode.Type() == "string" {
			ns.Name = js_ast.LocRef{Loc: p.loc(nameNode), Name: p.parseStringLiteral(nameNode)}
			ns.IsStringName = true
		} else {
			ns.Name = p.dottedName(nameNode)[0]
		}
		return js_ast.Stmt{Loc: loc, Data: ns}
	}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
}

func refOrNil(p *parser, node *sitter.Node) *js_ast.LocRef {
	if node == nil {
		return nil
	}
	ref := p.locRef(node)
	return &ref
}

func (p *parser) parseEnum(node *sitter.Node) js_ast.Stmt {
	enum := &js_ast.SEnum{
		Name:    p.locRef(node.ChildByFieldName("name")),
		IsConst: hasToken(node, "const"),
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for _, member := range namedChildren(body) {
			nameNode := member
			var valueNode *sitter.Node
			if member.Type() == "enum_assignment" {
				nameNode = member.ChildByFieldName("name")
				valueNode = member.ChildByFieldName("value")
				if nameNode == nil || valueNode == nil {
					named := namedChildren(member)
					nameNode, valueNode = named[0], named[len(named)-1]
				}
			}

			value := js_ast.EnumValue{Loc: p.loc(member)}
			switch nameNode.Type() {
			case "property_identifier", "identifier":
				value.NameKind = js_ast.EnumNameIdentifier
				value.Name = p.text(nameNode)

			case "string":
				value.NameKind = js_ast.EnumNameString
				value.Name = p.parseStringLiteral(nameNode)

			case "computed_property_name":
				// Only a string literal is allowed inside the brackets
				if inner := firstNamedChild(nameNode); inner != nil && inner.Type() == "string" {
					value.NameKind = js_ast.EnumNameString
					value.Name = p.parseStringLiteral(inner)
				} else {
					value.NameKind = js_ast.EnumNameComputed
					value.Name = p.text(nameNode)
					p.addError(nameNode, "Computed property names are not allowed in enums")
				}

			case "number":
				value.NameKind = js_ast.EnumNameNumber
				value.Name = p.text(nameNode)
				p.addError(nameNode, "An enum member cannot have a numeric name")

			default:
				p.addError(nameNode, "Invalid enum member name")
				continue
			}

			if valueNode != nil {
				expr := p.parseExpr(valueNode)
				value.ValueOrNil = &expr
			}
			enum.Values = append(enum.Values, value)
		}
	}

	return js_ast.Stmt{Loc: p.loc(node), Data: enum}
}

// "namespace a.b.c {}" is the same as three nested namespaces where each inner
// one is exported from the one around it
func (p *parser) parseNamespace(node *sitter.Node) js_ast.Stmt {
	loc := p.loc(node)
	nameNode := node.ChildByFieldName("name")

	var body []js_ast.Stmt
	if block := node.ChildByFieldName("body"); block != nil {
		body = p.parseStmtsInBlock(block)
	}

	if nameNode.Type() == "string" {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SNamespace{
			Name:         js_ast.LocRef{Loc: p.loc(nameNode), Name: p.parseStringLiteral(nameNode)},
			IsStringName: true,
			Stmts:        body,
		}}
	}

	parts := p.dottedName(nameNode)
	for i := len(parts) - 1; i > 0; i-- {
		inner := js_ast.Stmt{Loc: parts[i].Loc, Data: &js_ast.SNamespace{Name: parts[i], Stmts: body}}
		body = []js_ast.Stmt{{Loc: parts[i].Loc, Data: &js_ast.SExportClause{DeclOrNil: &inner}}}
	}
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SNamespace{Name: parts[0], Stmts: body}}
}

// Splits "a.b.c" into its parts. Comments and whitespace can appear around
// the dots, so this collects the identifiers instead of splitting the text.
func (p *parser) dottedName(node *sitter.Node) []js_ast.LocRef {
	switch node.Type() {
	case "identifier", "property_identifier", "type_identifier":
		return []js_ast.LocRef{p.locRef(node)}
	}

	var parts []js_ast.LocRef
	for _, child := range namedChildren(node) {
		parts = append(parts, p.dottedName(child)...)
	}
	return parts
}

// "import a = b.c"
func (p *parser) parseImportAlias(node *sitter.Node) js_ast.Stmt {
	named := namedChildren(node)
	s := &js_ast.STSImportEquals{Name: p.locRef(named[0])}
	if hasToken(node, "type") {
		s.Kind = js_ast.KindType
	}

	parts := p.dottedName(named[len(named)-1])
	s.Value = js_ast.TSModuleReference{Loc: parts[0].Loc, Data: &js_ast.TSIdentifierName{Name: parts[0].Name}}
	for _, part := range parts[1:] {
		s.Value = js_ast.TSModuleReference{Loc: s.Value.Loc, Data: &js_ast.TSQualifiedName{
			Left:     s.Value,
			Right:    part.Name,
			RightLoc: part.Loc,
		}}
	}

	return js_ast.Stmt{Loc: p.loc(node), Data: s}
}

func (p *parser) parseImport(node *sitter.Node) js_ast.Stmt {
	loc := p.loc(node)
	kind := js_ast.KindValue
	if hasToken(node, "type") || hasToken(node, "typeof") {
		kind = js_ast.KindType
	}

	// "import a = require('path')"
	if clause := childOfType(node, "import_require_clause"); clause != nil {
		source := clause.ChildByFieldName("source")
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STSImportEquals{
			Name: p.locRef(firstNamedChild(clause)),
			Value: js_ast.TSModuleReference{Loc: p.loc(source), Data: &js_ast.TSExternalModuleReference{
				Path: js_ast.ImportPath{Loc: p.loc(source), Text: p.parseStringLiteral(source)},
			}},
			Kind: kind,
		}}
	}

	source := node.ChildByFieldName("source")
	s := &js_ast.SImport{
		Path:         js_ast.ImportPath{Loc: p.loc(source), Text: p.parseStringLiteral(source)},
		Kind:         kind,
		IsSingleLine: true,
	}

	if clause := childOfType(node, "import_clause"); clause != nil {
		items := []js_ast.ImportItem{}

		for _, child := range namedChildren(clause) {
			switch child.Type() {
			case "identifier":
				items = append(items, js_ast.ImportItem{Kind: js_ast.ImportDefault, Name: p.locRef(child)})

			case "namespace_import":
				items = append(items, js_ast.ImportItem{Kind: js_ast.ImportStar, Name: p.locRef(firstNamedChild(child))})

			case "named_imports":
				s.IsSingleLine = !strings.Contains(p.text(child), "\n")
				for _, specifier := range namedChildren(child) {
					if specifier.Type() != "import_specifier" {
						continue
					}
					name := specifier.ChildByFieldName("name")
					item := js_ast.ImportItem{
						Kind:     js_ast.ImportNamed,
						Alias:    p.moduleExportName(name),
						AliasLoc: p.loc(name),
						Name:     p.locRef(name),
					}
					if alias := specifier.ChildByFieldName("alias"); alias != nil {
						item.Name = p.locRef(alias)
					}
					if hasToken(specifier, "type") || hasToken(specifier, "typeof") {
						item.ImportKind = js_ast.KindType
					}
					items = append(items, item)
				}
			}
		}

		s.Items = &items
	}

	return js_ast.Stmt{Loc: loc, Data: s}
}

func (p *parser) parseExport(node *sitter.Node) js_ast.Stmt {
	loc := p.loc(node)
	kind := js_ast.KindValue
	if hasToken(node, "type") {
		kind = js_ast.KindType
	}
	isDefault := hasToken(node, "default")

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		stmt := p.parseDeclaration(decl)
		if isDefault {
			switch stmt.Data.(type) {
			case *js_ast.SFunction, *js_ast.SClass:
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
			}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{DeclOrNil: &stmt, Kind: kind}}
	}

	// "export = foo" only works with CommonJS
	if hasToken(node, "=") {
		p.addError(node, "Export assignment cannot be used when targeting ECMAScript modules")
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
	}

	if value := node.ChildByFieldName("value"); value != nil && isDefault {
		switch value.Type() {
		case "function", "function_expression", "generator_function":
			stmt := js_ast.Stmt{Loc: p.loc(value), Data: &js_ast.SFunction{Code: p.erase(value)}}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}

		case "class":
			stmt := js_ast.Stmt{Loc: p.loc(value), Data: &js_ast.SClass{Code: p.erase(value)}}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
		}

		expr := p.parseExportDefaultExpr(value)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Expr: &expr}}}
	}

	var pathOrNil *js_ast.ImportPath
	if source := node.ChildByFieldName("source"); source != nil {
		pathOrNil = &js_ast.ImportPath{Loc: p.loc(source), Text: p.parseStringLiteral(source)}
	}

	if clause := childOfType(node, "export_clause"); clause != nil {
		items := []js_ast.ClauseItem{}
		for _, specifier := range namedChildren(clause) {
			if specifier.Type() != "export_specifier" {
				continue
			}
			name := specifier.ChildByFieldName("name")
			item := js_ast.ClauseItem{
				Alias:    p.moduleExportName(name),
				AliasLoc: p.loc(name),
				Name:     js_ast.LocRef{Loc: p.loc(name), Name: p.moduleExportName(name)},
			}
			if alias := specifier.ChildByFieldName("alias"); alias != nil {
				item.Alias = p.moduleExportName(alias)
				item.AliasLoc = p.loc(alias)
			}
			if hasToken(specifier, "type") || hasToken(specifier, "typeof") {
				item.Kind = js_ast.KindType
			} else if pathOrNil == nil && name.Type() == "identifier" && p.isLocalTypeOnly(item.Name.Name) {
				// "type T = 1; export { T }" has no runtime binding to export
				item.Kind = js_ast.KindType
			}
			items = append(items, item)
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{
			Items:        items,
			PathOrNil:    pathOrNil,
			Kind:         kind,
			IsSingleLine: !strings.Contains(p.text(clause), "\n"),
		}}
	}

	if pathOrNil != nil {
		s := &js_ast.SExportStar{Path: *pathOrNil, Kind: kind}
		if ns := childOfType(node, "namespace_export"); ns != nil {
			name := firstNamedChild(ns)
			s.Alias = &js_ast.LocRef{Loc: p.loc(name), Name: p.moduleExportName(name)}
		}
		return js_ast.Stmt{Loc: loc, Data: s}
	}

	// "export as namespace foo" only matters to type checkers
	if hasToken(node, "namespace") {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
	}

	p.addError(node, "Unexpected export")
	return js_ast.Stmt{Loc: loc, Data: &js_ast.STypeScript{}}
}

// Returns true for a top-level interface or type alias that doesn't share its
// name with anything that exists at run time
func (p *parser) isLocalTypeOnly(name string) bool {
	id, ok := p.symbols.GetBinding(p.symbols.RootScope(), name)
	if !ok {
		return false
	}
	flags := p.symbols.SymbolFlags(id)
	return flags.Has(js_ast.SymbolInterface|js_ast.SymbolTypeAlias) &&
		!flags.Has(js_ast.SymbolValue|js_ast.SymbolImportBinding)
}

// A bare identifier is kept as a node so that it can be checked against the
// imports in the file
func (p *parser) parseExportDefaultExpr(value *sitter.Node) js_ast.Expr {
	if value.Type() == "identifier" {
		return js_ast.Expr{Loc: p.loc(value), Data: &js_ast.EIdentifier{Name: p.text(value)}}
	}
	return js_ast.Expr{Loc: p.loc(value), Data: &js_ast.EVerbatim{Code: p.erase(value)}}
}

// Import and export names can be identifiers or string literals
func (p *parser) moduleExportName(node *sitter.Node) string {
	if node.Type() == "string" {
		return p.parseStringLiteral(node)
	}
	return p.text(node)
}
