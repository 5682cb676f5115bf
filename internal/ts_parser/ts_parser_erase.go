package ts_parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tserase/tserase/internal/js_ast"
)

// This copies the source text of a node while leaving out all type-only
// syntax in it. TypeScript declarations nested in the text that need to be
// lowered (an enum inside a function body, for example) are parsed into real
// statements and become separate parts of the result.
type eraser struct {
	p     *parser
	pos   int // The next source offset to copy
	text  []byte
	parts []js_ast.VerbatimPart
}

func (p *parser) erase(node *sitter.Node) js_ast.Verbatim {
	e := eraser{p: p, pos: int(node.StartByte())}
	e.visit(node)
	e.flush(int(node.EndByte()))

	if len(e.text) > 0 || len(e.parts) == 0 {
		e.parts = append(e.parts, js_ast.VerbatimPart{Text: string(e.text)})
	}
	return js_ast.Verbatim{Parts: e.parts}
}

// Nodes that are removed along with everything inside them
var typeOnlyNodes = map[string]bool{
	"accessibility_modifier":    true,
	"adding_type_annotation":    true,
	"asserts_annotation":        true,
	"implements_clause":         true,
	"omitting_type_annotation":  true,
	"opting_type_annotation":    true,
	"override_modifier":         true,
	"type_annotation":           true,
	"type_arguments":            true,
	"type_parameters":           true,
	"type_predicate_annotation": true,
}

// Declarations and class members that are removed along with their line
var typeOnlyStmts = map[string]bool{
	"abstract_method_signature": true,
	"ambient_declaration":       true,
	"function_signature":        true,
	"index_signature":           true,
	"interface_declaration":     true,
	"method_signature":          true,
	"type_alias_declaration":    true,
}

func (e *eraser) visit(node *sitter.Node) {
	kind := node.Type()

	if typeOnlyNodes[kind] {
		e.eraseNode(node)
		return
	}
	if typeOnlyStmts[kind] {
		e.eraseStmt(node)
		return
	}

	switch kind {
	case "as_expression", "satisfies_expression", "non_null_expression":
		// Only the expression on the left is kept
		value := firstNamedChild(node)
		e.visit(value)
		e.eraseRange(int(value.EndByte()), int(node.EndByte()))

	case "type_assertion":
		for _, child := range namedChildren(node) {
			e.visit(child)
		}

	case "enum_declaration", "internal_module", "module", "import_alias":
		e.splice(node, e.p.parseDeclaration(node))

	case "identifier", "shorthand_property_identifier":
		if member, ok := e.p.namespaceMembers[node.StartByte()]; ok {
			e.spliceMember(node, member)
		}

	case "expression_statement":
		if expr := firstNamedChild(node); expr != nil && expr.Type() == "internal_module" {
			e.splice(node, e.p.parseNamespace(expr))
			return
		}
		e.visitChildren(node)

	case "public_field_definition":
		if hasToken(node, "declare") || hasToken(node, "abstract") {
			e.eraseStmt(node)
			return
		}
		e.visitChildren(node, "readonly", "?", "!")

	case "class_declaration", "abstract_class_declaration", "class":
		e.visitChildren(node, "abstract", "declare")

	case "method_definition":
		e.visitMethod(node)

	case "required_parameter", "optional_parameter":
		if pattern := node.ChildByFieldName("pattern"); pattern != nil && pattern.Type() == "this" {
			e.eraseThisParam(node)
			return
		}
		e.visitChildren(node, "readonly", "?")

	case "variable_declarator":
		e.visitChildren(node, "!")

	default:
		e.visitChildren(node)
	}
}

// Unnamed children with one of the given types are removed
func (e *eraser) visitChildren(node *sitter.Node, erasedTokens ...string) {
	for _, child := range children(node) {
		if !child.IsNamed() {
			for _, token := range erasedTokens {
				if child.Type() == token {
					e.eraseNode(child)
					break
				}
			}
			continue
		}
		e.visit(child)
	}
}

func (e *eraser) flush(end int) {
	if end > e.pos {
		e.text = append(e.text, e.p.source.Contents[e.pos:end]...)
		e.pos = end
	}
}

func (e *eraser) insert(at int, text string) {
	e.flush(at)
	e.text = append(e.text, text...)
}

func (e *eraser) eraseNode(node *sitter.Node) {
	e.eraseRange(int(node.StartByte()), int(node.EndByte()))
}

// This also removes some of the whitespace around the erased text so that
// "class Foo implements Bar {" becomes "class Foo {" and "(private x)"
// becomes "(x)"
func (e *eraser) eraseRange(start int, end int) {
	if start < e.pos {
		start = e.pos
	}
	if end <= start {
		return
	}
	e.flush(start)
	e.pos = end

	contents := e.p.source.Contents
	if end >= len(contents) || !isHorizontalSpace(contents[end]) {
		return
	}

	if e.isAtLineStartOrAfterOpen() {
		for e.pos < len(contents) && isHorizontalSpace(contents[e.pos]) {
			e.pos++
		}
	} else if n := len(e.text); n > 0 && isHorizontalSpace(e.text[n-1]) {
		for n > 0 && isHorizontalSpace(e.text[n-1]) {
			n--
		}
		e.text = e.text[:n]
	}
}

func (e *eraser) isAtLineStartOrAfterOpen() bool {
	for i := len(e.text) - 1; i >= 0; i-- {
		switch c := e.text[i]; c {
		case ' ', '\t':
			continue
		case '\n', '(', '[', '{':
			return true
		default:
			return false
		}
	}
	return true
}

// Removes a whole statement or class member. If nothing else is on the same
// line, the line itself is removed too.
func (e *eraser) eraseStmt(node *sitter.Node) {
	contents := e.p.source.Contents
	start := int(node.StartByte())
	end := int(node.EndByte())

	// Class members can be followed by a separate semicolon
	if after := skipHorizontalSpace(contents, end); after < len(contents) && contents[after] == ';' {
		end = after + 1
	}

	e.flush(start)
	lineStart := strings.LastIndexByte(string(e.text), '\n') + 1
	isFirstOnLine := isAllHorizontalSpace(e.text[lineStart:])

	after := skipHorizontalSpace(contents, end)
	if after < len(contents) && contents[after] == '\r' {
		after++
	}
	isLastOnLine := after < len(contents) && contents[after] == '\n'

	if isFirstOnLine && isLastOnLine && lineStart > 0 {
		e.text = e.text[:lineStart]
		e.pos = after + 1
		return
	}
	e.eraseRange(start, end)
}

// "function foo(this: Foo, x) {}" becomes "function foo(x) {}"
func (e *eraser) eraseThisParam(node *sitter.Node) {
	contents := e.p.source.Contents
	end := int(node.EndByte())
	if after := skipHorizontalSpace(contents, end); after < len(contents) && contents[after] == ',' {
		end = after + 1
		for end < len(contents) && isWhitespace(contents[end]) {
			end++
		}
	}
	e.eraseRange(int(node.StartByte()), end)
}

// Lowered declarations are placed between the text around them
func (e *eraser) splice(node *sitter.Node, stmt js_ast.Stmt) {
	e.flush(int(node.StartByte()))
	if len(e.text) > 0 {
		e.parts = append(e.parts, js_ast.VerbatimPart{Text: string(e.text)})
		e.text = nil
	}
	e.parts = append(e.parts, js_ast.VerbatimPart{Stmt: &stmt})
	e.pos = int(node.EndByte())
}

func (e *eraser) spliceMember(node *sitter.Node, member js_ast.NamespaceMember) {
	e.flush(int(node.StartByte()))
	if len(e.text) > 0 {
		e.parts = append(e.parts, js_ast.VerbatimPart{Text: string(e.text)})
		e.text = nil
	}
	e.parts = append(e.parts, js_ast.VerbatimPart{MemberOrNil: &member})
	e.pos = int(node.EndByte())
}

// Constructor parameters with a modifier are also assigned to the instance:
//
//	constructor(private x: number) {}
//
// becomes
//
//	constructor(x) { this.x = x; }
func (e *eraser) visitMethod(node *sitter.Node) {
	var props []string
	if name := node.ChildByFieldName("name"); name != nil && e.p.text(name) == "constructor" {
		props = e.parameterProperties(node.ChildByFieldName("parameters"))
	}

	body := node.ChildByFieldName("body")
	for _, child := range children(node) {
		if !child.IsNamed() {
			if child.Type() == "?" {
				e.eraseNode(child)
			}
			continue
		}
		if len(props) > 0 && body != nil && child.StartByte() == body.StartByte() && child.Type() == body.Type() {
			e.visitConstructorBody(child, props)
			continue
		}
		e.visit(child)
	}
}

func (e *eraser) parameterProperties(params *sitter.Node) (names []string) {
	if params == nil {
		return nil
	}
	for _, param := range namedChildren(params) {
		if param.Type() != "required_parameter" && param.Type() != "optional_parameter" {
			continue
		}
		if childOfType(param, "accessibility_modifier") == nil && childOfType(param, "override_modifier") == nil && !hasToken(param, "readonly") {
			continue
		}
		pattern := param.ChildByFieldName("pattern")
		if pattern == nil || pattern.Type() != "identifier" {
			e.p.addError(param, "A parameter property may not be declared using a binding pattern")
			continue
		}
		names = append(names, e.p.text(pattern))
	}
	return
}

func (e *eraser) visitConstructorBody(body *sitter.Node, props []string) {
	contents := e.p.source.Contents
	assigns := make([]string, len(props))
	for i, name := range props {
		assigns[i] = "this." + name + " = " + name + ";"
	}

	// Assignments go after the "super()" call if there is one
	var insertAt int
	var text string
	if stmts := namedChildren(body); len(stmts) == 0 {
		insertAt = int(body.StartByte()) + 1
		text = " " + strings.Join(assigns, " ")
		if insertAt < len(contents) && contents[insertAt] == '}' {
			text += " "
		}
	} else if first := stmts[0]; isSuperCall(first) {
		indent := lineIndent(contents, int(first.StartByte()))
		insertAt = int(first.EndByte())
		for _, assign := range assigns {
			text += "\n" + indent + assign
		}
	} else {
		indent := lineIndent(contents, int(first.StartByte()))
		insertAt = int(first.StartByte())
		for _, assign := range assigns {
			text += assign + "\n" + indent
		}
	}

	inserted := false
	for _, child := range children(body) {
		if !inserted && int(child.StartByte()) >= insertAt {
			e.insert(insertAt, text)
			inserted = true
		}
		if child.IsNamed() {
			e.visit(child)
		}
	}
}

func isSuperCall(stmt *sitter.Node) bool {
	if stmt.Type() != "expression_statement" {
		return false
	}
	call := firstNamedChild(stmt)
	if call == nil || call.Type() != "call_expression" {
		return false
	}
	fn := call.ChildByFieldName("function")
	return fn != nil && fn.Type() == "super"
}

// Returns the indentation of the line that starts with the given offset
func lineIndent(contents string, offset int) string {
	start := offset
	for start > 0 && isHorizontalSpace(contents[start-1]) {
		start--
	}
	if start > 0 && contents[start-1] != '\n' {
		return ""
	}
	return contents[start:offset]
}

func skipHorizontalSpace(contents string, i int) int {
	for i < len(contents) && isHorizontalSpace(contents[i]) {
		i++
	}
	return i
}

func isAllHorizontalSpace(text []byte) bool {
	for _, c := range text {
		if !isHorizontalSpace(c) {
			return false
		}
	}
	return true
}

func isHorizontalSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
