package ts_parser

// This is the TypeScript front end. It uses tree-sitter to parse the source
// and then builds the tree that the TypeScript transform works on:
//
//   - imports, exports, enums, namespaces, and "import x = ..." declarations
//     become real nodes since the transform needs to inspect them
//   - interfaces, type aliases, and other declarations without runtime code
//     become placeholder nodes
//   - everything else is kept as source text with type-only syntax removed
//
// A second pass over the same tree-sitter tree builds the scope tree and the
// symbol table that the transform uses to tell value uses from type uses.

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
	"github.com/tserase/tserase/internal/semantic"
)

type Options struct {
	// Use the TSX grammar, which allows JSX and disallows "<T>x" assertions
	TSX bool
}

type parser struct {
	log       logger.Log
	source    logger.Source
	hasErrors bool

	// Uses of exported namespace members, keyed by the start of the
	// identifier. The scope pass fills this in before statements are parsed.
	namespaceMembers map[uint32]js_ast.NamespaceMember

	// Set by the scope pass before statements are parsed
	symbols *semantic.Table
}

// Returns false if there were any syntax errors. Errors are added to the log
// and the returned tree should not be used in that case.
func Parse(ctx context.Context, log logger.Log, source logger.Source, options Options) (js_ast.AST, *semantic.Table, bool) {
	// Every location in the tree must fit in a "logger.Loc"
	if _, err := safecast.Conv[int32](len(source.Contents)); err != nil {
		log.AddError(&source, logger.Loc{}, fmt.Sprintf("File is too large (%d bytes)", len(source.Contents)))
		return js_ast.AST{}, nil, false
	}

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	if options.TSX {
		tsParser.SetLanguage(tsx.GetLanguage())
	} else {
		tsParser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := tsParser.ParseCtx(ctx, nil, []byte(source.Contents))
	if err != nil {
		log.AddError(&source, logger.Loc{}, fmt.Sprintf("Could not parse %q: %s", source.PrettyPath, err.Error()))
		return js_ast.AST{}, nil, false
	}
	defer tree.Close()

	p := &parser{log: log, source: source, namespaceMembers: make(map[uint32]js_ast.NamespaceMember)}
	root := tree.RootNode()
	if root.HasError() {
		p.reportSyntaxErrors(root)
		return js_ast.AST{}, nil, false
	}

	symbols := p.buildScopes(root)
	p.symbols = symbols
	result := p.parseProgram(root)
	if p.hasErrors {
		return js_ast.AST{}, nil, false
	}
	return result, symbols, true
}

func (p *parser) reportSyntaxErrors(node *sitter.Node) {
	if node.IsMissing() {
		p.log.AddError(&p.source, p.loc(node), fmt.Sprintf("Expected %q", node.Type()))
		return
	}

	if node.Type() == "ERROR" {
		text := p.text(node)
		if len(text) > 20 {
			text = text[:20] + "..."
		}
		if text == "" {
			p.log.AddError(&p.source, p.loc(node), "Unexpected end of file")
		} else {
			p.log.AddRangeError(&p.source, p.rangeOf(node), fmt.Sprintf("Unexpected %q", text))
		}
		return
	}

	for _, child := range children(node) {
		if child.HasError() || child.IsMissing() {
			p.reportSyntaxErrors(child)
		}
	}
}

func (p *parser) addError(node *sitter.Node, text string) {
	p.log.AddRangeError(&p.source, p.rangeOf(node), text)
	p.hasErrors = true
}

func (p *parser) addNamespaceMember(node *sitter.Node, namespace logger.Loc) {
	p.namespaceMembers[node.StartByte()] = js_ast.NamespaceMember{
		Namespace:   namespace,
		Name:        p.text(node),
		IsShorthand: node.Type() == "shorthand_property_identifier",
	}
}

func (p *parser) text(node *sitter.Node) string {
	return p.source.Contents[node.StartByte():node.EndByte()]
}

func (p *parser) loc(node *sitter.Node) logger.Loc {
	return logger.Loc{Start: offset(node.StartByte())}
}

func (p *parser) rangeOf(node *sitter.Node) logger.Range {
	return logger.Range{Loc: p.loc(node), Len: offset(node.EndByte()) - offset(node.StartByte())}
}

func (p *parser) locRef(node *sitter.Node) js_ast.LocRef {
	return js_ast.LocRef{Loc: p.loc(node), Name: p.text(node)}
}

// The file size was checked up front, so this can't fail
func offset(n uint32) int32 {
	result, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Sprintf("Internal error: offset %d is out of range", n))
	}
	return result
}

func children(node *sitter.Node) []*sitter.Node {
	count := int(node.ChildCount())
	result := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, node.Child(i))
	}
	return result
}

// This skips comments, which tree-sitter allows anywhere
func namedChildren(node *sitter.Node) []*sitter.Node {
	count := int(node.NamedChildCount())
	result := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if child := node.NamedChild(i); child.Type() != "comment" {
			result = append(result, child)
		}
	}
	return result
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if named := namedChildren(node); len(named) > 0 {
		return named[0]
	}
	return nil
}

func childOfType(node *sitter.Node, kind string) *sitter.Node {
	for _, child := range children(node) {
		if child.Type() == kind {
			return child
		}
	}
	return nil
}

// Keywords and punctuation are unnamed children
func hasToken(node *sitter.Node, token string) bool {
	for _, child := range children(node) {
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}
