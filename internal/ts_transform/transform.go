package ts_transform

// This package removes TypeScript-only syntax from a parsed file. Most type
// syntax never makes it into the tree because the front end drops it while
// parsing. What's left here are the parts that need to know about the whole
// file or that have to be replaced with new runtime code:
//
//   - "import x = ..." declarations become "var" declarations
//   - enums become closures that build the enum object
//   - namespaces become closures that fill in the namespace object
//   - a merged enum or namespace only keeps "export" on its first declaration
//   - imports and exports that only refer to types are removed
//
// A Transformer holds state for exactly one file. Files can be transformed in
// parallel as long as each one gets its own Transformer.

import (
	"github.com/tserase/tserase/internal/config"
	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
)

// This is the read-only view of scopes and symbols that the transform needs.
// The front end fills in the concrete table while parsing.
type SymbolTable interface {
	RootScope() js_ast.ScopeID
	GetBinding(scope js_ast.ScopeID, name string) (js_ast.SymbolID, bool)
	SymbolFlags(id js_ast.SymbolID) js_ast.SymbolFlags
	ResolvedReferences(id js_ast.SymbolID) []js_ast.Reference
}

type Transformer struct {
	symbols SymbolTable
	options config.TSOptions

	// Names of top-level enums and namespaces that have already kept their
	// "export" keyword
	exportNameSet map[string]bool

	// Top-level namespaces only get one "var" even if they are split across
	// several blocks
	emittedNamespaceVars map[string]bool

	// The closure argument for each namespace body, keyed by the location of
	// the namespace name in that body
	namespaceArgs map[logger.Loc]string
}

func New(symbols SymbolTable, options config.TSOptions) *Transformer {
	return &Transformer{
		symbols:              symbols,
		options:              options,
		exportNameSet:        make(map[string]bool),
		emittedNamespaceVars: make(map[string]bool),
		namespaceArgs:        make(map[logger.Loc]string),
	}
}

// Runs every transform over the file. Each top-level statement is first
// checked for merged exports and then lowered, and the whole-program import
// and export elision runs once at the end when all statements are final.
func (t *Transformer) Transform(tree *js_ast.AST) {
	stmts := make([]js_ast.Stmt, 0, len(tree.Stmts))
	for _, stmt := range tree.Stmts {
		t.TransformStatement(&stmt)
		stmts = t.visitStmt(stmts, stmt, nil)
	}
	tree.Stmts = stmts
	t.TransformProgram(tree)
}

// Lowers one declaration in place. This returns false if the declaration has
// no runtime representation at all, in which case the caller should remove it.
func (t *Transformer) TransformDeclaration(decl *js_ast.Stmt) bool {
	switch s := decl.Data.(type) {
	case *js_ast.STSImportEquals:
		// Type-only import-equals declarations are left for the caller
		if s.Kind.IsValue() {
			*decl = t.lowerImportEquals(decl.Loc, s)
		}

	case *js_ast.SEnum:
		lowered, ok := t.lowerEnum(decl.Loc, s)
		if !ok {
			return false
		}
		*decl = lowered
	}
	return true
}

// Appends the lowered form of "stmt" to "stmts". The namespace is non-nil for
// statements inside a namespace body.
func (t *Transformer) visitStmt(stmts []js_ast.Stmt, stmt js_ast.Stmt, ns *namespaceScope) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SExportClause:
		if s.DeclOrNil == nil {
			if ns != nil {
				// There are no export clauses inside namespaces
				return stmts
			}
			break
		}

		if ns != nil {
			return t.visitExportInsideNamespace(stmts, *s.DeclOrNil, ns)
		}

		if namespace, ok := s.DeclOrNil.Data.(*js_ast.SNamespace); ok && !namespace.IsDeclare && !namespace.IsStringName {
			return t.lowerNamespace(stmts, s.DeclOrNil.Loc, namespace, true, nil)
		}

		// A declared enum stays an "export declare enum" so that the elision
		// pass can remove the whole export declaration at once
		decl := *s.DeclOrNil
		t.visitVerbatimInStmt(&decl)
		if !js_ast.IsDeclare(decl) {
			t.TransformDeclaration(&decl)
		}
		s.DeclOrNil = &decl

	case *js_ast.SExportDefault:
		if s.Value.Stmt != nil {
			t.visitVerbatimInStmt(s.Value.Stmt)
		} else if s.Value.Expr != nil {
			t.visitVerbatimInExpr(s.Value.Expr)
		}

	case *js_ast.SNamespace:
		if s.IsDeclare || s.IsStringName {
			return stmts
		}
		return t.lowerNamespace(stmts, stmt.Loc, s, false, ns)

	case *js_ast.SEnum, *js_ast.STSImportEquals:
		t.visitVerbatimInStmt(&stmt)
		if !t.TransformDeclaration(&stmt) {
			return stmts
		}

	default:
		t.visitVerbatimInStmt(&stmt)
	}

	return append(stmts, stmt)
}

// Declarations nested in function bodies and other source text still need to
// be lowered even though the surrounding code is kept as is
func (t *Transformer) visitVerbatim(code *js_ast.Verbatim) {
	hasStmts := false
	for _, part := range code.Parts {
		if part.Stmt != nil || part.MemberOrNil != nil {
			hasStmts = true
			break
		}
	}
	if !hasStmts {
		return
	}

	parts := make([]js_ast.VerbatimPart, 0, len(code.Parts))
	for _, part := range code.Parts {
		if member := part.MemberOrNil; member != nil {
			parts = append(parts, js_ast.VerbatimPart{Text: t.namespaceMemberText(member)})
			continue
		}
		if part.Stmt == nil {
			parts = append(parts, part)
			continue
		}
		for _, lowered := range t.visitStmt(nil, *part.Stmt, nil) {
			parts = append(parts, js_ast.VerbatimPart{Stmt: &lowered})
		}
	}
	code.Parts = parts
}

func (t *Transformer) visitVerbatimInStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SVerbatim:
		t.visitVerbatim(&s.Code)

	case *js_ast.SFunction:
		t.visitVerbatim(&s.Code)

	case *js_ast.SClass:
		t.visitVerbatim(&s.Code)

	case *js_ast.SExpr:
		t.visitVerbatimInExpr(&s.Value)

	case *js_ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			if b, ok := decl.Binding.Data.(*js_ast.BVerbatim); ok {
				t.visitVerbatim(&b.Code)
			}
			if decl.ValueOrNil != nil {
				t.visitVerbatimInExpr(decl.ValueOrNil)
			}
		}

	case *js_ast.SEnum:
		for i := range s.Values {
			if value := s.Values[i].ValueOrNil; value != nil {
				t.visitVerbatimInExpr(value)
			}
		}
	}
}

func (t *Transformer) visitVerbatimInExpr(expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EVerbatim:
		t.visitVerbatim(&e.Code)

	case *js_ast.EUnary:
		t.visitVerbatimInExpr(&e.Value)

	case *js_ast.EBinary:
		t.visitVerbatimInExpr(&e.Left)
		t.visitVerbatimInExpr(&e.Right)

	case *js_ast.ECall:
		t.visitVerbatimInExpr(&e.Target)
		for i := range e.Args {
			t.visitVerbatimInExpr(&e.Args[i])
		}

	case *js_ast.EDot:
		t.visitVerbatimInExpr(&e.Target)

	case *js_ast.EIndex:
		t.visitVerbatimInExpr(&e.Target)
		t.visitVerbatimInExpr(&e.Index)
	}
}

// This is "import-binding-only": the name is declared at the top level by an
// import and nothing else in the file declares a runtime variable with it
//
//	import foo from "foo" // import binding only
//	import bar from "bar" // also a block-scoped variable
//	let bar = "xx"
func (t *Transformer) isImportBindingOnly(name string) bool {
	id, ok := t.symbols.GetBinding(t.symbols.RootScope(), name)
	if !ok {
		return false
	}
	flags := t.symbols.SymbolFlags(id)
	return flags.Has(js_ast.SymbolImportBinding) &&
		!flags.Has(js_ast.SymbolFunctionScopedVariable|js_ast.SymbolBlockScopedVariable)
}

func (t *Transformer) hasValueReferences(name string) bool {
	id, ok := t.symbols.GetBinding(t.symbols.RootScope(), name)
	if !ok {
		return false
	}
	for _, ref := range t.symbols.ResolvedReferences(id) {
		if !ref.IsType {
			return true
		}
	}
	return false
}

func (t *Transformer) rootSymbolFlags(name string) js_ast.SymbolFlags {
	if id, ok := t.symbols.GetBinding(t.symbols.RootScope(), name); ok {
		return t.symbols.SymbolFlags(id)
	}
	return 0
}
