package semantic

// This is an in-memory scope tree and symbol table. The front end fills it in
// while walking the source, and the TypeScript transform only ever reads from
// it. Tests can also build one by hand to describe exactly which names are
// declared and how each of them is used.

import (
	"fmt"

	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
)

type ScopeKind uint8

const (
	ScopeProgram ScopeKind = iota
	ScopeFunction
	ScopeArrow
	ScopeClass
	ScopeBlock
	ScopeFor
	ScopeCatch
	ScopeNamespace
)

type scope struct {
	kind     ScopeKind
	parent   js_ast.ScopeID
	bindings map[string]js_ast.SymbolID
}

type Symbol struct {
	Name       string
	Loc        logger.Loc
	Flags      js_ast.SymbolFlags
	Scope      js_ast.ScopeID
	References []js_ast.Reference
}

type Table struct {
	scopes  []scope
	symbols []Symbol
}

// The root scope always has ID 0
func NewTable() *Table {
	return &Table{
		scopes: []scope{{kind: ScopeProgram, bindings: make(map[string]js_ast.SymbolID)}},
	}
}

func (t *Table) RootScope() js_ast.ScopeID {
	return 0
}

func (t *Table) AddScope(parent js_ast.ScopeID, kind ScopeKind) js_ast.ScopeID {
	t.checkScope(parent)
	id := js_ast.ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, scope{kind: kind, parent: parent, bindings: make(map[string]js_ast.SymbolID)})
	return id
}

func (t *Table) ScopeKind(id js_ast.ScopeID) ScopeKind {
	t.checkScope(id)
	return t.scopes[id].kind
}

// Returns the parent scope and false for the root scope
func (t *Table) Parent(id js_ast.ScopeID) (js_ast.ScopeID, bool) {
	t.checkScope(id)
	if id == 0 {
		return 0, false
	}
	return t.scopes[id].parent, true
}

// Declaring the same name twice in one scope merges the two declarations into
// one symbol. This is how "import x" followed by "let x" ends up as one symbol
// that is both an import binding and a block-scoped variable.
func (t *Table) Declare(id js_ast.ScopeID, name string, loc logger.Loc, flags js_ast.SymbolFlags) js_ast.SymbolID {
	t.checkScope(id)
	s := &t.scopes[id]
	if existing, ok := s.bindings[name]; ok {
		t.symbols[existing].Flags |= flags
		return existing
	}
	symbolID := js_ast.SymbolID(len(t.symbols))
	t.symbols = append(t.symbols, Symbol{Name: name, Loc: loc, Flags: flags, Scope: id})
	s.bindings[name] = symbolID
	return symbolID
}

func (t *Table) AddReference(id js_ast.SymbolID, ref js_ast.Reference) {
	t.checkSymbol(id)
	t.symbols[id].References = append(t.symbols[id].References, ref)
}

// Looks up a name in one scope without walking up to the parent
func (t *Table) GetBinding(id js_ast.ScopeID, name string) (js_ast.SymbolID, bool) {
	t.checkScope(id)
	symbolID, ok := t.scopes[id].bindings[name]
	return symbolID, ok
}

// Looks up a name starting at one scope and walking up to the root
func (t *Table) Resolve(id js_ast.ScopeID, name string) (js_ast.SymbolID, bool) {
	for {
		if symbolID, ok := t.GetBinding(id, name); ok {
			return symbolID, true
		}
		parent, ok := t.Parent(id)
		if !ok {
			return 0, false
		}
		id = parent
	}
}

func (t *Table) SymbolFlags(id js_ast.SymbolID) js_ast.SymbolFlags {
	t.checkSymbol(id)
	return t.symbols[id].Flags
}

func (t *Table) ResolvedReferences(id js_ast.SymbolID) []js_ast.Reference {
	t.checkSymbol(id)
	return t.symbols[id].References
}

func (t *Table) Symbol(id js_ast.SymbolID) Symbol {
	t.checkSymbol(id)
	return t.symbols[id]
}

func (t *Table) SymbolCount() int {
	return len(t.symbols)
}

func (t *Table) checkScope(id js_ast.ScopeID) {
	if int(id) >= len(t.scopes) {
		panic(fmt.Sprintf("Internal error: invalid scope %d", id))
	}
}

func (t *Table) checkSymbol(id js_ast.SymbolID) {
	if int(id) >= len(t.symbols) {
		panic(fmt.Sprintf("Internal error: invalid symbol %d", id))
	}
}
