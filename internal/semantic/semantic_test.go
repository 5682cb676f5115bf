package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tserase/tserase/internal/js_ast"
	"github.com/tserase/tserase/internal/logger"
)

func TestDeclareMergesFlags(t *testing.T) {
	table := NewTable()
	root := table.RootScope()

	first := table.Declare(root, "x", logger.Loc{Start: 9}, js_ast.SymbolImportBinding)
	second := table.Declare(root, "x", logger.Loc{Start: 30}, js_ast.SymbolBlockScopedVariable)
	require.Equal(t, first, second)

	flags := table.SymbolFlags(first)
	assert.True(t, flags.Has(js_ast.SymbolImportBinding))
	assert.True(t, flags.Has(js_ast.SymbolBlockScopedVariable))
	assert.False(t, flags.Has(js_ast.SymbolFunctionScopedVariable))

	// The first declaration keeps its location
	assert.Equal(t, int32(9), table.Symbol(first).Loc.Start)
	assert.Equal(t, 1, table.SymbolCount())
}

func TestGetBindingOnlyLooksInOneScope(t *testing.T) {
	table := NewTable()
	root := table.RootScope()
	fn := table.AddScope(root, ScopeFunction)
	block := table.AddScope(fn, ScopeBlock)

	outer := table.Declare(root, "a", logger.Loc{}, js_ast.SymbolImportBinding)
	inner := table.Declare(fn, "b", logger.Loc{}, js_ast.SymbolFunctionScopedVariable)

	_, ok := table.GetBinding(block, "a")
	assert.False(t, ok)

	id, ok := table.Resolve(block, "a")
	require.True(t, ok)
	assert.Equal(t, outer, id)

	id, ok = table.Resolve(block, "b")
	require.True(t, ok)
	assert.Equal(t, inner, id)

	_, ok = table.Resolve(root, "b")
	assert.False(t, ok)

	parent, ok := table.Parent(block)
	require.True(t, ok)
	assert.Equal(t, fn, parent)
	assert.Equal(t, ScopeBlock, table.ScopeKind(block))

	_, ok = table.Parent(root)
	assert.False(t, ok)
}

func TestReferences(t *testing.T) {
	table := NewTable()
	id := table.Declare(table.RootScope(), "T", logger.Loc{}, js_ast.SymbolImportBinding)
	assert.Empty(t, table.ResolvedReferences(id))

	table.AddReference(id, js_ast.Reference{Loc: logger.Loc{Start: 20}, IsType: true})
	table.AddReference(id, js_ast.Reference{Loc: logger.Loc{Start: 40}})

	refs := table.ResolvedReferences(id)
	require.Len(t, refs, 2)
	assert.True(t, refs[0].IsType)
	assert.False(t, refs[1].IsType)
	assert.Equal(t, int32(40), refs[1].Loc.Start)
}

func TestInvalidIDsPanic(t *testing.T) {
	table := NewTable()
	assert.Panics(t, func() { table.SymbolFlags(3) })
	assert.Panics(t, func() { table.AddScope(5, ScopeBlock) })
}
