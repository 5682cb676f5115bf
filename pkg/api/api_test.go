package api_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tserase/tserase/internal/test"
	"github.com/tserase/tserase/pkg/api"
)

func TestTransform(t *testing.T) {
	result := api.Transform("let x: number = 1;\n", api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), "let x = 1;\n")

	result = api.Transform("import type { T } from \"m\";\nlet x: T;\n", api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), "let x;\nexport {};\n")

	// JSX only parses with the TSX grammar, which is picked from the extension
	result = api.Transform("let x = <div />;\n", api.TransformOptions{Sourcefile: "a.tsx"})
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.JS)
}

func TestTransformNamespaces(t *testing.T) {
	result := api.Transform("export namespace N { export const a = 1; }\n", api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), `export var N;
((N) => {
  N.a = 1;
})(N || (N = {}));
`)

	// Only the first block keeps "export", and the second block reads "a"
	// from the namespace object
	result = api.Transform(`export namespace N { export const a = 1; }
export namespace N { export const b = a + 1; }
`, api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), `export var N;
((N) => {
  N.a = 1;
})(N || (N = {}));
((N) => {
  N.b = N.a + 1;
})(N || (N = {}));
`)

	// Merged enums keep "export" on the first block only
	result = api.Transform("export enum E { A }\nexport enum E { B = 2 }\n", api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), `export var E = ((E) => {
  const A = 0;
  E[E["A"] = A] = "A";
  return E;
})(E || {});
var E = ((E) => {
  const B = 2;
  E[E["B"] = B] = "B";
  return E;
})(E || {});
`)
}

func TestTransformNamespaceMergedWithEnum(t *testing.T) {
	result := api.Transform("export namespace Foo { export const a = 1; }\nexport enum Foo { B }\n", api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), `export var Foo;
((Foo) => {
  Foo.a = 1;
})(Foo || (Foo = {}));
var Foo = ((Foo) => {
  const B = 0;
  Foo[Foo["B"] = B] = "B";
  return Foo;
})(Foo || {});
`)

	result = api.Transform("export enum Foo { B }\nexport namespace Foo { export const a = 1; }\n", api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), `export var Foo = ((Foo) => {
  const B = 0;
  Foo[Foo["B"] = B] = "B";
  return Foo;
})(Foo || {});
var Foo;
((Foo) => {
  Foo.a = 1;
})(Foo || (Foo = {}));
`)

	// Without "export" the namespace still declares the variable
	result = api.Transform("namespace Foo { export const a = 1; }\nenum Foo { B }\n", api.TransformOptions{})
	assert.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.JS), `var Foo;
((Foo) => {
  Foo.a = 1;
})(Foo || (Foo = {}));
var Foo = ((Foo) => {
  const B = 0;
  Foo[Foo["B"] = B] = "B";
  return Foo;
})(Foo || {});
`)
}

func TestTransformVerbatimModuleSyntax(t *testing.T) {
	input := "import { a } from \"m\";\n"

	result := api.Transform(input, api.TransformOptions{})
	test.AssertEqualWithDiff(t, string(result.JS), "export {};\n")

	result = api.Transform(input, api.TransformOptions{VerbatimModuleSyntax: true})
	test.AssertEqualWithDiff(t, string(result.JS), "import { a } from \"m\";\n")
}

func TestTransformErrors(t *testing.T) {
	result := api.Transform("enum E { 1 }\n", api.TransformOptions{Sourcefile: "file.ts"})
	assert.Nil(t, result.JS)
	require.Len(t, result.Errors, 1)

	msg := result.Errors[0]
	assert.Equal(t, "An enum member cannot have a numeric name", msg.Text)
	require.NotNil(t, msg.Location)
	assert.Equal(t, "file.ts", msg.Location.File)
	assert.Equal(t, 1, msg.Location.Line)
	assert.Equal(t, 9, msg.Location.Column)
	assert.Equal(t, 1, msg.Location.Length)
	assert.Equal(t, "enum E { 1 }", msg.Location.LineText)

	result = api.Transform("let = ;\n", api.TransformOptions{})
	assert.Nil(t, result.JS)
	assert.NotEmpty(t, result.Errors)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, contents := range files {
		path = filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
	return dir
}

func TestTransformFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/a.ts":     "let a: number = 1;\n",
		"src/lib/b.ts": "enum E { 1 }\n",
		"src/c.mts":    "export const c: string = \"c\";\n",
	})
	paths := []string{
		filepath.Join(dir, "src", "a.ts"),
		filepath.Join(dir, "src", "lib", "b.ts"),
		filepath.Join(dir, "src", "c.mts"),
	}
	outdir := filepath.Join(dir, "out")

	results, err := api.TransformFiles(context.Background(), paths, api.TransformFilesOptions{Jobs: 2, Outdir: outdir})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, paths[0], results[0].Path)
	assert.Equal(t, filepath.Join(outdir, "a.js"), results[0].OutputPath)
	assert.Empty(t, results[0].Errors)
	test.AssertEqualWithDiff(t, string(results[0].JS), "let a = 1;\n")

	// Errors in one file don't stop the others
	assert.Equal(t, filepath.Join(outdir, "lib", "b.js"), results[1].OutputPath)
	assert.Len(t, results[1].Errors, 1)
	assert.Nil(t, results[1].JS)

	assert.Equal(t, filepath.Join(outdir, "c.mjs"), results[2].OutputPath)
	test.AssertEqualWithDiff(t, string(results[2].JS), "export const c = \"c\";\n")
}

func TestTransformFilesMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := api.TransformFiles(context.Background(), []string{filepath.Join(dir, "missing.ts")}, api.TransformFilesOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = api.TransformFiles(context.Background(), nil, api.TransformFilesOptions{Jobs: -1})
	assert.Error(t, err)
}

func TestTransformFilesCanceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.ts": "let a = 1;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.TransformFiles(ctx, []string{filepath.Join(dir, "a.ts")}, api.TransformFilesOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
