package api

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/tserase/tserase/internal/test"
)

func TestStripDirPrefix(t *testing.T) {
	expectSuccess := func(path string, prefix string, allowedSlashes string, expected string) {
		t.Helper()
		t.Run(fmt.Sprintf("path=%s prefix=%s slashes=%s", path, prefix, allowedSlashes), func(t *testing.T) {
			t.Helper()
			observed, ok := stripDirPrefix(path, prefix, allowedSlashes)
			if !ok {
				t.Fatalf("Unexpected failure")
			}
			test.AssertEqualWithDiff(t, observed, expected)
		})
	}

	expectFailure := func(path string, prefix string, allowedSlashes string) {
		t.Helper()
		t.Run(fmt.Sprintf("path=%s prefix=%s slashes=%s", path, prefix, allowedSlashes), func(t *testing.T) {
			t.Helper()
			_, ok := stripDirPrefix(path, prefix, allowedSlashes)
			if ok {
				t.Fatalf("Unexpected success")
			}
		})
	}

	expectSuccess(`/foo/bar/baz`, ``, `/`, `/foo/bar/baz`)
	expectSuccess(`/foo/bar/baz`, `/`, `/`, `foo/bar/baz`)
	expectSuccess(`/foo/bar/baz`, `/foo`, `/`, `bar/baz`)
	expectSuccess(`/foo/bar/baz`, `/foo/bar`, `/`, `baz`)
	expectSuccess(`/foo/bar/baz`, `/foo/bar/baz`, `/`, ``)
	expectSuccess(`/foo/bar//baz`, `/foo/bar`, `/`, `/baz`)
	expectSuccess(`C:\foo\bar\baz`, ``, `\/`, `C:\foo\bar\baz`)
	expectSuccess(`C:\foo\bar\baz`, `C:`, `\/`, `foo\bar\baz`)
	expectSuccess(`C:\foo\bar\baz`, `C:\`, `\/`, `foo\bar\baz`)
	expectSuccess(`C:\foo\bar\baz`, `C:\foo`, `\/`, `bar\baz`)
	expectSuccess(`C:\foo\bar/baz`, `C:\foo\bar`, `\/`, `baz`)

	expectFailure(`/foo/bar`, `/foo/ba`, `/`)
	expectFailure(`/foo/bar`, `/fo`, `/`)
	expectFailure(`C:\foo\bar`, `C:\foo\ba`, `\/`)
	expectFailure(`C:/foo/bar`, `C:\foo`, `\/`)
}

func TestLowestCommonAncestorDirectory(t *testing.T) {
	check := func(expected string, paths ...string) {
		t.Helper()
		for i, path := range paths {
			paths[i] = filepath.FromSlash(path)
		}
		test.AssertEqualWithDiff(t, lowestCommonAncestorDirectory(paths), filepath.FromSlash(expected))
	}

	check("/src", "/src/a.ts")
	check("/src", "/src/a.ts", "/src/b.ts")
	check("/src", "/src/a.ts", "/src/lib/b.ts")
	check("/src", "/src/lib/a.ts", "/src/util/b.ts")
	check("/", "/a/x.ts", "/b/y.ts")

	// This is a sibling directory, not a child
	check("/", "/src/a.ts", "/srcs/b.ts")
}

func TestOutputPathFor(t *testing.T) {
	check := func(path string, expected string) {
		t.Helper()
		observed, err := outputPathFor(filepath.FromSlash(path), filepath.FromSlash("/src"), filepath.FromSlash("/out"))
		if err != nil {
			t.Fatal(err)
		}
		test.AssertEqualWithDiff(t, observed, filepath.FromSlash(expected))
	}

	check("/src/a.ts", "/out/a.js")
	check("/src/lib/b.tsx", "/out/lib/b.js")
	check("/src/c.mts", "/out/c.mjs")
	check("/src/d.cts", "/out/d.cjs")
	check("/src/e", "/out/e.js")
}
