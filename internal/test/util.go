package test

import (
	"os"
	"testing"

	"github.com/tserase/tserase/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", observed, expected)
	}
}

func AssertEqualWithDiff(t *testing.T, observed string, expected string) {
	t.Helper()
	if observed != expected {
		color := logger.GetTerminalInfo(os.Stderr).UseColorEscapes
		t.Fatal("\n" + Diff(expected, observed, color))
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}

