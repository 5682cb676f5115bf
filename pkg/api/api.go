package api

import "context"

type Loader uint8

const (
	// Picks the loader from the file extension
	LoaderDefault Loader = iota
	LoaderTS
	LoaderTSX
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	MinifyWhitespace bool

	// Only remove imports and exports that are explicitly marked with "type"
	VerbatimModuleSyntax bool

	Sourcefile string
	Loader     Loader
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	JS []byte
}

func Transform(input string, options TransformOptions) TransformResult {
	return transformImpl(input, options)
}

////////////////////////////////////////////////////////////////////////////////
// Multi-file API

type TransformFilesOptions struct {
	TransformOptions

	// The number of files that are transformed at the same time. Zero means
	// one file per CPU.
	Jobs int

	// If set, each output path is the input path relative to the lowest
	// common ancestor directory of all inputs, placed inside this directory
	Outdir string
}

type FileResult struct {
	Path       string
	OutputPath string

	TransformResult
}

// The results are in the same order as the paths. An error is only returned
// if a file could not be read or the context was canceled. Syntax errors are
// reported in each file's result instead.
func TransformFiles(ctx context.Context, paths []string, options TransformFilesOptions) ([]FileResult, error) {
	return transformFilesImpl(ctx, paths, options)
}
