package config

type TSOptions struct {
	// If true, imports and exports are only removed when they are explicitly
	// marked with "type". Unused value imports are kept.
	//
	// https://www.typescriptlang.org/tsconfig#verbatimModuleSyntax
	VerbatimModuleSyntax bool
}

type Options struct {
	TS TSOptions

	RemoveWhitespace bool
}
