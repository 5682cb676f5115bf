package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tserase/tserase/internal/config"
	"github.com/tserase/tserase/internal/exitcode"
	"github.com/tserase/tserase/pkg/api"
)

var errTransformFailed = exitcode.Set(errors.New("transform failed"), exitcode.TransformFailed)

func usageError(format string, args ...interface{}) error {
	return exitcode.Set(fmt.Errorf(format, args...), exitcode.Usage)
}

type flags struct {
	configPath           string
	outdir               string
	verbatimModuleSyntax bool
	minifyWhitespace     bool
	jobs                 int
	logLevel             string
	color                string
	errorLimit           int
	loader               string
	sourcefile           string
}

var logLevels = map[string]api.LogLevel{
	"info":    api.LogLevelInfo,
	"warning": api.LogLevelWarning,
	"error":   api.LogLevelError,
	"silent":  api.LogLevelSilent,
}

var colors = map[string]api.StderrColor{
	"auto":   api.ColorIfTerminal,
	"always": api.ColorAlways,
	"never":  api.ColorNever,
}

var loaders = map[string]api.Loader{
	"":    api.LoaderDefault,
	"ts":  api.LoaderTS,
	"tsx": api.LoaderTSX,
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "tserase [files or directories]",
		Short: "Remove TypeScript syntax and emit plain JavaScript",
		Long: "Removes type annotations and type-only imports and exports, and lowers enums, namespaces, " +
			"and \"import x = ...\" declarations. With no arguments, the input is read from stdin and the " +
			"output is written to stdout.",
		Version:       tseraseVersion,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := resolveOptions(cmd, f)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runStdin(cmd, options, f)
			}
			return runFiles(cmd.Context(), cmd, args, options)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "path to "+config.FileName+" (default: search upward from the current directory)")
	cmd.Flags().StringVar(&f.outdir, "outdir", "", "write output files to this directory")
	cmd.Flags().BoolVar(&f.verbatimModuleSyntax, "verbatim-module-syntax", false, "only remove imports and exports marked with \"type\"")
	cmd.Flags().BoolVar(&f.minifyWhitespace, "minify-whitespace", false, "remove whitespace from the output")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "number of files to transform at once (default: one per CPU)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "warning", "minimum level to log: info|warning|error|silent")
	cmd.Flags().StringVar(&f.color, "color", "auto", "use color in terminal output: auto|always|never")
	cmd.Flags().IntVar(&f.errorLimit, "error-limit", 10, "maximum number of errors to print, or 0 for no limit")
	cmd.Flags().StringVar(&f.loader, "loader", "", "grammar to use: ts|tsx (default: from the file extension)")
	cmd.Flags().StringVar(&f.sourcefile, "sourcefile", "", "file name to use in messages about stdin")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tseraseVersion)
			return err
		},
	}
}

// Values come from the defaults, then the config file, then any flags that
// were set explicitly on the command line
func resolveOptions(cmd *cobra.Command, f flags) (api.TransformFilesOptions, error) {
	var options api.TransformFilesOptions
	var file config.File

	path := f.configPath
	if path == "" {
		found, ok, err := config.FindFile(".")
		if err != nil {
			return options, exitcode.Set(err, exitcode.IO)
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return options, exitcode.Set(err, exitcode.Usage)
		}
		file = loaded
	}

	var compilerOptions config.Options
	file.Apply(&compilerOptions)
	options.VerbatimModuleSyntax = compilerOptions.TS.VerbatimModuleSyntax
	options.MinifyWhitespace = compilerOptions.RemoveWhitespace

	logLevel := f.logLevel
	color := f.color
	if v := file.Output.Outdir; v != nil {
		options.Outdir = *v
	}
	if v := file.Run.Jobs; v != nil {
		options.Jobs = *v
	}
	if v := file.Run.LogLevel; v != nil && !cmd.Flags().Changed("log-level") {
		logLevel = *v
	}
	if v := file.Run.Color; v != nil && !cmd.Flags().Changed("color") {
		color = *v
	}

	changed := cmd.Flags().Changed
	if changed("outdir") {
		options.Outdir = f.outdir
	}
	if changed("verbatim-module-syntax") {
		options.VerbatimModuleSyntax = f.verbatimModuleSyntax
	}
	if changed("minify-whitespace") {
		options.MinifyWhitespace = f.minifyWhitespace
	}
	if changed("jobs") {
		if f.jobs < 0 {
			return options, usageError("invalid value for --jobs: %d", f.jobs)
		}
		options.Jobs = f.jobs
	}

	var ok bool
	if options.LogLevel, ok = logLevels[logLevel]; !ok {
		return options, usageError("invalid log level %q (valid: info, warning, error, silent)", logLevel)
	}
	if options.Color, ok = colors[color]; !ok {
		return options, usageError("invalid color %q (valid: auto, always, never)", color)
	}
	if options.Loader, ok = loaders[f.loader]; !ok {
		return options, usageError("invalid loader %q (valid: ts, tsx)", f.loader)
	}
	options.ErrorLimit = f.errorLimit
	options.Sourcefile = f.sourcefile
	return options, nil
}

func runStdin(cmd *cobra.Command, options api.TransformFilesOptions, f flags) error {
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return exitcode.Set(fmt.Errorf("failed to read from stdin: %w", err), exitcode.IO)
	}

	result := api.Transform(string(input), options.TransformOptions)
	if len(result.Errors) > 0 {
		return errTransformFailed
	}

	if options.Outdir != "" {
		name := f.sourcefile
		if name == "" {
			name = "stdin.ts"
		}
		ext := filepath.Ext(name)
		outPath := filepath.Join(options.Outdir, strings.TrimSuffix(filepath.Base(name), ext)+".js")
		return writeOutput(outPath, result.JS)
	}

	_, err = cmd.OutOrStdout().Write(result.JS)
	return err
}

func runFiles(ctx context.Context, cmd *cobra.Command, args []string, options api.TransformFilesOptions) error {
	paths, err := collectInputs(args)
	if err != nil {
		return exitcode.Set(err, exitcode.IO)
	}
	if len(paths) == 0 {
		return usageError("no TypeScript files found")
	}
	if len(paths) > 1 && options.Outdir == "" {
		return usageError("must use --outdir when there are multiple input files")
	}

	results, err := api.TransformFiles(ctx, paths, options)
	if errors.Is(err, context.Canceled) {
		return err
	} else if err != nil {
		return exitcode.Set(err, exitcode.IO)
	}

	failed := false
	for _, result := range results {
		if len(result.Errors) > 0 {
			failed = true
			continue
		}
		if result.OutputPath == "" {
			if _, err := cmd.OutOrStdout().Write(result.JS); err != nil {
				return err
			}
			continue
		}
		if err := writeOutput(result.OutputPath, result.JS); err != nil {
			return err
		}
	}

	if failed {
		return errTransformFailed
	}
	return nil
}

var inputExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".mts": true,
	".cts": true,
}

// Directories are searched for TypeScript files. Declaration files are
// skipped since they never contain runtime code.
func collectInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if path != arg && (entry.Name() == "node_modules" || strings.HasPrefix(entry.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if isInputFile(entry.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func isInputFile(name string) bool {
	if strings.HasSuffix(name, ".d.ts") || strings.HasSuffix(name, ".d.mts") || strings.HasSuffix(name, ".d.cts") {
		return false
	}
	return inputExtensions[filepath.Ext(name)]
}

func writeOutput(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return exitcode.Set(fmt.Errorf("failed to create output directory: %w", err), exitcode.IO)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return exitcode.Set(fmt.Errorf("failed to write %q: %w", path, err), exitcode.IO)
	}
	return nil
}
