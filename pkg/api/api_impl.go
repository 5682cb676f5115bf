package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tserase/tserase/internal/config"
	"github.com/tserase/tserase/internal/js_printer"
	"github.com/tserase/tserase/internal/logger"
	"github.com/tserase/tserase/internal/ts_parser"
	"github.com/tserase/tserase/internal/ts_transform"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateLoader(value Loader, path string) ts_parser.Options {
	switch value {
	case LoaderDefault:
		return ts_parser.Options{TSX: strings.HasSuffix(path, ".tsx")}
	case LoaderTS:
		return ts_parser.Options{}
	case LoaderTSX:
		return ts_parser.Options{TSX: true}
	default:
		panic("Invalid loader")
	}
}

func validateOptions(options TransformOptions) config.Options {
	return config.Options{
		TS: config.TSOptions{
			VerbatimModuleSyntax: options.VerbatimModuleSyntax,
		},
		RemoveWhitespace: options.MinifyWhitespace,
	}
}

func newLog(options TransformOptions) logger.Log {
	if options.LogLevel == LogLevelSilent {
		return logger.NewDeferLog()
	}
	return logger.NewStderrLog(logger.StderrOptions{
		IncludeSource: true,
		ErrorLimit:    options.ErrorLimit,
		Color:         validateColor(options.Color),
		LogLevel:      validateLogLevel(options.LogLevel),
	})
}

// Messages added to the returned log also go to the shared log. This lets
// every file have its own list of messages while all of them are printed
// through one terminal log.
func forwardingLog(shared logger.Log) (logger.Log, func() []logger.Msg) {
	var mutex sync.Mutex
	var msgs []logger.Msg
	hasErrors := false

	log := logger.Log{
		AddMsg: func(msg logger.Msg) {
			mutex.Lock()
			msgs = append(msgs, msg)
			if msg.Kind == logger.Error {
				hasErrors = true
			}
			mutex.Unlock()
			shared.AddMsg(msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []logger.Msg {
			mutex.Lock()
			defer mutex.Unlock()
			return msgs
		},
	}
	return log, log.Done
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location
			if loc := msg.Location; loc != nil {
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}
			filtered = append(filtered, Message{Text: msg.Text, Location: location})
		}
	}
	return filtered
}

// Parses, transforms, and prints one file. This returns nil if there were
// any errors.
func transformSource(ctx context.Context, log logger.Log, source logger.Source, parseOptions ts_parser.Options, options config.Options) (js []byte) {
	// A crash in one file shouldn't take down the whole run
	defer func() {
		if r := recover(); r != nil {
			log.AddError(nil, logger.Loc{}, fmt.Sprintf("panic: %v (while transforming %q)", r, source.PrettyPath))
			js = nil
		}
	}()

	tree, symbols, ok := ts_parser.Parse(ctx, log, source, parseOptions)
	if !ok {
		return nil
	}

	ts_transform.New(symbols, options.TS).Transform(&tree)

	return js_printer.Print(tree, js_printer.Options{
		MinifyWhitespace: options.RemoveWhitespace,
	}).JS
}

func transformImpl(input string, options TransformOptions) TransformResult {
	log := newLog(options)
	path := options.Sourcefile
	if path == "" {
		path = "<stdin>"
	}

	js := transformSource(context.Background(), log, logger.Source{PrettyPath: path, Contents: input},
		validateLoader(options.Loader, options.Sourcefile), validateOptions(options))

	msgs := log.Done()
	return TransformResult{
		Errors:   messagesOfKind(logger.Error, msgs),
		Warnings: messagesOfKind(logger.Warning, msgs),
		JS:       js,
	}
}

func transformFilesImpl(ctx context.Context, paths []string, options TransformFilesOptions) ([]FileResult, error) {
	if options.Jobs < 0 {
		return nil, fmt.Errorf("invalid number of jobs: %d", options.Jobs)
	}
	jobs := options.Jobs
	if jobs == 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Output paths keep the directory structure of the inputs
	var baseDir string
	if options.Outdir != "" && len(paths) > 0 {
		absPaths := make([]string, len(paths))
		for i, path := range paths {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
			}
			absPaths[i] = abs
		}
		baseDir = lowestCommonAncestorDirectory(absPaths)
	}

	shared := newLog(options.TransformOptions)
	configOptions := validateOptions(options.TransformOptions)
	results := make([]FileResult, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			contents, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", path, err)
			}

			log, done := forwardingLog(shared)
			source := logger.Source{PrettyPath: path, Contents: string(contents)}
			js := transformSource(ctx, log, source, validateLoader(options.Loader, path), configOptions)
			msgs := done()

			result := FileResult{
				Path: path,
				TransformResult: TransformResult{
					Errors:   messagesOfKind(logger.Error, msgs),
					Warnings: messagesOfKind(logger.Warning, msgs),
					JS:       js,
				},
			}
			if options.Outdir != "" {
				outputPath, err := outputPathFor(path, baseDir, options.Outdir)
				if err != nil {
					return err
				}
				result.OutputPath = outputPath
			}
			results[i] = result
			return nil
		})
	}

	err := group.Wait()
	shared.Done()
	if err != nil {
		return nil, err
	}
	return results, nil
}

var outputExtensions = map[string]string{
	".ts":  ".js",
	".tsx": ".js",
	".mts": ".mjs",
	".cts": ".cjs",
}

func outputPathFor(path string, baseDir string, outdir string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	rel, ok := stripDirPrefix(abs, baseDir, `\/`)
	if !ok {
		return "", fmt.Errorf("%q is not inside %q", abs, baseDir)
	}

	ext := filepath.Ext(rel)
	if replacement, ok := outputExtensions[ext]; ok {
		rel = rel[:len(rel)-len(ext)] + replacement
	} else {
		rel += ".js"
	}
	return filepath.Join(outdir, rel), nil
}

// Returns the deepest directory that contains every path
func lowestCommonAncestorDirectory(paths []string) string {
	dir := filepath.Dir(paths[0])
	for _, path := range paths[1:] {
		for {
			if _, ok := stripDirPrefix(filepath.Dir(path), dir, `\/`); ok {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return dir
}

// Returns the part of "path" after "prefix" if "path" is "prefix" itself or
// is somewhere inside it. Any of the characters in "allowedSlashes" can
// separate the two.
func stripDirPrefix(path string, prefix string, allowedSlashes string) (string, bool) {
	if prefix == "" {
		return path, true
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	suffix := path[len(prefix):]
	if suffix == "" {
		return "", true
	}
	if strings.IndexByte(allowedSlashes, suffix[0]) != -1 {
		return suffix[1:], true
	}
	if strings.IndexByte(allowedSlashes, prefix[len(prefix)-1]) != -1 {
		return suffix, true
	}
	return "", false
}
