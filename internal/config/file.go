package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const FileName = "tserase.toml"

// This is the on-disk form of the options. Every field is a pointer so that a
// command-line flag can tell "not set" apart from the zero value.
//
//	[compiler]
//	verbatim_module_syntax = true
//
//	[output]
//	minify_whitespace = false
//	outdir = "dist"
//
//	[run]
//	jobs = 4
//	log_level = "warning"
//	color = "auto"
type File struct {
	Path string `toml:"-"`

	Compiler struct {
		VerbatimModuleSyntax *bool `toml:"verbatim_module_syntax"`
	} `toml:"compiler"`

	Output struct {
		MinifyWhitespace *bool   `toml:"minify_whitespace"`
		Outdir           *string `toml:"outdir"`
	} `toml:"output"`

	Run struct {
		Jobs     *int    `toml:"jobs"`
		LogLevel *string `toml:"log_level"`
		Color    *string `toml:"color"`
	} `toml:"run"`
}

var logLevels = map[string]bool{"info": true, "warning": true, "error": true, "silent": true}

var colorModes = map[string]bool{"auto": true, "always": true, "never": true}

func LoadFile(path string) (File, error) {
	var file File
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return File{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return File{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if jobs := file.Run.Jobs; jobs != nil && *jobs < 0 {
		return File{}, fmt.Errorf("%s: [run].jobs must not be negative", path)
	}
	if level := file.Run.LogLevel; level != nil && !logLevels[*level] {
		return File{}, fmt.Errorf("%s: invalid [run].log_level %q", path, *level)
	}
	if color := file.Run.Color; color != nil && !colorModes[*color] {
		return File{}, fmt.Errorf("%s: invalid [run].color %q", path, *color)
	}
	if outdir := file.Output.Outdir; outdir != nil && !filepath.IsAbs(*outdir) {
		// Relative output directories are relative to the config file
		abs := filepath.Join(filepath.Dir(path), *outdir)
		file.Output.Outdir = &abs
	}
	file.Path = path
	return file, nil
}

// FindFile walks up from startDir to locate tserase.toml.
func FindFile(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Copies every value that is set in the file into the options
func (file File) Apply(options *Options) {
	if v := file.Compiler.VerbatimModuleSyntax; v != nil {
		options.TS.VerbatimModuleSyntax = *v
	}
	if v := file.Output.MinifyWhitespace; v != nil {
		options.RemoveWhitespace = *v
	}
}
