// Package envfile reads KEY=VALUE environment files and combines them with
// the process environment into a single variable mapping.
package envfile

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/errgo.v1"
)

// DefaultPath is the environment file used when no path is given.
const DefaultPath = ".env"

// maxLineSize bounds the length of a single line in an environment file.
const maxLineSize = 1024 * 1024

// Vars maps variable names to their values.
type Vars map[string]string

// Parse reads KEY=VALUE pairs from r.
//
// Blank lines, lines starting with '#' and lines without '=' are skipped.
// The line is split on the first '=', both sides are trimmed and a single
// layer of matching quotes is removed from the value. When a key appears
// more than once the last occurrence wins.
func Parse(r io.Reader) (Vars, error) {
	vars := make(Vars)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, errgo.Notef(err, "error reading environment file")
	}

	return vars, nil
}

// Load parses the environment file at path. An empty path means
// DefaultPath. A file that does not exist yields an empty mapping.
func Load(path string) (Vars, error) {
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(Vars), nil
		}
		return nil, errgo.Notef(err, "cannot open environment file %q", path)
	}
	defer f.Close()

	vars, err := Parse(f)
	if err != nil {
		return nil, errgo.Notef(err, "cannot load %q", path)
	}
	return vars, nil
}

// Environ returns the process environment as Vars.
func Environ() Vars {
	vars := make(Vars)

	for _, v := range os.Environ() {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}

	return vars
}

// Merge combines sources into a new mapping. Keys in later sources
// overwrite the same keys in earlier ones.
func Merge(sources ...Vars) Vars {
	merged := make(Vars)
	for _, src := range sources {
		for k, v := range src {
			merged[k] = v
		}
	}
	return merged
}

// Resolve builds the variable mapping used for rendering: the contents of
// the environment file at path, overridden by the process environment.
func Resolve(path string) (Vars, error) {
	fileVars, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Merge(fileVars, Environ()), nil
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
