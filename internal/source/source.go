// Package source resolves the configured playlist names and glob patterns
// into the ordered list of files the generator reads.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/gobwas/glob"
)

// Spec describes where source playlists live.
type Spec struct {
	// Dir is the directory names and patterns are resolved against.
	Dir string
	// Files are explicit file names. They are always included, even when
	// missing, so the reader can report them.
	Files []string
	// Patterns are glob patterns (gobwas/glob syntax) matched against the
	// file names in Dir. Matches are appended in lexical order.
	Patterns []string
}

// CompilePatterns compiles every pattern, reporting the first invalid one.
func CompilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", errors.ErrInvalidInput, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Resolve returns the paths to read: explicit files first, in configured
// order, followed by pattern matches. Duplicates and any path in exclude
// (typically the output file) are dropped.
func Resolve(spec Spec, exclude ...string) ([]string, error) {
	globs, err := CompilePatterns(spec.Patterns)
	if err != nil {
		return nil, err
	}

	// Keyed by absolute path so a relative Dir and an absolute exclude
	// still match.
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		skip[absPath(p)] = true
	}

	var paths []string
	add := func(path string) {
		path = filepath.Clean(path)
		key := absPath(path)
		if skip[key] {
			return
		}
		skip[key] = true
		paths = append(paths, path)
	}

	for _, name := range spec.Files {
		add(filepath.Join(spec.Dir, name))
	}

	if len(globs) == 0 {
		return paths, nil
	}

	names, err := listFiles(spec.Dir)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		for _, g := range globs {
			if g.Match(name) {
				add(filepath.Join(spec.Dir, name))
				break
			}
		}
	}

	return paths, nil
}

// absPath returns the absolute form of path, or the cleaned path when the
// working directory is unavailable.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// listFiles returns the sorted regular file names in dir. A missing
// directory has no files.
func listFiles(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
