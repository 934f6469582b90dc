// Package packscan discovers the shader source files of a pack, annotates
// each of them for configurable options, and folds the results into a single
// merged option set. It also owns writing patched files back to disk.
package packscan

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"shaderopt/internal/option"
)

// shaderExtensions are the file suffixes scanned for options.
var shaderExtensions = []string{
	".fsh", ".vsh", ".gsh", ".csh",
	".glsl", ".vert", ".frag", ".comp",
}

// FileResult holds one file's annotations. Path is relative to the pack root.
type FileResult struct {
	Path   string
	Source *option.AnnotatedSource
}

// Result is a scanned pack: per-file annotations in sorted path order plus
// the merged option set.
type Result struct {
	Dir   string
	Files []FileResult
	Set   *option.Set
}

// Options configures a scan.
type Options struct {
	// Jobs bounds scan parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, is consulted per file by content hash.
	Cache *Cache
}

// ListShaderFiles returns the pack's shader source paths relative to dir,
// sorted for deterministic ordering.
func ListShaderFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range shaderExtensions {
			if strings.HasSuffix(path, ext) {
				rel, relErr := filepath.Rel(dir, path)
				if relErr != nil {
					return relErr
				}
				files = append(files, filepath.ToSlash(rel))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// SplitLines turns raw file content into the line sequence the annotator
// consumes: UTF-8 BOM stripped, CRLF normalized, no line terminators kept. A
// trailing newline does not produce a final empty line, so rewriting a file
// through Apply reproduces the conventional trailing newline.
func SplitLines(content []byte) []string {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	text := string(content)
	text = strings.TrimSuffix(text, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ScanFile annotates a single shader source file.
func ScanFile(path string) (*option.AnnotatedSource, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return nil, err
	}
	return option.Annotate(SplitLines(content)), nil
}

// Scan annotates every shader source file under dir, in parallel, and merges
// the discovered options. Files are independent, so parallel classification
// cannot change observable results.
func Scan(ctx context.Context, dir string, opts Options) (*Result, error) {
	files, err := ListShaderFiles(dir)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(files), 1)))

	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel))) // #nosec G304
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}

			lines := SplitLines(content)

			if src, ok := opts.Cache.Lookup(content, lines); ok {
				results[i] = FileResult{Path: rel, Source: src}
				return nil
			}

			src := option.Annotate(lines)
			opts.Cache.Store(content, src)

			// Index i is unique per goroutine, no mutex needed.
			results[i] = FileResult{Path: rel, Source: src}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	builder := option.NewSetBuilder()
	for _, r := range results {
		builder.AddSource(r.Path, r.Source)
	}

	return &Result{
		Dir:   dir,
		Files: results,
		Set:   builder.Build(),
	}, nil
}

// Apply computes the rewritten text of every file whose content changes under
// the given flips. Nothing touches the disk: the returned map goes from
// relative path to new content. The whole call fails if any file hits an
// unsupported edit.
func (r *Result) Apply(values option.Values) (map[string]string, error) {
	changed := make(map[string]string)

	for _, f := range r.Files {
		edited, err := f.Source.Apply(values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		unedited := strings.Join(f.Source.Lines(), "\n") + "\n"
		if edited != unedited {
			changed[f.Path] = edited
		}
	}

	return changed, nil
}

// Rewrite applies the flips and writes every changed file back under the pack
// root. All texts are computed before the first write, so an unsupported edit
// anywhere leaves the pack untouched. Returns the changed paths sorted.
func (r *Result) Rewrite(values option.Values) ([]string, error) {
	changed, err := r.Apply(values)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(changed))
	for path := range changed {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		full := filepath.Join(r.Dir, filepath.FromSlash(path))
		if err := os.WriteFile(full, []byte(changed[path]), 0o644); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return paths, nil
}
