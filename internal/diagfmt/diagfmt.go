// Package diagfmt renders scan results for humans and for tooling.
package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"shaderopt/internal/packscan"
)

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color bool
	// MaxDiagnostics caps how many diagnostic lines are printed; 0 means all.
	MaxDiagnostics int
}

// Pretty writes the merged options followed by per-line diagnostics in
// "path:line: message" form. Line numbers are printed 1-based.
func Pretty(w io.Writer, result *packscan.Result, opts PrettyOpts) {
	enabled := color.New(color.FgGreen)
	disabled := color.New(color.FgRed)
	value := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	if !opts.Color {
		for _, c := range []*color.Color{enabled, disabled, value, warn, dim} {
			c.DisableColor()
		}
	}

	for _, name := range result.Set.BooleanNames() {
		merged := result.Set.Booleans()[name]
		state := enabled.Sprint("on")
		if !merged.Option.Enabled {
			state = disabled.Sprint("off")
		}
		fmt.Fprintf(w, "%s [%s]", name, state)
		if !merged.Referenced {
			fmt.Fprintf(w, " %s", dim.Sprint("(unreferenced)"))
		}
		if merged.Option.Comment != "" {
			fmt.Fprintf(w, " %s", dim.Sprint("// "+merged.Option.Comment))
		}
		fmt.Fprintln(w)
	}

	for _, name := range result.Set.StringNames() {
		merged := result.Set.Strings()[name]
		fmt.Fprintf(w, "%s = %s", name, value.Sprint(merged.Option.Value))
		if merged.Option.Comment != "" {
			fmt.Fprintf(w, " %s", dim.Sprint("// "+merged.Option.Comment))
		}
		fmt.Fprintln(w)
	}

	ambiguous := make([]string, 0, len(result.Set.Ambiguous()))
	for name := range result.Set.Ambiguous() {
		ambiguous = append(ambiguous, name)
	}
	sort.Strings(ambiguous)
	for _, name := range ambiguous {
		fmt.Fprintf(w, "%s: ambiguous, %s\n", warn.Sprint(name), result.Set.Ambiguous()[name])
	}

	printed := 0
	for _, file := range result.Files {
		for _, index := range sortedKeys(file.Source.Diagnostics()) {
			if opts.MaxDiagnostics > 0 && printed >= opts.MaxDiagnostics {
				fmt.Fprintf(w, "%s\n", dim.Sprint("... more diagnostics suppressed"))
				return
			}
			msg := file.Source.Diagnostics()[index]
			fmt.Fprintf(w, "%s:%d: %s\n", file.Path, index+1, warn.Sprint(msg))
			printed++
		}
	}
}

// jsonOption is the wire shape of one merged option.
type jsonOption struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"` // "boolean" or "string"
	Enabled    *bool  `json:"enabled,omitempty"`
	Value      string `json:"value,omitempty"`
	Comment    string `json:"comment,omitempty"`
	Referenced bool   `json:"referenced"`
}

type jsonDiagnostic struct {
	Path    string `json:"path"`
	Line    int    `json:"line"` // 1-based
	Message string `json:"message"`
}

type jsonResult struct {
	Options     []jsonOption      `json:"options"`
	Ambiguous   map[string]string `json:"ambiguous,omitempty"`
	Diagnostics []jsonDiagnostic  `json:"diagnostics"`
}

// JSON writes the scan result as a single JSON document.
func JSON(w io.Writer, result *packscan.Result) error {
	out := jsonResult{
		Diagnostics: []jsonDiagnostic{},
	}

	for _, name := range result.Set.BooleanNames() {
		merged := result.Set.Booleans()[name]
		enabled := merged.Option.Enabled
		out.Options = append(out.Options, jsonOption{
			Name:       name,
			Kind:       "boolean",
			Enabled:    &enabled,
			Comment:    merged.Option.Comment,
			Referenced: merged.Referenced,
		})
	}
	for _, name := range result.Set.StringNames() {
		merged := result.Set.Strings()[name]
		out.Options = append(out.Options, jsonOption{
			Name:    name,
			Kind:    "string",
			Value:   merged.Option.Value,
			Comment: merged.Option.Comment,
		})
	}
	if len(result.Set.Ambiguous()) > 0 {
		out.Ambiguous = result.Set.Ambiguous()
	}

	for _, file := range result.Files {
		for _, index := range sortedKeys(file.Source.Diagnostics()) {
			out.Diagnostics = append(out.Diagnostics, jsonDiagnostic{
				Path:    file.Path,
				Line:    index + 1,
				Message: file.Source.Diagnostics()[index],
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func sortedKeys(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
