package option

import (
	"errors"
	"fmt"
	"strings"

	"shaderopt/internal/scan"
)

// ErrValueEditUnsupported is returned by Apply when a changed value would land
// on a string-option line. Rewriting value directives is not implemented, and
// silently passing the line through would mask the unsupported edit.
var ErrValueEditUnsupported = errors.New("rewriting value options is not supported")

// AnnotatedSource couples a snapshot of one shader source file with per-line
// annotations describing the configurable options found in it.
//
// Discovery happens once, in Annotate. Afterwards the snapshot and all
// annotation maps are never modified, so any number of Apply calls can reuse
// them without re-parsing and without the annotations drifting out of sync
// with the text they describe. A changed file on disk requires a fresh
// AnnotatedSource; there is no partial-invalidation path.
type AnnotatedSource struct {
	lines []string

	booleanOptions map[int]BooleanOption
	stringOptions  map[int]StringOption

	// diagnostics holds, per line, the reason a plausible option line was
	// rejected. A line has at most one entry across the three maps.
	diagnostics map[int]string

	// defineReferences maps a #define option name to one line that referenced
	// it in an #ifdef or #ifndef directive. References inside plain #if and
	// #elif directives are deliberately not tracked: the external tooling this
	// format comes from never counted them, and packs in the wild rely on
	// that, so the narrower grammar is a compatibility requirement.
	defineReferences map[string]int
}

type annotations struct {
	booleanOptions   map[int]BooleanOption
	stringOptions    map[int]StringOption
	diagnostics      map[int]string
	defineReferences map[string]int
}

// Annotate parses the lines of a shader source file to locate the valid
// options in it. Lines are classified independently; a diagnostic on one line
// never stops classification of the rest.
func Annotate(lines []string) *AnnotatedSource {
	b := &annotations{
		booleanOptions:   make(map[int]BooleanOption),
		stringOptions:    make(map[int]StringOption),
		diagnostics:      make(map[int]string),
		defineReferences: make(map[string]int),
	}

	for index, line := range lines {
		parseLine(b, index, line)
	}

	snapshot := make([]string, len(lines))
	copy(snapshot, lines)

	return &AnnotatedSource{
		lines:            snapshot,
		booleanOptions:   b.booleanOptions,
		stringOptions:    b.stringOptions,
		diagnostics:      b.diagnostics,
		defineReferences: b.defineReferences,
	}
}

func parseLine(b *annotations, index int, lineText string) {
	// Cheap pre-filter before spinning up a scanner. This must never reject a
	// line one of the anchored grammars below would accept, so it checks for
	// every directive keyword the grammars dispatch on.
	if !strings.Contains(lineText, "#define") &&
		!strings.Contains(lineText, "const") &&
		!strings.Contains(lineText, "#ifdef") &&
		!strings.Contains(lineText, "#ifndef") {
		return
	}

	// Scan the trimmed form to ignore indentation and trailing whitespace.
	line := scan.NewLine(strings.TrimSpace(lineText))

	switch {
	case line.TakeLiteral("#ifdef") || line.TakeLiteral("#ifndef"):
		// Conditional-inclusion directives are what make a boolean option
		// count as referenced. #if and #elif lines are skipped on purpose,
		// see the defineReferences field comment.
		parseIfdef(b, index, line)
	case line.TakeLiteral("const"):
		if !line.TakeSomeWhitespace() {
			return
		}
		b.diagnostics[index] = "Const options aren't currently supported."
	case line.CurrentlyContains("#define"):
		parseDefineOption(b, index, line)
	}
}

func parseIfdef(b *annotations, index int, line *scan.Line) {
	if !line.TakeSomeWhitespace() {
		return
	}

	name, ok := line.TakeWord()

	line.TakeSomeWhitespace()

	// Malformed conditionals are common and not required to be option-shaped,
	// so they are ignored without a diagnostic.
	if !ok || !line.IsEnd() {
		return
	}

	b.defineReferences[name] = index
}

func parseDefineOption(b *annotations, index int, line *scan.Line) {
	// A leading comment marker disables a boolean option without removing it.
	hasLeadingComment := line.TakeComments()

	if !line.TakeLiteral("#define") {
		b.diagnostics[index] = "This line contains an occurrence of \"#define\" " +
			"but it wasn't in a place we expected, ignoring it."
		return
	}

	if !line.TakeSomeWhitespace() {
		b.diagnostics[index] = "This line properly starts with a #define statement but doesn't have " +
			"any whitespace characters after the #define."
		return
	}

	name, ok := line.TakeWord()
	if !ok {
		b.diagnostics[index] = "Invalid syntax after #define directive. " +
			"No alphanumeric or underscore characters detected."
		return
	}

	tookWhitespace := line.TakeSomeWhitespace()

	if line.IsEnd() {
		// Plain define directive without a comment.
		b.booleanOptions[index] = BooleanOption{
			Type:    TypeDefine,
			Name:    name,
			Enabled: !hasLeadingComment,
		}
		return
	}

	if line.TakeComments() {
		// A bare comment, so this is a boolean option. No allowed-values list
		// to look for: the domain of a boolean option is exactly on and off.
		b.booleanOptions[index] = BooleanOption{
			Type:    TypeDefine,
			Name:    name,
			Comment: strings.TrimSpace(line.TakeRest()),
			Enabled: !hasLeadingComment,
		}
		return
	} else if !tookWhitespace {
		b.diagnostics[index] = "Invalid syntax after #define directive. Only alphanumeric or underscore " +
			"characters are allowed in option names."
		return
	}

	if hasLeadingComment {
		b.diagnostics[index] = "Ignoring potential non-boolean #define option since it has a leading comment. " +
			"Leading comments (//) are only allowed on boolean #define options."
		return
	}

	value, ok := line.TakeNumber()
	if !ok {
		value, ok = line.TakeWord()
	}
	if !ok {
		b.diagnostics[index] = "Ignoring this #define directive because it doesn't appear to be a boolean #define, " +
			"and its potential value wasn't a valid number or a valid word."
		return
	}

	tookWhitespace = line.TakeSomeWhitespace()

	if line.IsEnd() {
		b.stringOptions[index] = StringOption{
			Type:  TypeDefine,
			Name:  name,
			Value: value,
		}
		return
	} else if !tookWhitespace {
		b.diagnostics[index] = "Invalid syntax after value #define directive. " +
			"Invalid characters after number or word."
		return
	}

	if !line.TakeComments() {
		b.diagnostics[index] = "Invalid syntax after value #define directive. " +
			"Only comments may come after the value."
		return
	}

	b.stringOptions[index] = StringOption{
		Type:    TypeDefine,
		Name:    name,
		Comment: strings.TrimSpace(line.TakeRest()),
		Value:   value,
	}
}

// Lines returns the source snapshot. Do not modify the returned slice.
func (s *AnnotatedSource) Lines() []string {
	return s.lines
}

// BooleanOptions returns the boolean options keyed by 0-based line index.
// Do not modify the returned map.
func (s *AnnotatedSource) BooleanOptions() map[int]BooleanOption {
	return s.booleanOptions
}

// StringOptions returns the value-carrying options keyed by 0-based line
// index. Do not modify the returned map.
func (s *AnnotatedSource) StringOptions() map[int]StringOption {
	return s.stringOptions
}

// Diagnostics returns the per-line rejection messages. Do not modify the
// returned map.
func (s *AnnotatedSource) Diagnostics() map[int]string {
	return s.diagnostics
}

// DefineReferences returns, per referenced option name, one line index where
// an #ifdef/#ifndef mentioned it. Do not modify the returned map.
func (s *AnnotatedSource) DefineReferences() map[string]int {
	return s.defineReferences
}

// Apply regenerates the full source text with the requested option flips
// applied. Unannotated lines pass through byte-identical; every line,
// including the last, is followed by a single '\n'. If a flip lands on a
// string-option line the whole call fails with ErrValueEditUnsupported and no
// partial output is produced.
func (s *AnnotatedSource) Apply(values Values) (string, error) {
	var out strings.Builder

	for index, line := range s.lines {
		edited, err := s.edit(values, index, line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", index+1, err)
		}
		out.WriteString(edited)
		out.WriteByte('\n')
	}

	return out.String(), nil
}

func (s *AnnotatedSource) edit(values Values, index int, existing string) (string, error) {
	if booleanOption, ok := s.booleanOptions[index]; ok {
		if values.ShouldFlip(booleanOption.Name) {
			return flipBooleanDefine(existing), nil
		}
		return existing, nil
	}

	if stringOption, ok := s.stringOptions[index]; ok {
		if values.ShouldFlip(stringOption.Name) {
			return "", ErrValueEditUnsupported
		}
		return existing, nil
	}

	return existing, nil
}

func hasLeadingComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//")
}

// flipBooleanDefine toggles the leading comment marker on a directive line.
// It trusts discovery: the line is known to be a boolean option, so flipping
// is a pure text transform rather than a re-parse.
func flipBooleanDefine(line string) string {
	if hasLeadingComment(line) {
		return strings.Replace(line, "//", "", 1)
	}
	return "//" + line
}
