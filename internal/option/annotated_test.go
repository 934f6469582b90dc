package option

import (
	"errors"
	"strings"
	"testing"
)

func annotateText(text string) *AnnotatedSource {
	return Annotate(strings.Split(text, "\n"))
}

func TestUninterestingLinesProduceNothing(t *testing.T) {
	src := Annotate([]string{
		"void main() {",
		"\tgl_FragColor = color;",
		"}",
		"",
		"// just a comment",
	})

	if n := len(src.BooleanOptions()); n != 0 {
		t.Errorf("expected no boolean options, got %d", n)
	}
	if n := len(src.StringOptions()); n != 0 {
		t.Errorf("expected no string options, got %d", n)
	}
	if n := len(src.Diagnostics()); n != 0 {
		t.Errorf("expected no diagnostics, got %v", src.Diagnostics())
	}
	if n := len(src.DefineReferences()); n != 0 {
		t.Errorf("expected no references, got %v", src.DefineReferences())
	}
}

func TestPlainBooleanDefine(t *testing.T) {
	src := Annotate([]string{"#define FOO"})

	opt, ok := src.BooleanOptions()[0]
	if !ok {
		t.Fatalf("expected a boolean option on line 0, got %v", src.Diagnostics())
	}
	if opt.Name != "FOO" {
		t.Errorf("Name = %q, want FOO", opt.Name)
	}
	if !opt.Enabled {
		t.Error("expected option to be enabled")
	}
	if opt.Comment != "" {
		t.Errorf("Comment = %q, want empty", opt.Comment)
	}
	if opt.Type != TypeDefine {
		t.Errorf("Type = %v, want define", opt.Type)
	}
}

func TestDisabledBooleanDefineWithComment(t *testing.T) {
	src := Annotate([]string{"//#define FOO // comment"})

	opt, ok := src.BooleanOptions()[0]
	if !ok {
		t.Fatalf("expected a boolean option on line 0, got %v", src.Diagnostics())
	}
	if opt.Enabled {
		t.Error("expected a leading comment to disable the option")
	}
	if opt.Comment != "comment" {
		t.Errorf("Comment = %q, want %q", opt.Comment, "comment")
	}
}

func TestIndentedBooleanDefine(t *testing.T) {
	src := Annotate([]string{"   // #define SHADOWS  "})

	// Indentation never matters, but the space between the comment marker
	// and #define does: scanning resumes right after "//".
	if _, ok := src.BooleanOptions()[0]; ok {
		t.Fatal("expected no boolean option for \"// #define\"")
	}
	if _, ok := src.Diagnostics()[0]; !ok {
		t.Error("expected a diagnostic for misplaced #define")
	}

	src = Annotate([]string{"\t//#define SHADOWS"})
	opt, ok := src.BooleanOptions()[0]
	if !ok {
		t.Fatalf("expected a boolean option, got %v", src.Diagnostics())
	}
	if opt.Enabled {
		t.Error("expected the option to be disabled")
	}
}

func TestValueDefine(t *testing.T) {
	src := Annotate([]string{"#define OPTION 0.5 // A test option"})

	opt, ok := src.StringOptions()[0]
	if !ok {
		t.Fatalf("expected a string option on line 0, got %v", src.Diagnostics())
	}
	if opt.Name != "OPTION" {
		t.Errorf("Name = %q, want OPTION", opt.Name)
	}
	if opt.Value != "0.5" {
		t.Errorf("Value = %q, want 0.5", opt.Value)
	}
	if opt.Comment != "A test option" {
		t.Errorf("Comment = %q, want %q", opt.Comment, "A test option")
	}
}

func TestValueDefineVariants(t *testing.T) {
	cases := []struct {
		line  string
		value string
	}{
		{"#define SHADOW_SAMPLES 4", "4"},
		{"#define BIAS -0.25", "-0.25"},
		{"#define QUALITY_PRESET HIGH", "HIGH"},
	}

	for _, tc := range cases {
		src := Annotate([]string{tc.line})
		opt, ok := src.StringOptions()[0]
		if !ok {
			t.Errorf("%q: expected a string option, got %v", tc.line, src.Diagnostics())
			continue
		}
		if opt.Value != tc.value {
			t.Errorf("%q: Value = %q, want %q", tc.line, opt.Value, tc.value)
		}
		if opt.Comment != "" {
			t.Errorf("%q: Comment = %q, want empty", tc.line, opt.Comment)
		}
	}
}

func TestIfdefReferenceAsymmetry(t *testing.T) {
	src := Annotate([]string{
		"#ifdef SHADOWS",
		"#endif",
		"#if defined(REFLECTIONS)",
		"#ifndef NO_FOG",
	})

	refs := src.DefineReferences()
	if idx, ok := refs["SHADOWS"]; !ok || idx != 0 {
		t.Errorf("expected SHADOWS referenced at line 0, got %v", refs)
	}
	if idx, ok := refs["NO_FOG"]; !ok || idx != 3 {
		t.Errorf("expected NO_FOG referenced at line 3, got %v", refs)
	}
	// Plain #if directives never count, even though they reference names.
	if _, ok := refs["REFLECTIONS"]; ok {
		t.Error("references inside #if defined(...) must not be tracked")
	}
}

func TestMalformedIfdefIsSilentlyIgnored(t *testing.T) {
	src := Annotate([]string{
		"#ifdef",
		"#ifdef TWO NAMES",
		"#ifdef OK",
	})

	if n := len(src.Diagnostics()); n != 0 {
		t.Errorf("malformed #ifdef lines must not produce diagnostics, got %v", src.Diagnostics())
	}
	refs := src.DefineReferences()
	if len(refs) != 1 {
		t.Errorf("expected exactly one reference, got %v", refs)
	}
	if idx, ok := refs["OK"]; !ok || idx != 2 {
		t.Errorf("expected OK referenced at line 2, got %v", refs)
	}
}

func TestConstDiagnostic(t *testing.T) {
	src := Annotate([]string{"const float x = 1.0;"})

	msg, ok := src.Diagnostics()[0]
	if !ok {
		t.Fatal("expected a diagnostic for a const declaration")
	}
	if !strings.Contains(msg, "Const options aren't currently supported") {
		t.Errorf("unexpected diagnostic: %q", msg)
	}
	if len(src.BooleanOptions()) != 0 || len(src.StringOptions()) != 0 {
		t.Error("const lines must not produce annotations")
	}
}

func TestConstPrefixWithoutWhitespaceIsIgnored(t *testing.T) {
	src := Annotate([]string{"constant_buffer cb;"})

	if n := len(src.Diagnostics()); n != 0 {
		t.Errorf("expected no diagnostics, got %v", src.Diagnostics())
	}
}

func TestDefineDiagnostics(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"#define 123abc", "No alphanumeric or underscore characters detected"},
		{"#define", "doesn't have any whitespace characters after the #define"},
		{"foo #define BAR", "wasn't in a place we expected"},
		{"#define NAME$", "Only alphanumeric or underscore characters are allowed"},
		{"//#define OPTION 0.5", "Leading comments (//) are only allowed on boolean #define options"},
		{"#define OPTION @", "wasn't a valid number or a valid word"},
		{"#define OPTION 0.5x", "Invalid characters after number or word"},
		{"#define OPTION 0.5 extra", "Only comments may come after the value"},
	}

	for _, tc := range cases {
		src := Annotate([]string{tc.line})
		msg, ok := src.Diagnostics()[0]
		if !ok {
			t.Errorf("%q: expected a diagnostic", tc.line)
			continue
		}
		if !strings.Contains(msg, tc.want) {
			t.Errorf("%q: diagnostic %q does not mention %q", tc.line, msg, tc.want)
		}
		if len(src.BooleanOptions()) != 0 || len(src.StringOptions()) != 0 {
			t.Errorf("%q: diagnosed lines must not also carry annotations", tc.line)
		}
	}
}

func TestAnnotationKindsAreExclusive(t *testing.T) {
	src := annotateText(strings.Join([]string{
		"#define SHADOWS",
		"//#define WAVING_PLANTS // Waving plants",
		"#define SHADOW_SAMPLES 4 // Sample count",
		"#define 1BAD",
		"const int q = 1;",
		"#ifdef SHADOWS",
		"plain line",
	}, "\n"))

	for index := range src.Lines() {
		kinds := 0
		if _, ok := src.BooleanOptions()[index]; ok {
			kinds++
		}
		if _, ok := src.StringOptions()[index]; ok {
			kinds++
		}
		if _, ok := src.Diagnostics()[index]; ok {
			kinds++
		}
		if kinds > 1 {
			t.Errorf("line %d carries %d annotation kinds", index, kinds)
		}
	}
}

type noFlips struct{}

func (noFlips) ShouldFlip(string) bool { return false }

func TestApplyWithoutFlipsIsIdentity(t *testing.T) {
	text := strings.Join([]string{
		"  #define SHADOWS  ",
		"//#define WAVING_PLANTS",
		"#define SHADOW_SAMPLES 4",
		"uniform sampler2D tex;",
	}, "\n") + "\n"

	src := Annotate(strings.Split(strings.TrimSuffix(text, "\n"), "\n"))

	got, err := src.Apply(noFlips{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != text {
		t.Errorf("Apply changed unedited text:\n%q\nwant\n%q", got, text)
	}
}

func TestApplyFlipRoundTrip(t *testing.T) {
	original := []string{
		"#define SHADOWS",
		"//#define WAVING_PLANTS",
		"void main() {}",
	}

	flips := NameSet{"SHADOWS": {}, "WAVING_PLANTS": {}}

	flipped, err := Annotate(original).Apply(flips)
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	wantFlipped := "//#define SHADOWS\n#define WAVING_PLANTS\nvoid main() {}\n"
	if flipped != wantFlipped {
		t.Fatalf("flipped text = %q, want %q", flipped, wantFlipped)
	}

	// Flipping again from a fresh parse restores the original text.
	restored, err := annotateText(strings.TrimSuffix(flipped, "\n")).Apply(flips)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	want := strings.Join(original, "\n") + "\n"
	if restored != want {
		t.Errorf("round trip = %q, want %q", restored, want)
	}
}

func TestApplyPreservesIndentationWhenDisabling(t *testing.T) {
	src := Annotate([]string{"\t#define SHADOWS"})

	got, err := src.Apply(NameSet{"SHADOWS": {}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "//\t#define SHADOWS\n" {
		t.Errorf("got %q", got)
	}
}

func TestApplyValueEditFails(t *testing.T) {
	src := Annotate([]string{
		"#define SHADOWS",
		"#define SHADOW_SAMPLES 4",
	})

	_, err := src.Apply(NameSet{"SHADOW_SAMPLES": {}})
	if err == nil {
		t.Fatal("expected an error for a value option edit")
	}
	if !errors.Is(err, ErrValueEditUnsupported) {
		t.Errorf("error %v is not ErrValueEditUnsupported", err)
	}

	// A value option that nobody wants to change must not fail the call.
	got, err := src.Apply(NameSet{"SHADOWS": {}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "//#define SHADOWS\n#define SHADOW_SAMPLES 4\n" {
		t.Errorf("got %q", got)
	}
}

func TestRestoreMatchesAnnotate(t *testing.T) {
	lines := []string{
		"#define SHADOWS",
		"#ifdef SHADOWS",
		"#define BAD$",
	}
	src := Annotate(lines)

	restored := Restore(
		src.Lines(),
		src.BooleanOptions(),
		src.StringOptions(),
		src.Diagnostics(),
		src.DefineReferences(),
	)

	a, err := src.Apply(NameSet{"SHADOWS": {}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	b, err := restored.Apply(NameSet{"SHADOWS": {}})
	if err != nil {
		t.Fatalf("restored Apply: %v", err)
	}
	if a != b {
		t.Errorf("restored source applied differently: %q vs %q", a, b)
	}
}
