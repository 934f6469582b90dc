package option

// Type identifies the directive family an option was declared through.
type Type uint8

const (
	// TypeDefine marks options declared with a #define directive.
	TypeDefine Type = iota
	// TypeConst is reserved for const declarations; parsing them is not
	// supported yet, so no option currently carries this type.
	TypeConst
)

func (t Type) String() string {
	switch t {
	case TypeDefine:
		return "define"
	case TypeConst:
		return "const"
	}
	return "unknown"
}

// BooleanOption is a toggle embedded in source text. Its on/off state is
// encoded by the presence or absence of a leading line-comment marker on the
// directive line: an uncommented directive means the option is enabled.
type BooleanOption struct {
	Type    Type
	Name    string
	Comment string // trailing comment text, "" when absent
	Enabled bool
}

// StringOption is an option that carries a textual value. The value is kept
// as the literal text from the directive; interpreting it as a number or an
// enum entry is someone else's concern.
type StringOption struct {
	Type    Type
	Name    string
	Comment string
	Value   string
}

// Values answers flip queries during Apply. Implementations decide, per
// boolean option, whether its current on-disk state should be inverted. The
// patcher never sees absolute target states, only relative flips, which keeps
// it decoupled from however desired values are stored and merged.
type Values interface {
	ShouldFlip(name string) bool
}

// NameSet is a Values implementation that flips exactly the named options.
type NameSet map[string]struct{}

// ShouldFlip reports whether name is in the set.
func (s NameSet) ShouldFlip(name string) bool {
	_, ok := s[name]
	return ok
}
