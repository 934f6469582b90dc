package option

import "sort"

// Location points at the directive line that defined an option.
type Location struct {
	Path string
	Line int // 0-based index into the file's lines
}

// MergedBooleanOption is a boolean option deduplicated across the files of a
// pack, together with where it was defined and whether any #ifdef/#ifndef
// referenced it.
type MergedBooleanOption struct {
	Option     BooleanOption
	Locations  []Location
	Referenced bool
}

// MergedStringOption is the value-option counterpart of MergedBooleanOption.
type MergedStringOption struct {
	Option    StringOption
	Locations []Location
}

// Set is the per-pack view of options: annotations from every file folded
// together, with options that disagree between files discarded as ambiguous.
// Like AnnotatedSource, a Set never changes once built.
type Set struct {
	booleans  map[string]MergedBooleanOption
	strings   map[string]MergedStringOption
	ambiguous map[string]string // name -> why the option was dropped
}

// Booleans returns the merged boolean options by name. Do not modify the
// returned map.
func (s *Set) Booleans() map[string]MergedBooleanOption {
	return s.booleans
}

// Strings returns the merged value options by name. Do not modify the
// returned map.
func (s *Set) Strings() map[string]MergedStringOption {
	return s.strings
}

// Ambiguous returns the names dropped during merging along with the reason.
// Do not modify the returned map.
func (s *Set) Ambiguous() map[string]string {
	return s.ambiguous
}

// BooleanNames returns the merged boolean option names in sorted order.
func (s *Set) BooleanNames() []string {
	names := make([]string, 0, len(s.booleans))
	for name := range s.booleans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StringNames returns the merged value option names in sorted order.
func (s *Set) StringNames() []string {
	names := make([]string, 0, len(s.strings))
	for name := range s.strings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetBuilder accumulates per-file annotations and freezes them into a Set.
type SetBuilder struct {
	booleans   map[string]MergedBooleanOption
	strings    map[string]MergedStringOption
	ambiguous  map[string]string
	referenced map[string]struct{}
}

// NewSetBuilder creates an empty builder.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{
		booleans:   make(map[string]MergedBooleanOption),
		strings:    make(map[string]MergedStringOption),
		ambiguous:  make(map[string]string),
		referenced: make(map[string]struct{}),
	}
}

// AddSource folds one file's annotations into the builder. Call order only
// matters for which definition's comment wins when several files carry one.
func (b *SetBuilder) AddSource(path string, src *AnnotatedSource) {
	for index, opt := range src.BooleanOptions() {
		b.addBoolean(Location{Path: path, Line: index}, opt)
	}
	for index, opt := range src.StringOptions() {
		b.addString(Location{Path: path, Line: index}, opt)
	}
	for name := range src.DefineReferences() {
		b.referenced[name] = struct{}{}
	}
}

func (b *SetBuilder) addBoolean(loc Location, opt BooleanOption) {
	if _, dropped := b.ambiguous[opt.Name]; dropped {
		return
	}
	if _, clash := b.strings[opt.Name]; clash {
		b.drop(opt.Name, "defined as both a boolean and a value option")
		return
	}

	existing, ok := b.booleans[opt.Name]
	if !ok {
		b.booleans[opt.Name] = MergedBooleanOption{
			Option:    opt,
			Locations: []Location{loc},
		}
		return
	}

	if existing.Option.Enabled != opt.Enabled {
		b.drop(opt.Name, "default state differs between files")
		return
	}

	if existing.Option.Comment == "" {
		existing.Option.Comment = opt.Comment
	}
	existing.Locations = append(existing.Locations, loc)
	b.booleans[opt.Name] = existing
}

func (b *SetBuilder) addString(loc Location, opt StringOption) {
	if _, dropped := b.ambiguous[opt.Name]; dropped {
		return
	}
	if _, clash := b.booleans[opt.Name]; clash {
		b.drop(opt.Name, "defined as both a boolean and a value option")
		return
	}

	existing, ok := b.strings[opt.Name]
	if !ok {
		b.strings[opt.Name] = MergedStringOption{
			Option:    opt,
			Locations: []Location{loc},
		}
		return
	}

	if existing.Option.Value != opt.Value {
		b.drop(opt.Name, "default value differs between files")
		return
	}

	if existing.Option.Comment == "" {
		existing.Option.Comment = opt.Comment
	}
	existing.Locations = append(existing.Locations, loc)
	b.strings[opt.Name] = existing
}

func (b *SetBuilder) drop(name, reason string) {
	delete(b.booleans, name)
	delete(b.strings, name)
	b.ambiguous[name] = reason
}

// Build freezes the accumulated state into a Set. The builder must not be
// used afterwards.
func (b *SetBuilder) Build() *Set {
	for name, merged := range b.booleans {
		if _, ok := b.referenced[name]; ok {
			merged.Referenced = true
			b.booleans[name] = merged
		}
	}
	return &Set{
		booleans:  b.booleans,
		strings:   b.strings,
		ambiguous: b.ambiguous,
	}
}
