package option

// Restore rebuilds an AnnotatedSource from annotations discovered earlier,
// typically read back from the scan cache. The caller is responsible for
// pairing the annotations with the exact lines they were discovered from;
// keying cache entries by content hash is what makes that safe. All inputs
// are copied, nil maps are allowed.
func Restore(
	lines []string,
	booleans map[int]BooleanOption,
	strs map[int]StringOption,
	diagnostics map[int]string,
	references map[string]int,
) *AnnotatedSource {
	s := &AnnotatedSource{
		lines:            make([]string, len(lines)),
		booleanOptions:   make(map[int]BooleanOption, len(booleans)),
		stringOptions:    make(map[int]StringOption, len(strs)),
		diagnostics:      make(map[int]string, len(diagnostics)),
		defineReferences: make(map[string]int, len(references)),
	}
	copy(s.lines, lines)
	for k, v := range booleans {
		s.booleanOptions[k] = v
	}
	for k, v := range strs {
		s.stringOptions[k] = v
	}
	for k, v := range diagnostics {
		s.diagnostics[k] = v
	}
	for k, v := range references {
		s.defineReferences[k] = v
	}
	return s
}
