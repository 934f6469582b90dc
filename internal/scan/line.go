package scan

import "strings"

// Line is a backtracking scanner over the text of a single source line.
// Callers are expected to pass trimmed text: indentation and trailing
// whitespace are never meaningful to the directive grammar.
//
// Every Take* operation either consumes the matched text and reports success,
// or leaves the read position untouched. That discipline is what lets a
// caller try alternative grammars without bookkeeping.
type Line struct {
	text string
	pos  int
}

// NewLine creates a scanner positioned at the start of text.
func NewLine(text string) *Line {
	return &Line{text: text}
}

func (l *Line) rest() string {
	return l.text[l.pos:]
}

// IsEnd reports whether the whole line has been consumed.
func (l *Line) IsEnd() bool {
	return l.pos >= len(l.text)
}

// TakeLiteral consumes literal if the unread text starts with it.
func (l *Line) TakeLiteral(literal string) bool {
	if strings.HasPrefix(l.rest(), literal) {
		l.pos += len(literal)
		return true
	}
	return false
}

// TakeSomeWhitespace consumes the maximal run of whitespace characters.
// It fails if the unread text does not start with at least one.
func (l *Line) TakeSomeWhitespace() bool {
	start := l.pos
	for l.pos < len(l.text) && isWhitespace(l.text[l.pos]) {
		l.pos++
	}
	return l.pos > start
}

// TakeWord consumes an identifier: a letter or underscore followed by any run
// of letters, digits, or underscores. Returns the captured text.
func (l *Line) TakeWord() (string, bool) {
	if l.IsEnd() || !isWordStart(l.text[l.pos]) {
		return "", false
	}
	start := l.pos
	for l.pos < len(l.text) && isWordPart(l.text[l.pos]) {
		l.pos++
	}
	return l.text[start:l.pos], true
}

// TakeNumber consumes a decimal numeric literal: an optional leading minus
// sign, then digits with at most one decimal point. Forms like "0", "0.5" and
// "-1" are accepted. At least one digit is required.
func (l *Line) TakeNumber() (string, bool) {
	start := l.pos
	i := l.pos
	if i < len(l.text) && l.text[i] == '-' {
		i++
	}
	sawDigit := false
	sawDot := false
	for i < len(l.text) {
		c := l.text[i]
		if c >= '0' && c <= '9' {
			sawDigit = true
			i++
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			i++
			continue
		}
		break
	}
	if !sawDigit {
		return "", false
	}
	l.pos = i
	return l.text[start:l.pos], true
}

// TakeComments consumes a line-comment marker ("//") if one is next. Only the
// marker itself is consumed; the commented-out text stays unread.
func (l *Line) TakeComments() bool {
	return l.TakeLiteral("//")
}

// TakeRest consumes and returns everything remaining, whitespace included.
func (l *Line) TakeRest() string {
	rest := l.rest()
	l.pos = len(l.text)
	return rest
}

// CurrentlyContains reports whether text occurs anywhere in the unread
// remainder. The read position is not moved.
func (l *Line) CurrentlyContains(text string) bool {
	return strings.Contains(l.rest(), text)
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9')
}
