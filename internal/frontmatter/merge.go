package frontmatter

import (
	"strings"
)

// Delimiter opens and closes a metadata block.
const Delimiter = "---"

// Block is the metadata block found at the top of a document.
type Block struct {
	// Lines holds the body lines between the delimiters, without line endings.
	Lines []string
	// Rest is everything after the closing delimiter's line break, unchanged.
	Rest string
	// Newline is the line ending used by the document ("\n" or "\r\n").
	Newline string
}

// Newline returns the line ending of the first line of text: "\r\n" for
// Windows line endings, "\n" otherwise.
func Newline(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Split detects a metadata block at the start of text. The block must open
// with a "---" line and close at the first following "---" line that ends
// with a line break. Anything else means the document has no block.
func Split(text string) (Block, bool) {
	var nl string
	switch {
	case strings.HasPrefix(text, Delimiter+"\n"):
		nl = "\n"
	case strings.HasPrefix(text, Delimiter+"\r\n"):
		nl = "\r\n"
	default:
		return Block{}, false
	}
	open := Delimiter + nl
	after := text[len(open):]

	// Opening delimiter directly followed by the closing one.
	if strings.HasPrefix(after, open) {
		return Block{Lines: []string{}, Rest: after[len(open):], Newline: nl}, true
	}

	closing := nl + Delimiter + nl
	idx := strings.Index(after, closing)
	if idx < 0 {
		return Block{}, false
	}

	return Block{
		Lines:   strings.Split(after[:idx], nl),
		Rest:    after[idx+len(closing):],
		Newline: nl,
	}, true
}

// Merge returns text with property set to exactly names, in order. An
// existing block keeps every other line as is; the property line and the list
// items directly below it are replaced. Without a block, a new one holding
// only the property is prepended and followed by a blank line.
//
// Names are wrapped in double quotes without escaping.
func Merge(text, property string, names []string) string {
	block, ok := Split(text)
	if !ok {
		nl := Newline(text)
		return Delimiter + nl + strings.Join(propertyLines(property, names), nl) + nl + Delimiter + nl + nl + text
	}

	lines := replaceProperty(block.Lines, property, names)
	return Delimiter + block.Newline + strings.Join(lines, block.Newline) + block.Newline + Delimiter + block.Newline + block.Rest
}

// replaceProperty swaps the first "property:" line and its dash items for the
// new list, or appends the list when the property is missing.
func replaceProperty(lines []string, property string, names []string) []string {
	key := property + ":"
	out := make([]string, 0, len(lines)+len(names)+1)
	found := false

	for i := 0; i < len(lines); i++ {
		if found || !strings.HasPrefix(strings.TrimSpace(lines[i]), key) {
			out = append(out, lines[i])
			continue
		}

		found = true
		out = append(out, propertyLines(property, names)...)
		for i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "-") {
			i++
		}
	}

	if !found {
		out = append(out, propertyLines(property, names)...)
	}
	return out
}

func propertyLines(property string, names []string) []string {
	lines := make([]string, 0, len(names)+1)
	lines = append(lines, property+":")
	for _, name := range names {
		lines = append(lines, `  - "`+name+`"`)
	}
	return lines
}
