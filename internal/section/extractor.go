package section

import (
	"regexp"
	"strings"
)

// NamePlaceholder is replaced with each extracted name when formatting.
const NamePlaceholder = "{name}"

var (
	headingPrefix = regexp.MustCompile(`^#+\s*`)
	bulletLine    = regexp.MustCompile(`^[-*+]\s`)
	bulletPrefix  = regexp.MustCompile(`^[-*+]\s*`)
	// Word characters and spaces up to the first "-" or ">" separator, or end of line.
	nameToken = regexp.MustCompile(`^([\w\s]+?)(?:\s*[->]\s*|$)`)
)

// Extractor pulls names out of the bullet list under a single heading.
// It holds no state between calls and is safe for concurrent use.
type Extractor struct {
	heading  string
	template string
}

// NewExtractor creates an extractor for the given heading and name template.
func NewExtractor(heading, template string) *Extractor {
	return &Extractor{
		heading:  heading,
		template: template,
	}
}

// Extract scans text for the configured heading and returns the formatted
// names found in bullet items below it, in source order. The section ends at
// the next heading of any level; later sections are never scanned, even when
// they repeat the same heading.
func (e *Extractor) Extract(text string) []string {
	names := []string{}
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if headingText, ok := Heading(trimmed); ok {
			if strings.EqualFold(headingText, e.heading) {
				inSection = true
				continue
			}
			if inSection {
				break
			}
		}

		if !inSection {
			continue
		}

		itemText, ok := Bullet(trimmed)
		if !ok {
			continue
		}
		if name := Name(itemText); name != "" {
			names = append(names, Format(e.template, name))
		}
	}

	return names
}

// Heading reports whether line is a heading and returns its text with the
// leading hash markers removed. Any line starting with '#' is a heading.
func Heading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return strings.TrimSpace(headingPrefix.ReplaceAllString(trimmed, "")), true
}

// Bullet reports whether line is a list item ("-", "*" or "+" followed by
// whitespace) and returns the item text without its marker.
func Bullet(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !bulletLine.MatchString(trimmed) {
		return "", false
	}
	return strings.TrimSpace(bulletPrefix.ReplaceAllString(trimmed, "")), true
}

// Name returns the name part of a bullet's text, dropping anything after the
// first dash or arrow separator ("Jane Doe - Organizer" gives "Jane Doe").
// Text containing characters outside the word class before any separator is
// returned whole.
func Name(itemText string) string {
	itemText = strings.TrimSpace(itemText)
	if m := nameToken.FindStringSubmatch(itemText); m != nil {
		return strings.TrimSpace(m[1])
	}
	return itemText
}

// Format replaces every placeholder in template with name.
func Format(template, name string) string {
	return strings.ReplaceAll(template, NamePlaceholder, name)
}
