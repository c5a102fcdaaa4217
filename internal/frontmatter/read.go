package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Values reads the list stored under property in the document's metadata
// block. ok is false when there is no block or the property is absent. A
// property with no items yields an empty, non-nil slice.
//
// The block is located with Split, so text Merge would give a new block is
// reported as having none.
func Values(text, property string) (values []string, ok bool, err error) {
	block, found := Split(text)
	if !found {
		return nil, false, nil
	}
	body := strings.Join(block.Lines, "\n")
	if strings.TrimSpace(body) == "" {
		return nil, false, nil
	}
	normalized := Delimiter + "\n" + body + "\n" + Delimiter + "\n"

	var meta map[string]any
	if _, err := frontmatter.MustParse(strings.NewReader(normalized), &meta); err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("parse metadata block: %w", err)
	}

	raw, exists := meta[property]
	if !exists {
		return nil, false, nil
	}

	switch v := raw.(type) {
	case nil:
		return []string{}, true, nil
	case []any:
		values = make([]string, 0, len(v))
		for _, item := range v {
			values = append(values, fmt.Sprint(item))
		}
		return values, true, nil
	default:
		// Scalar value: treat as a single-item list.
		return []string{fmt.Sprint(v)}, true, nil
	}
}
