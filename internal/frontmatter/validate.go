package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidBlock is returned when a metadata block does not parse as YAML.
var ErrInvalidBlock = errors.New("metadata block is not valid YAML")

// Validate checks that the metadata block at the top of text, if any, parses
// as a YAML mapping. Documents without a block are valid.
func Validate(text string) error {
	block, ok := Split(text)
	if !ok {
		return nil
	}

	var out map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(block.Lines, "\n")), &out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBlock, err)
	}
	return nil
}
