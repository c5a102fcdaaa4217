package frontmatter

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "no block", text: "# Title\n", wantErr: false},
		{name: "valid block", text: "---\ntitle: x\npeople:\n  - \"A\"\n---\n", wantErr: false},
		{name: "empty block", text: "---\n---\n", wantErr: false},
		{name: "merged quotes break the block", text: Merge("", "people", []string{`Bob "B" Jones`}), wantErr: true},
		{name: "unclosed flow sequence", text: "---\ntags: [a, b\n---\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBlock) {
					t.Errorf("Validate() error = %v, want ErrInvalidBlock", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
