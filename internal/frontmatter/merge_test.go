package frontmatter

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		property string
		names    []string
		want     string
	}{
		{
			name:     "creates block when missing",
			text:     "# Meeting\n\n- notes\n",
			property: "people",
			names:    []string{"X"},
			want:     "---\npeople:\n  - \"X\"\n---\n\n# Meeting\n\n- notes\n",
		},
		{
			name:     "creates block for empty document",
			text:     "",
			property: "people",
			names:    []string{"A", "B"},
			want:     "---\npeople:\n  - \"A\"\n  - \"B\"\n---\n\n",
		},
		{
			name:     "replaces property in place",
			text:     "---\npeople:\n  - \"Old\"\nother: 1\n---\nbody\n",
			property: "people",
			names:    []string{"New"},
			want:     "---\npeople:\n  - \"New\"\nother: 1\n---\nbody\n",
		},
		{
			name:     "replaces property surrounded by other keys",
			text:     "---\ntitle: Sync\npeople:\n- \"A\"\n  - B\ntags:\n  - meeting\n---\n# Attendees\n",
			property: "people",
			names:    []string{"C", "D"},
			want:     "---\ntitle: Sync\npeople:\n  - \"C\"\n  - \"D\"\ntags:\n  - meeting\n---\n# Attendees\n",
		},
		{
			name:     "inline value replaced",
			text:     "---\npeople: [\"A\", \"B\"]\ndate: 2024-01-01\n---\n",
			property: "people",
			names:    []string{"C"},
			want:     "---\npeople:\n  - \"C\"\ndate: 2024-01-01\n---\n",
		},
		{
			name:     "appends property when missing from block",
			text:     "---\ntitle: Sync\ndate: 2024-01-01\n---\nbody",
			property: "people",
			names:    []string{"A"},
			want:     "---\ntitle: Sync\ndate: 2024-01-01\npeople:\n  - \"A\"\n---\nbody",
		},
		{
			name:     "longer key with same prefix is not the property",
			text:     "---\npeopleCount: 3\n---\n",
			property: "people",
			names:    []string{"A"},
			want:     "---\npeopleCount: 3\npeople:\n  - \"A\"\n---\n",
		},
		{
			name:     "skip stops at first non-dash line",
			text:     "---\npeople:\n  - \"A\"\n\n  - \"B\"\n---\n",
			property: "people",
			names:    []string{"C"},
			want:     "---\npeople:\n  - \"C\"\n\n  - \"B\"\n---\n",
		},
		{
			name:     "empty names writes empty property",
			text:     "---\npeople:\n  - \"A\"\nx: y\n---\n",
			property: "people",
			names:    []string{},
			want:     "---\npeople:\nx: y\n---\n",
		},
		{
			name:     "empty names without block",
			text:     "body\n",
			property: "people",
			names:    nil,
			want:     "---\npeople:\n---\n\nbody\n",
		},
		{
			name:     "empty block body",
			text:     "---\n---\nbody\n",
			property: "people",
			names:    []string{"A"},
			want:     "---\npeople:\n  - \"A\"\n---\nbody\n",
		},
		{
			name:     "blank line body kept",
			text:     "---\n\n---\nbody\n",
			property: "people",
			names:    []string{"A"},
			want:     "---\n\npeople:\n  - \"A\"\n---\nbody\n",
		},
		{
			name:     "unterminated block treated as no block",
			text:     "---\ntitle: x\n",
			property: "people",
			names:    []string{"A"},
			want:     "---\npeople:\n  - \"A\"\n---\n\n---\ntitle: x\n",
		},
		{
			name:     "closing delimiter without line break is not a block",
			text:     "---\ntitle: x\n---",
			property: "people",
			names:    []string{"A"},
			want:     "---\npeople:\n  - \"A\"\n---\n\n---\ntitle: x\n---",
		},
		{
			name:     "only first metadata block is touched",
			text:     "---\na: 1\n---\nbody\n---\npeople:\n---\n",
			property: "people",
			names:    []string{"A"},
			want:     "---\na: 1\npeople:\n  - \"A\"\n---\nbody\n---\npeople:\n---\n",
		},
		{
			name:     "crlf block keeps crlf",
			text:     "---\r\ntitle: x\r\npeople:\r\n  - \"Old\"\r\n---\r\nbody\r\n",
			property: "people",
			names:    []string{"New"},
			want:     "---\r\ntitle: x\r\npeople:\r\n  - \"New\"\r\n---\r\nbody\r\n",
		},
		{
			name:     "crlf document without block",
			text:     "# Attendees\r\n- A\r\n",
			property: "people",
			names:    []string{"A"},
			want:     "---\r\npeople:\r\n  - \"A\"\r\n---\r\n\r\n# Attendees\r\n- A\r\n",
		},
		{
			name:     "quotes are not escaped",
			text:     "",
			property: "people",
			names:    []string{`Bob "The Builder"`},
			want:     "---\npeople:\n  - \"Bob \"The Builder\"\"\n---\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.text, tt.property, tt.names)
			if got != tt.want {
				t.Errorf("Merge() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"# Attendees\n- A\n",
		"---\ntitle: x\n---\nbody\n",
		"---\npeople:\n  - \"Old\"\n  - \"Older\"\nother: 1\n---\n\nbody\n",
		"---\r\ntitle: x\r\n---\r\nbody\r\n",
	}
	names := []string{"[[People/A|A]]", "[[People/B|B]]", "[[People/A|A]]"}

	for _, in := range inputs {
		once := Merge(in, "people", names)
		twice := Merge(once, "people", names)
		if once != twice {
			t.Errorf("Merge() not idempotent for %q:\nonce  %q\ntwice %q", in, once, twice)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   Block
	}{
		{
			name:   "lf block",
			text:   "---\na: 1\nb: 2\n---\nrest",
			wantOK: true,
			want:   Block{Lines: []string{"a: 1", "b: 2"}, Rest: "rest", Newline: "\n"},
		},
		{
			name:   "crlf block",
			text:   "---\r\na: 1\r\n---\r\n",
			wantOK: true,
			want:   Block{Lines: []string{"a: 1"}, Rest: "", Newline: "\r\n"},
		},
		{
			name:   "empty body",
			text:   "---\n---\n",
			wantOK: true,
			want:   Block{Lines: []string{}, Rest: "", Newline: "\n"},
		},
		{
			name:   "leading blank line",
			text:   "\n---\na: 1\n---\n",
			wantOK: false,
		},
		{
			name:   "delimiter with trailing text",
			text:   "--- \na: 1\n---\n",
			wantOK: false,
		},
		{
			name:   "no closing delimiter",
			text:   "---\na: 1\n",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Split(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Split() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNewline(t *testing.T) {
	if got := Newline("a\nb\n"); got != "\n" {
		t.Errorf("Newline(lf) = %q, want %q", got, "\n")
	}
	if got := Newline("a\r\nb\r\n"); got != "\r\n" {
		t.Errorf("Newline(crlf) = %q, want %q", got, "\r\n")
	}
	if got := Newline(""); got != "\n" {
		t.Errorf("Newline(empty) = %q, want %q", got, "\n")
	}
	if got := Newline("# Title\nbody\r\nmore\n"); got != "\n" {
		t.Errorf("Newline(lf with stray crlf) = %q, want %q", got, "\n")
	}
	if got := Newline("\r\nbody\n"); got != "\r\n" {
		t.Errorf("Newline(leading crlf) = %q, want %q", got, "\r\n")
	}
}

func TestMerge_MixedLineEndings(t *testing.T) {
	text := "# Attendees\n- A\r\n"
	want := "---\npeople:\n  - \"A\"\n---\n\n" + text
	if got := Merge(text, "people", []string{"A"}); got != want {
		t.Errorf("Merge() = %q, want %q", got, want)
	}
}
