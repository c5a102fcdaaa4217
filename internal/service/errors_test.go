package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "heading",
				Message: "cannot be empty",
			},
			want: "validation error on field heading: cannot be empty",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	var err error = &ValidationError{Field: "property", Message: "cannot contain ':'"}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}

	wrapped := fmt.Errorf("save settings: %w", err)
	var ve *ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("errors.As() should find ValidationError in wrapped error")
	}
	if ve.Field != "property" {
		t.Errorf("ValidationError.Field = %q, want %q", ve.Field, "property")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("ValidationError should not match ErrNotFound")
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("original error"),
			msg:     "context",
			wantNil: false,
			wantMsg: "context: original error",
		},
		{
			name:    "sentinel keeps identity",
			err:     ErrDocumentIO,
			msg:     "write Meetings/a.md",
			wantNil: false,
			wantMsg: "write Meetings/a.md: document read/write failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Errorf("WrapError() = nil, want error")
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got.Error(), tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() should wrap original error")
			}
		})
	}
}
