package utils

import (
	"errors"
	"testing"
)

func TestUserError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		hint    string
		err     error
		want    string
	}{
		{
			name:    "with hint and error",
			message: "Failed to open trace database",
			hint:    "Check that the path is writable",
			err:     errors.New("permission denied"),
			want:    "Failed to open trace database\n\n💡 Hint: Check that the path is writable\n\nDetails: permission denied",
		},
		{
			name:    "without hint",
			message: "Invalid input",
			hint:    "",
			err:     nil,
			want:    "Invalid input",
		},
		{
			name:    "with hint only",
			message: "No runs found",
			hint:    "Import one with 'agentrace import'",
			err:     nil,
			want:    "No runs found\n\n💡 Hint: Import one with 'agentrace import'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ue := NewUserError(tt.message, tt.hint, tt.err)
			if got := ue.Error(); got != tt.want {
				t.Errorf("UserError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserErrorUnwrap(t *testing.T) {
	originalErr := errors.New("original error")
	ue := NewUserError("wrapper", "hint", originalErr)

	if err := ue.Unwrap(); !errors.Is(err, originalErr) {
		t.Error("Unwrap() did not return original error")
	}
}
