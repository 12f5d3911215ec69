package ecode

import "testing"

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"required", FieldIsRequired("type"), "type required"},
		{"required without key", FieldIsRequired(), "required"},
		{"invalid", FieldIsInvalid("filter", "pattern"), "filter pattern invalid"},
		{"failed", Failed("index mirror"), "index mirror failed"},
		{"not exist", NotExist("index", "products"), "index products does not exist"},
		{"blank subject", NotExist(" ", "document"), "document does not exist"},
		{"unavailable", Unavailable("search"), "search unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
