package dev

import (
	"reflect"
	"strings"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1 + 1", "1 + 1"},
		{"```go\nlen(\"hola\")\n```", "len(\"hola\")"},
		{"```\nx := 2\n```", "x := 2"},
		{"  ```go 3 ```  ", "3"},
	}

	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	if got := formatResult(reflect.Value{}); got != "nil" {
		t.Errorf("formatResult(invalid) = %q", got)
	}
	if got := formatResult(reflect.ValueOf(42)); got != "42" {
		t.Errorf("formatResult(42) = %q", got)
	}
	long := formatResult(reflect.ValueOf(strings.Repeat("a", 3000)))
	if !strings.HasSuffix(long, "(truncado)") {
		t.Errorf("long result not truncated: %d bytes", len(long))
	}
}
