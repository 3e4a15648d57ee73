package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_Shape(t *testing.T) {
	t.Parallel()

	id, err := newRandomID(itemIDPrefix)
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "todo-") {
		t.Fatalf("expected todo prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "todo-")
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected id suffix len %d, got %d (%q)", want, got, suffix)
	}
	if suffix != strings.ToLower(suffix) {
		t.Fatalf("expected lowercase suffix, got %q", suffix)
	}
}

func TestIsItemID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "todo-abcd2345", want: true},
		{in: "  todo-abcd2345 ", want: true},
		{in: "todo-", want: false},
		{in: "item-abcd2345", want: false},
		{in: "1", want: false},
		{in: "", want: false},
	}
	for _, tc := range tests {
		if got := IsItemID(tc.in); got != tc.want {
			t.Fatalf("IsItemID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
