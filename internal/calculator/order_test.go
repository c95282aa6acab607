package calculator

import (
	"sort"
	"testing"

	"golang.org/x/text/language"
)

func TestNameNumber(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"8 - Café", 8, true},
		{"10 - Deli", 10, true},
		{"  42: Bar", 42, true},
		{"3) Pub", 3, true},
		{"Table 7", 7, true},
		{"Room 12 - 4", 12, true},
		{"5Guys", 5, true},
		{"Zeta", 0, false},
		{"", 0, false},
		{"99999999999999999999999 - Overflow", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NameNumber(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("NameNumber(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNameOrder(t *testing.T) {
	names := []string{"Zeta", "10 - Deli", "Émile", "8 - Cafe", "bob", "Alice"}
	order := NewNameOrder(language.English)
	sort.SliceStable(names, func(i, j int) bool {
		return order.Compare(names[i], names[j]) < 0
	})

	want := []string{"8 - Cafe", "10 - Deli", "Alice", "bob", "Émile", "Zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", names, want)
		}
	}
}

func TestNameOrderIsTotal(t *testing.T) {
	order := NewNameOrder(language.English)
	if order.Compare("Alice", "Alice") != 0 {
		t.Error("equal names must compare equal")
	}
	if order.Compare("8 - Cafe", "Zeta") >= 0 || order.Compare("Zeta", "8 - Cafe") <= 0 {
		t.Error("numbered names must sort before unnumbered ones")
	}
}
