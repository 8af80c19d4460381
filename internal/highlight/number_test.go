package highlight

import "testing"

func TestIsValidNumber(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"0", true},
		{"42", true},
		{"1_000.5e10", true},
		{"3.14", true},
		{"1e9", true},
		{"0x1F", true},
		{"0b1010", true},
		{"0o777", true},
		{"", false},
		{"1__0", false},
		{"1.", false},
		{"1e", false},
		{"1.2.3", false},
		{"1e2e3", false},
		{"1e2.5", false},
		{"_1", false},
		{"0x", false},
		{"0b102", false},
		{"0o8", false},
		{"0xG", false},
		{"12a", false},
	}
	for _, tt := range tests {
		if got := IsValidNumber(tt.word); got != tt.want {
			t.Fatalf("IsValidNumber(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
