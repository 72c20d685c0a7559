package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"two words", "Foo Mart", "foo-mart"},
		{"digits and hyphen", "7-Eleven", "7-eleven"},
		{"apostrophe dropped", "McDonald's", "mcdonalds"},
		{"typographic apostrophe", "Dunkin’", "dunkin"},
		{"ampersand and accents", "Crème & Café", "creme-and-cafe"},
		{"surrounding space", "  Spaces  ", "spaces"},
		{"dotted capital i", "İstanbul Market", "istanbul-market"},
		{"punctuation runs", "A.B.C. -- Store!", "a-b-c-store"},
		{"katakana kept", "セブン-イレブン", "セブン-イレブン"},
		{"devanagari marks kept", "हिन्दी", "हिन्दी"},
		{"no letters", "!!!", ""},
		{"already simple", "foo-mart", "foo-mart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Simplify(tt.input))
		})
	}
}

func TestSimplifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "foo-mart", Simplify("Foo Mart"))
	}
}
