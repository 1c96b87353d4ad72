package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"text", "text"},
		{"multi-select", "multiselect"},
		{"Multi Select", "multiselect"},
		{"Extract_Domain", "extractdomain"},
		{"social.profiles", "socialprofiles"},
		{"a/b-c_d e", "abcde"},
		{"Émail", "émail"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.input))
		})
	}
}
