package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		info string
		want string
	}{
		{"go", "go"},
		{"Go", "go"},
		{"golang", "go"},
		{"js", "javascript"},
		{"ts", "typescript"},
		{"sh", "shell"},
		{"bash", "bash"},
		{"yml", "yaml"},
		{"c++", "c++"},
		{"cpp", "c++"},
		{"python title=\"x.py\"", "python"},
		{"json{1,3}", "json"},
		{"", PlainText},
		{"text", PlainText},
		{"brainfuck", PlainText},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Language(tt.info), tt.info)
	}
}
