package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSlice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty", input: "", want: []string{}},
		{name: "Single origin", input: "http://localhost:5173", want: []string{"http://localhost:5173"}},
		{
			name:  "Multiple origins",
			input: "http://localhost:5173,https://menuca.example.com",
			want:  []string{"http://localhost:5173", "https://menuca.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlice(tt.input))
		})
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 25, parseInt("25", 10))
	assert.Equal(t, 10, parseInt("not-a-number", 10))
}
