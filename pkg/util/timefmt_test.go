package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "Plain HH:MM", value: "08:00", want: "08:00"},
		{name: "Single digit hour", value: "8:00", want: "08:00"},
		{name: "Embedded in timestamp", value: "2024-01-01T08:00:00Z", want: "08:00"},
		{name: "Embedded in verbose string", value: "Mon Jan 01 08:00 GMT", want: "08:00"},
		{name: "Empty value", value: "", want: "09:00"},
		{name: "Whitespace only", value: "   ", want: "09:00"},
		{name: "No time at all", value: "closed", want: "09:00"},
		{name: "Late closing time", value: "22:30", want: "22:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.value))
		})
	}
}
