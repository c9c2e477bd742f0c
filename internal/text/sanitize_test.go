package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/loandesk/internal/text"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "trims", input: "  #เช็คเคส HL-2024-0001  ", want: "#เช็คเคส HL-2024-0001"},
		{name: "zero width space dropped", input: "ชื่อ\u200bลูกค้า=นายเอ", want: "ชื่อลูกค้า=นายเอ"},
		{name: "nbsp becomes space", input: "a\u00a0b", want: "a b"},
		{name: "crlf", input: "a\r\nb", want: "a\nb"},
		{name: "control characters", input: "a\x07b", want: "a b"},
		{name: "excess blank lines", input: "a\n\n\n\nb", want: "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, text.Normalize(tt.input))
		})
	}
}
