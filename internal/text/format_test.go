package text_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/edgard/loandesk/internal/text"
)

func TestBaht(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input decimal.NullDecimal
		want  string
	}{
		{name: "unknown", input: decimal.NullDecimal{}, want: "-"},
		{name: "zero", input: decimal.NewNullDecimal(decimal.Zero), want: "฿0"},
		{name: "income", input: decimal.NewNullDecimal(decimal.NewFromInt(85000)), want: "฿85,000"},
		{name: "loan", input: decimal.NewNullDecimal(decimal.NewFromInt(5000000)), want: "฿5,000,000"},
		{name: "fraction", input: decimal.NewNullDecimal(decimal.RequireFromString("1234.5")), want: "฿1,234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, text.Baht(tt.input))
		})
	}
}

func TestThaiDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{name: "zero", input: time.Time{}, want: "-"},
		{name: "january", input: time.Date(2024, time.January, 5, 3, 0, 0, 0, time.UTC), want: "5 ม.ค. 67"},
		{name: "bangkok day rollover", input: time.Date(2024, time.December, 31, 18, 0, 0, 0, time.UTC), want: "1 ม.ค. 68"},
		{name: "padded year", input: time.Date(2058, time.June, 1, 0, 0, 0, 0, time.UTC), want: "1 มิ.ย. 01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, text.ThaiDate(tt.input))
		})
	}
}
