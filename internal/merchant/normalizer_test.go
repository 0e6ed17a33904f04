package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and trims",
			input: "  Starbucks  ",
			want:  "starbucks",
		},
		{
			name:  "strips punctuation",
			input: "McDonald's #42!",
			want:  "mcdonald s",
		},
		{
			name:  "removes business suffixes",
			input: "Acme Corp",
			want:  "acme",
		},
		{
			name:  "removes generic nouns",
			input: "Whole Foods Market",
			want:  "whole foods",
		},
		{
			name:  "removes abbreviated market and store number",
			input: "WHOLE FOODS MKT #123",
			want:  "whole foods",
		},
		{
			name:  "collapses whitespace",
			input: "Trader   Joe's    Store",
			want:  "trader joe s",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only noise words",
			input: "The Store Shop",
			want:  "the",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	input := "Whole Foods Market #123, Inc."
	first := Normalize(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Normalize(input))
	}
}
