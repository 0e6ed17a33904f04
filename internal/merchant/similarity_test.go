package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "identical strings",
			a:    "whole foods",
			b:    "whole foods",
			want: 1.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 1.0,
		},
		{
			name: "one empty",
			a:    "starbucks",
			b:    "",
			want: 0.0,
		},
		{
			name: "no shared bigrams",
			a:    "abcd",
			b:    "wxyz",
			want: 0.0,
		},
		{
			name: "classic partial overlap",
			a:    "night",
			b:    "nacht",
			want: 0.25,
		},
		{
			name: "single characters equal",
			a:    "a",
			b:    "a",
			want: 1.0,
		},
		{
			name: "single characters different",
			a:    "a",
			b:    "b",
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"whole foods", "whole foods mkt"},
		{"starbucks", "starbucks coffee"},
		{"night", "nacht"},
		{"", "amazon"},
	}

	for _, pair := range pairs {
		assert.Equal(t, Similarity(pair[0], pair[1]), Similarity(pair[1], pair[0]),
			"similarity must be symmetric for %q/%q", pair[0], pair[1])
	}
}

func TestSimilarityBounded(t *testing.T) {
	pairs := [][2]string{
		{"whole foods", "trader joes"},
		{"aaaa", "aaab"},
		{"x", "xy"},
	}

	for _, pair := range pairs {
		sim := Similarity(pair[0], pair[1])
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}
