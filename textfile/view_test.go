package textfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	buf := NewBuffer("one\ntwo\nthree\nfour\nfive\n")

	tests := []struct {
		name      string
		startLine int
		numLines  int
		expected  []ViewLine
	}{
		{
			name:      "whole file",
			startLine: 1,
			numLines:  0,
			expected: []ViewLine{
				{1, "one"}, {2, "two"}, {3, "three"}, {4, "four"}, {5, "five"},
			},
		},
		{
			name:      "middle range",
			startLine: 2,
			numLines:  2,
			expected:  []ViewLine{{2, "two"}, {3, "three"}},
		},
		{
			name:      "single line",
			startLine: 3,
			numLines:  1,
			expected:  []ViewLine{{3, "three"}},
		},
		{
			name:      "count clamped to available lines",
			startLine: 4,
			numLines:  10,
			expected:  []ViewLine{{4, "four"}, {5, "five"}},
		},
		{
			name:      "start beyond end is empty",
			startLine: 6,
			numLines:  1,
			expected:  nil,
		},
		{
			name:      "start far beyond end is empty",
			startLine: 100,
			numLines:  0,
			expected:  nil,
		},
		{
			name:      "zero start treated as one",
			startLine: 0,
			numLines:  2,
			expected:  []ViewLine{{1, "one"}, {2, "two"}},
		},
		{
			name:      "negative start treated as one",
			startLine: -5,
			numLines:  1,
			expected:  []ViewLine{{1, "one"}},
		},
		{
			name:      "negative count means rest of file",
			startLine: 4,
			numLines:  -1,
			expected:  []ViewLine{{4, "four"}, {5, "five"}},
		},
		{
			name:      "last line exactly",
			startLine: 5,
			numLines:  1,
			expected:  []ViewLine{{5, "five"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := buf.View(tt.startLine, tt.numLines)
			if tt.expected == nil {
				require.Empty(t, view)
				return
			}
			require.Equal(t, tt.expected, view)
		})
	}
}

func TestViewEmptyBuffer(t *testing.T) {
	buf := NewBuffer("")
	require.Empty(t, buf.View(1, 0))
	require.Empty(t, buf.View(1, 10))
}

func TestViewDoesNotMutate(t *testing.T) {
	buf := NewBuffer("a\nb\n")
	buf.View(1, 0)
	buf.View(2, 5)
	require.Equal(t, "a\nb\n", buf.Content())
}
