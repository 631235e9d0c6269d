package textfile

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Match is one occurrence of a search pattern within a buffer.
type Match struct {
	// Line is the 1-indexed line number the match was found on.
	Line int `json:"line"`

	// Text is the matched substring.
	Text string `json:"text"`

	// Offset is the 0-indexed rune offset of the match within its line.
	Offset int `json:"offset"`
}

// Search compiles pattern as a regular expression and returns every
// non-overlapping match in the buffer. Lines are scanned top to bottom and
// matches within a line are reported left to right, so results are strictly
// increasing in (line, offset). Case-insensitive matching is part of
// pattern compilation, not a post-filter. An empty result is not an error;
// a pattern that does not compile fails with ErrInvalidPattern.
func (b *Buffer) Search(pattern string, caseSensitive bool) ([]Match, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	var matches []Match
	for i, line := range b.lines {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			matches = append(matches, Match{
				Line:   i + 1,
				Text:   line[loc[0]:loc[1]],
				Offset: utf8.RuneCountInString(line[:loc[0]]),
			})
		}
	}
	return matches, nil
}
