// Package textfile implements line-oriented loading, viewing, searching,
// editing, and atomic writing of text files.
//
// A Buffer is loaded fresh for each operation and carries per-line
// terminator information, so the original bytes can always be reproduced
// exactly. Nothing is written back to disk implicitly: reads produce
// buffers, edits produce new buffers, and only Commit touches the
// filesystem.
package textfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// Buffer holds the lines of one text file. Line text is stored without
// terminators; the terminator that followed each line is kept alongside so
// Content can reproduce the source bytes exactly, including mixed line
// endings and a missing final newline.
type Buffer struct {
	lines    []string
	endings  []string
	dominant string
}

// Load reads the file at path into a Buffer. It fails with ErrNotFound if
// the path does not exist, ErrNotReadable on permission or I/O failure, and
// ErrDecode if the content is not text (NUL bytes or invalid UTF-8).
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewFileError("load", path, ErrNotFound)
		}
		return nil, NewFileError("load", path, fmt.Errorf("%w: %v", ErrNotReadable, err))
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, NewFileError("load", path, ErrDecode)
	}
	return NewBuffer(string(data)), nil
}

// NewBuffer builds a Buffer from in-memory content.
func NewBuffer(content string) *Buffer {
	buf := &Buffer{dominant: "\n"}
	if content == "" {
		return buf
	}
	var crlf, lf int
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		line := content[start:i]
		ending := "\n"
		if strings.HasSuffix(line, "\r") {
			line = line[:len(line)-1]
			ending = "\r\n"
			crlf++
		} else {
			lf++
		}
		buf.lines = append(buf.lines, line)
		buf.endings = append(buf.endings, ending)
		start = i + 1
	}
	if start < len(content) {
		buf.lines = append(buf.lines, content[start:])
		buf.endings = append(buf.endings, "")
	}
	if crlf > lf {
		buf.dominant = "\r\n"
	}
	return buf
}

// Len returns the number of lines in the buffer. An empty file has zero
// lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns the text of the 1-indexed line n and whether it exists.
func (b *Buffer) Line(n int) (string, bool) {
	if n < 1 || n > len(b.lines) {
		return "", false
	}
	return b.lines[n-1], true
}

// Lines returns a copy of all line texts, without terminators.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Content reassembles the exact byte content of the buffer, including the
// original line terminators.
func (b *Buffer) Content() string {
	var sb strings.Builder
	for i, line := range b.lines {
		sb.WriteString(line)
		sb.WriteString(b.endings[i])
	}
	return sb.String()
}

// TrailingNewline reports whether the final line ends with a terminator.
func (b *Buffer) TrailingNewline() bool {
	n := len(b.endings)
	return n > 0 && b.endings[n-1] != ""
}

// LineEnding returns the dominant line terminator of the buffer, either
// "\n" or "\r\n". New lines created by edits use this terminator.
func (b *Buffer) LineEnding() string {
	return b.dominant
}
