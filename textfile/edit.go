package textfile

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// EditOp is one operation in an edit Plan. The concrete types are
// ReplaceString, InsertLines, DeleteLines, and ReplaceLine. The set is
// closed: Apply dispatches over these four kinds exhaustively.
type EditOp interface {
	editOp()
}

// ReplaceString replaces occurrences of an exact source substring across
// the buffer's whole text. Count bounds how many occurrences are replaced;
// zero or negative replaces all of them. A source that appears nowhere is
// a no-op, not an error.
type ReplaceString struct {
	Source      string
	Replacement string
	Count       int
}

// InsertLines inserts content before the 1-indexed Line. Line may be one
// past the last line, which appends at end of file. Content may contain
// embedded newlines; each piece becomes its own line.
type InsertLines struct {
	Line  int
	Lines []string
}

// DeleteLines removes the inclusive 1-indexed range [StartLine, EndLine].
type DeleteLines struct {
	StartLine int
	EndLine   int
}

// ReplaceLine overwrites the content of the 1-indexed Line.
type ReplaceLine struct {
	Line int
	Text string
}

func (ReplaceString) editOp() {}
func (InsertLines) editOp()   {}
func (DeleteLines) editOp()   {}
func (ReplaceLine) editOp()   {}

// Plan is an ordered batch of edit operations applied all-or-nothing.
type Plan []EditOp

// Apply computes the buffer that results from applying plan. The receiver
// is never modified and nothing is persisted; committing the result is the
// caller's job.
//
// String replacements run first, in plan order, against the buffer's full
// joined text, each operating on the result of the previous one. Line
// numbers for the remaining operations are then fixed against the
// post-replacement line count. Any line operation that references a line
// outside that count, and any two line operations that address overlapping
// lines, reject the whole plan with an error wrapping ErrEditConflict.
// Valid line operations are applied in a single pass ordered by descending
// start line, so no operation is shifted by another. An empty plan returns
// an equal buffer.
func (b *Buffer) Apply(plan Plan) (*Buffer, error) {
	text := b.Content()
	for _, op := range plan {
		rs, ok := op.(ReplaceString)
		if !ok {
			continue
		}
		count := rs.Count
		if count <= 0 {
			count = -1
		}
		text = strings.Replace(text, rs.Source, rs.Replacement, count)
	}
	next := NewBuffer(text)

	lineOps := make([]EditOp, 0, len(plan))
	for _, op := range plan {
		if _, ok := op.(ReplaceString); !ok {
			lineOps = append(lineOps, op)
		}
	}
	if len(lineOps) == 0 {
		return next, nil
	}
	if err := validateLineOps(lineOps, next.Len()); err != nil {
		return nil, err
	}

	sort.SliceStable(lineOps, func(i, j int) bool {
		return opSpan(lineOps[i]).start > opSpan(lineOps[j]).start
	})
	for _, op := range lineOps {
		next.applyLineOp(op)
	}
	return next, nil
}

type lineSpan struct {
	start, end int
}

func opSpan(op EditOp) lineSpan {
	switch v := op.(type) {
	case InsertLines:
		return lineSpan{v.Line, v.Line}
	case DeleteLines:
		return lineSpan{v.StartLine, v.EndLine}
	case ReplaceLine:
		return lineSpan{v.Line, v.Line}
	default:
		panic(fmt.Sprintf("textfile: unknown edit op %T", op))
	}
}

func opName(op EditOp) string {
	switch op.(type) {
	case ReplaceString:
		return "replace string"
	case InsertLines:
		return "insert"
	case DeleteLines:
		return "delete"
	case ReplaceLine:
		return "replace line"
	default:
		panic(fmt.Sprintf("textfile: unknown edit op %T", op))
	}
}

// validateLineOps checks every line operation against the fixed
// post-replacement line count and rejects overlapping operations. An
// insert addresses the boundary position it inserts at, so an insert into
// the middle of a deleted range, or two operations on one line, are
// conflicts rather than order-dependent surprises.
func validateLineOps(ops []EditOp, lineCount int) error {
	spans := make([]lineSpan, len(ops))
	for i, op := range ops {
		switch v := op.(type) {
		case InsertLines:
			if v.Line < 1 || v.Line > lineCount+1 {
				return NewConflictError("insert", v.Line, fmt.Sprintf("position outside 1..%d", lineCount+1))
			}
		case DeleteLines:
			if v.StartLine < 1 || v.EndLine < v.StartLine || v.EndLine > lineCount {
				return NewConflictError("delete", v.StartLine, fmt.Sprintf("range %d..%d outside 1..%d", v.StartLine, v.EndLine, lineCount))
			}
		case ReplaceLine:
			if v.Line < 1 || v.Line > lineCount {
				return NewConflictError("replace line", v.Line, fmt.Sprintf("line outside 1..%d", lineCount))
			}
		}
		spans[i] = opSpan(op)
	}
	for i := range ops {
		for j := i + 1; j < len(ops); j++ {
			if spans[i].start <= spans[j].end && spans[j].start <= spans[i].end {
				return NewConflictError("plan", spans[j].start,
					fmt.Sprintf("%s %d..%d overlaps %s %d..%d",
						opName(ops[j]), spans[j].start, spans[j].end,
						opName(ops[i]), spans[i].start, spans[i].end))
			}
		}
	}
	return nil
}

func (b *Buffer) applyLineOp(op EditOp) {
	switch v := op.(type) {
	case InsertLines:
		b.insertLines(v.Line, v.Lines)
	case DeleteLines:
		b.deleteLines(v.StartLine, v.EndLine)
	case ReplaceLine:
		b.replaceLine(v.Line, v.Text)
	}
}

func (b *Buffer) insertLines(pos int, content []string) {
	lines := make([]string, 0, len(content))
	for _, c := range content {
		lines = append(lines, splitContent(c)...)
	}
	if len(lines) == 0 {
		return
	}
	endings := make([]string, len(lines))
	for i := range endings {
		endings[i] = b.dominant
	}
	if pos == len(b.lines)+1 {
		// Appending: the previous last line gains a terminator and the new
		// last line takes over the file's trailing-newline style.
		if n := len(b.endings); n > 0 {
			if b.endings[n-1] == "" {
				b.endings[n-1] = b.dominant
				endings[len(endings)-1] = ""
			}
		} else {
			endings[len(endings)-1] = ""
		}
	}
	idx := pos - 1
	b.lines = slices.Insert(b.lines, idx, lines...)
	b.endings = slices.Insert(b.endings, idx, endings...)
}

func (b *Buffer) deleteLines(start, end int) {
	trailing := b.TrailingNewline()
	b.lines = slices.Delete(b.lines, start-1, end)
	b.endings = slices.Delete(b.endings, start-1, end)
	if n := len(b.endings); n > 0 && !trailing {
		b.endings[n-1] = ""
	}
}

func (b *Buffer) replaceLine(line int, text string) {
	pieces := splitContent(text)
	endings := make([]string, len(pieces))
	for i := range endings {
		endings[i] = b.dominant
	}
	endings[len(endings)-1] = b.endings[line-1]
	b.lines = slices.Replace(b.lines, line-1, line, pieces...)
	b.endings = slices.Replace(b.endings, line-1, line, endings...)
}

// splitContent turns caller-provided content into individual lines. Content
// without newlines stays a single line.
func splitContent(s string) []string {
	if !strings.Contains(s, "\n") {
		return []string{s}
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
