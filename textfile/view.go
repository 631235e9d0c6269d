package textfile

// ViewLine is one line of a view: its 1-indexed number and its text.
type ViewLine struct {
	Number int
	Text   string
}

// View returns up to numLines lines starting at the 1-indexed startLine.
// startLine values below 1 are treated as 1 and numLines values below 1
// mean the rest of the file. The range clamps silently: a start beyond the
// end of the buffer yields an empty result and an overlong count yields
// only the available lines.
func (b *Buffer) View(startLine, numLines int) []ViewLine {
	if startLine <= 0 {
		startLine = 1
	}
	if startLine > len(b.lines) {
		return nil
	}
	end := len(b.lines)
	if numLines > 0 && startLine-1+numLines < end {
		end = startLine - 1 + numLines
	}
	view := make([]ViewLine, 0, end-startLine+1)
	for i := startLine - 1; i < end; i++ {
		view = append(view, ViewLine{Number: i + 1, Text: b.lines[i]})
	}
	return view
}
