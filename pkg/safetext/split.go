package safetext

// lineSplitter converts a growing decoded-text buffer into complete logical
// lines. It operates on cumulative text, never on raw chunk boundaries, so
// buffer granularity is invisible to line identity: a read boundary can
// never fabricate a line that does not exist in the source.
//
// The held tail contains no line break, with one exception: a trailing CR
// is kept back because the next chunk may begin with the LF of a split
// CRLF pair.
type lineSplitter struct {
	tail string
}

// push appends text to the pending buffer and returns every logical line
// completed by it. Line breaks (LF, CR, CRLF) are stripped from the
// returned lines.
func (ls *lineSplitter) push(text string) []string {
	s := ls.tail + text
	ls.tail = ""

	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			if i == len(s)-1 {
				// Undecided: may be the first half of a CRLF split
				// across chunks. Hold everything from start.
				ls.tail = s[start:]
				return lines
			}
			lines = append(lines, s[start:i])
			if s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	ls.tail = s[start:]
	return lines
}

// finish flushes the splitter at end of stream. A non-empty tail is the
// file's final line (the file did not end in a newline); a tail ending in
// the held CR is a complete CR-terminated line. An empty tail yields
// nothing: end of stream never fabricates an empty line.
func (ls *lineSplitter) finish() []string {
	if ls.tail == "" {
		return nil
	}
	t := ls.tail
	ls.tail = ""
	if t[len(t)-1] == '\r' {
		return []string{t[:len(t)-1]}
	}
	return []string{t}
}
