package source

import (
	"sort"
)

// LineIndex хранит БАЙТОВЫЕ позиции всех '\n' в файле (0-based).
// Первая строка начинается в байте 0.
// Начало строки k > 1 = newlines[k-2] + 1.
type LineIndex struct {
	newlines []uint32
	length   uint32
}

// NewLineIndex builds an index of newline offsets for the given content.
func NewLineIndex(content []byte) *LineIndex {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return &LineIndex{newlines: out, length: uint32(len(content))}
}

// LineCount returns the number of lines in the indexed content.
// Content without a trailing newline still counts its last partial line.
func (li *LineIndex) LineCount() uint32 {
	n := uint32(len(li.newlines))
	if li.length > 0 && (n == 0 || li.newlines[n-1] != li.length-1) {
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// LineCol converts a byte offset into a 1-based line/column position.
func (li *LineIndex) LineCol(off uint32) LineCol {
	idx := li.newlines
	if len(idx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	// ищем первый индекс '\n' > off
	i := sort.Search(len(idx), func(k int) bool { return idx[k] > off })
	if i == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	last := idx[i-1]
	if off == last {
		// позиция на '\n' — считаем концом предыдущей строки
		var start uint32
		if i-1 == 0 {
			start = 0
		} else {
			start = idx[i-2] + 1
		}
		return LineCol{Line: uint32(i), Col: last - start + 1}
	}
	start := last + 1
	return LineCol{Line: uint32(i + 1), Col: off - start + 1}
}

// LineStart returns the byte offset of the first character of the given
// 1-based line, or false if the line does not exist.
func (li *LineIndex) LineStart(line uint32) (uint32, bool) {
	if line == 0 {
		return 0, false
	}
	if line == 1 {
		return 0, true
	}
	if int(line-2) < len(li.newlines) {
		return li.newlines[line-2] + 1, true
	}
	return 0, false
}

// LineEnd returns the byte offset just past the last character of the given
// 1-based line, excluding the newline itself.
func (li *LineIndex) LineEnd(line uint32) (uint32, bool) {
	if line == 0 {
		return 0, false
	}
	if int(line-1) < len(li.newlines) {
		return li.newlines[line-1], true
	}
	if _, ok := li.LineStart(line); ok {
		return li.length, true
	}
	return 0, false
}

// LineText extracts the text of the given 1-based line from content.
// Content must be the same bytes the index was built from.
func (li *LineIndex) LineText(content []byte, line uint32) string {
	start, ok := li.LineStart(line)
	if !ok {
		return ""
	}
	end, ok := li.LineEnd(line)
	if !ok || start > end || end > uint32(len(content)) {
		return ""
	}
	return string(content[start:end])
}
