// Package blockscan holds the line-level recognisers shared by the tree and
// wiki block parsers: line splitting, hash headings, and pipe-table scanning.
package blockscan

import (
	"regexp"
	"strings"
)

var separatorRe = regexp.MustCompile(`^[\s|:-]+$`)

// Lines splits text into lines, dropping a trailing \r from each.
func Lines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// HashHeading recognises a line starting with '#'. The prefix checks run in
// the order ###, ##, #, so "####" and deeper collapse to level 3 and the
// surplus '#' stays in the text.
func HashHeading(line string) (level int, text string, ok bool) {
	for _, p := range []string{"###", "##", "#"} {
		if strings.HasPrefix(line, p) {
			return len(p), strings.TrimSpace(line[len(p):]), true
		}
	}
	return 0, "", false
}

// SplitCells splits a table line on '|' and returns the trimmed non-empty fields.
func SplitCells(line string) []string {
	var cells []string
	for _, f := range strings.Split(line, "|") {
		if f = strings.TrimSpace(f); f != "" {
			cells = append(cells, f)
		}
	}
	return cells
}

// IsSeparator reports whether line is a Markdown table separator row.
func IsSeparator(line string) bool {
	return separatorRe.MatchString(line)
}

// TableStart returns the cells of line when it can open a table: it contains
// '|', is not exactly "|", and yields at least two cells.
func TableStart(line string) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "|" || !strings.Contains(line, "|") {
		return nil, false
	}
	cells := SplitCells(line)
	if len(cells) < 2 {
		return nil, false
	}
	return cells, true
}

// ScanTable collects the table opening at lines[start]. Blank and separator
// lines inside the table are skipped; a line without '|' or with fewer than two
// cells ends it. last is the index of the last line the table consumed.
// ok is false when lines[start] cannot open a table.
func ScanTable(lines []string, start int) (rows [][]string, last int, ok bool) {
	first, ok := TableStart(lines[start])
	if !ok {
		return nil, start, false
	}
	rows = [][]string{first}
	last = start
	for j := start + 1; j < len(lines); j++ {
		l := strings.TrimSpace(lines[j])
		if l == "" {
			continue
		}
		if IsSeparator(l) {
			last = j
			continue
		}
		if !strings.Contains(l, "|") {
			break
		}
		cells := SplitCells(l)
		if len(cells) < 2 {
			break
		}
		rows = append(rows, cells)
		last = j
	}
	return rows, last, true
}
