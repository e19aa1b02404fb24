package wiki

import (
	"fmt"
	"strings"

	"github.com/starford/adfbridge/internal/blockscan"
)

// FromMarkdown rewrites Markdown-like text into wiki markup line by line.
// Hash headings become hN., pipe tables become ||header|| tables and
// "- "/"* " items become "* " bullets; blank and other lines pass through.
// The rules are tried in that order, so a table-like line is never a bullet.
func FromMarkdown(text string) string {
	lines := blockscan.Lines(text)
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		line := strings.TrimSpace(raw)

		if line == "" {
			out = append(out, "")
			continue
		}
		if level, rest, ok := blockscan.HashHeading(line); ok {
			out = append(out, wikiHeading(level, rest))
			continue
		}
		// Tables win over bullets: "- a | b" opens a table.
		if rows, last, ok := blockscan.ScanTable(lines, i); ok {
			out = append(out, wikiTable(rows)...)
			i = last
			continue
		}
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			out = append(out, "* "+line[2:])
			continue
		}
		out = append(out, raw)
	}
	return strings.Join(out, "\n")
}

// wikiHeading renders "hN. text", or a bare "hN." for an empty heading.
func wikiHeading(level int, text string) string {
	if text == "" {
		return fmt.Sprintf("h%d.", level)
	}
	return fmt.Sprintf("h%d. %s", level, text)
}

func wikiTable(rows [][]string) []string {
	header := rows[0]
	lines := make([]string, 0, len(rows)+1)

	var b strings.Builder
	b.WriteString("||")
	for _, c := range header {
		b.WriteString("*" + c + "*||")
	}
	lines = append(lines, b.String())
	lines = append(lines, "|"+strings.Repeat("-|", len(header)))

	for _, row := range rows[1:] {
		lines = append(lines, "|"+strings.Join(row, "|")+"|")
	}
	return lines
}
