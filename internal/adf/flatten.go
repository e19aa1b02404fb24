package adf

import (
	"strings"

	"github.com/starford/adfbridge/internal/wiki"
)

const (
	tableSeparatorCell = "--------"
	listIndent         = "  "
)

// Flatten renders n as readable Markdown-like text. Marks are dropped, tables
// become Markdown tables, and the result goes through wiki.Normalize so that
// leaves holding wiki syntax come out as Markdown too.
func Flatten(n Node) string {
	return wiki.Normalize(flatten(n))
}

func flatten(n Node) string {
	switch v := n.(type) {
	case *Text:
		return v.Text
	case *Document:
		return joinBlocks(v.Content, "\n\n")
	case *Paragraph:
		return concat(v.Content)
	case *Heading:
		return strings.Repeat("#", v.Level) + " " + concat(v.Content)
	case *BulletList:
		return joinItems(v.Items)
	case *OrderedList:
		return joinItems(v.Items)
	case *ListItem:
		return listItem(v)
	case *CodeBlock:
		return fence + concat(v.Content) + fence
	case *Rule:
		return "---"
	case *Panel:
		return joinBlocks(v.Content, "\n")
	case *Table:
		return markdownTable(v)
	case *Unknown:
		if v.Type == "hardBreak" {
			return "\n"
		}
		if v.Text != "" {
			return v.Text
		}
	}
	return concat(n.Children())
}

func concat(nodes []Node) string {
	var b strings.Builder
	for _, c := range nodes {
		b.WriteString(flatten(c))
	}
	return b.String()
}

func joinBlocks(nodes []Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, c := range nodes {
		parts = append(parts, flatten(c))
	}
	return strings.Join(parts, sep)
}

func joinItems(items []*ListItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, flatten(it))
	}
	return strings.Join(parts, "\n")
}

// listItem renders "- " plus the item's blocks. Lists nested in the item
// (only reachable through decoded ADF) are indented two spaces per level.
func listItem(it *ListItem) string {
	parts := make([]string, 0, len(it.Content))
	for _, c := range it.Content {
		s := flatten(c)
		switch c.(type) {
		case *BulletList, *OrderedList:
			s = indent(s, listIndent)
		}
		parts = append(parts, s)
	}
	return "- " + strings.Join(parts, "\n")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// markdownTable renders the first row as the header. Only paragraph content
// of a cell is rendered; anything else nested in a cell is dropped.
func markdownTable(t *Table) string {
	if len(t.Rows) == 0 {
		return ""
	}
	lines := make([]string, 0, len(t.Rows)+1)
	header := t.Rows[0]
	lines = append(lines, markdownRow(header))

	seps := make([]string, len(header.Cells))
	for i := range seps {
		seps[i] = tableSeparatorCell
	}
	lines = append(lines, "|"+strings.Join(seps, "|")+"|")

	for _, row := range t.Rows[1:] {
		lines = append(lines, markdownRow(row))
	}
	return strings.Join(lines, "\n")
}

func markdownRow(row *TableRow) string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = cellText(c)
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func cellText(c Cell) string {
	var b strings.Builder
	for _, child := range c.Children() {
		if p, ok := child.(*Paragraph); ok {
			b.WriteString(concat(p.Content))
		}
	}
	return b.String()
}
