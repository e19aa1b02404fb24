// Package adf models Atlassian Document Format trees and converts between
// them and Markdown-like text.
package adf

import "github.com/starford/adfbridge/internal/inline"

// Kind is the ADF type name of a node.
type Kind string

const (
	KindDocument        Kind = "doc"
	KindParagraph       Kind = "paragraph"
	KindHeading         Kind = "heading"
	KindBulletList      Kind = "bulletList"
	KindOrderedList     Kind = "orderedList"
	KindListItem        Kind = "listItem"
	KindCodeBlock       Kind = "codeBlock"
	KindRule            Kind = "rule"
	KindPanel           Kind = "panel"
	KindTable           Kind = "table"
	KindTableRow        Kind = "tableRow"
	KindTableCell       Kind = "tableCell"
	KindTableHeaderCell Kind = "tableHeader"
	KindText            Kind = "text"
)

// PanelInfo is the only panel type the parser produces.
const PanelInfo = "info"

// Node is any node of the tree. The set of implementations is closed.
type Node interface {
	Kind() Kind
	// Children returns the node's children in display order; nil for leaves.
	Children() []Node
	node()
}

// Cell is a node allowed inside a TableRow.
type Cell interface {
	Node
	cell()
}

// Document is the tree root.
type Document struct {
	Content []Node
}

type Paragraph struct {
	Content []Node
}

// Heading carries a level in [1,6].
type Heading struct {
	Level   int
	Content []Node
}

type BulletList struct {
	Items []*ListItem
}

type OrderedList struct {
	Items []*ListItem
}

type ListItem struct {
	Content []Node
}

// CodeBlock holds its source as a single unmarked Text child.
type CodeBlock struct {
	Language string
	Content  []Node
}

type Rule struct{}

// Panel's first child is the strong title paragraph.
type Panel struct {
	PanelType string
	Content   []Node
}

// Table's first row is made of header cells.
type Table struct {
	Rows []*TableRow
}

type TableRow struct {
	Cells []Cell
}

type TableCell struct {
	Content []Node
}

type TableHeaderCell struct {
	Content []Node
}

// Text is the only leaf kind.
type Text struct {
	Text  string
	Marks []inline.Mark
}

// Unknown holds a decoded node whose type this package does not model.
type Unknown struct {
	Type    string
	Text    string
	Attrs   map[string]any
	Content []Node
}

func (*Document) Kind() Kind        { return KindDocument }
func (*Paragraph) Kind() Kind       { return KindParagraph }
func (*Heading) Kind() Kind         { return KindHeading }
func (*BulletList) Kind() Kind      { return KindBulletList }
func (*OrderedList) Kind() Kind     { return KindOrderedList }
func (*ListItem) Kind() Kind        { return KindListItem }
func (*CodeBlock) Kind() Kind       { return KindCodeBlock }
func (*Rule) Kind() Kind            { return KindRule }
func (*Panel) Kind() Kind           { return KindPanel }
func (*Table) Kind() Kind           { return KindTable }
func (*TableRow) Kind() Kind        { return KindTableRow }
func (*TableCell) Kind() Kind       { return KindTableCell }
func (*TableHeaderCell) Kind() Kind { return KindTableHeaderCell }
func (*Text) Kind() Kind            { return KindText }
func (u *Unknown) Kind() Kind       { return Kind(u.Type) }

func (n *Document) Children() []Node        { return n.Content }
func (n *Paragraph) Children() []Node       { return n.Content }
func (n *Heading) Children() []Node         { return n.Content }
func (n *BulletList) Children() []Node      { return listChildren(n.Items) }
func (n *OrderedList) Children() []Node     { return listChildren(n.Items) }
func (n *ListItem) Children() []Node        { return n.Content }
func (n *CodeBlock) Children() []Node       { return n.Content }
func (*Rule) Children() []Node              { return nil }
func (n *Panel) Children() []Node           { return n.Content }
func (n *TableCell) Children() []Node       { return n.Content }
func (n *TableHeaderCell) Children() []Node { return n.Content }
func (*Text) Children() []Node              { return nil }
func (n *Unknown) Children() []Node         { return n.Content }

func (n *Table) Children() []Node {
	out := make([]Node, len(n.Rows))
	for i, r := range n.Rows {
		out[i] = r
	}
	return out
}

func (n *TableRow) Children() []Node {
	out := make([]Node, len(n.Cells))
	for i, c := range n.Cells {
		out[i] = c
	}
	return out
}

func listChildren(items []*ListItem) []Node {
	out := make([]Node, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (*Document) node()        {}
func (*Paragraph) node()       {}
func (*Heading) node()         {}
func (*BulletList) node()      {}
func (*OrderedList) node()     {}
func (*ListItem) node()        {}
func (*CodeBlock) node()       {}
func (*Rule) node()            {}
func (*Panel) node()           {}
func (*Table) node()           {}
func (*TableRow) node()        {}
func (*TableCell) node()       {}
func (*TableHeaderCell) node() {}
func (*Text) node()            {}
func (*Unknown) node()         {}

func (*TableCell) cell()       {}
func (*TableHeaderCell) cell() {}

// HasMark reports whether t carries mark m.
func (t *Text) HasMark(m inline.Mark) bool {
	for _, x := range t.Marks {
		if x == m {
			return true
		}
	}
	return false
}
