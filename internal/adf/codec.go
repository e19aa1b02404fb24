package adf

import (
	"encoding/json"
	"fmt"

	"github.com/starford/adfbridge/internal/apperr"
	"github.com/starford/adfbridge/internal/inline"
)

// wireNode is the Atlassian JSON shape shared by every node kind.
type wireNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []wireNode     `json:"content,omitempty"`
	Text    *string        `json:"text,omitempty"`
	Marks   []wireMark     `json:"marks,omitempty"`
}

type wireMark struct {
	Type string `json:"type"`
}

type wireDoc struct {
	Type    string     `json:"type"`
	Version int        `json:"version"`
	Content []wireNode `json:"content"`
}

// MarshalJSON encodes the document as ADF version 1.
func (d *Document) MarshalJSON() ([]byte, error) {
	content := make([]wireNode, 0, len(d.Content))
	for _, c := range d.Content {
		content = append(content, toWire(c))
	}
	return json.Marshal(wireDoc{Type: string(KindDocument), Version: 1, Content: content})
}

// UnmarshalJSON decodes ADF JSON; see Decode.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// Encode returns the ADF JSON of any node.
func Encode(n Node) ([]byte, error) {
	if d, ok := n.(*Document); ok {
		return d.MarshalJSON()
	}
	return json.Marshal(toWire(n))
}

func toWire(n Node) wireNode {
	w := wireNode{Type: string(n.Kind())}
	switch v := n.(type) {
	case *Text:
		text := v.Text
		w.Text = &text
		for _, m := range v.Marks {
			if name := m.String(); name != "" {
				w.Marks = append(w.Marks, wireMark{Type: name})
			}
		}
		return w
	case *Heading:
		w.Attrs = map[string]any{"level": v.Level}
	case *Panel:
		w.Attrs = map[string]any{"panelType": v.PanelType}
	case *CodeBlock:
		if v.Language != "" {
			w.Attrs = map[string]any{"language": v.Language}
		}
	case *Unknown:
		w.Attrs = v.Attrs
		if v.Text != "" {
			text := v.Text
			w.Text = &text
		}
	}
	for _, c := range n.Children() {
		w.Content = append(w.Content, toWire(c))
	}
	return w
}

// Decode parses ADF JSON into a Document. Unknown node kinds become Unknown
// nodes; marks other than strong, em and code are dropped.
func Decode(data []byte) (*Document, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidDocument, err)
	}
	if w.Type != string(KindDocument) {
		return nil, fmt.Errorf("%w: root type is %q, want %q", apperr.ErrInvalidDocument, w.Type, KindDocument)
	}
	return &Document{Content: fromWireAll(w.Content)}, nil
}

func fromWireAll(ws []wireNode) []Node {
	var out []Node
	for _, w := range ws {
		out = append(out, fromWire(w))
	}
	return out
}

func fromWire(w wireNode) Node {
	switch Kind(w.Type) {
	case KindText:
		t := &Text{}
		if w.Text != nil {
			t.Text = *w.Text
		}
		for _, m := range w.Marks {
			switch m.Type {
			case "strong":
				t.Marks = append(t.Marks, inline.Strong)
			case "em":
				t.Marks = append(t.Marks, inline.Em)
			case "code":
				t.Marks = append(t.Marks, inline.Code)
			}
		}
		return t
	case KindParagraph:
		return &Paragraph{Content: fromWireAll(w.Content)}
	case KindHeading:
		return &Heading{Level: headingLevel(w.Attrs), Content: fromWireAll(w.Content)}
	case KindBulletList:
		return &BulletList{Items: listItems(w.Content)}
	case KindOrderedList:
		return &OrderedList{Items: listItems(w.Content)}
	case KindListItem:
		return &ListItem{Content: fromWireAll(w.Content)}
	case KindCodeBlock:
		lang, _ := w.Attrs["language"].(string)
		return &CodeBlock{Language: lang, Content: fromWireAll(w.Content)}
	case KindRule:
		return &Rule{}
	case KindPanel:
		pt, _ := w.Attrs["panelType"].(string)
		return &Panel{PanelType: pt, Content: fromWireAll(w.Content)}
	case KindTable:
		t := &Table{}
		for _, c := range w.Content {
			if row, ok := fromWire(c).(*TableRow); ok {
				t.Rows = append(t.Rows, row)
			}
		}
		return t
	case KindTableRow:
		row := &TableRow{}
		for _, c := range w.Content {
			if cell, ok := fromWire(c).(Cell); ok {
				row.Cells = append(row.Cells, cell)
			}
		}
		return row
	case KindTableCell:
		return &TableCell{Content: fromWireAll(w.Content)}
	case KindTableHeaderCell:
		return &TableHeaderCell{Content: fromWireAll(w.Content)}
	}
	u := &Unknown{Type: w.Type, Attrs: w.Attrs, Content: fromWireAll(w.Content)}
	if w.Text != nil {
		u.Text = *w.Text
	}
	return u
}

func listItems(ws []wireNode) []*ListItem {
	var items []*ListItem
	for _, w := range ws {
		if it, ok := fromWire(w).(*ListItem); ok {
			items = append(items, it)
		}
	}
	return items
}

func headingLevel(attrs map[string]any) int {
	f, _ := attrs["level"].(float64)
	level := int(f)
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	}
	return level
}
