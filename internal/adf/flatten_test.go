package adf

import (
	"strings"
	"testing"

	"github.com/starford/adfbridge/internal/inline"
)

func TestFlatten_RoundTripPlainLines(t *testing.T) {
	for _, s := range []string{
		"hello world",
		"a sentence, with punctuation.",
		"x",
		"numbers 12 and symbols @ $ %",
	} {
		if got := Flatten(Parse(s)); got != s {
			t.Errorf("Flatten(Parse(%q)) = %q", s, got)
		}
	}
}

func TestFlatten_Empty(t *testing.T) {
	if got := Flatten(Parse("")); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestFlatten_Table(t *testing.T) {
	got := strings.Split(Flatten(Parse(sampleTable)), "\n")
	want := []string{
		"| Name | Age |",
		"|--------|--------|",
		"| Alice | 30 |",
		"| Bob | 25 |",
	}
	if len(got) != len(want) {
		t.Fatalf("lines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFlatten_Blocks(t *testing.T) {
	in := "## Title\n- one\n- **two**\n```\nx := 1\n```\n----\nclosing"
	want := "## Title\n\n- one\n- two\n\n```x := 1```\n\n---\n\nclosing"
	if got := Flatten(Parse(in)); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestFlatten_NormalizesWikiLeaves(t *testing.T) {
	doc := &Document{Content: []Node{
		&Paragraph{Content: []Node{&Text{Text: "h2. Status"}}},
		&Paragraph{Content: []Node{&Text{Text: "{color:green}done{color} ☑"}}},
	}}
	want := "## Status\n\ndone - [x]"
	if got := Flatten(doc); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFlatten_CellIgnoresNonParagraph(t *testing.T) {
	doc := &Document{Content: []Node{&Table{Rows: []*TableRow{
		{Cells: []Cell{
			&TableHeaderCell{Content: []Node{&Paragraph{Content: []Node{&Text{Text: "H"}}}}},
		}},
		{Cells: []Cell{
			&TableCell{Content: []Node{
				&BulletList{Items: []*ListItem{{Content: []Node{&Paragraph{Content: []Node{&Text{Text: "dropped"}}}}}}},
				&Paragraph{Content: []Node{&Text{Text: "kept", Marks: []inline.Mark{inline.Em}}}},
			}},
		}},
	}}}}
	want := "| H |\n|--------|\n| kept |"
	if got := Flatten(doc); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFlatten_UnknownFallsBackToChildren(t *testing.T) {
	doc := &Document{Content: []Node{
		&Unknown{Type: "blockquote", Content: []Node{
			&Paragraph{Content: []Node{&Text{Text: "quoted"}, &Unknown{Type: "hardBreak"}, &Text{Text: "next"}}},
		}},
	}}
	if got := Flatten(doc); got != "quoted\nnext" {
		t.Errorf("got %q", got)
	}
}

func TestFlatten_NestedListsIndented(t *testing.T) {
	para := func(s string) Node { return &Paragraph{Content: []Node{&Text{Text: s}}} }
	doc := &Document{Content: []Node{&BulletList{Items: []*ListItem{
		{Content: []Node{
			para("parent"),
			&OrderedList{Items: []*ListItem{
				{Content: []Node{
					para("child"),
					&BulletList{Items: []*ListItem{{Content: []Node{para("grandchild")}}}},
				}},
			}},
		}},
		{Content: []Node{para("sibling")}},
	}}}}
	want := "- parent\n  - child\n    - grandchild\n- sibling"
	if got := Flatten(doc); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFlatten_DecodedNestedList(t *testing.T) {
	data := []byte(`{"type":"doc","content":[{"type":"bulletList","content":[
		{"type":"listItem","content":[
			{"type":"paragraph","content":[{"type":"text","text":"top"}]},
			{"type":"bulletList","content":[{"type":"listItem","content":[
				{"type":"paragraph","content":[{"type":"text","text":"inner"}]}
			]}]}
		]}
	]}]}`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := Flatten(doc); got != "- top\n  - inner" {
		t.Errorf("got %q", got)
	}
}
