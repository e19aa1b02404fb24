package adf

import (
	"regexp"
	"strings"

	"github.com/starford/adfbridge/internal/blockscan"
	"github.com/starford/adfbridge/internal/inline"
)

var (
	wikiHeadingRe = regexp.MustCompile(`^h([1-6])\.\s*(.*)$`)
	ruleRe        = regexp.MustCompile(`^-{4,}$`)
	panelOpenRe   = regexp.MustCompile(`\{panel:title=([^}|]*)[^}]*\}`)
	panelCloseRe  = regexp.MustCompile(`\{panel\}`)
	orderedItemRe = regexp.MustCompile(`^\d+\.\s`)
	fence         = "```"
)

// Parse converts Markdown-like text (with a few wiki-dialect forms such as
// "h2." headings and {panel} blocks) into a Document. It never fails:
// unterminated panels and fences run to the end of the input, and an input
// that yields no blocks becomes a single paragraph holding the raw text.
func Parse(text string) *Document {
	p := &blockParser{lines: blockscan.Lines(text)}
	p.run()
	if len(p.blocks) == 0 {
		return &Document{Content: []Node{&Paragraph{Content: []Node{&Text{Text: text}}}}}
	}
	return &Document{Content: p.blocks}
}

type blockParser struct {
	lines  []string
	blocks []Node

	// openBullets and openOrdered are the list the next item of that kind
	// joins; emitting any other block closes them.
	openBullets *BulletList
	openOrdered *OrderedList
}

func (p *blockParser) run() {
	for i := 0; i < len(p.lines); {
		line := strings.TrimSpace(p.lines[i])
		if line == "" {
			i++
			continue
		}
		i = p.block(line, i)
	}
}

// block recognises the construct starting at lines[i] and returns the index
// to resume from.
func (p *blockParser) block(line string, i int) int {
	if m := wikiHeadingRe.FindStringSubmatch(line); m != nil {
		p.emit(&Heading{Level: int(m[1][0] - '0'), Content: Runs(m[2])})
		return i + 1
	}
	if level, text, ok := blockscan.HashHeading(line); ok {
		p.emit(&Heading{Level: level, Content: Runs(text)})
		return i + 1
	}
	if ruleRe.MatchString(line) {
		p.emit(&Rule{})
		return i + 1
	}
	if m := panelOpenRe.FindStringSubmatch(line); m != nil {
		return p.panel(strings.TrimSpace(m[1]), i)
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		p.bullet(line[2:])
		return i + 1
	}
	if loc := orderedItemRe.FindStringIndex(line); loc != nil {
		p.ordered(line[loc[1]:])
		return i + 1
	}
	if strings.HasPrefix(line, fence) {
		return p.codeBlock(line, i)
	}
	if next, ok := p.table(i); ok {
		return next
	}
	p.emit(&Paragraph{Content: Runs(line)})
	return i + 1
}

func (p *blockParser) emit(n Node) {
	p.blocks = append(p.blocks, n)
	p.openBullets = nil
	p.openOrdered = nil
}

func (p *blockParser) bullet(text string) {
	item := &ListItem{Content: []Node{&Paragraph{Content: Runs(strings.TrimSpace(text))}}}
	if p.openBullets != nil {
		p.openBullets.Items = append(p.openBullets.Items, item)
		return
	}
	list := &BulletList{Items: []*ListItem{item}}
	p.emit(list)
	p.openBullets = list
}

func (p *blockParser) ordered(text string) {
	item := &ListItem{Content: []Node{&Paragraph{Content: Runs(strings.TrimSpace(text))}}}
	if p.openOrdered != nil {
		p.openOrdered.Items = append(p.openOrdered.Items, item)
		return
	}
	list := &OrderedList{Items: []*ListItem{item}}
	p.emit(list)
	p.openOrdered = list
}

// panel consumes body lines up to and including the closing {panel}.
func (p *blockParser) panel(title string, i int) int {
	panel := &Panel{
		PanelType: PanelInfo,
		Content: []Node{
			&Paragraph{Content: []Node{&Text{Text: title, Marks: []inline.Mark{inline.Strong}}}},
		},
	}
	j := i + 1
	for ; j < len(p.lines); j++ {
		line := strings.TrimSpace(p.lines[j])
		if panelCloseRe.MatchString(line) {
			j++
			break
		}
		if line != "" {
			panel.Content = append(panel.Content, &Paragraph{Content: Runs(line)})
		}
	}
	p.emit(panel)
	return j
}

// codeBlock consumes raw lines up to and including the closing fence.
func (p *blockParser) codeBlock(open string, i int) int {
	var body []string
	j := i + 1
	for ; j < len(p.lines); j++ {
		if strings.HasPrefix(strings.TrimSpace(p.lines[j]), fence) {
			j++
			break
		}
		body = append(body, p.lines[j])
	}
	p.emit(&CodeBlock{
		Language: strings.TrimSpace(strings.TrimPrefix(open, fence)),
		Content:  []Node{&Text{Text: strings.Join(body, "\n")}},
	})
	return j
}

func (p *blockParser) table(i int) (int, bool) {
	rows, last, ok := blockscan.ScanTable(p.lines, i)
	if !ok {
		return i, false
	}
	table := &Table{}
	for r, cells := range rows {
		row := &TableRow{}
		for _, c := range cells {
			content := []Node{&Paragraph{Content: Runs(c)}}
			if r == 0 {
				row.Cells = append(row.Cells, &TableHeaderCell{Content: content})
			} else {
				row.Cells = append(row.Cells, &TableCell{Content: content})
			}
		}
		table.Rows = append(table.Rows, row)
	}
	p.emit(table)
	return last + 1, true
}

// Runs tokenizes one line into Text nodes.
func Runs(line string) []Node {
	runs := inline.Tokenize(line)
	out := make([]Node, 0, len(runs))
	for _, r := range runs {
		t := &Text{Text: r.Text}
		if r.Mark != inline.None {
			t.Marks = []inline.Mark{r.Mark}
		}
		out = append(out, t)
	}
	return out
}
