// Package inline splits a single line of text into styled runs (bold, italic, code).
package inline

import (
	"regexp"
	"sort"
)

// Mark is the style attached to a run.
type Mark int

const (
	None Mark = iota
	Strong
	Code
	Em
)

// String returns the ADF mark name, or "" for None.
func (m Mark) String() string {
	switch m {
	case Strong:
		return "strong"
	case Code:
		return "code"
	case Em:
		return "em"
	default:
		return ""
	}
}

var (
	strongRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	backtickRe  = regexp.MustCompile("`([^`]+)`")
	doubleBrace = regexp.MustCompile(`\{\{(.+?)\}\}`)
)

// Run is one styled piece of a line. Text excludes delimiters; Start and End
// are byte offsets of the source range the run covers, delimiters included.
type Run struct {
	Text  string
	Mark  Mark
	Start int
	End   int
}

type span struct {
	start, end int
	mark       Mark
	text       string
}

// Tokenize splits line into runs. The source ranges of the returned runs
// tile the whole line in order. Strong and code spans take precedence over em.
func Tokenize(line string) []Run {
	var spans []span
	var claimed intervals

	for _, re := range []*regexp.Regexp{strongRe, backtickRe, doubleBrace} {
		mark := Code
		if re == strongRe {
			mark = Strong
		}
		for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
			spans = append(spans, span{start: m[0], end: m[1], mark: mark, text: line[m[2]:m[3]]})
			claimed.add(m[0], m[1])
		}
	}
	spans = append(spans, scanEm(line, &claimed)...)

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var kept intervals
	var runs []Run
	pos := 0
	for _, s := range spans {
		if kept.overlaps(s.start, s.end) {
			continue
		}
		kept.add(s.start, s.end)
		if s.start > pos {
			runs = append(runs, Run{Text: line[pos:s.start], Start: pos, End: s.start})
		}
		runs = append(runs, Run{Text: s.text, Mark: s.mark, Start: s.start, End: s.end})
		pos = s.end
	}
	if pos < len(line) || len(runs) == 0 {
		runs = append(runs, Run{Text: line[pos:], Start: pos, End: len(line)})
	}
	return runs
}

// scanEm finds *em* spans whose delimiters are outside every claimed range.
// Claimed bytes behave like blanks: they never delimit but may sit inside.
func scanEm(line string, claimed *intervals) []span {
	var out []span
	for i := 0; i < len(line); i++ {
		if line[i] != '*' || claimed.contains(i) {
			continue
		}
		j := i + 1
		for j < len(line) && (line[j] != '*' || claimed.contains(j)) {
			j++
		}
		if j >= len(line) {
			break
		}
		if j == i+1 {
			continue
		}
		out = append(out, span{start: i, end: j + 1, mark: Em, text: line[i+1 : j]})
		i = j
	}
	return out
}

// intervals is a small set of half-open [start,end) byte ranges.
type intervals [][2]int

func (iv *intervals) add(start, end int) {
	*iv = append(*iv, [2]int{start, end})
}

func (iv intervals) contains(pos int) bool {
	for _, r := range iv {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

func (iv intervals) overlaps(start, end int) bool {
	for _, r := range iv {
		if start < r[1] && r[0] < end {
			return true
		}
	}
	return false
}
