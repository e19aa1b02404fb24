package blockscan

import (
	"reflect"
	"testing"
)

func TestHashHeading_Levels(t *testing.T) {
	cases := []struct {
		line  string
		level int
		text  string
	}{
		{"# One", 1, "One"},
		{"## Two", 2, "Two"},
		{"### Three", 3, "Three"},
		{"#### Four", 3, "# Four"},
		{"#tight", 1, "tight"},
	}
	for _, c := range cases {
		level, text, ok := HashHeading(c.line)
		if !ok || level != c.level || text != c.text {
			t.Errorf("HashHeading(%q) = %d %q %v, want %d %q", c.line, level, text, ok, c.level, c.text)
		}
	}
	if _, _, ok := HashHeading("plain"); ok {
		t.Error("plain line should not be a heading")
	}
}

func TestSplitCells_TrimsAndDropsEmpty(t *testing.T) {
	got := SplitCells("|  a | | b  |")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("cells = %v", got)
	}
}

func TestTableStart(t *testing.T) {
	if _, ok := TableStart("|"); ok {
		t.Error("bare pipe should not open a table")
	}
	if _, ok := TableStart("| only |"); ok {
		t.Error("single cell should not open a table")
	}
	if cells, ok := TableStart("a | b"); !ok || len(cells) != 2 {
		t.Errorf("cells = %v ok = %v", cells, ok)
	}
}

func TestScanTable_SkipsBlankAndSeparator(t *testing.T) {
	lines := Lines("| H1 | H2 |\n|---|:-:|\n| a | b |\n\n| c | d |\nafter")
	rows, last, ok := ScanTable(lines, 0)
	if !ok {
		t.Fatal("expected a table")
	}
	want := [][]string{{"H1", "H2"}, {"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v", rows)
	}
	if last != 4 {
		t.Errorf("last = %d, want 4", last)
	}
}

func TestScanTable_StopsOnSingleCell(t *testing.T) {
	lines := Lines("| a | b |\n| lonely |\n| c | d |")
	rows, last, ok := ScanTable(lines, 0)
	if !ok || len(rows) != 1 || last != 0 {
		t.Errorf("rows = %v last = %d ok = %v", rows, last, ok)
	}
}

func TestScanTable_TrailingBlankNotConsumed(t *testing.T) {
	lines := Lines("| a | b |\n\n")
	_, last, _ := ScanTable(lines, 0)
	if last != 0 {
		t.Errorf("last = %d, want 0", last)
	}
}

func TestLines_StripsCarriageReturn(t *testing.T) {
	got := Lines("a\r\nb")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("lines = %q", got)
	}
}
