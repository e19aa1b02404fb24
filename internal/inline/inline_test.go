package inline

import (
	"testing"
)

func assertTiles(t *testing.T, line string, runs []Run) {
	t.Helper()
	pos := 0
	for i, r := range runs {
		if r.Start != pos {
			t.Fatalf("%q: run %d starts at %d, want %d", line, i, r.Start, pos)
		}
		if r.End < r.Start {
			t.Fatalf("%q: run %d has end %d before start %d", line, i, r.End, r.Start)
		}
		pos = r.End
	}
	if pos != len(line) {
		t.Fatalf("%q: runs end at %d, want %d", line, pos, len(line))
	}
}

func TestTokenize_Coverage(t *testing.T) {
	lines := []string{
		"",
		"plain text only",
		"**bold**",
		"a **b** c *d* e `f` g {{h}} i",
		"**x*y**z*",
		"*a **b** c*",
		"`**not bold**` and **`code`**",
		"trailing * lone star",
		"**unclosed bold",
		"**",
		"***",
		"a ** b",
	}
	for _, line := range lines {
		runs := Tokenize(line)
		if len(runs) == 0 {
			t.Fatalf("%q: no runs", line)
		}
		assertTiles(t, line, runs)
	}
}

func TestTokenize_PlainRunsKeepText(t *testing.T) {
	line := "nothing to see"
	runs := Tokenize(line)
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Text != line || runs[0].Mark != None {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestTokenize_StrongWinsOverEm(t *testing.T) {
	runs := Tokenize("**a*b*c**")
	if len(runs) != 1 {
		t.Fatalf("runs = %+v, want a single run", runs)
	}
	if runs[0].Mark != Strong || runs[0].Text != "a*b*c" {
		t.Errorf("run = %+v, want strong %q", runs[0], "a*b*c")
	}
}

func TestTokenize_MixedMarks(t *testing.T) {
	runs := Tokenize("say **hi** to *you* with `x` and {{y}}")
	want := []Run{
		{Text: "say "},
		{Text: "hi", Mark: Strong},
		{Text: " to "},
		{Text: "you", Mark: Em},
		{Text: " with "},
		{Text: "x", Mark: Code},
		{Text: " and "},
		{Text: "y", Mark: Code},
	}
	if len(runs) != len(want) {
		t.Fatalf("runs = %+v", runs)
	}
	for i := range want {
		if runs[i].Text != want[i].Text || runs[i].Mark != want[i].Mark {
			t.Errorf("run %d = %+v, want %q/%s", i, runs[i], want[i].Text, want[i].Mark)
		}
	}
}

func TestTokenize_BoldFollowedByEm(t *testing.T) {
	runs := Tokenize("**bold** and *em*")
	if len(runs) != 3 {
		t.Fatalf("runs = %+v", runs)
	}
	if runs[0].Mark != Strong || runs[2].Mark != Em || runs[2].Text != "em" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestTokenize_OverlapFirstWins(t *testing.T) {
	// The em span opens before the strong span and swallows it.
	runs := Tokenize("*a **b** c*")
	if len(runs) != 1 {
		t.Fatalf("runs = %+v", runs)
	}
	if runs[0].Mark != Em || runs[0].Text != "a **b** c" {
		t.Errorf("run = %+v", runs[0])
	}

	// Code claimed first; the strong span starting inside it is dropped.
	runs = Tokenize("`a **b` c**")
	if runs[0].Mark != Code || runs[0].Text != "a **b" {
		t.Errorf("first run = %+v", runs[0])
	}
	for _, r := range runs[1:] {
		if r.Mark == Strong {
			t.Errorf("unexpected strong run %+v", r)
		}
	}
}

func TestTokenize_EmptyLine(t *testing.T) {
	runs := Tokenize("")
	if len(runs) != 1 || runs[0].Text != "" || runs[0].Mark != None {
		t.Errorf("runs = %+v, want one empty plain run", runs)
	}
}

func TestTokenize_EmptyEmIsText(t *testing.T) {
	runs := Tokenize("a ** b")
	if len(runs) != 1 || runs[0].Mark != None {
		t.Errorf("runs = %+v", runs)
	}
}
