package wiki

import (
	"strings"
	"testing"
)

const sampleTable = "| Name | Age |\n| Alice | 30 |\n| Bob | 25 |"

func TestFromMarkdown_Table(t *testing.T) {
	got := strings.Split(FromMarkdown(sampleTable), "\n")
	want := []string{"||*Name*||*Age*||", "|-|-|", "|Alice|30|", "|Bob|25|"}
	if len(got) != len(want) {
		t.Fatalf("lines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFromMarkdown_TableWithSeparatorAndGap(t *testing.T) {
	in := "| A | B |\n|---|---|\n| 1 | 2 |\n\n| 3 | 4 |\n\nafter"
	want := "||*A*||*B*||\n|-|-|\n|1|2|\n|3|4|\n\nafter"
	if got := FromMarkdown(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFromMarkdown_HeadingsBulletsAndPassthrough(t *testing.T) {
	in := "# One\n## Two\n### Three\n#### Four\n\n- a\n* b\nplain *text*\n1. kept"
	want := "h1. One\nh2. Two\nh3. Three\nh3. # Four\n\n* a\n* b\nplain *text*\n1. kept"
	if got := FromMarkdown(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFromMarkdown_PipedBulletsBecomeTable(t *testing.T) {
	in := "- a | b\n- c | d"
	want := "||*- a*||*b*||\n|-|-|\n|- c|d|"
	if got := FromMarkdown(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFromMarkdown_SingleCellBulletStaysBullet(t *testing.T) {
	if got := FromMarkdown("- a |"); got != "* a |" {
		t.Errorf("got %q", got)
	}
}

func TestFromMarkdown_EmptyHeadingHasNoTrailingSpace(t *testing.T) {
	in := "#\n##   \n### x"
	want := "h1.\nh2.\nh3. x"
	if got := FromMarkdown(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFromMarkdown_SingleCellLineIsVerbatim(t *testing.T) {
	in := "| lonely |"
	if got := FromMarkdown(in); got != in {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_Rules(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"header", "h2. Title", "## Title"},
		{"rule", "a\n------\nb", "a\n---\nb"},
		{"panel", "{panel:title=Note|borderStyle=solid}\nbody\n{panel}", "> **Note**\n>\nbody"},
		{"color", "say {color:red}hot{color} now", "say hot now"},
		{"nested color", "{color:red}{color:blue}x{color}{color}", "x"},
		{"checkbox", "☐ todo\n☑ done", "- [ ] todo\n- [x] done"},
		{"blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"heading spacing", "intro\n# Head", "intro\n\n# Head"},
		{"trim", "  \n text \n ", "text"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Normalize(c.in); got != c.want {
				t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"h1. Title\ntext\nh2. Sub\n----\n{panel:title=Info}\n☐ a\n☑ b\n{panel}\n\n\n\nend",
		"{color:red}h1. hidden header{color}",
		"para\n# Heading\n## Another\ntext",
		"{panel}{panel}{panel}",
		"-----\n\n\n-----",
		"h3.no space\nh7. not a header",
		"{color:blue}unterminated",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce  %q\ntwice %q", in, once, twice)
		}
	}
}
