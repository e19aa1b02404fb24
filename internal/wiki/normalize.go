// Package wiki converts between the line-oriented wiki markup dialect
// (h1., {panel}, ||header||) and Markdown-like text.
package wiki

import (
	"regexp"
	"strings"
)

var (
	headerRe     = regexp.MustCompile(`(?m)^h([1-6])\.[ \t]*`)
	dashRuleRe   = regexp.MustCompile(`(?m)^-{4,}[ \t]*$`)
	panelOpenRe  = regexp.MustCompile(`\{panel:title=([^}|]*)[^}]*\}`)
	panelCloseRe = regexp.MustCompile(`\{panel\}`)
	colorRe      = regexp.MustCompile(`(?s)\{color:[^}]*\}(.*?)\{color\}`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	mdHeadingRe  = regexp.MustCompile(`^#{1,6}[ \t]`)
	checkboxRepl = strings.NewReplacer("☐", "- [ ]", "☑", "- [x]")
)

const maxNormPasses = 8

// Normalize rewrites wiki markup into Markdown-like text. The result is a
// fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	out := normalizePass(text)
	// A rewrite can expose input for an earlier rule (a {color} wrapper
	// around "h1." at line start), so repeat until nothing changes.
	for i := 1; i < maxNormPasses; i++ {
		next := normalizePass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func normalizePass(s string) string {
	s = headerRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat("#", int(m[1]-'0')) + " "
	})
	s = dashRuleRe.ReplaceAllString(s, "---")
	s = panelOpenRe.ReplaceAllStringFunc(s, func(m string) string {
		title := strings.TrimSpace(panelOpenRe.FindStringSubmatch(m)[1])
		return "\n> **" + title + "**\n>"
	})
	s = panelCloseRe.ReplaceAllString(s, "\n")
	for {
		next := colorRe.ReplaceAllString(s, "$1")
		if next == s {
			break
		}
		s = next
	}
	s = checkboxRepl.Replace(s)
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = spaceHeadings(s)
	return strings.TrimSpace(s)
}

// spaceHeadings inserts a blank line before every heading line whose
// previous line is not blank.
func spaceHeadings(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		if i > 0 && mdHeadingRe.MatchString(l) && strings.TrimSpace(lines[i-1]) != "" {
			out = append(out, "")
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
