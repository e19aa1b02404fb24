// Package converter exposes the document conversions and coordinates the
// workspace, the index and the converter core for stored documents.
package converter

import (
	"fmt"

	"github.com/starford/adfbridge/internal/adf"
	"github.com/starford/adfbridge/internal/wiki"
)

// Target formats accepted by Convert.
const (
	TargetADF       = "adf"
	TargetText      = "text"
	TargetWiki      = "wiki"
	TargetNormalize = "normalize"
)

// Targets lists every format Convert accepts.
var Targets = []string{TargetADF, TargetText, TargetWiki, TargetNormalize}

// ToADF parses Markdown-like or wiki text into an ADF document.
func ToADF(text string) *adf.Document {
	return adf.Parse(text)
}

// ADFToText decodes ADF JSON and flattens it to normalized Markdown-like text.
func ADFToText(data []byte) (string, error) {
	doc, err := adf.Decode(data)
	if err != nil {
		return "", err
	}
	return adf.Flatten(doc), nil
}

// ToWiki rewrites Markdown-like text as wiki markup.
func ToWiki(text string) string {
	return wiki.FromMarkdown(text)
}

// Normalize rewrites wiki-style leaf text into Markdown-like text.
func Normalize(text string) string {
	return wiki.Normalize(text)
}

// Convert runs the conversion named by target over input and returns the
// encoded result. For TargetText the input is ADF JSON.
func Convert(target string, input []byte) ([]byte, error) {
	switch target {
	case TargetADF:
		return adf.Encode(ToADF(string(input)))
	case TargetText:
		out, err := ADFToText(input)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case TargetWiki:
		return []byte(ToWiki(string(input))), nil
	case TargetNormalize:
		return []byte(Normalize(string(input))), nil
	}
	return nil, fmt.Errorf("converter: unknown target %q", target)
}
