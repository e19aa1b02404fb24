package converter

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/adfbridge/internal/apperr"
)

func TestConvert_Targets(t *testing.T) {
	cases := []struct {
		target, in, want string
	}{
		{TargetWiki, "# Title\n- item", "h1. Title\n* item"},
		{TargetNormalize, "h2. Sub\n{color:red}x{color}", "## Sub\nx"},
		{TargetText, `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]}`, "hi"},
	}
	for _, c := range cases {
		t.Run(c.target, func(t *testing.T) {
			got, err := Convert(c.target, []byte(c.in))
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if string(got) != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestConvert_ADFRoundTrip(t *testing.T) {
	data, err := Convert(TargetADF, []byte("plain words"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `{"type":"doc"`) {
		t.Fatalf("adf = %s", data)
	}
	text, err := ADFToText(data)
	if err != nil {
		t.Fatal(err)
	}
	if text != "plain words" {
		t.Errorf("text = %q", text)
	}
}

func TestConvert_Errors(t *testing.T) {
	if _, err := Convert(TargetText, []byte("{")); !errors.Is(err, apperr.ErrInvalidDocument) {
		t.Errorf("err = %v, want ErrInvalidDocument", err)
	}
	if _, err := Convert("pdf", nil); err == nil {
		t.Error("expected error for unknown target")
	}
}
