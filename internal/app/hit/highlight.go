package hit

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

// HighlightClass marks the runs the search backend wraps around matches
const HighlightClass = "highlight"

// Segment is a run of plain text, optionally highlighted
type Segment struct {
	Text      string
	Highlight bool
}

// Segments tokenises an HTML highlight fragment into text runs.
// Only span elements with the highlight class produce highlighted runs,
// every other tag is dropped and entities are unescaped.
func Segments(fragment string) []Segment {
	var (
		segments []Segment
		spans    []bool
		raw      bool
	)

	z := html.NewTokenizer(strings.NewReader(fragment))

	for {
		switch z.Next() {
		case html.ErrorToken:
			return segments
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if isRawText(string(name)) {
				raw = true
				continue
			}

			if string(name) != "span" {
				continue
			}

			spans = append(spans, hasAttr && hasHighlightClass(z))
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawText(string(name)) {
				raw = false
				continue
			}

			if string(name) == "span" && len(spans) > 0 {
				spans = spans[:len(spans)-1]
			}
		case html.TextToken:
			if raw {
				continue
			}

			text := Sanitize(string(z.Text()))
			if text == "" {
				continue
			}

			segments = appendSegment(segments, Segment{Text: text, Highlight: highlighted(spans)})
		}
	}
}

// Plain returns the fragment text without any markup
func Plain(fragment string) string {
	var b strings.Builder
	for _, s := range Segments(fragment) {
		b.WriteString(s.Text)
	}

	return b.String()
}

// Sanitize strips terminal escape sequences and control characters, turning line breaks and tabs into spaces
func Sanitize(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, ansi.Strip(s))
}

func hasHighlightClass(z *html.Tokenizer) bool {
	for {
		key, value, more := z.TagAttr()
		if string(key) == "class" {
			for _, class := range strings.Fields(string(value)) {
				if class == HighlightClass {
					return true
				}
			}
		}

		if !more {
			return false
		}
	}
}

func isRawText(name string) bool {
	return name == "script" || name == "style"
}

func highlighted(spans []bool) bool {
	for _, on := range spans {
		if on {
			return true
		}
	}

	return false
}

func appendSegment(segments []Segment, s Segment) []Segment {
	if n := len(segments); n > 0 && segments[n-1].Highlight == s.Highlight {
		segments[n-1].Text += s.Text
		return segments
	}

	return append(segments, s)
}
