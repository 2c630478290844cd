// Package markup parses the inline formatting dialect used in slide titles
// and bodies. The dialect is closed: literal newlines separate lines, and
// within a line exactly two span tags are recognized, <b>...</b> and
// <mark>...</mark>. Tags do not nest; the first complete run wins and its
// content is treated as opaque literal text. Anything else, including
// unmatched or unknown tags, surfaces as plain text. Parsing never fails:
// user-entered and AI-generated text must never crash rendering.
package markup

import "strings"

// Kind classifies a parsed segment.
type Kind int

const (
	PlainText Kind = iota
	Bold
	Highlight
)

func (k Kind) String() string {
	switch k {
	case Bold:
		return "bold"
	case Highlight:
		return "highlight"
	default:
		return "text"
	}
}

// Segment is a single run of uniformly styled text.
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Line is an ordered sequence of segments between two line breaks.
type Line []Segment

type tag struct {
	open  string
	close string
	kind  Kind
}

var tags = []tag{
	{open: "<b>", close: "</b>", kind: Bold},
	{open: "<mark>", close: "</mark>", kind: Highlight},
}

// Parse splits raw on literal newlines and scans each line for span tags.
// The result has one Line per input line, in order. Parse is pure; call it
// again for a fresh walk.
func Parse(raw string) []Line {
	parts := strings.Split(raw, "\n")
	lines := make([]Line, len(parts))
	for i, part := range parts {
		lines[i] = ParseLine(part)
	}
	return lines
}

// ParseLine scans a single line for the first complete <b> or <mark> run at
// each position, left to right. An opener without a matching closer is not a
// match; the scan continues past it and the opener surfaces literally.
func ParseLine(line string) Line {
	segs := Line{}
	plainStart := 0
	i := 0
	for i < len(line) {
		if line[i] != '<' {
			i++
			continue
		}
		t, end, ok := matchAt(line, i)
		if !ok {
			i++
			continue
		}
		if i > plainStart {
			segs = append(segs, Segment{Kind: PlainText, Text: line[plainStart:i]})
		}
		inner := line[i+len(t.open) : end]
		segs = append(segs, Segment{Kind: t.kind, Text: inner})
		i = end + len(t.close)
		plainStart = i
	}
	if plainStart < len(line) {
		segs = append(segs, Segment{Kind: PlainText, Text: line[plainStart:]})
	}
	if len(segs) == 0 {
		// A blank line still renders as one empty text segment.
		segs = append(segs, Segment{Kind: PlainText, Text: ""})
	}
	return segs
}

// matchAt reports whether a complete tag run starts at position i. On a
// match it returns the tag and the index of the closing tag, so the span
// content is line[i+len(open):end]. The closer is found non-greedily: the
// first occurrence after the opener ends the span.
func matchAt(line string, i int) (tag, int, bool) {
	for _, t := range tags {
		if !strings.HasPrefix(line[i:], t.open) {
			continue
		}
		rel := strings.Index(line[i+len(t.open):], t.close)
		if rel < 0 {
			continue
		}
		return t, i + len(t.open) + rel, true
	}
	return tag{}, 0, false
}
