// Package span provides the positional text model used by the sprinkle pipeline.
// A prompt is split into placeholder spans ({{ ... }}) and literal spans which together
// partition the original string. Offsets are byte offsets into the original prompt and are
// kept through resolution so the final command can be reassembled in source order.
package span

import (
	"fmt"
	"strings"
)

// Marker syntax for placeholders.
const (
	OpenMarker  = "{{"
	CloseMarker = "}}"
)

// Span is a half-open [Start, End) region of the original prompt.
// For a placeholder, Text starts out as the raw delimited substring (markers included)
// and is replaced by the resolved value. Start and End never change; they only order spans.
type Span struct {
	Text  string
	Start int
	End   int
}

// Keyed is anything that can be ordered by an integer offset.
type Keyed interface {
	Key() int
}

// Key returns the ordering key of the span (its start offset).
func (s Span) Key() int {
	return s.Start
}

// Len returns the width of the span in the original prompt.
func (s Span) Len() int {
	return s.End - s.Start
}

// WithText returns a copy of s carrying new text at the same position.
func (s Span) WithText(text string) Span {
	return Span{Text: text, Start: s.Start, End: s.End}
}

// Body returns the placeholder text without its markers and surrounding whitespace.
// Text that is not delimited by markers is returned trimmed.
func (s Span) Body() string {
	body := s.Text
	if strings.HasPrefix(body, OpenMarker) && strings.HasSuffix(body, CloseMarker) && len(body) >= len(OpenMarker)+len(CloseMarker) {
		body = body[len(OpenMarker) : len(body)-len(CloseMarker)]
	}
	return strings.TrimSpace(body)
}

func (s Span) String() string {
	return fmt.Sprintf("%q@[%d,%d)", s.Text, s.Start, s.End)
}

// clip copies text[start:end] into a span at the same offsets.
func clip(text string, start, end int) Span {
	return Span{Text: text[start:end], Start: start, End: end}
}
