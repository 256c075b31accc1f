package span

import "strings"

// Parse splits prompt into ordered placeholder spans and ordered literal spans.
//
// The scan looks for the next OpenMarker and then the next CloseMarker at or after it.
// An unterminated marker ends the scan and everything after the last complete placeholder
// stays literal; parsing never fails. The search for the next placeholder resumes at the
// closing marker, so back-to-back placeholders are supported.
//
// With no placeholders the result is a single literal covering the whole prompt, including
// the empty prompt. Zero-width gaps between adjacent placeholders produce no literal.
func Parse(prompt string) (placeholders, literals []Span) {
	placeholders = findPlaceholders(prompt)
	if len(placeholders) == 0 {
		return nil, []Span{clip(prompt, 0, len(prompt))}
	}

	first, last := placeholders[0], placeholders[len(placeholders)-1]
	if first.Start > 0 {
		literals = append(literals, clip(prompt, 0, first.Start))
	}
	for i := 1; i < len(placeholders); i++ {
		prev, next := placeholders[i-1], placeholders[i]
		if next.Start > prev.End {
			literals = append(literals, clip(prompt, prev.End, next.Start))
		}
	}
	if last.End < len(prompt) {
		literals = append(literals, clip(prompt, last.End, len(prompt)))
	}

	return placeholders, literals
}

// HasPlaceholders reports whether Parse would find at least one placeholder in prompt.
func HasPlaceholders(prompt string) bool {
	open := strings.Index(prompt, OpenMarker)
	return open >= 0 && strings.Contains(prompt[open:], CloseMarker)
}

func findPlaceholders(prompt string) []Span {
	var found []Span
	pos := 0
	for pos < len(prompt) {
		open := strings.Index(prompt[pos:], OpenMarker)
		if open < 0 {
			break
		}
		open += pos

		closing := strings.Index(prompt[open:], CloseMarker)
		if closing < 0 {
			break
		}
		closing += open

		end := closing + len(CloseMarker)
		found = append(found, clip(prompt, open, end))
		pos = closing
	}
	return found
}
