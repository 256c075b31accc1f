package span

import "strings"

// Merge combines two lists, each already ascending by Key, into one ascending list.
// On equal keys the head of first is emitted before the head of second, so callers pass
// the literal spans first to get the literal-first tie-break.
func Merge[T Keyed](first, second []T) []T {
	out := make([]T, 0, len(first)+len(second))
	i, j := 0, 0
	for i < len(first) && j < len(second) {
		if second[j].Key() < first[i].Key() {
			out = append(out, second[j])
			j++
			continue
		}
		out = append(out, first[i])
		i++
	}
	out = append(out, first[i:]...)
	out = append(out, second[j:]...)
	return out
}

// Join concatenates the text of spans in order with a single space between neighbours,
// whether or not they were adjacent in the original prompt.
func Join(spans []Span) string {
	texts := make([]string, len(spans))
	for i, s := range spans {
		texts[i] = s.Text
	}
	return strings.Join(texts, " ")
}

// Assemble merges resolved placeholders back between the literal spans and joins the result.
func Assemble(resolved, literals []Span) string {
	return Join(Merge(literals, resolved))
}
