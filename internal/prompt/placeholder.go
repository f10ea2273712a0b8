package prompt

import "regexp"

// placeholderRegex matches a bracketed placeholder such as [product name].
var placeholderRegex = regexp.MustCompile(`\[[^\[\]]*\]`)

// Segment is a run of prompt content, either literal text or a placeholder.
type Segment struct {
	Text        string `json:"text"`
	Placeholder bool   `json:"placeholder"`
}

// Segments splits content into literal and [placeholder] runs, in order.
// Concatenating every Segment.Text reproduces content.
func Segments(content string) []Segment {
	matches := placeholderRegex.FindAllStringIndex(content, -1)
	segments := make([]Segment, 0, 2*len(matches)+1)

	last := 0
	for _, m := range matches {
		if m[0] > last {
			segments = append(segments, Segment{Text: content[last:m[0]]})
		}
		segments = append(segments, Segment{Text: content[m[0]:m[1]], Placeholder: true})
		last = m[1]
	}
	if last < len(content) {
		segments = append(segments, Segment{Text: content[last:]})
	}
	return segments
}

// Placeholders returns the distinct placeholder names in content, in order
// of first appearance and without brackets.
func Placeholders(content string) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, m := range placeholderRegex.FindAllString(content, -1) {
		name := m[1 : len(m)-1]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
