package body

import (
	"regexp"
	"sort"
	"strings"
)

// Pattern pairs a compiled regular expression with a builder that turns
// one match into a Placeholder. Submatches are passed to Build in the
// order regexp reports them (groups[0] is the full match). Build may
// return nil to reject a match, in which case the span stays literal.
type Pattern struct {
	Regexp *regexp.Regexp
	Build  func(groups []string) Placeholder
}

// Table holds one agent family's parse patterns, its serializer, and the
// placeholder variants the family cannot natively express. Serializing an
// unsupported variant still renders the best-effort form; it is reported
// as a Diagnostic, never an error.
type Table struct {
	Patterns    []Pattern
	Serializer  Visitor
	Unsupported map[Tag]bool
}

// Diagnostic reports one occurrence of a placeholder the target family
// cannot natively express. Rendered is the best-effort text that was
// emitted in its place.
type Diagnostic struct {
	Tag      Tag
	Rendered string
}

// match is one candidate placeholder occurrence found during tokenization.
type match struct {
	start, end int
	place      Placeholder
}

// Tokenize scans body with every pattern in t and returns the ordered
// segment sequence. Each pattern is scanned globally and independently;
// the pooled matches are orderd by start offset (stable, so a tie at the
// same offset goes to the pattern scanned first, not to the longest
// match) and accepted greedily left to right, discarding any match that
// overlaps an accepted one. Literal gaps become Text segments; empty
// input yields an empty sequence.
func Tokenize(body string, t Table) []Segment {
	if body == "" {
		return nil
	}

	var matches []match
	for _, p := range t.Patterns {
		locs := p.Regexp.FindAllStringSubmatchIndex(body, -1)
		for _, loc := range locs {
			groups := make([]string, 0, len(loc)/2)
			for g := 0; g < len(loc); g += 2 {
				if loc[g] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, body[loc[g]:loc[g+1]])
			}
			place := p.Build(groups)
			if place == nil {
				continue
			}
			matches = append(matches, match{start: loc[0], end: loc[1], place: place})
		}
	}

	// Stable keeps discovery order at equal offsets. Existing content
	// depends on that tie-break; do not change it to longest-match.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	var segments []Segment
	cursor := 0
	for _, m := range matches {
		if m.start < cursor {
			continue
		}
		if m.start > cursor {
			segments = append(segments, Text(body[cursor:m.start]))
		}
		segments = append(segments, m.place)
		cursor = m.end
	}
	if cursor < len(body) {
		segments = append(segments, Text(body[cursor:]))
	}

	return segments
}

// Serialize renders segments in t's spelling and concatenates them.
// Placeholders whose variant is in t.Unsupported are still rendered with
// t.Serializer's best-effort form; each such occurrence is returned as a
// Diagnostic. Serialize never fails and never drops a segment.
func Serialize(segments []Segment, t Table) (string, []Diagnostic) {
	var sb strings.Builder
	var diags []Diagnostic

	for _, seg := range segments {
		switch s := seg.(type) {
		case Text:
			sb.WriteString(string(s))
		case Placeholder:
			rendered := s.accept(t.Serializer)
			if t.Unsupported[s.Tag()] {
				diags = append(diags, Diagnostic{Tag: s.Tag(), Rendered: rendered})
			}
			sb.WriteString(rendered)
		}
	}

	return sb.String(), diags
}

// PlainText flattens segments into display text using the family's own
// serializer, ignoring diagnostics. Used for previews and validation.
func PlainText(segments []Segment, t Table) string {
	s, _ := Serialize(segments, t)
	return s
}
