package transcript

import (
	"strings"
)

// SegmentKind classifies one piece of a prose fragment.
type SegmentKind string

const (
	SegmentText       SegmentKind = "text"
	SegmentInlineMath SegmentKind = "inline_math"
	SegmentBlockMath  SegmentKind = "block_math"
)

// Segment is one independently renderable piece of text. Math segments keep
// both the original delimited Source and the inner Body; text segments carry
// only Source.
type Segment struct {
	Kind   SegmentKind
	Source string
	Body   string
}

// SplitMathSegments partitions s by the dollar-delimited math grammar.
// Block markers ($$...$$) take precedence over inline markers ($...$) at the
// same scan position. A math segment whose source fails validation falls back
// to a text segment carrying the original delimited substring, so one bad
// formula never affects its siblings. Unterminated delimiters are plain text.
func SplitMathSegments(s string) []Segment {
	var segments []Segment
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentText, Source: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '$' {
			text.WriteByte(s[i])
			i++
			continue
		}

		// Block marker first: $$ wins over $ at the same position.
		if strings.HasPrefix(s[i:], "$$") {
			rel := strings.Index(s[i+2:], "$$")
			if rel < 0 {
				// Unterminated block marker: literal dollars.
				text.WriteString("$$")
				i += 2
				continue
			}
			source := s[i : i+2+rel+2]
			body := s[i+2 : i+2+rel]
			flushText()
			segments = append(segments, mathSegment(SegmentBlockMath, source, body))
			i += 2 + rel + 2
			continue
		}

		rel := strings.Index(s[i+1:], "$")
		if rel < 0 {
			// Unterminated inline marker: literal dollar.
			text.WriteByte('$')
			i++
			continue
		}
		source := s[i : i+1+rel+1]
		body := s[i+1 : i+1+rel]
		flushText()
		segments = append(segments, mathSegment(SegmentInlineMath, source, body))
		i += 1 + rel + 1
	}

	flushText()
	return segments
}

// mathSegment validates the math body and degrades to a literal text segment
// when it cannot render.
func mathSegment(kind SegmentKind, source, body string) Segment {
	if !validMathSource(body) {
		return Segment{Kind: SegmentText, Source: source}
	}
	return Segment{Kind: kind, Source: source, Body: body}
}

// validMathSource is the render check: a non-empty body with balanced,
// properly nested brace groups. Escaped braces (\{ and \}) do not count.
func validMathSource(body string) bool {
	if strings.TrimSpace(body) == "" {
		return false
	}
	depth := 0
	escaped := false
	for _, r := range body {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
