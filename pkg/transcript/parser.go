package transcript

import (
	"strings"
)

// FragmentKind distinguishes how a reply fragment is rendered.
type FragmentKind string

const (
	FragmentProse FragmentKind = "prose"
	FragmentExam  FragmentKind = "exam"
)

// Fragment is one renderable piece of a model reply. Prose fragments carry
// their math segmentation; exam fragments carry the sheet text verbatim.
type Fragment struct {
	Kind     FragmentKind
	Content  string
	Segments []Segment
}

// ParsedReply is the structured view of a raw model reply.
type ParsedReply struct {
	// Display is the reply text with all mistake-record markup removed.
	// This is what gets stored and shown.
	Display string

	// Mistake is the structured record extracted from the first well-formed
	// mistake block, nil when the reply carries none (or the payload was
	// malformed).
	Mistake *MistakePayload

	// Fragments is the ordered render list: either a single prose fragment,
	// or before-prose / exam / after-prose when an exam block is present.
	Fragments []Fragment
}

// ParseReply decomposes a raw model reply in two passes.
//
// Pass 1 scans for mistake-record blocks: the first well-formed block's
// payload becomes the Mistake (when it parses); every well-formed block is
// stripped from the display text so the side channel never reaches the
// student. Pass 2 scans the remainder for the first well-formed exam block
// and splits the text around it. Later blocks of either type and unterminated
// markers render as plain text.
//
// ParseReply never fails: malformed input degrades to prose.
func ParseReply(raw string) *ParsedReply {
	result := &ParsedReply{}

	// Pass 1: mistake side channel.
	if _, _, inner, found := findBlock(raw, mistakeOpenMarker, mistakeCloseMarker); found {
		result.Mistake = parseMistakePayload(inner)
	}
	display := strings.TrimSpace(StripMistakeMarkup(raw))
	result.Display = display

	// Pass 2: exam block in the mistake-stripped text.
	start, end, inner, found := findBlock(display, examOpenMarker, examCloseMarker)
	if !found {
		result.Fragments = []Fragment{proseFragment(display)}
		return result
	}

	before := strings.TrimSpace(display[:start])
	after := strings.TrimSpace(display[end:])
	result.Fragments = []Fragment{
		proseFragment(before),
		{Kind: FragmentExam, Content: strings.TrimSpace(inner)},
		proseFragment(after),
	}
	return result
}

func proseFragment(content string) Fragment {
	return Fragment{
		Kind:     FragmentProse,
		Content:  content,
		Segments: SplitMathSegments(content),
	}
}
