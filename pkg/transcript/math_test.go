package transcript

import (
	"testing"
)

func TestSplitMathSegments(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKinds []SegmentKind
	}{
		{
			name:      "plain text",
			input:     "no math here",
			wantKinds: []SegmentKind{SegmentText},
		},
		{
			name:      "inline math",
			input:     "solve $x+1=2$ for x",
			wantKinds: []SegmentKind{SegmentText, SegmentInlineMath, SegmentText},
		},
		{
			name:      "block math",
			input:     "the identity $$e^{i\\pi} + 1 = 0$$ is famous",
			wantKinds: []SegmentKind{SegmentText, SegmentBlockMath, SegmentText},
		},
		{
			name:      "block takes precedence over inline",
			input:     "$$a+b$$",
			wantKinds: []SegmentKind{SegmentBlockMath},
		},
		{
			name:      "mixed inline and block",
			input:     "first $a$ then $$b$$ done",
			wantKinds: []SegmentKind{SegmentText, SegmentInlineMath, SegmentText, SegmentBlockMath, SegmentText},
		},
		{
			name:      "unterminated inline is plain text",
			input:     "price is $5 and rising",
			wantKinds: []SegmentKind{SegmentText},
		},
		{
			name:      "unterminated block is plain text",
			input:     "broken $$x+1",
			wantKinds: []SegmentKind{SegmentText},
		},
		{
			name:      "empty input",
			input:     "",
			wantKinds: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := SplitMathSegments(tt.input)

			if len(segments) != len(tt.wantKinds) {
				t.Fatalf("segments = %d, want %d (%+v)", len(segments), len(tt.wantKinds), segments)
			}
			for i, kind := range tt.wantKinds {
				if segments[i].Kind != kind {
					t.Errorf("segment %d kind = %v, want %v", i, segments[i].Kind, kind)
				}
			}
		})
	}
}

func TestSplitMathSegmentsRoundTrip(t *testing.T) {
	// Concatenating segment sources must reproduce the input.
	inputs := []string{
		"solve $x+1=2$ for x",
		"$$a$$ then $b$",
		"broken $oops and $$more",
		"x $\\frac{1}{2}$ y",
	}
	for _, input := range inputs {
		var rebuilt string
		for _, seg := range SplitMathSegments(input) {
			rebuilt += seg.Source
		}
		if rebuilt != input {
			t.Errorf("round trip: got %q, want %q", rebuilt, input)
		}
	}
}

func TestInvalidMathFallsBackToLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced open brace", "$\\frac{1{2}$"},
		{"unbalanced close brace", "$x}$"},
		{"blank body", "$   $"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := SplitMathSegments(tt.input)

			if len(segments) != 1 {
				t.Fatalf("segments = %d, want 1", len(segments))
			}
			if segments[0].Kind != SegmentText {
				t.Errorf("Kind = %v, want text fallback", segments[0].Kind)
			}
			if segments[0].Source != tt.input {
				t.Errorf("Source = %q, want the literal delimited input %q", segments[0].Source, tt.input)
			}
		})
	}
}

func TestInvalidMathDoesNotAffectSiblings(t *testing.T) {
	segments := SplitMathSegments("$x}$ and $y+1$")

	if len(segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(segments))
	}
	if segments[0].Kind != SegmentText || segments[0].Source != "$x}$" {
		t.Errorf("bad segment = %+v, want literal fallback", segments[0])
	}
	if segments[2].Kind != SegmentInlineMath || segments[2].Body != "y+1" {
		t.Errorf("sibling segment = %+v, want valid inline math", segments[2])
	}
}
