package transcript

import (
	"strings"
	"testing"
)

func TestParseReplyMistakeBlock(t *testing.T) {
	raw := `Good try, but not quite.
<mistake_record>{"topic": "fractions", "reason": "Added denominators.", "advice": "Find a common denominator first."}</mistake_record>`

	result := ParseReply(raw)

	if result.Mistake == nil {
		t.Fatal("expected a mistake record")
	}
	if result.Mistake.Topic != "fractions" {
		t.Errorf("Topic = %q, want %q", result.Mistake.Topic, "fractions")
	}
	if result.Mistake.Reason != "Added denominators." {
		t.Errorf("Reason = %q, want %q", result.Mistake.Reason, "Added denominators.")
	}
	if result.Mistake.Advice != "Find a common denominator first." {
		t.Errorf("Advice = %q, want %q", result.Mistake.Advice, "Find a common denominator first.")
	}
	if result.Display != "Good try, but not quite." {
		t.Errorf("Display = %q, want the prose only", result.Display)
	}
	if strings.Contains(result.Display, "<mistake_record>") {
		t.Error("display text still contains mistake markup")
	}
}

func TestParseReplyMalformedMistakePayload(t *testing.T) {
	raw := `Let's look again. <mistake_record>{not json}</mistake_record> Carry on.`

	result := ParseReply(raw)

	if result.Mistake != nil {
		t.Errorf("malformed payload should yield no record, got %+v", result.Mistake)
	}
	if strings.Contains(result.Display, "mistake_record") {
		t.Errorf("well-formed delimiters should still be stripped, got %q", result.Display)
	}
	if len(result.Fragments) != 1 || result.Fragments[0].Kind != FragmentProse {
		t.Fatalf("expected a single prose fragment, got %d", len(result.Fragments))
	}
}

func TestParseReplyExamBlockSplitsInThree(t *testing.T) {
	raw := "Here is your practice sheet.\n<exam_paper>Q1: solve $x^2 = 4$.\nQ2: simplify $\\frac{2}{4}$.</exam_paper>\nTell me when you're done."

	result := ParseReply(raw)

	if len(result.Fragments) != 3 {
		t.Fatalf("Fragments = %d, want 3", len(result.Fragments))
	}
	if result.Fragments[0].Kind != FragmentProse || result.Fragments[0].Content != "Here is your practice sheet." {
		t.Errorf("before fragment = %+v", result.Fragments[0])
	}
	if result.Fragments[1].Kind != FragmentExam {
		t.Errorf("middle fragment kind = %v, want exam", result.Fragments[1].Kind)
	}
	if !strings.HasPrefix(result.Fragments[1].Content, "Q1:") {
		t.Errorf("exam content = %q", result.Fragments[1].Content)
	}
	if result.Fragments[2].Kind != FragmentProse || result.Fragments[2].Content != "Tell me when you're done." {
		t.Errorf("after fragment = %+v", result.Fragments[2])
	}
}

func TestParseReplyFirstExamBlockOnly(t *testing.T) {
	raw := "<exam_paper>first</exam_paper> and <exam_paper>second</exam_paper>"

	result := ParseReply(raw)

	if len(result.Fragments) != 3 {
		t.Fatalf("Fragments = %d, want 3", len(result.Fragments))
	}
	if result.Fragments[1].Content != "first" {
		t.Errorf("exam content = %q, want %q", result.Fragments[1].Content, "first")
	}
	// The second block stays in the trailing prose untouched.
	if !strings.Contains(result.Fragments[2].Content, "<exam_paper>second</exam_paper>") {
		t.Errorf("after fragment = %q", result.Fragments[2].Content)
	}
}

func TestParseReplyUnterminatedMarkers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unterminated exam", "Almost: <exam_paper>Q1: what is $1+1$?"},
		{"unterminated mistake", `Hmm <mistake_record>{"topic":"x"}`},
		{"close without open", "Done.</exam_paper>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseReply(tt.raw)

			if result.Mistake != nil {
				t.Errorf("Mistake = %+v, want nil", result.Mistake)
			}
			if len(result.Fragments) != 1 {
				t.Fatalf("Fragments = %d, want 1", len(result.Fragments))
			}
			if result.Fragments[0].Kind != FragmentProse {
				t.Errorf("Kind = %v, want prose", result.Fragments[0].Kind)
			}
			if result.Display != tt.raw {
				t.Errorf("Display = %q, want input unchanged", result.Display)
			}
		})
	}
}

func TestStripMistakeMarkupIdempotent(t *testing.T) {
	raw := `a <mistake_record>{"topic":"t"}</mistake_record> b <mistake_record>{"topic":"u"}</mistake_record> c`

	stripped := StripMistakeMarkup(raw)

	if strings.Contains(stripped, "<mistake_record>") {
		t.Errorf("stripped text still contains markup: %q", stripped)
	}
	if again := StripMistakeMarkup(stripped); again != stripped {
		t.Errorf("second strip changed the text: %q -> %q", stripped, again)
	}
	if stripped != "a  b  c" {
		t.Errorf("stripped = %q", stripped)
	}
}

func TestParseReplyFirstMistakeBlockWins(t *testing.T) {
	raw := `x <mistake_record>{"topic":"first"}</mistake_record> y <mistake_record>{"topic":"second"}</mistake_record>`

	result := ParseReply(raw)

	if result.Mistake == nil || result.Mistake.Topic != "first" {
		t.Fatalf("Mistake = %+v, want topic %q", result.Mistake, "first")
	}
	// Every well-formed block is gone from the display channel.
	if strings.Contains(result.Display, "mistake_record") {
		t.Errorf("Display = %q", result.Display)
	}
}
