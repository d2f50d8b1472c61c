package transcript

import (
	"encoding/json"
	"strings"
)

// Marker tags embedded by the model inside reply text. The mistake record is
// a structured side channel; the exam paper is a free-text region.
const (
	mistakeOpenMarker  = "<mistake_record>"
	mistakeCloseMarker = "</mistake_record>"
	examOpenMarker     = "<exam_paper>"
	examCloseMarker    = "</exam_paper>"
)

// MistakePayload is the structured object carried inside a mistake-record
// block.
type MistakePayload struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
	Advice string `json:"advice"`
}

// findBlock locates the first well-formed open/close pair in s. It returns
// the span of the whole block and the inner payload. An open marker without a
// matching close marker is not a block.
func findBlock(s, open, close string) (start, end int, inner string, found bool) {
	start = strings.Index(s, open)
	if start < 0 {
		return 0, 0, "", false
	}
	rel := strings.Index(s[start+len(open):], close)
	if rel < 0 {
		return 0, 0, "", false
	}
	innerStart := start + len(open)
	end = innerStart + rel + len(close)
	return start, end, s[innerStart : innerStart+rel], true
}

// StripMistakeMarkup removes every well-formed mistake-record block from s.
// Stripping is idempotent: a stripped string contains no further matches.
// Unterminated markers are left alone; they are plain text.
func StripMistakeMarkup(s string) string {
	for {
		start, end, _, found := findBlock(s, mistakeOpenMarker, mistakeCloseMarker)
		if !found {
			return s
		}
		s = s[:start] + s[end:]
	}
}

// parseMistakePayload decodes the JSON payload of a mistake block. A payload
// that does not parse, or that carries none of the expected fields, yields no
// record.
func parseMistakePayload(inner string) *MistakePayload {
	var payload MistakePayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(inner)), &payload); err != nil {
		return nil
	}
	if payload.Topic == "" && payload.Reason == "" && payload.Advice == "" {
		return nil
	}
	return &payload
}
