package assistant

import "strings"

// SegmentKind classifies a slice of message content.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentCode
	// SegmentIncompleteCode is a fenced block whose closing fence has not
	// arrived yet. While streaming it renders as a placeholder instead of
	// raw backticks.
	SegmentIncompleteCode
)

// Segment is one rendered unit of a chat message.
type Segment struct {
	Kind     SegmentKind
	Language string
	Text     string
}

// SplitSegments scans message content for fenced code blocks. Text between
// fences becomes text segments; a trailing unterminated fence becomes an
// incomplete-code segment carrying whatever has streamed in so far.
func SplitSegments(content string) []Segment {
	var segs []Segment
	lines := strings.Split(content, "\n")

	var text []string
	flushText := func() {
		if len(text) == 0 {
			return
		}
		joined := strings.Join(text, "\n")
		text = nil
		if strings.TrimSpace(joined) == "" {
			return
		}
		segs = append(segs, Segment{Kind: SegmentText, Text: joined})
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			text = append(text, line)
			i++
			continue
		}

		flushText()
		lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))

		var code []string
		closed := false
		for i++; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "```" {
				closed = true
				i++
				break
			}
			code = append(code, lines[i])
		}

		kind := SegmentCode
		if !closed {
			kind = SegmentIncompleteCode
		}
		segs = append(segs, Segment{Kind: kind, Language: lang, Text: strings.Join(code, "\n")})
	}
	flushText()

	return segs
}
