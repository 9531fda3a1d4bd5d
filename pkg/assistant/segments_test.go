package assistant

import "testing"

func TestSplitSegmentsPlainText(t *testing.T) {
	segs := SplitSegments("just some text\non two lines")
	if len(segs) != 1 || segs[0].Kind != SegmentText {
		t.Fatalf("unexpected segments %+v", segs)
	}
}

func TestSplitSegmentsCompleteFence(t *testing.T) {
	content := "before\n```go\nfmt.Println(1)\n```\nafter"
	segs := SplitSegments(content)

	if len(segs) != 3 {
		t.Fatalf("expected text/code/text, got %+v", segs)
	}
	if segs[0].Kind != SegmentText || segs[0].Text != "before" {
		t.Fatalf("unexpected leading segment %+v", segs[0])
	}
	if segs[1].Kind != SegmentCode || segs[1].Language != "go" || segs[1].Text != "fmt.Println(1)" {
		t.Fatalf("unexpected code segment %+v", segs[1])
	}
	if segs[2].Kind != SegmentText || segs[2].Text != "after" {
		t.Fatalf("unexpected trailing segment %+v", segs[2])
	}
}

func TestSplitSegmentsIncompleteTrailingFence(t *testing.T) {
	content := "look:\n```python\nprint(1)"
	segs := SplitSegments(content)

	if len(segs) != 2 {
		t.Fatalf("expected text + incomplete code, got %+v", segs)
	}
	last := segs[1]
	if last.Kind != SegmentIncompleteCode {
		t.Fatalf("expected incomplete code segment, got %+v", last)
	}
	if last.Language != "python" || last.Text != "print(1)" {
		t.Fatalf("expected partial body carried, got %+v", last)
	}
}

func TestSplitSegmentsMultipleBlocks(t *testing.T) {
	content := "```js\na\n```\nmiddle\n```\nb\n```"
	segs := SplitSegments(content)

	if len(segs) != 3 {
		t.Fatalf("expected code/text/code, got %+v", segs)
	}
	if segs[0].Kind != SegmentCode || segs[0].Language != "js" {
		t.Fatalf("unexpected first block %+v", segs[0])
	}
	if segs[2].Kind != SegmentCode || segs[2].Language != "" || segs[2].Text != "b" {
		t.Fatalf("unexpected second block %+v", segs[2])
	}
}

func TestSplitSegmentsEmptyContent(t *testing.T) {
	if segs := SplitSegments(""); len(segs) != 0 {
		t.Fatalf("expected no segments for empty content, got %+v", segs)
	}
}
