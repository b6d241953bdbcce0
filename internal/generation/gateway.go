package generation

import (
	"context"
	"strings"
)

// SystemDirective is the system-level message sent with every generation.
const SystemDirective = "You are an AI prompt generator. Always respond with valid JSON containing a 'title', 'prompt', and 'category'."

// Gateway sends a composed instruction to a chat-completion capable model and
// returns the model's raw text.
//
// An empty model selects the adapter's configured default. Failures are
// returned as *GatewayError; implementations do not retry.
type Gateway interface {
	Invoke(ctx context.Context, systemDirective, instruction, model string) (string, error)
}

// SegmentKindText is the kind of a textual reply segment.
const SegmentKindText = "text"

// Segment is one element of a multi-part model reply. Only segments of kind
// SegmentKindText carry text.
type Segment struct {
	Kind string
	Text string
}

// Reply is the content of a model reply: either a single text value or an
// ordered list of segments.
type Reply struct {
	text     string
	segments []Segment
	isText   bool
}

// TextReply returns a Reply holding a single text value.
func TextReply(text string) Reply {
	return Reply{text: text, isText: true}
}

// SegmentsReply returns a Reply holding an ordered list of segments.
func SegmentsReply(segments ...Segment) Reply {
	return Reply{segments: segments}
}

// IsText reports whether the reply arrived as a single text value.
func (r Reply) IsText() bool {
	return r.isText
}

// Segments returns the reply's segments; nil for a text reply.
func (r Reply) Segments() []Segment {
	return r.segments
}

// Flatten concatenates all textual content of the reply in order, skipping
// non-textual segments.
func (r Reply) Flatten() string {
	if r.isText {
		return r.text
	}

	var b strings.Builder
	for _, s := range r.segments {
		if s.Kind != SegmentKindText {
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
