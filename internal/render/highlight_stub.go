//go:build nosyntaxhighlight

package render

// Highlighter is a no-op in builds without syntax highlighting.
type Highlighter struct{}

func NewHighlighter(Palette) *Highlighter { return nil }

func (h *Highlighter) Spans(_, code string) []Span { return plainSpans(code) }
