//go:build !nosyntaxhighlight

package render

import (
	"path"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter colors single source lines by file name. It is safe for
// concurrent use.
type Highlighter struct {
	style *chroma.Style

	mu    sync.Mutex
	byExt map[string]chroma.Lexer
}

func NewHighlighter(p Palette) *Highlighter {
	return &Highlighter{style: styleForPalette(p), byExt: map[string]chroma.Lexer{}}
}

// Spans splits code into colored runs. Unknown file types and a nil
// Highlighter yield one uncolored span.
func (h *Highlighter) Spans(filePath, code string) []Span {
	if h == nil || code == "" {
		return plainSpans(code)
	}
	lexer := h.lexerFor(filePath)
	if lexer == nil {
		return plainSpans(code)
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainSpans(code)
	}
	var spans []Span
	for _, token := range iterator.Tokens() {
		if token.Value == "" {
			continue
		}
		// Lexers may append a newline to the last token.
		value := strings.TrimSuffix(token.Value, "\n")
		if value == "" {
			continue
		}
		spans = append(spans, Span{Text: value, FG: colorFromEntry(h.style.Get(token.Type))})
	}
	if len(spans) == 0 {
		return plainSpans(code)
	}
	return spans
}

func (h *Highlighter) lexerFor(filePath string) chroma.Lexer {
	key := path.Ext(filePath)
	if key == "" {
		key = path.Base(filePath)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if lexer, ok := h.byExt[key]; ok {
		return lexer
	}
	var lexer chroma.Lexer
	if l := lexers.Match(path.Base(filePath)); l != nil {
		lexer = chroma.Coalesce(l)
	}
	h.byExt[key] = lexer
	return lexer
}

func styleForPalette(p Palette) *chroma.Style {
	if p.Dark {
		if st := styles.Get("github-dark"); st != nil {
			return st
		}
	} else {
		if st := styles.Get("github"); st != nil {
			return st
		}
	}
	return styles.Fallback
}

func colorFromEntry(entry chroma.StyleEntry) string {
	if entry.Colour.IsSet() {
		col := entry.Colour.String()
		col = strings.TrimPrefix(strings.ToLower(col), "#")
		return "#" + col
	}
	return ""
}
