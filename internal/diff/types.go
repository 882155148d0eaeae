package diff

// LineType classifies a line inside a unified diff hunk.
type LineType uint8

const (
	LineContext LineType = iota
	LineAddition
	LineDeletion
	LineHunkHeader
	LineNoNewline
)

func (t LineType) String() string {
	switch t {
	case LineAddition:
		return "addition"
	case LineDeletion:
		return "deletion"
	case LineHunkHeader:
		return "hunk-header"
	case LineNoNewline:
		return "no-newline"
	default:
		return "context"
	}
}

func (t LineType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Line is one parsed hunk line. Line numbers are 1-based; 0 means the line
// has no number on that side.
type Line struct {
	Type      LineType `json:"type" yaml:"type"`
	Content   string   `json:"content" yaml:"content"`
	OldNumber int      `json:"old_number,omitempty" yaml:"old_number,omitempty"`
	NewNumber int      `json:"new_number,omitempty" yaml:"new_number,omitempty"`
}

// ChangeKind classifies an aligned row.
type ChangeKind uint8

const (
	ChangeContext ChangeKind = iota
	ChangeAddition
	ChangeDeletion
	ChangeModification
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAddition:
		return "addition"
	case ChangeDeletion:
		return "deletion"
	case ChangeModification:
		return "modification"
	default:
		return "context"
	}
}

func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AlignedLine is one row of a side-by-side view. At least one side is set.
type AlignedLine struct {
	Old *Line `json:"old,omitempty" yaml:"old,omitempty"`
	New *Line `json:"new,omitempty" yaml:"new,omitempty"`
}

func (a AlignedLine) Kind() ChangeKind {
	switch {
	case a.Old == nil:
		return ChangeAddition
	case a.New == nil:
		return ChangeDeletion
	case a.Old.Type == LineContext && a.New.Type == LineContext:
		return ChangeContext
	default:
		return ChangeModification
	}
}

// Segment is a word or whitespace run of a compared line.
type Segment struct {
	Text    string `json:"text" yaml:"text"`
	Changed bool   `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Join concatenates segment texts back into the original line.
func Join(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
