package model

// CompositKind identifies the variant of a Composit.
type CompositKind int

const (
	// CompositStart opens a tag.
	CompositStart CompositKind = iota
	// CompositEmpty is a tag without content.
	CompositEmpty
	// CompositText is character data.
	CompositText
	// CompositEnd closes a tag.
	CompositEnd
)

// String returns the string representation of the kind.
func (k CompositKind) String() string {
	switch k {
	case CompositStart:
		return "start"
	case CompositEmpty:
		return "empty"
	case CompositText:
		return "text"
	case CompositEnd:
		return "end"
	default:
		return "unknown"
	}
}

// CompositTag is a tag with its attributes.
type CompositTag struct {
	Name  string
	Attrs AttrMap
}

// Composit is one token of preserved markup. Tag is set for start and
// empty tokens; Text holds character data or the closed tag name.
type Composit struct {
	Kind CompositKind
	Tag  CompositTag
	Text string
}

// CompositVec is a flattened tree of markup kept verbatim for header and
// footer regions and cell annotations. Nesting is implicit in the pairing of
// start and end tokens.
type CompositVec struct {
	items []Composit
}

// NewCompositVec creates an empty CompositVec.
func NewCompositVec() *CompositVec {
	return &CompositVec{}
}

// Start appends an opening tag.
func (cv *CompositVec) Start(tag CompositTag) {
	cv.Push(Composit{Kind: CompositStart, Tag: tag})
}

// Empty appends an empty tag.
func (cv *CompositVec) Empty(tag CompositTag) {
	cv.Push(Composit{Kind: CompositEmpty, Tag: tag})
}

// Text appends character data.
func (cv *CompositVec) Text(s string) {
	cv.Push(Composit{Kind: CompositText, Text: s})
}

// End appends a closing tag.
func (cv *CompositVec) End(name string) {
	cv.Push(Composit{Kind: CompositEnd, Text: name})
}

// Push appends any token.
func (cv *CompositVec) Push(c Composit) {
	cv.items = append(cv.items, c)
}

// Append appends all tokens of other.
func (cv *CompositVec) Append(other *CompositVec) {
	if other == nil {
		return
	}
	cv.items = append(cv.items, other.items...)
}

// Len returns the number of tokens.
func (cv *CompositVec) Len() int {
	if cv == nil {
		return 0
	}
	return len(cv.items)
}

// IsEmpty reports whether the sequence has no tokens.
func (cv *CompositVec) IsEmpty() bool {
	return cv.Len() == 0
}

// Items returns the underlying sequence.
func (cv *CompositVec) Items() []Composit {
	if cv == nil {
		return nil
	}
	return cv.items
}

// PlainText concatenates the character data of all tokens.
func (cv *CompositVec) PlainText() string {
	var out []byte
	for _, c := range cv.Items() {
		if c.Kind == CompositText {
			out = append(out, c.Text...)
		}
	}
	return string(out)
}

// Equal reports whether both sequences hold the same tokens.
func (cv *CompositVec) Equal(other *CompositVec) bool {
	a, b := cv.Items(), other.Items()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Text != b[i].Text || a[i].Tag.Name != b[i].Tag.Name {
			return false
		}
		if !a[i].Tag.Attrs.Equal(&b[i].Tag.Attrs) {
			return false
		}
	}
	return true
}
