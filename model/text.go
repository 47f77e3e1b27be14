package model

import "fmt"

// TextTag is a tag inside a rich text run.
type TextTag struct {
	Name  string
	Attrs AttrMap
}

// NewTextTag creates a tag without attributes.
func NewTextTag(name string) TextTag {
	return TextTag{Name: name}
}

// TextElemKind identifies the variant of a TextElem.
type TextElemKind int

const (
	// TextStart opens a tag.
	TextStart TextElemKind = iota
	// TextEmpty is a tag without content.
	TextEmpty
	// TextChars is character data.
	TextChars
	// TextEnd closes the most recently opened tag.
	TextEnd
)

// TextElem is one token of a TextVec.
//
// For TextStart and TextEmpty the Tag is set. For TextChars Text holds the
// characters and for TextEnd it holds the closed tag name.
type TextElem struct {
	Kind TextElemKind
	Tag  TextTag
	Text string
}

// TextVec is a flat, order preserving sequence of tags and text for mixed
// content inside a single cell. The caller is responsible for producing a
// well nested sequence; Validate detects mistakes but does not repair them.
type TextVec struct {
	elems []TextElem
}

// NewTextVec creates an empty TextVec.
func NewTextVec() *TextVec {
	return &TextVec{}
}

// Start appends an opening tag.
func (tv *TextVec) Start(tag string) {
	tv.Push(TextElem{Kind: TextStart, Tag: NewTextTag(tag)})
}

// StartTag appends an opening tag with attributes.
func (tv *TextVec) StartTag(tag TextTag) {
	tv.Push(TextElem{Kind: TextStart, Tag: tag})
}

// Empty appends an empty tag.
func (tv *TextVec) Empty(tag string) {
	tv.Push(TextElem{Kind: TextEmpty, Tag: NewTextTag(tag)})
}

// EmptyTag appends an empty tag with attributes.
func (tv *TextVec) EmptyTag(tag TextTag) {
	tv.Push(TextElem{Kind: TextEmpty, Tag: tag})
}

// Text appends character data.
func (tv *TextVec) Text(s string) {
	tv.Push(TextElem{Kind: TextChars, Text: s})
}

// End appends a closing tag.
func (tv *TextVec) End(tag string) {
	tv.Push(TextElem{Kind: TextEnd, Text: tag})
}

// Push appends any element.
func (tv *TextVec) Push(e TextElem) {
	tv.elems = append(tv.elems, e)
}

// Clear removes all elements.
func (tv *TextVec) Clear() {
	tv.elems = tv.elems[:0]
}

// IsEmpty reports whether the sequence has no elements.
func (tv *TextVec) IsEmpty() bool {
	return len(tv.elems) == 0
}

// Elems returns the underlying sequence.
func (tv *TextVec) Elems() []TextElem {
	return tv.elems
}

// TagMismatchError reports an End element that does not close the most
// recently opened tag. Expected is empty when nothing was open.
type TagMismatchError struct {
	Index    int
	Expected string
	Actual   string
}

func (e *TagMismatchError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("element %d: end tag %q without open tag", e.Index, e.Actual)
	}
	return fmt.Sprintf("element %d: end tag %q does not close %q", e.Index, e.Actual, e.Expected)
}

// Validate checks that Start and End tags nest in strict LIFO order.
// Tags left open at the end are not an error; the sequence may be a prefix
// of a larger run.
func (tv *TextVec) Validate() error {
	var open []string
	for i, e := range tv.elems {
		switch e.Kind {
		case TextStart:
			open = append(open, e.Tag.Name)
		case TextEnd:
			if len(open) == 0 {
				return &TagMismatchError{Index: i, Actual: e.Text}
			}
			top := open[len(open)-1]
			open = open[:len(open)-1]
			if top != e.Text {
				return &TagMismatchError{Index: i, Expected: top, Actual: e.Text}
			}
		}
	}
	return nil
}

// IsValid reports whether Validate succeeds.
func (tv *TextVec) IsValid() bool {
	return tv.Validate() == nil
}
