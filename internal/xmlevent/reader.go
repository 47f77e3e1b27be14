package xmlevent

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Kind identifies the type of an Event.
type Kind int

const (
	// EOF marks the end of the input. It is returned repeatedly.
	EOF Kind = iota
	// Start is an opening tag whose element has content.
	Start
	// Empty is a tag without content, written either as <a/> or <a></a>.
	Empty
	// End is a closing tag.
	End
	// Text is character data.
	Text
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Start:
		return "Start"
	case Empty:
		return "Empty"
	case End:
		return "End"
	case Text:
		return "Text"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Attr is an attribute with its qualified name and unescaped value.
type Attr struct {
	Name  string
	Value string
}

// Event is one structural event. Name is set for Start, Empty and End;
// Attrs for Start and Empty; Text for Text.
type Event struct {
	Kind  Kind
	Name  string
	Attrs []Attr
	Text  string
}

// Attr returns the value of the named attribute.
func (e Event) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// String renders the event on one line for diagnostics.
func (e Event) String() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	switch e.Kind {
	case Start, Empty:
		sb.WriteString(" <")
		sb.WriteString(e.Name)
		for _, a := range e.Attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.Name)
			sb.WriteString("=")
			sb.WriteString(strconv.Quote(a.Value))
		}
		if e.Kind == Empty {
			sb.WriteString("/>")
		} else {
			sb.WriteString(">")
		}
	case End:
		sb.WriteString(" </")
		sb.WriteString(e.Name)
		sb.WriteString(">")
	case Text:
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(e.Text))
	}
	return sb.String()
}

// Reader produces events from an XML document.
type Reader struct {
	dec        *xml.Decoder
	pending    xml.Token
	pendingErr error
	open       []string
	done       bool
}

// NewReader creates a Reader over r. Documents declaring a non UTF-8
// encoding are transcoded.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel
	return &Reader{dec: dec}
}

// Depth returns the number of currently open elements.
func (r *Reader) Depth() int {
	return len(r.open)
}

// Pos returns the line and column of the decoder in the input.
func (r *Reader) Pos() (line, column int) {
	return r.dec.InputPos()
}

// Next returns the next event. At the end of input it returns an event of
// kind EOF and a nil error. Malformed input yields an *xml.SyntaxError.
func (r *Reader) Next() (Event, error) {
	if r.done {
		return Event{Kind: EOF}, nil
	}

	tok, err := r.token()
	if err == io.EOF {
		r.done = true
		return Event{Kind: EOF}, nil
	}
	if err != nil {
		return Event{}, err
	}

	switch t := tok.(type) {
	case xml.StartElement:
		ev := Event{Kind: Start, Name: qualify(t.Name), Attrs: convertAttrs(t.Attr)}
		next, err := r.token()
		switch {
		case err == nil:
			if end, ok := next.(xml.EndElement); ok && qualify(end.Name) == ev.Name {
				ev.Kind = Empty
				return ev, nil
			}
			r.pending = next
		case err == io.EOF:
			r.pendingErr = err
		default:
			return Event{}, err
		}
		r.open = append(r.open, ev.Name)
		return ev, nil

	case xml.EndElement:
		name := qualify(t.Name)
		if len(r.open) == 0 {
			return Event{}, r.syntaxError(fmt.Sprintf("unexpected end element </%s>", name))
		}
		top := r.open[len(r.open)-1]
		if top != name {
			return Event{}, r.syntaxError(fmt.Sprintf("element <%s> closed by </%s>", top, name))
		}
		r.open = r.open[:len(r.open)-1]
		return Event{Kind: End, Name: name}, nil

	case xml.CharData:
		return Event{Kind: Text, Text: string(t)}, nil
	}

	return Event{}, fmt.Errorf("unexpected token %T", tok)
}

// token returns the next element or text token, consuming the lookahead
// first. Whitespace-only text is returned like any other text.
func (r *Reader) token() (xml.Token, error) {
	if r.pending != nil {
		tok := r.pending
		r.pending = nil
		return tok, nil
	}
	if r.pendingErr != nil {
		err := r.pendingErr
		r.pendingErr = nil
		return nil, err
	}
	for {
		tok, err := r.dec.RawToken()
		if err != nil {
			if truncated(err) {
				return nil, io.EOF
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return xml.CopyToken(t), nil
		case xml.CharData:
			return t.Copy(), nil
		}
	}
}

// truncated reports whether err is the decoder's complaint about input that
// stops in the middle of a token.
func truncated(err error) bool {
	var se *xml.SyntaxError
	return errors.As(err, &se) && strings.HasPrefix(se.Msg, "unexpected EOF")
}

func (r *Reader) syntaxError(msg string) error {
	line, _ := r.dec.InputPos()
	return &xml.SyntaxError{Msg: msg, Line: line}
}

func qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func convertAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = Attr{Name: qualify(a.Name), Value: a.Value}
	}
	return out
}
