package xmlevent

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

func collect(t *testing.T, doc string) []Event {
	t.Helper()
	r := NewReader(strings.NewReader(doc))
	var out []Event
	for {
		ev, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if ev.Kind == EOF {
			return out
		}
		out = append(out, ev)
	}
}

// elements drops the whitespace between tags of an indented document.
func elements(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == Text && strings.TrimSpace(ev.Text) == "" {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func TestReaderEvents(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<office:document xmlns:office="urn:o" xmlns:table="urn:t">
  <!-- comment -->
  <table:table table:name="S&amp;P">
    <table:table-cell/>
    <table:table-cell></table:table-cell>
    <table:table-cell office:value-type="string"><text:p>a &lt; b</text:p></table:table-cell>
  </table:table>
</office:document>`

	got := elements(collect(t, doc))
	want := []struct {
		kind Kind
		name string
		text string
	}{
		{Start, "office:document", ""},
		{Start, "table:table", ""},
		{Empty, "table:table-cell", ""},
		{Empty, "table:table-cell", ""},
		{Start, "table:table-cell", ""},
		{Start, "text:p", ""},
		{Text, "", "a < b"},
		{End, "text:p", ""},
		{End, "table:table-cell", ""},
		{End, "table:table", ""},
		{End, "office:document", ""},
	}

	if len(got) != len(want) {
		for _, ev := range got {
			t.Log(ev)
		}
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Name != w.name || got[i].Text != w.text {
			t.Errorf("event %d = %v, want %v %q %q", i, got[i], w.kind, w.name, w.text)
		}
	}

	if v, ok := got[1].Attr("table:name"); !ok || v != "S&P" {
		t.Errorf("Attr(table:name) = %q, %v", v, ok)
	}
	if v, ok := got[0].Attr("xmlns:office"); !ok || v != "urn:o" {
		t.Errorf("namespace declaration not kept: %q", v)
	}
	if _, ok := got[2].Attr("office:value-type"); ok {
		t.Error("unexpected attribute on empty cell")
	}
}

func TestReaderTextNotTrimmed(t *testing.T) {
	got := collect(t, `<p>  x  <s/> y</p>`)
	if len(got) != 5 {
		t.Fatalf("got %d events, want 5", len(got))
	}
	if got[1].Text != "  x  " || got[3].Text != " y" {
		t.Errorf("text = %q, %q", got[1].Text, got[3].Text)
	}
}

func TestReaderWhitespaceText(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{"single space", `<number:text> </number:text>`,
			[]string{"Start <number:text>", `Text " "`, "End </number:text>"}},
		{"between spans", `<p><s>a</s> <s>b</s></p>`,
			[]string{"Start <p>", "Start <s>", `Text "a"`, "End </s>", `Text " "`,
				"Start <s>", `Text "b"`, "End </s>", "End </p>"}},
		{"carriage return", `<p>&#xD;</p>`,
			[]string{"Start <p>", `Text "\r"`, "End </p>"}},
		{"indentation", "<a>\n  <b/>\n</a>",
			[]string{"Start <a>", `Text "\n  "`, "Empty <b/>", `Text "\n"`, "End </a>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.doc)
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i, w := range tt.want {
				if s := got[i].String(); s != w {
					t.Errorf("event %d = %s, want %s", i, s, w)
				}
			}
		})
	}
}

func TestReaderEOFRepeats(t *testing.T) {
	r := NewReader(strings.NewReader(`<a><b>`))
	kinds := []Kind{Start, Start, EOF, EOF}
	for i, want := range kinds {
		ev, err := r.Next()
		if err != nil {
			t.Fatalf("Next() %d error: %v", i, err)
		}
		if ev.Kind != want {
			t.Errorf("event %d kind = %v, want %v", i, ev.Kind, want)
		}
	}
	if r.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", r.Depth())
	}
}

func TestReaderTruncatedInput(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		kinds []Kind
		depth int
	}{
		{"inside text", `<a><b>text`, []Kind{Start, Start, Text, EOF}, 2},
		{"inside tag", `<a><b att`, []Kind{Start, EOF}, 1},
		{"inside comment", `<a><!-- never closed`, []Kind{Start, EOF}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.doc))
			for i, want := range tt.kinds {
				ev, err := r.Next()
				if err != nil {
					t.Fatalf("Next() %d error: %v", i, err)
				}
				if ev.Kind != want {
					t.Errorf("event %d kind = %v, want %v", i, ev.Kind, want)
				}
			}
			if r.Depth() != tt.depth {
				t.Errorf("Depth() = %d, want %d", r.Depth(), tt.depth)
			}
		})
	}
}

func TestReaderSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"mismatched end", `<a><b></a>`},
		{"stray end", `</a>`},
		{"broken tag", `<a><b attr="x</a>`},
		{"bad entity", `<a>&nope;</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.doc))
			for {
				ev, err := r.Next()
				if err != nil {
					var se *xml.SyntaxError
					if !errors.As(err, &se) {
						t.Errorf("error = %T %v, want *xml.SyntaxError", err, err)
					}
					return
				}
				if ev.Kind == EOF {
					t.Fatal("expected a syntax error")
				}
			}
		})
	}
}

func TestReaderCharset(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a>caf\xe9</a>"
	got := collect(t, doc)
	if len(got) != 3 || got[1].Text != "café" {
		t.Errorf("events = %v", got)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: Empty, Name: "text:s", Attrs: []Attr{{"text:c", "2"}}}, `Empty <text:s text:c="2"/>`},
		{Event{Kind: Start, Name: "text:p"}, `Start <text:p>`},
		{Event{Kind: End, Name: "text:p"}, `End </text:p>`},
		{Event{Kind: Text, Text: "a\tb"}, `Text "a\tb"`},
		{Event{Kind: EOF}, `EOF`},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
