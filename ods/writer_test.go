package ods

import (
	"archive/zip"
	"bytes"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/odsheet/format"
	"github.com/tsawler/odsheet/internal/xmlevent"
	"github.com/tsawler/odsheet/model"
)

// roundTrip writes wb to memory and reads it back.
func roundTrip(t *testing.T, wb *model.WorkBook) *model.WorkBook {
	t.Helper()

	var buf bytes.Buffer
	if err := Write(wb, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	back, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()), nil)
	if err != nil {
		t.Fatalf("Read failed: %v\ncontent.xml:\n%s", err, memberText(t, buf.Bytes(), memberContent))
	}
	return back
}

// memberText returns one member of an archive held in memory.
func memberText(t *testing.T, data []byte, name string) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}
	f, err := findMember(zr, name)
	if err != nil {
		t.Fatal(err)
	}
	rc, err := f.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// markup renders a member as compact markup with entities resolved, so
// assertions do not depend on quoting or on how empty elements are spelled.
func markup(t *testing.T, doc string) string {
	t.Helper()

	var sb strings.Builder
	r := xmlevent.NewReader(strings.NewReader(doc))
	for {
		ev, err := r.Next()
		if err != nil {
			t.Fatalf("member is not well formed: %v", err)
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return sb.String()
		case xmlevent.Start, xmlevent.Empty:
			sb.WriteString("<" + ev.Name)
			for _, a := range ev.Attrs {
				sb.WriteString(" " + a.Name + `="` + a.Value + `"`)
			}
			if ev.Kind == xmlevent.Empty {
				sb.WriteString("/>")
			} else {
				sb.WriteString(">")
			}
		case xmlevent.End:
			sb.WriteString("</" + ev.Name + ">")
		case xmlevent.Text:
			sb.WriteString(ev.Text)
		}
	}
}

func writeToBytes(t *testing.T, wb *model.WorkBook) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(wb, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.Bytes()
}

// ============================================================================
// Archive layout
// ============================================================================

func TestWriteArchiveLayout(t *testing.T) {
	wb := model.NewWorkBook()
	wb.PushSheet(model.NewSheet("Sheet1"))
	data := writeToBytes(t, wb)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}
	want := []string{memberMimetype, memberManifest, memberContent, memberStyles}
	if len(zr.File) != len(want) {
		t.Fatalf("archive has %d members, want %d", len(zr.File), len(want))
	}
	for i, name := range want {
		if zr.File[i].Name != name {
			t.Errorf("member %d = %q, want %q", i, zr.File[i].Name, name)
		}
	}
	if zr.File[0].Method != zip.Store {
		t.Error("mimetype is compressed")
	}

	if got := memberText(t, data, memberMimetype); got != format.ODS.MimeType() {
		t.Errorf("mimetype = %q", got)
	}
	if got := format.DetectFromMagic(data); got != format.ODS {
		t.Errorf("DetectFromMagic() = %v, want ODS", got)
	}
	if !strings.Contains(markup(t, memberText(t, data, memberManifest)), `manifest:full-path="content.xml"`) {
		t.Error("manifest does not list content.xml")
	}
}

func TestWriteFile(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("Data")
	sh.SetValue(0, 0, model.TextValue("A"))
	wb.PushSheet(sh)

	path := filepath.Join(t.TempDir(), "out.ods")
	if err := WriteFile(wb, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	back, err := ReadFile(path, nil)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if back.File != path {
		t.Errorf("File = %q, want %q", back.File, path)
	}
	if got := back.Sheet(0).Value(0, 0).TextOr(""); got != "A" {
		t.Errorf("A1 = %q, want A", got)
	}

	if err := WriteFile(wb, filepath.Join(t.TempDir(), "missing", "out.ods")); err == nil {
		t.Error("expected error for missing directory")
	}
}

// ============================================================================
// Round trips
// ============================================================================

func TestRoundTripSingleCell(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("Sheet1")
	sh.SetValue(0, 0, model.TextValue("A"))
	wb.PushSheet(sh)

	back := roundTrip(t, wb)
	if back.NumSheets() != 1 {
		t.Fatalf("NumSheets() = %d, want 1", back.NumSheets())
	}
	got := back.Sheet(0)
	if got.Name != "Sheet1" {
		t.Errorf("Name = %q", got.Name)
	}
	if v := got.Value(0, 0); !v.Equal(model.TextValue("A")) {
		t.Errorf("A1 = %v, want A", v)
	}
	if got.NumCells() != 1 {
		t.Errorf("NumCells() = %d, want 1", got.NumCells())
	}
}

func TestRoundTripValues(t *testing.T) {
	values := []model.Value{
		model.TextValue("plain"),
		model.TextValue("a b"),
		model.TextValue("  lead and  double  "),
		model.TextValue("tab\there"),
		model.TextValue("line one\nline two\n"),
		model.TextValue("<&>\"'"),
		model.TextValue(""),
		model.NumberValue(3.25),
		model.NumberValue(-1e-9),
		model.NumberValue(12345678901234567890),
		model.PercentageValue(0.125),
		model.CurrencyValue("EUR", 19.99),
		model.BoolValue(true),
		model.BoolValue(false),
		model.DateTimeValue(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		model.DateTimeValue(time.Date(2024, 3, 15, 10, 20, 30, 123000000, time.UTC)),
		model.DurationValue(90 * time.Minute),
		model.DurationValue(-(26*time.Hour + 1500*time.Millisecond)),
		model.DurationValue(time.Duration(math.MaxInt64)),
		model.DurationValue(time.Duration(math.MinInt64)),
		model.TextValue(" "),
		model.TextValue(" a b "),
	}

	wb := model.NewWorkBook()
	sh := model.NewSheet("Values")
	for i, v := range values {
		sh.SetValue(uint32(i), 1, v)
	}
	wb.PushSheet(sh)

	got := roundTrip(t, wb).Sheet(0)
	for i, want := range values {
		v := got.Value(uint32(i), 1)
		if !v.Equal(want) {
			t.Errorf("row %d: got %v (%v), want %v (%v)", i, v, v.Type(), want, want.Type())
		}
	}
	if got.NumCells() != len(values) {
		t.Errorf("NumCells() = %d, want %d", got.NumCells(), len(values))
	}
}

func TestRoundTripCellAttributes(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("T")
	sh.SetValue(0, 0, model.NumberValue(2))
	sh.SetFormula(0, 0, "of:=[.B1]*2")
	sh.SetStyle(0, 0, "ce1")
	sh.SetStyle(0, 3, "ce2")

	note := model.NewCompositVec()
	note.Start(model.CompositTag{Name: "office:annotation"})
	note.Start(model.CompositTag{Name: "text:p"})
	note.Text("remember")
	note.End("text:p")
	note.End("office:annotation")
	sh.AddCell(1, 0).Annotation = note
	wb.PushSheet(sh)

	got := roundTrip(t, wb).Sheet(0)
	if f := got.Formula(0, 0); f != "of:=[.B1]*2" {
		t.Errorf("Formula = %q", f)
	}
	if s := got.CellStyle(0, 0); s != "ce1" {
		t.Errorf("CellStyle(0,0) = %q", s)
	}
	if c := got.Cell(0, 3); c == nil || c.Style != "ce2" {
		t.Errorf("Cell(0,3) = %+v, want styled cell", c)
	}
	c := got.Cell(1, 0)
	if c == nil {
		t.Fatal("annotated cell missing")
	}
	if !c.Annotation.Equal(note) {
		t.Errorf("annotation = %+v, want %+v", c.Annotation.Items(), note.Items())
	}
	if !c.Value.IsEmpty() {
		t.Errorf("annotated cell value = %v, want empty", c.Value)
	}
}

func TestRoundTripSpans(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("T")
	sh.SetValue(1, 1, model.TextValue("merged"))
	sh.SetRowSpan(1, 1, 2)
	sh.SetColSpan(1, 1, 3)
	sh.SetValue(1, 4, model.TextValue("right"))
	sh.SetValue(2, 4, model.TextValue("below right"))
	wb.PushSheet(sh)

	got := roundTrip(t, wb).Sheet(0)
	if got.RowSpan(1, 1) != 2 || got.ColSpan(1, 1) != 3 {
		t.Errorf("spans = %d x %d, want 2 x 3", got.RowSpan(1, 1), got.ColSpan(1, 1))
	}
	if v := got.Value(1, 1).TextOr(""); v != "merged" {
		t.Errorf("anchor = %q", v)
	}
	for row := uint32(1); row <= 2; row++ {
		for col := uint32(1); col <= 3; col++ {
			if row == 1 && col == 1 {
				continue
			}
			if c := got.Cell(row, col); c != nil {
				t.Errorf("covered (%d,%d) holds %+v", row, col, c)
			}
		}
	}
	if v := got.Value(1, 4).TextOr(""); v != "right" {
		t.Errorf("(1,4) = %q", v)
	}
	if v := got.Value(2, 4).TextOr(""); v != "below right" {
		t.Errorf("(2,4) = %q", v)
	}
	if got.NumCells() != 3 {
		t.Errorf("NumCells() = %d, want 3", got.NumCells())
	}
}

func TestWriteCoveredCellsCarryNoContent(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("T")
	sh.SetValue(0, 0, model.TextValue("anchor"))
	sh.SetColSpan(0, 0, 2)
	sh.SetValue(0, 1, model.TextValue("hidden"))
	wb.PushSheet(sh)

	content := markup(t, memberText(t, writeToBytes(t, wb), memberContent))
	if strings.Contains(content, "hidden") {
		t.Error("covered position written with content")
	}
	if !strings.Contains(content, "<table:covered-table-cell/>") {
		t.Error("covered position not written as covered cell")
	}
}

func TestRoundTripGridStyles(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("T")
	sh.Style = "ta1"
	for col := uint32(0); col < 3; col++ {
		sh.SetColumnStyle(col, "co1")
	}
	sh.SetColumnCellStyle(1, "Default")
	sh.SetRowStyleRange(2, 5, "ro1")
	sh.SetRowStyle(9, "ro2")
	sh.SetHeaderRows(0, 1)
	sh.SetHeaderCols(0, 0)
	sh.AddPrintRange(model.NewCellRange("T", 0, 0, 7, 3))
	sh.SetValue(7, 3, model.NumberValue(1))
	wb.PushSheet(sh)

	got := roundTrip(t, wb).Sheet(0)

	if got.Style != "ta1" {
		t.Errorf("Style = %q", got.Style)
	}
	for col := uint32(0); col < 5; col++ {
		if got.ColumnStyle(col) != sh.ColumnStyle(col) {
			t.Errorf("ColumnStyle(%d) = %q, want %q", col, got.ColumnStyle(col), sh.ColumnStyle(col))
		}
		if got.ColumnCellStyle(col) != sh.ColumnCellStyle(col) {
			t.Errorf("ColumnCellStyle(%d) = %q, want %q", col, got.ColumnCellStyle(col), sh.ColumnCellStyle(col))
		}
	}
	for row := uint32(0); row < 12; row++ {
		if got.RowStyle(row) != sh.RowStyle(row) {
			t.Errorf("RowStyle(%d) = %q, want %q", row, got.RowStyle(row), sh.RowStyle(row))
		}
	}
	if hr, ok := got.HeaderRows(); !ok || hr != (model.RowRange{From: 0, To: 1}) {
		t.Errorf("HeaderRows() = %+v, %v", hr, ok)
	}
	if hc, ok := got.HeaderCols(); !ok || hc != (model.ColRange{From: 0, To: 0}) {
		t.Errorf("HeaderCols() = %+v, %v", hc, ok)
	}
	if pr := got.PrintRanges(); len(pr) != 1 || pr[0].String() != "T.A1:T.D8" {
		t.Errorf("PrintRanges() = %v", pr)
	}
	if f, _ := got.Value(7, 3).Number(); f != 1 {
		t.Errorf("D8 = %v", got.Value(7, 3))
	}
}

func TestRoundTripRowHeightAndColWidth(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("T")
	sh.SetRowHeight(wb, 3, "1.2cm")
	sh.SetColWidth(wb, 2, "4cm")
	wb.PushSheet(sh)

	back := roundTrip(t, wb)
	got := back.Sheet(0)

	rowStyle := back.Style(model.OriginContent, got.RowStyle(3))
	if rowStyle == nil {
		t.Fatalf("row style %q missing", got.RowStyle(3))
	}
	if h, _ := rowStyle.Prop(model.PropsTableRow, "style:row-height"); h != "1.2cm" {
		t.Errorf("row height = %q", h)
	}
	colStyle := back.FindStyle(got.ColumnStyle(2))
	if colStyle == nil || colStyle.Family != model.FamilyTableColumn {
		t.Fatalf("column style = %+v", colStyle)
	}
	if w, _ := colStyle.Prop(model.PropsTableColumn, "style:column-width"); w != "4cm" {
		t.Errorf("column width = %q", w)
	}
}

func TestRoundTripSheets(t *testing.T) {
	wb := model.NewWorkBook()
	wb.PushSheet(model.NewSheet("First"))
	wb.PushSheet(model.NewSheet(""))
	wb.PushSheet(model.NewSheet("Sheet 'three'"))

	back := roundTrip(t, wb)
	want := []string{"First", "Sheet2", "Sheet 'three'"}
	if back.NumSheets() != len(want) {
		t.Fatalf("NumSheets() = %d", back.NumSheets())
	}
	for i, name := range want {
		if got := back.Sheet(i).Name; got != name {
			t.Errorf("Sheet(%d).Name = %q, want %q", i, got, name)
		}
	}
}

func TestRoundTripStyles(t *testing.T) {
	wb := model.NewWorkBook()
	wb.PushSheet(model.NewSheet("T"))

	font := model.NewFontDecl("Liberation Sans", model.OriginStyles)
	font.Attrs.Set("svg:font-family", "'Liberation Sans'")
	wb.AddFont(font)

	good := model.NewCellStyle("Good", "N2")
	good.Parent = "Default"
	good.SetProp(model.PropsTableCell, "fo:background-color", "#ccffcc")
	good.SetProp(model.PropsText, "fo:color", "#006600")
	wb.AddStyle(good)

	ce := model.NewStyle("ce1", model.FamilyTableCell, model.OriginContent, model.UseAutomatic)
	ce.SetProp(model.PropsParagraph, "fo:text-align", "center")
	wb.AddStyle(ce)

	vf := model.NewValueFormat("N2", model.ValueNumber, model.OriginStyles, model.UseNamed)
	vf.Attrs.Set("number:language", "en")
	num := model.NewFormatPart(model.PartNumber)
	num.Attrs.Set("number:min-integer-digits", "6")
	vf.PushPart(num)
	emb := model.NewFormatPart(model.PartEmbeddedText)
	emb.Attrs.Set("number:position", "3")
	emb.Content = "-"
	vf.PushPart(emb)
	vf.AddText(" pcs")
	wb.AddFormat(vf)

	back := roundTrip(t, wb)

	if f := back.Font(model.OriginStyles, "Liberation Sans"); f == nil || !f.Attrs.Equal(&font.Attrs) {
		t.Errorf("font = %+v", f)
	}

	g := back.Style(model.OriginStyles, "Good")
	if g == nil {
		t.Fatal("style Good missing")
	}
	if g.Use != model.UseNamed || g.Family != model.FamilyTableCell || g.Parent != "Default" || g.ValueFormat != "N2" {
		t.Errorf("Good = %+v", g)
	}
	for _, grp := range model.PropGroups {
		if !g.Props(grp).Equal(good.Props(grp)) {
			t.Errorf("Good props %s differ", grp.Tag())
		}
	}
	if c := back.Style(model.OriginContent, "ce1"); c == nil || c.Use != model.UseAutomatic {
		t.Errorf("ce1 = %+v", c)
	} else if a, _ := c.Prop(model.PropsParagraph, "fo:text-align"); a != "center" {
		t.Errorf("ce1 fo:text-align = %q", a)
	}

	f := back.Format(model.OriginStyles, "N2")
	if f == nil {
		t.Fatal("format N2 missing")
	}
	if len(f.Parts) != len(vf.Parts) {
		t.Fatalf("N2 has %d parts, want %d", len(f.Parts), len(vf.Parts))
	}
	for i := range vf.Parts {
		want, got := vf.Parts[i], f.Parts[i]
		if got.Type != want.Type || got.Content != want.Content || !got.Attrs.Equal(&want.Attrs) {
			t.Errorf("part %d = %+v, want %+v", i, got, want)
		}
	}
	if got := f.Locale().String(); got != "en" {
		t.Errorf("Locale() = %q", got)
	}
}

func TestRoundTripPageLayout(t *testing.T) {
	wb := model.NewWorkBook()
	wb.PushSheet(model.NewSheet("T"))

	pl := model.NewPageLayout("pm1")
	pl.SetProp("fo:page-width", "21cm")
	pl.SetHeaderProp("fo:min-height", "0.75cm")
	pl.SetFooterProp("fo:margin-top", "0.25cm")
	pl.MasterPageName = "Default"

	header := model.NewHeaderFooter()
	header.Left = model.NewCompositVec()
	header.Left.Start(model.CompositTag{Name: "text:p"})
	header.Left.Text("left")
	header.Left.End("text:p")
	header.Right = model.NewCompositVec()
	header.Right.Empty(model.CompositTag{Name: "text:p"})
	pl.Header = header

	footer := model.NewHeaderFooter()
	footer.Attrs.Set("style:display", "true")
	footer.Content.Start(model.CompositTag{Name: "text:p"})
	footer.Content.Text("Page ")
	footer.Content.Empty(model.CompositTag{Name: "text:page-number"})
	footer.Content.End("text:p")
	pl.Footer = footer
	wb.AddPageLayout(pl)

	got := roundTrip(t, wb).PageLayout("pm1")
	if got == nil {
		t.Fatal("page layout missing")
	}
	for _, b := range []model.LayoutBag{model.LayoutProps, model.HeaderProps, model.FooterProps} {
		if !got.Bag(b).Equal(pl.Bag(b)) {
			t.Errorf("bag %d = %v, want %v", b, got.Bag(b).Keys(), pl.Bag(b).Keys())
		}
	}
	if got.MasterPageName != "Default" {
		t.Errorf("MasterPageName = %q", got.MasterPageName)
	}
	if got.Header == nil || !got.Header.Left.Equal(header.Left) || !got.Header.Right.Equal(header.Right) {
		t.Errorf("Header = %+v", got.Header)
	}
	if got.Header != nil && got.Header.Center != nil {
		t.Error("center region appeared")
	}
	if got.Footer == nil || !got.Footer.Content.Equal(&footer.Content) || !got.Footer.Attrs.Equal(&footer.Attrs) {
		t.Errorf("Footer = %+v", got.Footer)
	}
	if got.HeaderLeft != nil || got.FooterLeft != nil {
		t.Error("left pages appeared")
	}
}

// ============================================================================
// Output economy
// ============================================================================

func TestWriteEmptyCellRuns(t *testing.T) {
	wb := model.NewWorkBook()
	sh := model.NewSheet("T")
	sh.SetValue(0, 5, model.TextValue("x"))
	sh.SetValue(1000, 0, model.TextValue("y"))
	wb.PushSheet(sh)

	data := writeToBytes(t, wb)
	content := markup(t, memberText(t, data, memberContent))
	if !strings.Contains(content, `<table:table-cell table:number-columns-repeated="5"/>`) {
		t.Error("leading empty cells not written as one run")
	}
	if !strings.Contains(content, `table:number-rows-repeated="999"`) {
		t.Error("empty rows not written as one run")
	}
	if n := strings.Count(content, "<table:table-row"); n != 3 {
		t.Errorf("wrote %d rows, want 3", n)
	}

	back, err := Read(bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if back.Sheet(0).NumCells() != 2 {
		t.Errorf("NumCells() = %d, want 2", back.Sheet(0).NumCells())
	}
	if v := back.Sheet(0).Value(1000, 0).TextOr(""); v != "y" {
		t.Errorf("A1001 = %q", v)
	}
}

func TestWriteParagraph(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `<text:p/>`},
		{"a b", `<text:p>a b</text:p>`},
		{" a", `<text:p><text:s/>a</text:p>`},
		{"a ", `<text:p>a<text:s/></text:p>`},
		{"a  b", `<text:p>a<text:s/><text:s/>b</text:p>`},
		{"a\tb", `<text:p>a<text:tab/>b</text:p>`},
		{"a \tb", `<text:p>a<text:s/><text:tab/>b</text:p>`},
		{"x<y & z", `<text:p>x<y & z</text:p>`},
		{"é ü", `<text:p>é ü</text:p>`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x := newXMLBuf()
			defer x.release()
			x.start("text:p")
			writeParagraph(x, tt.in)
			x.end()
			got := markup(t, string(x.bytes()))
			if got != tt.want {
				t.Errorf("writeParagraph(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestXMLBufComposit(t *testing.T) {
	cv := model.NewCompositVec()
	cv.End("stray")
	cv.Start(model.CompositTag{Name: "text:p"})
	cv.Text("a")
	cv.Empty(model.CompositTag{Name: "text:s"})
	cv.Start(model.CompositTag{Name: "text:span"})
	cv.Text("b")

	x := newXMLBuf()
	defer x.release()
	x.composit(cv)
	if !strings.HasPrefix(string(x.bytes()), xmlHeader) {
		t.Error("member does not start with the XML declaration")
	}
	got := markup(t, string(x.bytes()))
	want := `<text:p>a<text:s/><text:span>b</text:span></text:p>`
	if got != want {
		t.Errorf("composit = %s, want %s", got, want)
	}
}
