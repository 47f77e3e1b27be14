package ods

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/tsawler/odsheet/format"
	"github.com/tsawler/odsheet/model"
)

// ODF version written to every member.
const odfVersion = "1.2"

var namespaces = [][2]string{
	{"xmlns:office", "urn:oasis:names:tc:opendocument:xmlns:office:1.0"},
	{"xmlns:style", "urn:oasis:names:tc:opendocument:xmlns:style:1.0"},
	{"xmlns:text", "urn:oasis:names:tc:opendocument:xmlns:text:1.0"},
	{"xmlns:table", "urn:oasis:names:tc:opendocument:xmlns:table:1.0"},
	{"xmlns:number", "urn:oasis:names:tc:opendocument:xmlns:datastyle:1.0"},
	{"xmlns:fo", "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"},
	{"xmlns:svg", "urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"},
	{"xmlns:xlink", "http://www.w3.org/1999/xlink"},
	{"xmlns:dc", "http://purl.org/dc/elements/1.1/"},
	{"xmlns:meta", "urn:oasis:names:tc:opendocument:xmlns:meta:1.0"},
	{"xmlns:of", "urn:oasis:names:tc:opendocument:xmlns:of:1.2"},
}

// WriteFile writes wb to path, replacing an existing file.
func WriteFile(wb *model.WorkBook, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ODS archive: %w", err)
	}
	if err := Write(wb, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes wb as an ODS archive to w.
func Write(wb *model.WorkBook, w io.Writer) error {
	zw := zip.NewWriter(w)

	// The mimetype member comes first and uncompressed so the format can be
	// recognised from the archive's leading bytes.
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: memberMimetype, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("writing %s: %w", memberMimetype, err)
	}
	if _, err := io.WriteString(mw, format.ODS.MimeType()); err != nil {
		return fmt.Errorf("writing %s: %w", memberMimetype, err)
	}

	members := []struct {
		name  string
		build func(x *xmlBuf)
	}{
		{memberManifest, writeManifest},
		{memberContent, func(x *xmlBuf) { writeContent(x, wb) }},
		{memberStyles, func(x *xmlBuf) { writeStyles(x, wb) }},
	}
	for _, m := range members {
		x := newXMLBuf()
		m.build(x)
		fw, err := zw.Create(m.name)
		if err == nil {
			_, err = fw.Write(x.bytes())
		}
		x.release()
		if err != nil {
			return fmt.Errorf("writing %s: %w", m.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing ODS archive: %w", err)
	}
	return nil
}

func writeManifest(x *xmlBuf) {
	x.start("manifest:manifest")
	x.attr("xmlns:manifest", "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0")
	x.attr("manifest:version", odfVersion)

	x.start("manifest:file-entry")
	x.attr("manifest:full-path", "/")
	x.attr("manifest:version", odfVersion)
	x.attr("manifest:media-type", format.ODS.MimeType())
	x.end()
	for _, name := range []string{memberContent, memberStyles} {
		x.start("manifest:file-entry")
		x.attr("manifest:full-path", name)
		x.attr("manifest:media-type", "text/xml")
		x.end()
	}
	x.end()
}

func writeRoot(x *xmlBuf, name string) {
	x.start(name)
	for _, ns := range namespaces {
		x.attr(ns[0], ns[1])
	}
	x.attr("office:version", odfVersion)
}

func writeContent(x *xmlBuf, wb *model.WorkBook) {
	writeRoot(x, "office:document-content")
	writeDeclarations(x, wb, model.OriginContent)

	x.start("office:body")
	x.start("office:spreadsheet")
	for i, sh := range wb.Sheets() {
		writeTable(x, sh, i)
	}
	x.end()
	x.end()

	x.end()
}

func writeStyles(x *xmlBuf, wb *model.WorkBook) {
	writeRoot(x, "office:document-styles")
	writeDeclarations(x, wb, model.OriginStyles)
	writeMasterStyles(x, wb)
	x.end()
}

// writeDeclarations writes the fonts, styles and value formats declared in
// the member of the given origin. Page layouts always go to styles.xml.
func writeDeclarations(x *xmlBuf, wb *model.WorkBook, origin model.StyleOrigin) {
	x.start("office:font-face-decls")
	for _, f := range wb.Fonts() {
		if f.Origin != origin {
			continue
		}
		x.start("style:font-face")
		x.attr("style:name", f.Name)
		x.attrs(&f.Attrs)
		x.end()
	}
	x.end()

	for _, use := range []model.StyleUse{model.UseNamed, model.UseAutomatic} {
		if use == model.UseNamed {
			x.start("office:styles")
		} else {
			x.start("office:automatic-styles")
		}
		for _, vf := range wb.Formats() {
			if vf.Origin == origin && vf.Use == use {
				writeValueFormat(x, vf)
			}
		}
		for _, st := range wb.Styles() {
			if st.Origin == origin && st.Use == use {
				writeStyle(x, st)
			}
		}
		if use == model.UseAutomatic && origin == model.OriginStyles {
			for _, pl := range wb.PageLayouts() {
				writePageLayout(x, pl)
			}
		}
		x.end()
	}
}

func writeStyle(x *xmlBuf, st *model.Style) {
	x.start("style:style")
	x.attr("style:name", st.Name)
	x.attrIf("style:family", string(st.Family))
	x.attrIf("style:parent-style-name", st.Parent)
	x.attrIf("style:data-style-name", st.ValueFormat)
	x.attrs(&st.Attrs)
	for _, g := range model.PropGroups {
		if st.HasProps(g) {
			x.empty(g.Tag(), st.Props(g))
		}
	}
	x.end()
}

// writeValueFormat writes a number:*-style. Embedded text parts following a
// number part are written as its children.
func writeValueFormat(x *xmlBuf, vf *model.ValueFormat) {
	x.start(model.ValueFormatTag(vf.ValueType))
	x.attr("style:name", vf.Name)
	x.attrs(&vf.Attrs)

	inNumber := false
	for i := range vf.Parts {
		part := &vf.Parts[i]
		if inNumber && part.Type != model.PartEmbeddedText {
			x.end()
			inNumber = false
		}
		x.start(part.Type.Tag())
		x.attrs(&part.Attrs)
		if part.Type.HasContent() {
			x.text(part.Content)
		}
		if part.Type == model.PartNumber {
			inNumber = true
			continue
		}
		x.end()
	}
	if inNumber {
		x.end()
	}
	x.end()
}

func writePageLayout(x *xmlBuf, pl *model.PageLayout) {
	x.start("style:page-layout")
	x.attr("style:name", pl.Name)
	x.attrs(&pl.Attrs)
	if bag := pl.Bag(model.LayoutProps); bag.Len() > 0 {
		x.empty("style:page-layout-properties", bag)
	}
	for _, hs := range []struct {
		tag string
		bag model.LayoutBag
	}{
		{"style:header-style", model.HeaderProps},
		{"style:footer-style", model.FooterProps},
	} {
		bag := pl.Bag(hs.bag)
		if bag.Len() == 0 {
			continue
		}
		x.start(hs.tag)
		x.empty("style:header-footer-properties", bag)
		x.end()
	}
	x.end()
}

func writeMasterStyles(x *xmlBuf, wb *model.WorkBook) {
	x.start("office:master-styles")
	for _, pl := range wb.PageLayouts() {
		if pl.MasterPageName == "" {
			continue
		}
		x.start("style:master-page")
		x.attr("style:name", pl.MasterPageName)
		x.attr("style:page-layout-name", pl.Name)
		for _, r := range model.HFRegions {
			if hf := pl.Region(r); hf != nil {
				writeHeaderFooter(x, r.Tag(), hf)
			}
		}
		x.end()
	}
	x.end()
}

func writeHeaderFooter(x *xmlBuf, tag string, hf *model.HeaderFooter) {
	x.start(tag)
	x.attrs(&hf.Attrs)
	for _, region := range []struct {
		tag string
		cv  *model.CompositVec
	}{
		{"style:region-left", hf.Left},
		{"style:region-center", hf.Center},
		{"style:region-right", hf.Right},
	} {
		if region.cv == nil {
			continue
		}
		x.start(region.tag)
		x.composit(region.cv)
		x.end()
	}
	x.composit(&hf.Content)
	x.end()
}

// span is a half-open interval of rows or columns.
type span struct {
	from, to uint32
}

// runs cuts [0, n) at every boundary below n. Header ranges and style
// changes are boundaries so that no run crosses them.
func runs(n uint32, bounds []uint32) []span {
	cuts := append([]uint32{0, n}, bounds...)
	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })
	var out []span
	for i := 1; i < len(cuts); i++ {
		from, to := cuts[i-1], cuts[i]
		if from == to || to > n {
			continue
		}
		out = append(out, span{from, to})
	}
	return out
}

func writeTable(x *xmlBuf, sh *model.Sheet, idx int) {
	x.start("table:table")
	x.attr("table:name", sh.DisplayName(idx))
	x.attrIf("table:style-name", sh.Style)
	if pr := sh.PrintRanges(); len(pr) > 0 {
		x.attr("table:print-ranges", model.FormatCellRanges(pr))
	}

	nrows, ncols := sh.UsedGridSize()
	nrows = max(nrows, sh.RowExtent())
	ncols = max(ncols, sh.ColumnExtent(), 1)

	writeColumns(x, sh, ncols)
	writeRows(x, sh, max(nrows, 1), ncols)

	x.end()
}

func writeColumns(x *xmlBuf, sh *model.Sheet, ncols uint32) {
	var bounds []uint32
	hc, hasHeader := sh.HeaderCols()
	if hasHeader {
		bounds = append(bounds, hc.From, addClamp(hc.To, 1))
	}
	for col := uint32(1); col < ncols; col++ {
		if sh.ColumnStyle(col) != sh.ColumnStyle(col-1) ||
			sh.ColumnCellStyle(col) != sh.ColumnCellStyle(col-1) {
			bounds = append(bounds, col)
		}
	}

	for _, r := range runs(ncols, bounds) {
		if hasHeader && r.from == hc.From {
			x.start("table:table-header-columns")
		}
		x.start("table:table-column")
		x.attrIf("table:style-name", sh.ColumnStyle(r.from))
		x.count("table:number-columns-repeated", r.to-r.from)
		x.attrIf("table:default-cell-style-name", sh.ColumnCellStyle(r.from))
		x.end()
		if hasHeader && r.to == hc.To+1 {
			x.end()
		}
	}
}

// sheetGrid indexes the stored cells of a sheet by row.
type sheetGrid struct {
	cells   map[uint32][]uint32 // row -> sorted columns with a cell
	covered map[[2]uint32]bool  // positions hidden by a span
	rows    map[uint32]bool     // rows holding cells or covered positions
}

func newSheetGrid(sh *model.Sheet) *sheetGrid {
	g := &sheetGrid{
		cells:   make(map[uint32][]uint32),
		covered: make(map[[2]uint32]bool),
		rows:    make(map[uint32]bool),
	}
	sh.Range(func(row, col uint32, c *model.SCell) bool {
		g.cells[row] = append(g.cells[row], col)
		g.rows[row] = true
		for r := row; r < addClamp(row, max(c.RowSpan, 1)); r++ {
			for cc := col; cc < addClamp(col, max(c.ColSpan, 1)); cc++ {
				if r == row && cc == col {
					continue
				}
				g.covered[[2]uint32{r, cc}] = true
				g.rows[r] = true
			}
		}
		return true
	})
	return g
}

// width returns one past the last column of row that must be written.
func (g *sheetGrid) width(row, ncols uint32) uint32 {
	var w uint32
	if cols := g.cells[row]; len(cols) > 0 {
		w = cols[len(cols)-1] + 1
	}
	for col := w; col < ncols; col++ {
		if g.covered[[2]uint32{row, col}] {
			w = col + 1
		}
	}
	return w
}

func writeRows(x *xmlBuf, sh *model.Sheet, nrows, ncols uint32) {
	g := newSheetGrid(sh)

	var bounds []uint32
	hr, hasHeader := sh.HeaderRows()
	if hasHeader {
		bounds = append(bounds, hr.From, addClamp(hr.To, 1))
	}
	for _, rs := range sh.RowStyles() {
		bounds = append(bounds, rs.From, addClamp(rs.To, 1))
	}
	for row := range g.rows {
		bounds = append(bounds, row, addClamp(row, 1))
	}

	for _, r := range coalesceRows(sh, g, runs(nrows, bounds), hr, hasHeader) {
		if hasHeader && r.from == hr.From {
			x.start("table:table-header-rows")
		}

		x.start("table:table-row")
		x.count("table:number-rows-repeated", r.to-r.from)
		x.attrIf("table:style-name", sh.RowStyle(r.from))
		if g.rows[r.from] {
			writeCells(x, sh, g, r.from, ncols)
		} else {
			x.start("table:table-cell")
			x.count("table:number-columns-repeated", ncols)
			x.end()
		}
		x.end()

		if hasHeader && r.to == hr.To+1 {
			x.end()
		}
	}
}

// coalesceRows merges neighbouring runs of empty rows with the same style
// that do not cross a header boundary.
func coalesceRows(sh *model.Sheet, g *sheetGrid, in []span, hr model.RowRange, hasHeader bool) []span {
	var out []span
	for _, r := range in {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			crossesHeader := hasHeader && (r.from == hr.From || r.from == hr.To+1)
			if !g.rows[prev.from] && !g.rows[r.from] && !crossesHeader &&
				sh.RowStyle(prev.from) == sh.RowStyle(r.from) {
				prev.to = r.to
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func writeCells(x *xmlBuf, sh *model.Sheet, g *sheetGrid, row, ncols uint32) {
	width := g.width(row, ncols)

	// pending run of blank or covered positions
	var runTag string
	var runLen uint32
	flush := func() {
		if runLen == 0 {
			return
		}
		x.start(runTag)
		x.count("table:number-columns-repeated", runLen)
		x.end()
		runLen = 0
	}
	extend := func(tag string) {
		if runTag != tag {
			flush()
			runTag = tag
		}
		runLen++
	}

	for col := uint32(0); col < width; col++ {
		if g.covered[[2]uint32{row, col}] {
			extend("table:covered-table-cell")
			continue
		}
		c := sh.Cell(row, col)
		if c == nil || c.IsEmpty() {
			extend("table:table-cell")
			continue
		}
		flush()
		writeCell(x, c)
	}
	flush()
}

func writeCell(x *xmlBuf, c *model.SCell) {
	x.start("table:table-cell")
	x.attrIf("table:style-name", c.Style)
	x.count("table:number-rows-spanned", c.RowSpan)
	x.count("table:number-columns-spanned", c.ColSpan)
	x.attrIf("table:formula", c.Formula)

	v := c.Value
	if !v.IsEmpty() {
		x.attr("office:value-type", valueTypeToken(v.Type()))
		switch v.Type() {
		case model.ValueNumber:
			f, _ := v.Number()
			x.attr("office:value", model.FormatFloat(f))
		case model.ValuePercentage:
			f, _ := v.Percentage()
			x.attr("office:value", model.FormatFloat(f))
		case model.ValueCurrency:
			code, f, _ := v.Currency()
			x.attr("office:currency", code)
			x.attr("office:value", model.FormatFloat(f))
		case model.ValueDateTime:
			t, _ := v.DateTime()
			x.attr("office:date-value", formatDateTime(t))
		case model.ValueTimeDuration:
			d, _ := v.Duration()
			x.attr("office:time-value", formatDuration(d))
		case model.ValueBoolean:
			b, _ := v.Bool()
			if b {
				x.attr("office:boolean-value", "true")
			} else {
				x.attr("office:boolean-value", "false")
			}
		}
	}

	if c.Annotation != nil {
		x.composit(c.Annotation)
	}
	if !v.IsEmpty() {
		for _, line := range strings.Split(v.String(), "\n") {
			x.start("text:p")
			writeParagraph(x, line)
			x.end()
		}
	}
	x.end()
}

// writeParagraph writes the text of one text:p. A space is kept literal
// only between two ordinary characters; other spaces become text:s and
// tabs become text:tab.
func writeParagraph(x *xmlBuf, line string) {
	ordinary := func(i int) bool {
		return i >= 0 && i < len(line) && line[i] != ' ' && line[i] != '\t'
	}
	start := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' && ordinary(i-1) && ordinary(i+1) {
			continue
		}
		if c != ' ' && c != '\t' {
			continue
		}
		x.text(line[start:i])
		if c == ' ' {
			x.start("text:s")
		} else {
			x.start("text:tab")
		}
		x.end()
		start = i + 1
	}
	x.text(line[start:])
}
