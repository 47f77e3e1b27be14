package ods

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tsawler/odsheet/internal/xmlevent"
	"github.com/tsawler/odsheet/model"
)

// tableContext is the cursor state of the table being read.
type tableContext struct {
	sheet *model.Sheet
	depth int // reader depth inside table:table

	row, col  uint32
	tcol      uint32 // column definitions are counted apart from cells
	rowRepeat uint32
	rowStyle  string

	headerRowFrom uint32
	headerColFrom uint32
}

// readContent reads content.xml.
func (p *parser) readContent() error {
	var tc *tableContext
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}

		switch ev.Kind {
		case xmlevent.EOF:
			if tc != nil {
				return finish(p.eof("table:table"))
			}
			if p.depth() > 0 {
				return finish(p.eof("office:document-content"))
			}
			return nil

		case xmlevent.Start, xmlevent.Empty:
			if handled, err := p.readCommon(ev); handled {
				if err != nil {
					return finish(err)
				}
				continue
			}
			if ev.Name == "table:table" {
				if tc != nil {
					// A table nested outside of a cell is not part of the grid.
					if err := p.skip(ev); err != nil {
						return finish(err)
					}
					continue
				}
				tc, err = p.startTable(ev)
				if err != nil {
					return err
				}
				if ev.Kind == xmlevent.Empty {
					p.endTable(tc)
					tc = nil
				}
				continue
			}
			if tc != nil {
				if err := p.tableElement(tc, ev); err != nil {
					return finish(err)
				}
			}

		case xmlevent.End:
			if tc == nil {
				continue
			}
			if ev.Name == "table:table" && p.depth() < tc.depth {
				p.endTable(tc)
				tc = nil
				continue
			}
			p.tableEnd(tc, ev)
		}
	}
}

// startTable creates the sheet for a table:table start tag.
func (p *parser) startTable(ev xmlevent.Event) (*tableContext, error) {
	sheet := model.NewSheet("")
	for _, a := range ev.Attrs {
		switch a.Name {
		case "table:name":
			sheet.Name = a.Value
		case "table:style-name":
			sheet.Style = a.Value
		case "table:print-ranges":
			ranges, err := model.ParseCellRanges(a.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: table %q: %w", ErrInvalidDocument, sheet.Name, err)
			}
			sheet.SetPrintRanges(ranges)
		}
	}
	return &tableContext{sheet: sheet, depth: p.depth(), rowRepeat: 1}, nil
}

// endTable appends the finished sheet to the workbook.
func (p *parser) endTable(tc *tableContext) {
	p.wb.PushSheet(tc.sheet)
	p.log.Debug("sheet read",
		zap.String("name", tc.sheet.Name),
		zap.Int("cells", tc.sheet.NumCells()),
		zap.Uint32("rows", tc.row),
	)
}

// tableElement handles start and empty tags inside a table.
func (p *parser) tableElement(tc *tableContext, ev xmlevent.Event) error {
	switch ev.Name {
	case "table:table-header-columns":
		if ev.Kind == xmlevent.Start {
			tc.headerColFrom = tc.tcol
		}
	case "table:table-column":
		return p.readColumn(tc, ev)
	case "table:table-header-rows":
		if ev.Kind == xmlevent.Start {
			tc.headerRowFrom = tc.row
		}
	case "table:table-row":
		if err := p.startRow(tc, ev); err != nil {
			return err
		}
		if ev.Kind == xmlevent.Empty {
			tc.endRow()
		}
	case "table:table-cell", "table:covered-table-cell":
		return p.readCell(tc, ev)
	}
	return nil
}

// tableEnd handles end tags inside a table.
func (p *parser) tableEnd(tc *tableContext, ev xmlevent.Event) {
	switch ev.Name {
	case "table:table-header-columns":
		if tc.tcol > tc.headerColFrom {
			tc.sheet.SetHeaderCols(tc.headerColFrom, tc.tcol-1)
		}
	case "table:table-header-rows":
		if tc.row > tc.headerRowFrom {
			tc.sheet.SetHeaderRows(tc.headerRowFrom, tc.row-1)
		}
	case "table:table-row":
		tc.endRow()
	}
}

// readColumn expands a table:table-column into its column indices.
func (p *parser) readColumn(tc *tableContext, ev xmlevent.Event) error {
	repeat := uint32(1)
	var style, cellStyle string
	for _, a := range ev.Attrs {
		switch a.Name {
		case "table:number-columns-repeated":
			n, err := parseCount(a)
			if err != nil {
				return err
			}
			repeat = n
		case "table:style-name":
			style = a.Value
		case "table:default-cell-style-name":
			cellStyle = a.Value
		}
	}

	if style == "" && cellStyle == "" {
		tc.tcol = addClamp(tc.tcol, repeat)
		return nil
	}
	for ; repeat > 0 && tc.tcol < ^uint32(0); repeat-- {
		tc.sheet.SetColumnStyle(tc.tcol, style)
		tc.sheet.SetColumnCellStyle(tc.tcol, cellStyle)
		tc.tcol++
	}
	return nil
}

// startRow reads the attributes of a table:table-row.
func (p *parser) startRow(tc *tableContext, ev xmlevent.Event) error {
	tc.rowRepeat = 1
	tc.rowStyle = ""
	for _, a := range ev.Attrs {
		switch a.Name {
		case "table:number-rows-repeated":
			n, err := parseCount(a)
			if err != nil {
				return err
			}
			tc.rowRepeat = n
		case "table:style-name":
			tc.rowStyle = a.Value
		}
	}
	return nil
}

// endRow applies the row style to the whole repeat range and moves the
// cursor to the next row.
func (tc *tableContext) endRow() {
	if tc.rowStyle != "" {
		last := addClamp(tc.row, tc.rowRepeat-1)
		tc.sheet.SetRowStyleRange(tc.row, last, tc.rowStyle)
	}
	tc.row = addClamp(tc.row, tc.rowRepeat)
	tc.col = 0
	tc.rowRepeat = 1
	tc.rowStyle = ""
}

// place stores cell at the cursor. Repeated cells get clones in front of
// the cell itself.
func (tc *tableContext) place(cell *model.SCell, repeat uint32) {
	for ; repeat > 1 && tc.col < ^uint32(0); repeat-- {
		tc.sheet.PutCell(tc.row, tc.col, cell.Clone())
		tc.col++
	}
	tc.sheet.PutCell(tc.row, tc.col, cell)
	tc.col = addClamp(tc.col, 1)
}

// cellText accumulates the display text of a cell.
type cellText struct {
	sb      strings.Builder
	started bool
}

// paragraph starts a new text:p. Every paragraph after the first begins on
// a new line.
func (t *cellText) paragraph() {
	if t.started {
		t.sb.WriteByte('\n')
	}
	t.started = true
}

func (t *cellText) add(s string) {
	t.started = true
	t.sb.WriteString(s)
}

// readCell reads a table:table-cell or table:covered-table-cell in either
// form and advances the column cursor.
func (p *parser) readCell(tc *tableContext, start xmlevent.Event) error {
	cell := model.NewSCell()
	repeat := uint32(1)
	raw := rawValue{}
	materialize := start.Kind == xmlevent.Start

	for _, a := range start.Attrs {
		switch a.Name {
		case "table:number-columns-repeated":
			n, err := parseCount(a)
			if err != nil {
				return err
			}
			repeat = n
		case "table:number-rows-spanned":
			n, err := parseCount(a)
			if err != nil {
				return err
			}
			cell.RowSpan = n
			materialize = true
		case "table:number-columns-spanned":
			n, err := parseCount(a)
			if err != nil {
				return err
			}
			cell.ColSpan = n
			materialize = true
		case "office:value-type":
			raw.valueType, raw.hasType = a.Value, true
			materialize = true
		case "office:date-value", "office:time-value", "office:value", "office:boolean-value":
			raw.value, raw.hasValue = a.Value, true
		case "office:currency":
			raw.currency, raw.hasCurrency = a.Value, true
		case "office:string-value":
			raw.stringValue, raw.hasString = a.Value, true
		case "table:formula":
			cell.Formula = a.Value
			materialize = true
		case "table:style-name":
			cell.Style = a.Value
			materialize = true
		}
	}

	if !materialize {
		tc.col = addClamp(tc.col, repeat)
		return nil
	}

	if start.Kind == xmlevent.Start {
		var text cellText
		if err := p.readCellContent(start, cell, &text); err != nil {
			return err
		}
		raw.content, raw.hasContent = text.sb.String(), text.started
	}

	ref := model.CellRef{Table: tc.sheet.Name, Row: tc.row, Col: tc.col}
	v, err := decodeValue(raw, ref)
	if err != nil {
		return err
	}
	cell.Value = v

	tc.place(cell, repeat)
	return nil
}

// readCellContent collects the text of an open cell and its annotation.
// Nested tables inside the cell are read as part of the content.
func (p *parser) readCellContent(start xmlevent.Event, cell *model.SCell, text *cellText) error {
	d := p.depth()
	// open text:p elements; text outside of them is layout whitespace
	para := 0
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return p.eof(start.Name)
		case xmlevent.Start, xmlevent.Empty:
			switch ev.Name {
			case "office:annotation":
				cv, err := p.readComposit(ev, true)
				if err != nil {
					return err
				}
				if cell.Annotation == nil {
					cell.Annotation = cv
				} else {
					cell.Annotation.Append(cv)
				}
			case "text:p":
				text.paragraph()
				if ev.Kind == xmlevent.Start {
					para++
				}
			case "text:s":
				text.add(" ")
			case "text:tab":
				text.add("\t")
			case "text:line-break":
				text.add("\n")
			}
		case xmlevent.Text:
			if para > 0 {
				text.add(ev.Text)
			}
		case xmlevent.End:
			if p.depth() < d {
				return nil
			}
			if ev.Name == "text:p" && para > 0 {
				para--
			}
		}
	}
}
