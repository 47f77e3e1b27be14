package model

import (
	"sort"
	"strconv"
)

// SCell is a single stored cell. RowSpan and ColSpan are at least 1; values
// above 1 make the cell the anchor of a merged block.
type SCell struct {
	Value      Value
	Style      string
	Formula    string
	RowSpan    uint32
	ColSpan    uint32
	Annotation *CompositVec // office:annotation markup, nil when absent
}

// NewSCell creates an empty cell with spans of 1.
func NewSCell() *SCell {
	return &SCell{RowSpan: 1, ColSpan: 1}
}

// Clone returns a copy of the cell. The annotation is shared.
func (c *SCell) Clone() *SCell {
	cp := *c
	return &cp
}

// IsEmpty reports whether the cell carries nothing worth storing.
func (c *SCell) IsEmpty() bool {
	return c.Value.IsEmpty() && c.Style == "" && c.Formula == "" &&
		c.RowSpan <= 1 && c.ColSpan <= 1 && c.Annotation.IsEmpty()
}

// RowStyleRange assigns a row style to the inclusive rows From..To.
type RowStyleRange struct {
	From  uint32
	To    uint32
	Style string
}

type cellKey struct {
	row, col uint32
}

// Sheet is one table of the workbook.
type Sheet struct {
	Name  string
	Style string // table:style-name

	cells         map[cellKey]*SCell
	colStyles     map[uint32]string
	colCellStyles map[uint32]string
	rowStyles     []RowStyleRange // sorted by From, non-overlapping
	headerRows    *RowRange
	headerCols    *ColRange
	printRanges   []CellRange
}

// NewSheet creates an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:          name,
		cells:         make(map[cellKey]*SCell),
		colStyles:     make(map[uint32]string),
		colCellStyles: make(map[uint32]string),
	}
}

// Cell returns the cell at (row, col) or nil.
func (sh *Sheet) Cell(row, col uint32) *SCell {
	return sh.cells[cellKey{row, col}]
}

// AddCell returns the cell at (row, col), creating it when absent.
func (sh *Sheet) AddCell(row, col uint32) *SCell {
	k := cellKey{row, col}
	c, ok := sh.cells[k]
	if !ok {
		c = NewSCell()
		sh.cells[k] = c
	}
	return c
}

// PutCell stores c at (row, col), replacing any existing cell.
func (sh *Sheet) PutCell(row, col uint32, c *SCell) {
	sh.cells[cellKey{row, col}] = c
}

// RemoveCell deletes and returns the cell at (row, col).
func (sh *Sheet) RemoveCell(row, col uint32) *SCell {
	k := cellKey{row, col}
	c := sh.cells[k]
	delete(sh.cells, k)
	return c
}

// NumCells returns the number of stored cells.
func (sh *Sheet) NumCells() int {
	return len(sh.cells)
}

// Value returns the value at (row, col). Missing cells are empty.
func (sh *Sheet) Value(row, col uint32) Value {
	if c := sh.Cell(row, col); c != nil {
		return c.Value
	}
	return Value{}
}

// SetValue sets the value at (row, col).
func (sh *Sheet) SetValue(row, col uint32, v Value) {
	sh.AddCell(row, col).Value = v
}

// SetStyle sets the cell style at (row, col).
func (sh *Sheet) SetStyle(row, col uint32, style string) {
	sh.AddCell(row, col).Style = style
}

// CellStyle returns the style name of the cell at (row, col).
func (sh *Sheet) CellStyle(row, col uint32) string {
	if c := sh.Cell(row, col); c != nil {
		return c.Style
	}
	return ""
}

// SetFormula sets the formula at (row, col). The formula is stored as is.
func (sh *Sheet) SetFormula(row, col uint32, formula string) {
	sh.AddCell(row, col).Formula = formula
}

// Formula returns the formula at (row, col).
func (sh *Sheet) Formula(row, col uint32) string {
	if c := sh.Cell(row, col); c != nil {
		return c.Formula
	}
	return ""
}

// SetRowSpan sets the number of rows the cell at (row, col) covers.
// Spans below 1 are stored as 1.
func (sh *Sheet) SetRowSpan(row, col, span uint32) {
	sh.AddCell(row, col).RowSpan = max(span, 1)
}

// SetColSpan sets the number of columns the cell at (row, col) covers.
// Spans below 1 are stored as 1.
func (sh *Sheet) SetColSpan(row, col, span uint32) {
	sh.AddCell(row, col).ColSpan = max(span, 1)
}

// RowSpan returns the row span at (row, col), 1 for missing cells.
func (sh *Sheet) RowSpan(row, col uint32) uint32 {
	if c := sh.Cell(row, col); c != nil {
		return max(c.RowSpan, 1)
	}
	return 1
}

// ColSpan returns the column span at (row, col), 1 for missing cells.
func (sh *Sheet) ColSpan(row, col uint32) uint32 {
	if c := sh.Cell(row, col); c != nil {
		return max(c.ColSpan, 1)
	}
	return 1
}

// SetColumnStyle sets the table-column style of col. An empty name clears it.
func (sh *Sheet) SetColumnStyle(col uint32, style string) {
	if style == "" {
		delete(sh.colStyles, col)
		return
	}
	sh.colStyles[col] = style
}

// ColumnStyle returns the table-column style of col.
func (sh *Sheet) ColumnStyle(col uint32) string {
	return sh.colStyles[col]
}

// SetColumnCellStyle sets the default cell style of col. An empty name
// clears it.
func (sh *Sheet) SetColumnCellStyle(col uint32, style string) {
	if style == "" {
		delete(sh.colCellStyles, col)
		return
	}
	sh.colCellStyles[col] = style
}

// ColumnCellStyle returns the default cell style of col.
func (sh *Sheet) ColumnCellStyle(col uint32) string {
	return sh.colCellStyles[col]
}

// NumColumnStyles returns how many columns carry a column style.
func (sh *Sheet) NumColumnStyles() int {
	return len(sh.colStyles)
}

// SetRowStyle sets the table-row style of a single row.
func (sh *Sheet) SetRowStyle(row uint32, style string) {
	sh.SetRowStyleRange(row, row, style)
}

// SetRowStyleRange sets the table-row style of the rows from..to inclusive.
// Existing assignments overlapping the range are cut back. An empty style
// clears the range.
func (sh *Sheet) SetRowStyleRange(from, to uint32, style string) {
	if to < from {
		return
	}
	out := make([]RowStyleRange, 0, len(sh.rowStyles)+2)
	for _, r := range sh.rowStyles {
		if r.To < from || r.From > to {
			out = append(out, r)
			continue
		}
		if r.From < from {
			out = append(out, RowStyleRange{From: r.From, To: from - 1, Style: r.Style})
		}
		if r.To > to {
			out = append(out, RowStyleRange{From: to + 1, To: r.To, Style: r.Style})
		}
	}
	if style != "" {
		out = append(out, RowStyleRange{From: from, To: to, Style: style})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	sh.rowStyles = out
}

// RowStyle returns the table-row style of row.
func (sh *Sheet) RowStyle(row uint32) string {
	i := sort.Search(len(sh.rowStyles), func(i int) bool { return sh.rowStyles[i].To >= row })
	if i < len(sh.rowStyles) && sh.rowStyles[i].From <= row {
		return sh.rowStyles[i].Style
	}
	return ""
}

// RowStyles returns the row style assignments ordered by row.
func (sh *Sheet) RowStyles() []RowStyleRange {
	out := make([]RowStyleRange, len(sh.rowStyles))
	copy(out, sh.rowStyles)
	return out
}

// SetRowHeight creates an automatic row style with the given height, for
// example "0.5cm", registers it in wb and assigns it to row.
func (sh *Sheet) SetRowHeight(wb *WorkBook, row uint32, height string) {
	st := NewStyle(wb.NextStyleName("ro"), FamilyTableRow, OriginContent, UseAutomatic)
	st.SetProp(PropsTableRow, "style:row-height", height)
	wb.AddStyle(st)
	sh.SetRowStyle(row, st.Name)
}

// SetColWidth creates an automatic column style with the given width, for
// example "2.5cm", registers it in wb and assigns it to col.
func (sh *Sheet) SetColWidth(wb *WorkBook, col uint32, width string) {
	st := NewStyle(wb.NextStyleName("co"), FamilyTableColumn, OriginContent, UseAutomatic)
	st.SetProp(PropsTableColumn, "style:column-width", width)
	wb.AddStyle(st)
	sh.SetColumnStyle(col, st.Name)
}

// SetHeaderRows marks rows from..to as repeated header rows.
func (sh *Sheet) SetHeaderRows(from, to uint32) {
	sh.headerRows = &RowRange{From: from, To: to}
}

// ClearHeaderRows removes the header row range.
func (sh *Sheet) ClearHeaderRows() {
	sh.headerRows = nil
}

// HeaderRows returns the header row range.
func (sh *Sheet) HeaderRows() (RowRange, bool) {
	if sh.headerRows == nil {
		return RowRange{}, false
	}
	return *sh.headerRows, true
}

// SetHeaderCols marks columns from..to as repeated header columns.
func (sh *Sheet) SetHeaderCols(from, to uint32) {
	sh.headerCols = &ColRange{From: from, To: to}
}

// ClearHeaderCols removes the header column range.
func (sh *Sheet) ClearHeaderCols() {
	sh.headerCols = nil
}

// HeaderCols returns the header column range.
func (sh *Sheet) HeaderCols() (ColRange, bool) {
	if sh.headerCols == nil {
		return ColRange{}, false
	}
	return *sh.headerCols, true
}

// AddPrintRange appends a print range.
func (sh *Sheet) AddPrintRange(r CellRange) {
	sh.printRanges = append(sh.printRanges, r)
}

// SetPrintRanges replaces the print ranges.
func (sh *Sheet) SetPrintRanges(ranges []CellRange) {
	sh.printRanges = append([]CellRange(nil), ranges...)
}

// PrintRanges returns the print ranges in order.
func (sh *Sheet) PrintRanges() []CellRange {
	return append([]CellRange(nil), sh.printRanges...)
}

// UsedGridSize returns the number of rows and columns needed to hold every
// stored cell including the area covered by spans.
func (sh *Sheet) UsedGridSize() (rows, cols uint32) {
	for k, c := range sh.cells {
		rows = max(rows, k.row+max(c.RowSpan, 1))
		cols = max(cols, k.col+max(c.ColSpan, 1))
	}
	return rows, cols
}

// ColumnExtent returns one past the highest column that has a column style,
// a default cell style or belongs to the header columns.
func (sh *Sheet) ColumnExtent() uint32 {
	var n uint32
	for col := range sh.colStyles {
		n = max(n, col+1)
	}
	for col := range sh.colCellStyles {
		n = max(n, col+1)
	}
	if sh.headerCols != nil {
		n = max(n, sh.headerCols.To+1)
	}
	return n
}

// RowExtent returns one past the highest row that has a row style or belongs
// to the header rows.
func (sh *Sheet) RowExtent() uint32 {
	var n uint32
	if len(sh.rowStyles) > 0 {
		n = sh.rowStyles[len(sh.rowStyles)-1].To + 1
	}
	if sh.headerRows != nil {
		n = max(n, sh.headerRows.To+1)
	}
	return n
}

// Range calls fn for every stored cell in row-major order until fn returns
// false.
func (sh *Sheet) Range(fn func(row, col uint32, c *SCell) bool) {
	keys := make([]cellKey, 0, len(sh.cells))
	for k := range sh.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})
	for _, k := range keys {
		if !fn(k.row, k.col, sh.cells[k]) {
			return
		}
	}
}

// DisplayName returns the sheet name or "Sheet<n>" for an unnamed sheet at
// zero-based position idx.
func (sh *Sheet) DisplayName(idx int) string {
	if sh.Name != "" {
		return sh.Name
	}
	return "Sheet" + strconv.Itoa(idx+1)
}
