package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef is a cell reference such as "Sheet1.B3" or "$Sheet1.$B$3".
// Row and Col are zero-based.
type CellRef struct {
	Table    string
	Row      uint32
	Col      uint32
	AbsTable bool
	AbsRow   bool
	AbsCol   bool
}

// NewCellRef creates a relative reference without a table.
func NewCellRef(row, col uint32) CellRef {
	return CellRef{Row: row, Col: col}
}

// Simple returns the A1 form without table or absolute markers.
func (r CellRef) Simple() string {
	return IndexToColumn(r.Col) + strconv.FormatUint(uint64(r.Row)+1, 10)
}

// String returns the reference in the form used in table:print-ranges.
func (r CellRef) String() string {
	var sb strings.Builder
	if r.Table != "" {
		if r.AbsTable {
			sb.WriteByte('$')
		}
		sb.WriteString(quoteTableName(r.Table))
	}
	sb.WriteByte('.')
	if r.AbsCol {
		sb.WriteByte('$')
	}
	sb.WriteString(IndexToColumn(r.Col))
	if r.AbsRow {
		sb.WriteByte('$')
	}
	sb.WriteString(strconv.FormatUint(uint64(r.Row)+1, 10))
	return sb.String()
}

// CellRange is a rectangular range between two cell references.
type CellRange struct {
	From CellRef
	To   CellRef
}

// NewCellRange creates a range on the given table.
func NewCellRange(table string, row, col, toRow, toCol uint32) CellRange {
	return CellRange{
		From: CellRef{Table: table, Row: row, Col: col},
		To:   CellRef{Table: table, Row: toRow, Col: toCol},
	}
}

// String returns the range in the form used in table:print-ranges.
func (r CellRange) String() string {
	return r.From.String() + ":" + r.To.String()
}

// Contains reports whether the cell lies inside the range.
func (r CellRange) Contains(row, col uint32) bool {
	return row >= r.From.Row && row <= r.To.Row && col >= r.From.Col && col <= r.To.Col
}

// RowRange is an inclusive range of rows.
type RowRange struct {
	From uint32
	To   uint32
}

// Contains reports whether row lies inside the range.
func (r RowRange) Contains(row uint32) bool {
	return row >= r.From && row <= r.To
}

// ColRange is an inclusive range of columns.
type ColRange struct {
	From uint32
	To   uint32
}

// Contains reports whether col lies inside the range.
func (r ColRange) Contains(col uint32) bool {
	return col >= r.From && col <= r.To
}

// ParseCellRef parses a single reference like "A1", ".A1", "Sheet1.$A$1" or
// "'My Sheet'.B2".
func ParseCellRef(s string) (CellRef, error) {
	ref, pos, err := parseCellRefAt(s, 0)
	if err != nil {
		return CellRef{}, err
	}
	if pos != len(s) {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: trailing characters", s)
	}
	return ref, nil
}

// ParseCellRange parses "from:to".
func ParseCellRange(s string) (CellRange, error) {
	rng, pos, err := parseCellRangeAt(s, 0)
	if err != nil {
		return CellRange{}, err
	}
	if pos != len(s) {
		return CellRange{}, fmt.Errorf("invalid cell range %q: trailing characters", s)
	}
	return rng, nil
}

// ParseCellRanges parses a space separated list of ranges as found in
// table:print-ranges. An empty string yields no ranges.
func ParseCellRanges(s string) ([]CellRange, error) {
	var out []CellRange
	pos := 0
	for {
		for pos < len(s) && s[pos] == ' ' {
			pos++
		}
		if pos >= len(s) {
			return out, nil
		}
		rng, next, err := parseCellRangeAt(s, pos)
		if err != nil {
			return nil, err
		}
		if next < len(s) && s[next] != ' ' {
			return nil, fmt.Errorf("invalid cell range list %q at offset %d", s, next)
		}
		out = append(out, rng)
		pos = next
	}
}

// FormatCellRanges is the inverse of ParseCellRanges.
func FormatCellRanges(ranges []CellRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

func parseCellRangeAt(s string, pos int) (CellRange, int, error) {
	from, pos, err := parseCellRefAt(s, pos)
	if err != nil {
		return CellRange{}, pos, err
	}
	if pos >= len(s) || s[pos] != ':' {
		// A single cell is a one cell range.
		return CellRange{From: from, To: from}, pos, nil
	}
	to, pos, err := parseCellRefAt(s, pos+1)
	if err != nil {
		return CellRange{}, pos, err
	}
	if to.Table == "" {
		to.Table = from.Table
	}
	return CellRange{From: from, To: to}, pos, nil
}

func parseCellRefAt(s string, pos int) (CellRef, int, error) {
	var ref CellRef
	if pos >= len(s) {
		return ref, pos, fmt.Errorf("invalid cell reference %q: empty", s)
	}

	if s[pos] == '$' {
		ref.AbsTable = true
		pos++
	}

	switch {
	case pos < len(s) && s[pos] == '\'':
		name, next, err := parseQuotedName(s, pos)
		if err != nil {
			return ref, pos, err
		}
		if next >= len(s) || s[next] != '.' {
			return ref, next, fmt.Errorf("invalid cell reference %q: expected '.' after table name", s)
		}
		ref.Table = name
		pos = next + 1
	case pos < len(s) && s[pos] == '.':
		pos++
	default:
		end := pos
		for end < len(s) && s[end] != '.' && s[end] != ':' && s[end] != ' ' {
			end++
		}
		if end < len(s) && s[end] == '.' {
			ref.Table = s[pos:end]
			pos = end + 1
		} else {
			// No table part; the leading '$' belonged to the column.
			if ref.AbsTable {
				ref.AbsTable = false
				pos--
			}
		}
	}

	if pos < len(s) && s[pos] == '$' {
		ref.AbsCol = true
		pos++
	}
	start := pos
	for pos < len(s) && isLetter(s[pos]) {
		pos++
	}
	if pos == start {
		return ref, pos, fmt.Errorf("invalid cell reference %q: no column letters", s)
	}
	col := ColumnToIndex(s[start:pos])
	if col < 0 {
		return ref, pos, fmt.Errorf("invalid column: %s", s[start:pos])
	}
	ref.Col = uint32(col)

	if pos < len(s) && s[pos] == '$' {
		ref.AbsRow = true
		pos++
	}
	start = pos
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		pos++
	}
	if pos == start {
		return ref, pos, fmt.Errorf("invalid cell reference %q: no row number", s)
	}
	rowNum, err := strconv.ParseUint(s[start:pos], 10, 32)
	if err != nil || rowNum < 1 {
		return ref, pos, fmt.Errorf("invalid row: %s", s[start:pos])
	}
	ref.Row = uint32(rowNum - 1)

	return ref, pos, nil
}

func parseQuotedName(s string, pos int) (string, int, error) {
	var sb strings.Builder
	pos++ // opening quote
	for pos < len(s) {
		if s[pos] == '\'' {
			if pos+1 < len(s) && s[pos+1] == '\'' {
				sb.WriteByte('\'')
				pos += 2
				continue
			}
			return sb.String(), pos + 1, nil
		}
		sb.WriteByte(s[pos])
		pos++
	}
	return "", pos, fmt.Errorf("invalid cell reference %q: unterminated table name", s)
}

func quoteTableName(name string) string {
	plain := true
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '_' {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// ColumnToIndex converts column letters to a zero-based column number.
// A=0, B=1, ..., Z=25, AA=26. It returns -1 for invalid input.
func ColumnToIndex(col string) int {
	col = strings.ToUpper(col)
	result := 0
	for _, c := range col {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
		if result > 1<<31 {
			return -1
		}
	}
	return result - 1
}

// IndexToColumn converts a zero-based column number to column letters.
func IndexToColumn(index uint32) string {
	var buf [8]byte
	pos := len(buf)
	n := uint64(index) + 1
	for n > 0 {
		n--
		pos--
		buf[pos] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[pos:])
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
