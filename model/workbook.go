package model

import "strconv"

type originKey struct {
	origin StyleOrigin
	name   string
}

// WorkBook is a whole spreadsheet document.
type WorkBook struct {
	// File is the path the workbook was read from, if any.
	File string

	sheets []*Sheet

	styles   []*Style
	styleIdx map[originKey]int

	formats   []*ValueFormat
	formatIdx map[originKey]int

	fonts   []*FontDecl
	fontIdx map[originKey]int

	layouts   []*PageLayout
	layoutIdx map[string]int
}

// NewWorkBook creates an empty workbook.
func NewWorkBook() *WorkBook {
	return &WorkBook{
		styleIdx:  make(map[originKey]int),
		formatIdx: make(map[originKey]int),
		fontIdx:   make(map[originKey]int),
		layoutIdx: make(map[string]int),
	}
}

// NumSheets returns the number of sheets.
func (wb *WorkBook) NumSheets() int {
	return len(wb.sheets)
}

// Sheet returns the sheet at index i or nil.
func (wb *WorkBook) Sheet(i int) *Sheet {
	if i < 0 || i >= len(wb.sheets) {
		return nil
	}
	return wb.sheets[i]
}

// SheetByName returns the first sheet with the given name or nil.
func (wb *WorkBook) SheetByName(name string) *Sheet {
	for _, sh := range wb.sheets {
		if sh.Name == name {
			return sh
		}
	}
	return nil
}

// Sheets returns the sheets in order.
func (wb *WorkBook) Sheets() []*Sheet {
	return append([]*Sheet(nil), wb.sheets...)
}

// PushSheet appends a sheet.
func (wb *WorkBook) PushSheet(sh *Sheet) {
	wb.sheets = append(wb.sheets, sh)
}

// InsertSheet inserts a sheet at index i. An index past the end appends.
func (wb *WorkBook) InsertSheet(i int, sh *Sheet) {
	if i < 0 {
		i = 0
	}
	if i >= len(wb.sheets) {
		wb.PushSheet(sh)
		return
	}
	wb.sheets = append(wb.sheets, nil)
	copy(wb.sheets[i+1:], wb.sheets[i:])
	wb.sheets[i] = sh
}

// RemoveSheet removes and returns the sheet at index i, or nil.
func (wb *WorkBook) RemoveSheet(i int) *Sheet {
	if i < 0 || i >= len(wb.sheets) {
		return nil
	}
	sh := wb.sheets[i]
	wb.sheets = append(wb.sheets[:i], wb.sheets[i+1:]...)
	return sh
}

// AddStyle registers a style under its origin and name. A style with the
// same key is replaced in place.
func (wb *WorkBook) AddStyle(s *Style) {
	k := originKey{s.Origin, s.Name}
	if i, ok := wb.styleIdx[k]; ok {
		wb.styles[i] = s
		return
	}
	wb.styleIdx[k] = len(wb.styles)
	wb.styles = append(wb.styles, s)
}

// Style returns the style with the given origin and name or nil.
func (wb *WorkBook) Style(origin StyleOrigin, name string) *Style {
	if i, ok := wb.styleIdx[originKey{origin, name}]; ok {
		return wb.styles[i]
	}
	return nil
}

// FindStyle looks a style up in content.xml first and styles.xml second.
func (wb *WorkBook) FindStyle(name string) *Style {
	if s := wb.Style(OriginContent, name); s != nil {
		return s
	}
	return wb.Style(OriginStyles, name)
}

// Styles returns all styles in insertion order.
func (wb *WorkBook) Styles() []*Style {
	return append([]*Style(nil), wb.styles...)
}

// AddFormat registers a value format under its origin and name. A format
// with the same key is replaced in place.
func (wb *WorkBook) AddFormat(f *ValueFormat) {
	k := originKey{f.Origin, f.Name}
	if i, ok := wb.formatIdx[k]; ok {
		wb.formats[i] = f
		return
	}
	wb.formatIdx[k] = len(wb.formats)
	wb.formats = append(wb.formats, f)
}

// Format returns the value format with the given origin and name or nil.
func (wb *WorkBook) Format(origin StyleOrigin, name string) *ValueFormat {
	if i, ok := wb.formatIdx[originKey{origin, name}]; ok {
		return wb.formats[i]
	}
	return nil
}

// FindFormat looks a value format up in content.xml first and styles.xml
// second.
func (wb *WorkBook) FindFormat(name string) *ValueFormat {
	if f := wb.Format(OriginContent, name); f != nil {
		return f
	}
	return wb.Format(OriginStyles, name)
}

// Formats returns all value formats in insertion order.
func (wb *WorkBook) Formats() []*ValueFormat {
	return append([]*ValueFormat(nil), wb.formats...)
}

// AddFont registers a font declaration. A font with the same origin and
// name is replaced in place.
func (wb *WorkBook) AddFont(f *FontDecl) {
	k := originKey{f.Origin, f.Name}
	if i, ok := wb.fontIdx[k]; ok {
		wb.fonts[i] = f
		return
	}
	wb.fontIdx[k] = len(wb.fonts)
	wb.fonts = append(wb.fonts, f)
}

// Font returns the font with the given origin and name or nil.
func (wb *WorkBook) Font(origin StyleOrigin, name string) *FontDecl {
	if i, ok := wb.fontIdx[originKey{origin, name}]; ok {
		return wb.fonts[i]
	}
	return nil
}

// Fonts returns all font declarations in insertion order.
func (wb *WorkBook) Fonts() []*FontDecl {
	return append([]*FontDecl(nil), wb.fonts...)
}

// AddPageLayout registers a page layout. A layout with the same name is
// replaced in place.
func (wb *WorkBook) AddPageLayout(pl *PageLayout) {
	if i, ok := wb.layoutIdx[pl.Name]; ok {
		wb.layouts[i] = pl
		return
	}
	wb.layoutIdx[pl.Name] = len(wb.layouts)
	wb.layouts = append(wb.layouts, pl)
}

// PageLayout returns the page layout with the given name or nil.
func (wb *WorkBook) PageLayout(name string) *PageLayout {
	if i, ok := wb.layoutIdx[name]; ok {
		return wb.layouts[i]
	}
	return nil
}

// PageLayouts returns all page layouts in insertion order.
func (wb *WorkBook) PageLayouts() []*PageLayout {
	return append([]*PageLayout(nil), wb.layouts...)
}

// NextStyleName returns prefix followed by the smallest positive number
// that no content.xml style uses yet.
func (wb *WorkBook) NextStyleName(prefix string) string {
	for n := 1; ; n++ {
		name := prefix + strconv.Itoa(n)
		if wb.Style(OriginContent, name) == nil {
			return name
		}
	}
}
