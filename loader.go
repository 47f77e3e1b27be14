package odsheet

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tsawler/odsheet/format"
	"github.com/tsawler/odsheet/model"
	"github.com/tsawler/odsheet/ods"
)

// Loader provides a fluent interface for reading a spreadsheet.
// Each configuration method returns a new Loader instance, making it
// safe for concurrent use and allowing method chaining.
type Loader struct {
	// Source, either a file or a reader
	filename string
	src      io.ReaderAt
	size     int64

	// Configuration
	options LoadOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Loader with a copy of options.
func (l *Loader) clone() *Loader {
	return &Loader{
		filename: l.filename,
		src:      l.src,
		size:     l.size,
		options:  l.options.clone(),
		err:      l.err,
	}
}

// ============================================================================
// Configuration Methods (return new Loader instance)
// ============================================================================

// DumpXML logs every XML event of the read at debug level. It has no effect
// unless a logger is configured.
//
// Example:
//
//	wb, err := odsheet.Open("budget.ods").Logger(logger).DumpXML().WorkBook()
func (l *Loader) DumpXML() *Loader {
	newLoader := l.clone()
	newLoader.options.dumpXML = true
	return newLoader
}

// Lenient accepts documents that end inside an open element and keeps
// everything that was complete up to that point.
//
// Example:
//
//	wb, err := odsheet.Open("truncated.ods").Lenient().WorkBook()
func (l *Loader) Lenient() *Loader {
	newLoader := l.clone()
	newLoader.options.lenient = true
	return newLoader
}

// Logger sets the logger that receives debug records about the read.
//
// Example:
//
//	logger, _ := zap.NewDevelopment()
//	wb, err := odsheet.Open("budget.ods").Logger(logger).WorkBook()
func (l *Loader) Logger(logger *zap.Logger) *Loader {
	newLoader := l.clone()
	newLoader.options.logger = logger
	return newLoader
}

// ============================================================================
// Terminal Methods
// ============================================================================

// WorkBook reads the whole spreadsheet.
func (l *Loader) WorkBook() (*model.WorkBook, error) {
	if l.err != nil {
		return nil, l.err
	}

	if l.src != nil {
		return ods.Read(l.src, l.size, l.options.readOptions())
	}
	if l.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}
	switch f := format.Detect(l.filename); f {
	case format.ODS, format.Unknown:
	default:
		return nil, fmt.Errorf("unsupported file format: %s", f)
	}
	return ods.ReadFile(l.filename, l.options.readOptions())
}

// SheetNames reads the spreadsheet and returns the display names of its
// sheets in order.
func (l *Loader) SheetNames() ([]string, error) {
	wb, err := l.WorkBook()
	if err != nil {
		return nil, err
	}
	names := make([]string, wb.NumSheets())
	for i, sh := range wb.Sheets() {
		names[i] = sh.DisplayName(i)
	}
	return names, nil
}

// Sheet reads the spreadsheet and returns the sheet with the given name.
func (l *Loader) Sheet(name string) (*model.Sheet, error) {
	wb, err := l.WorkBook()
	if err != nil {
		return nil, err
	}
	if sh := wb.SheetByName(name); sh != nil {
		return sh, nil
	}
	return nil, fmt.Errorf("sheet %q not found", name)
}
