// Package odsheet provides a fluent API for reading and writing OpenDocument
// spreadsheets (.ods).
//
// Basic usage:
//
//	wb, err := odsheet.Open("budget.ods").WorkBook()
//	if err != nil {
//	    // handle error
//	}
//	sheet := wb.Sheet(0)
//	fmt.Println(sheet.Value(0, 0))
//
// With options:
//
//	wb, err := odsheet.Open("damaged.ods").
//	    Lenient().
//	    Logger(logger).
//	    WorkBook()
//
// For finer control the lower-level ods and model packages are also
// available.
package odsheet

import (
	"io"

	"github.com/tsawler/odsheet/model"
	"github.com/tsawler/odsheet/ods"
)

// Open returns a Loader for the spreadsheet at filename. Nothing is read
// until a terminal operation like WorkBook is called.
//
// Example:
//
//	wb, err := odsheet.Open("budget.ods").WorkBook()
func Open(filename string) *Loader {
	return &Loader{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns a Loader that reads an archive of the given size from
// r. The caller keeps ownership of r.
//
// Example:
//
//	f, _ := os.Open("budget.ods")
//	defer f.Close()
//	fi, _ := f.Stat()
//	wb, err := odsheet.FromReader(f, fi.Size()).WorkBook()
func FromReader(r io.ReaderAt, size int64) *Loader {
	return &Loader{
		src:     r,
		size:    size,
		options: defaultOptions(),
	}
}

// New returns an empty workbook with one sheet of the given name.
func New(sheetName string) *model.WorkBook {
	wb := model.NewWorkBook()
	wb.PushSheet(model.NewSheet(sheetName))
	return wb
}

// Save writes wb to filename as an ODS archive.
//
// Example:
//
//	wb := odsheet.New("Sheet1")
//	wb.Sheet(0).SetValue(0, 0, model.TextValue("hello"))
//	err := odsheet.Save(wb, "hello.ods")
func Save(wb *model.WorkBook, filename string) error {
	return ods.WriteFile(wb, filename)
}

// SaveTo writes wb as an ODS archive to w.
func SaveTo(wb *model.WorkBook, w io.Writer) error {
	return ods.Write(wb, w)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	wb := odsheet.Must(odsheet.Open("budget.ods").WorkBook())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
