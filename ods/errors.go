package ods

import (
	"errors"
	"fmt"

	"github.com/tsawler/odsheet/model"
)

// Read errors. Failures from the archive, the XML decoder and value parsing
// are wrapped so that errors.Is and errors.As see both the sentinel and the
// underlying cause.
var (
	ErrArchive         = errors.New("ods: invalid or corrupted archive")
	ErrMissingMember   = errors.New("ods: missing archive member")
	ErrNotSpreadsheet  = errors.New("ods: archive is not a spreadsheet")
	ErrXML             = errors.New("ods: malformed XML")
	ErrDurationRange   = errors.New("ods: duration out of range")
	ErrInvalidDocument = errors.New("ods: invalid document")
	ErrTruncated       = errors.New("ods: unexpected end of document")
)

// MissingValueError reports a cell that declares a value type but lacks the
// attribute carrying the value.
type MissingValueError struct {
	Cell model.CellRef
	Type model.ValueType
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s has type %s, but no value", e.Cell.Simple(), e.Type)
}

// Unwrap returns ErrInvalidDocument.
func (e *MissingValueError) Unwrap() error {
	return ErrInvalidDocument
}

// UnknownCellTypeError reports an office:value-type token that is not part
// of the format.
type UnknownCellTypeError struct {
	Token string
}

func (e *UnknownCellTypeError) Error() string {
	return fmt.Sprintf("unknown cell type %q", e.Token)
}

// Unwrap returns ErrInvalidDocument.
func (e *UnknownCellTypeError) Unwrap() error {
	return ErrInvalidDocument
}
