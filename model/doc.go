// Package model provides the in-memory representation of an OpenDocument
// spreadsheet.
//
// The types here are produced by the ods reader and consumed by the ods
// writer. Everything the reader retains from the XML has a home in this
// package so that a document can be written back without loss.
//
// # Workbook Structure
//
// A [WorkBook] owns an ordered list of [Sheet] values together with the
// style catalogue of the document:
//
//	wb := model.NewWorkBook()
//	sh := model.NewSheet("Summary")
//	sh.SetValue(0, 0, model.TextValue("Total"))
//	sh.SetValue(0, 1, model.NumberValue(42))
//	wb.PushSheet(sh)
//
// Cells are stored sparsely. A missing cell is logically empty. Merged cells
// are recorded only on the anchor cell through its row and column span.
//
// # Values
//
// [Value] is a closed tagged union over the value types of the format:
// empty, text, number, date-time, duration, boolean, currency and
// percentage. Accessors never convert between variants.
//
// # Styles and Formats
//
// [Style], [ValueFormat], [FontDecl] and [PageLayout] keep their attributes
// in insertion-ordered [AttrMap] bags. Styles, formats and fonts remember the
// archive member they came from through their [StyleOrigin].
//
// # Preserved Markup
//
// [CompositVec] and [TextVec] are flat token sequences that keep arbitrary
// nested markup (header and footer regions, annotations, rich text) without
// a dedicated type per tag.
package model
