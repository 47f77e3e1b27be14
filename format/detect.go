// Package format provides file format detection for spreadsheet and office
// document archives.
package format

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// ODS indicates an OpenDocument Spreadsheet (.ods) document.
	ODS
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// ODP indicates an OpenDocument Presentation (.odp) document.
	ODP
	// ODG indicates an OpenDocument Drawing (.odg) document.
	ODG
	// XLSX indicates a Microsoft Excel (.xlsx) document.
	XLSX
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PPTX indicates a Microsoft PowerPoint (.pptx) document.
	PPTX
	// PDF indicates a PDF document.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case ODS:
		return "ODS"
	case ODT:
		return "ODT"
	case ODP:
		return "ODP"
	case ODG:
		return "ODG"
	case XLSX:
		return "XLSX"
	case DOCX:
		return "DOCX"
	case PPTX:
		return "PPTX"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case ODS:
		return ".ods"
	case ODT:
		return ".odt"
	case ODP:
		return ".odp"
	case ODG:
		return ".odg"
	case XLSX:
		return ".xlsx"
	case DOCX:
		return ".docx"
	case PPTX:
		return ".pptx"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// MimeType returns the media type stored in the mimetype member of an
// OpenDocument archive. It is empty for non OpenDocument formats.
func (f Format) MimeType() string {
	switch f {
	case ODS:
		return "application/vnd.oasis.opendocument.spreadsheet"
	case ODT:
		return "application/vnd.oasis.opendocument.text"
	case ODP:
		return "application/vnd.oasis.opendocument.presentation"
	case ODG:
		return "application/vnd.oasis.opendocument.graphics"
	default:
		return ""
	}
}

// IsOpenDocument reports whether f belongs to the OpenDocument family.
func (f Format) IsOpenDocument() bool {
	return f.MimeType() != ""
}

// Detect determines file format from filename extension. Templates map to
// their document format.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".ods", ".ots":
		return ODS
	case ".odt", ".ott":
		return ODT
	case ".odp", ".otp":
		return ODP
	case ".odg", ".otg":
		return ODG
	case ".xlsx":
		return XLSX
	case ".docx":
		return DOCX
	case ".pptx":
		return PPTX
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// FromMimeType maps an OpenDocument media type to its format. Template
// media types (for example "...spreadsheet-template") map to the document
// format.
func FromMimeType(mimeType string) Format {
	mimeType = strings.TrimSpace(mimeType)
	for _, f := range []Format{ODS, ODT, ODP, ODG} {
		if mimeType == f.MimeType() || mimeType == f.MimeType()+"-template" {
			return f
		}
	}
	return Unknown
}

// DetectFromMagic checks file magic bytes to determine format.
// ZIP based formats cannot be told apart by magic alone; use
// DetectFromReader for those.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// An OpenDocument archive stores its mimetype member first and
	// uncompressed, so the media type follows the first local header.
	if isZIPMagic(data) && len(data) >= 30 {
		nameLen := int(data[26]) | int(data[27])<<8
		extraLen := int(data[28]) | int(data[29])<<8
		start := 30 + nameLen + extraLen
		if nameLen == 8 && len(data) > start && string(data[30:38]) == "mimetype" {
			end := start
			for end < len(data) && isMimeChar(data[end]) {
				end++
			}
			if f := FromMimeType(string(data[start:end])); f != Unknown {
				return f
			}
		}
	}

	return Unknown
}

func isMimeChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || c == '.' || c == '-' || c == '/'
}

func isZIPMagic(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04
}

// DetectFromReader inspects the content to determine format.
// This is more reliable than extension-based detection and can
// distinguish between the ZIP-based formats.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 128)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if f := DetectFromMagic(magic); f != Unknown {
		return f, nil
	}

	if isZIPMagic(magic) {
		zr, err := zip.NewReader(r, size)
		if err != nil {
			return Unknown, err
		}
		return DetectFromZip(zr), nil
	}

	return Unknown, nil
}

// DetectFromZip inspects the members of an opened archive. An OpenDocument
// mimetype member wins over Office Open XML markers.
func DetectFromZip(zr *zip.Reader) Format {
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data := make([]byte, 256)
		n, _ := io.ReadFull(rc, data)
		rc.Close()
		if ft := FromMimeType(string(data[:n])); ft != Unknown {
			return ft
		}
		break
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX
		}
	}

	return Unknown
}
