package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{ODS, "ODS"},
		{ODT, "ODT"},
		{ODP, "ODP"},
		{ODG, "ODG"},
		{XLSX, "XLSX"},
		{DOCX, "DOCX"},
		{PPTX, "PPTX"},
		{PDF, "PDF"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{ODS, ".ods"},
		{ODT, ".odt"},
		{XLSX, ".xlsx"},
		{PDF, ".pdf"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"budget.ods", ODS},
		{"budget.ODS", ODS},
		{"template.ots", ODS},
		{"letter.odt", ODT},
		{"slides.odp", ODP},
		{"book.xlsx", XLSX},
		{"doc.docx", DOCX},
		{"deck.pptx", PPTX},
		{"paper.pdf", PDF},
		{"notes.txt", Unknown},
		{"noext", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Detect(tt.filename); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFromMimeType(t *testing.T) {
	tests := []struct {
		mime string
		want Format
	}{
		{"application/vnd.oasis.opendocument.spreadsheet", ODS},
		{"application/vnd.oasis.opendocument.spreadsheet-template", ODS},
		{"application/vnd.oasis.opendocument.text\n", ODT},
		{"application/vnd.oasis.opendocument.presentation", ODP},
		{"application/epub+zip", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := FromMimeType(tt.mime); got != tt.want {
			t.Errorf("FromMimeType(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
	if !ODS.IsOpenDocument() || XLSX.IsOpenDocument() {
		t.Error("IsOpenDocument mismatch")
	}
}

// createTestArchive builds an in-memory zip with the given members. The
// mimetype member, if present, is written first and stored.
func createTestArchive(t *testing.T, mimeType string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	if mimeType != "" {
		f, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
		if err != nil {
			t.Fatalf("creating mimetype: %v", err)
		}
		if _, err := f.Write([]byte(mimeType)); err != nil {
			t.Fatalf("writing mimetype: %v", err)
		}
	}
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromMagic(t *testing.T) {
	ods := createTestArchive(t, ODS.MimeType(), map[string]string{"content.xml": "<x/>"})

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.7"), PDF},
		{"ods archive", ods, ODS},
		{"plain zip", []byte{0x50, 0x4B, 0x03, 0x04, 0, 0}, Unknown},
		{"short", []byte("PK"), Unknown},
		{"text", []byte("hello world"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"ods", createTestArchive(t, ODS.MimeType(), map[string]string{"content.xml": "<x/>"}), ODS},
		{"odt", createTestArchive(t, ODT.MimeType(), nil), ODT},
		{"xlsx", createTestArchive(t, "", map[string]string{"[Content_Types].xml": "<x/>", "xl/workbook.xml": "<x/>"}), XLSX},
		{"docx", createTestArchive(t, "", map[string]string{"word/document.xml": "<x/>"}), DOCX},
		{"unknown zip", createTestArchive(t, "", map[string]string{"a.txt": "a"}), Unknown},
		{"pdf", []byte("%PDF-1.4 rest"), PDF},
		{"text", []byte("just text"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromZip(t *testing.T) {
	data := createTestArchive(t, ODS.MimeType()+"-template", map[string]string{"content.xml": "<x/>"})
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	if got := DetectFromZip(zr); got != ODS {
		t.Errorf("DetectFromZip() = %v, want ODS", got)
	}
}
