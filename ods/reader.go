package ods

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/tsawler/odsheet/format"
	"github.com/tsawler/odsheet/internal/xmlevent"
	"github.com/tsawler/odsheet/model"
)

// Archive members read and written by this package.
const (
	memberMimetype = "mimetype"
	memberManifest = "META-INF/manifest.xml"
	memberContent  = "content.xml"
	memberStyles   = "styles.xml"
)

// ReadFile reads the spreadsheet stored at path. A nil opts uses
// DefaultReadOptions.
func ReadFile(path string, opts *ReadOptions) (*model.WorkBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ODS archive: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening ODS archive: %w", err)
	}

	wb, err := Read(f, fi.Size(), opts)
	if err != nil {
		return nil, err
	}
	wb.File = path
	return wb, nil
}

// Read reads a spreadsheet from an archive of the given size.
// content.xml is read before styles.xml; both must be present.
func Read(ra io.ReaderAt, size int64, opts *ReadOptions) (*model.WorkBook, error) {
	o := opts.clone()

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	if ft := format.DetectFromZip(zr); ft != format.Unknown && ft != format.ODS {
		return nil, fmt.Errorf("%w: archive holds %s", ErrNotSpreadsheet, ft)
	}

	content, err := findMember(zr, memberContent)
	if err != nil {
		return nil, err
	}
	styles, err := findMember(zr, memberStyles)
	if err != nil {
		return nil, err
	}

	wb := model.NewWorkBook()
	if err := readMember(wb, content, model.OriginContent, o); err != nil {
		return nil, err
	}
	if err := readMember(wb, styles, model.OriginStyles, o); err != nil {
		return nil, err
	}

	o.Logger.Debug("workbook read",
		zap.Int("sheets", wb.NumSheets()),
		zap.Int("styles", len(wb.Styles())),
		zap.Int("formats", len(wb.Formats())),
		zap.Int("fonts", len(wb.Fonts())),
		zap.Int("pageLayouts", len(wb.PageLayouts())),
	)
	return wb, nil
}

// findMember locates a member of the archive.
func findMember(zr *zip.Reader, name string) (*zip.File, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingMember, name)
}

// readMember parses one XML member into wb.
func readMember(wb *model.WorkBook, f *zip.File, origin model.StyleOrigin, o ReadOptions) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("reading %s: %w: %w", f.Name, ErrArchive, err)
	}
	defer rc.Close()

	log := o.Logger.With(zap.String("member", f.Name))
	log.Debug("reading member")

	p := &parser{
		events:  xmlevent.NewReader(rc),
		wb:      wb,
		origin:  origin,
		log:     log,
		dump:    o.DumpXML,
		lenient: o.Lenient,
	}

	if origin == model.OriginContent {
		err = p.readContent()
	} else {
		err = p.readStyles()
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.Name, err)
	}

	log.Debug("member done", zap.Int("events", p.count))
	return nil
}
