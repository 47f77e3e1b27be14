package ods

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/tsawler/odsheet/internal/xmlevent"
	"github.com/tsawler/odsheet/model"
)

// errStop ends a lenient read at a premature end of input. It never leaves
// the package.
var errStop = errors.New("ods: stop at end of input")

// parser reads one archive member into the workbook. Every sub-grammar is a
// method that is entered on a start tag and returns on the matching end tag.
type parser struct {
	events  *xmlevent.Reader
	wb      *model.WorkBook
	origin  model.StyleOrigin
	log     *zap.Logger
	dump    bool
	lenient bool
	count   int
}

// next returns the next event and classifies decoder failures.
func (p *parser) next() (xmlevent.Event, error) {
	ev, err := p.events.Next()
	if err != nil {
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			return ev, fmt.Errorf("%w: %w", ErrXML, err)
		}
		return ev, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	p.count++
	if p.dump {
		p.log.Debug("xml event",
			zap.Int("depth", p.events.Depth()),
			zap.Stringer("event", ev),
		)
	}
	return ev, nil
}

// depth returns the number of open elements.
func (p *parser) depth() int {
	return p.events.Depth()
}

// eof is called when the input ends inside the element named within.
func (p *parser) eof(within string) error {
	if p.lenient {
		p.log.Debug("document truncated", zap.String("within", within))
		return errStop
	}
	return fmt.Errorf("%w inside <%s>", ErrTruncated, within)
}

// finish maps the lenient stop to a clean end of the member.
func finish(err error) error {
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

// skip consumes the subtree of an element whose start tag was just read.
func (p *parser) skip(start xmlevent.Event) error {
	if start.Kind != xmlevent.Start {
		return nil
	}
	d := p.depth()
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return p.eof(start.Name)
		case xmlevent.End:
			if p.depth() < d {
				return nil
			}
		}
	}
}

// readCommon handles the children of the document root that both members
// share. It reports whether ev was one of them.
func (p *parser) readCommon(ev xmlevent.Event) (bool, error) {
	if ev.Kind != xmlevent.Start {
		return false, nil
	}
	switch ev.Name {
	case "office:font-face-decls":
		return true, p.readFonts()
	case "office:styles":
		return true, p.readStyleSet(ev.Name, model.UseNamed)
	case "office:automatic-styles":
		return true, p.readStyleSet(ev.Name, model.UseAutomatic)
	case "office:master-styles":
		return true, p.readMasterStyles()
	}
	return false, nil
}

// readStyles reads styles.xml.
func (p *parser) readStyles() error {
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		if ev.Kind == xmlevent.EOF {
			if p.depth() > 0 {
				return finish(p.eof("office:document-styles"))
			}
			return nil
		}
		if _, err := p.readCommon(ev); err != nil {
			return finish(err)
		}
	}
}

// copyAttrs copies every attribute of ev into dst except the skipped names.
func copyAttrs(dst *model.AttrMap, ev xmlevent.Event, skip ...string) {
attrs:
	for _, a := range ev.Attrs {
		for _, s := range skip {
			if a.Name == s {
				continue attrs
			}
		}
		dst.Set(a.Name, a.Value)
	}
}

func compositTag(ev xmlevent.Event) model.CompositTag {
	tag := model.CompositTag{Name: ev.Name}
	copyAttrs(&tag.Attrs, ev)
	return tag
}

// readComposit keeps the markup below start verbatim. With self set the
// start and end tags of the element itself are part of the result.
func (p *parser) readComposit(start xmlevent.Event, self bool) (*model.CompositVec, error) {
	cv := model.NewCompositVec()
	if start.Kind == xmlevent.Empty {
		if self {
			cv.Empty(compositTag(start))
		}
		return cv, nil
	}
	if self {
		cv.Start(compositTag(start))
	}

	d := p.depth()
	for {
		ev, err := p.next()
		if err != nil {
			return nil, err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return nil, p.eof(start.Name)
		case xmlevent.Start:
			cv.Start(compositTag(ev))
		case xmlevent.Empty:
			cv.Empty(compositTag(ev))
		case xmlevent.Text:
			cv.Text(ev.Text)
		case xmlevent.End:
			if p.depth() < d {
				if self {
					cv.End(start.Name)
				}
				return cv, nil
			}
			cv.End(ev.Name)
		}
	}
}

// parseCount reads a repeat or span attribute. Zero counts as one.
func parseCount(a xmlevent.Attr) (uint32, error) {
	n, err := strconv.ParseUint(a.Value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: attribute %s: %w", ErrInvalidDocument, a.Name, err)
	}
	return max(uint32(n), 1), nil
}

// addClamp adds n to v without wrapping around.
func addClamp(v, n uint32) uint32 {
	if v > ^uint32(0)-n {
		return ^uint32(0)
	}
	return v + n
}
