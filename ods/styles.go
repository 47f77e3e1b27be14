package ods

import (
	"strings"

	"github.com/tsawler/odsheet/internal/xmlevent"
	"github.com/tsawler/odsheet/model"
)

// readFonts reads office:font-face-decls. Each style:font-face becomes one
// FontDecl.
func (p *parser) readFonts() error {
	d := p.depth()
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return p.eof("office:font-face-decls")
		case xmlevent.Start, xmlevent.Empty:
			if ev.Name != "style:font-face" {
				if err := p.skip(ev); err != nil {
					return err
				}
				continue
			}
			font := model.NewFontDecl("", p.origin)
			font.Name, _ = ev.Attr("style:name")
			copyAttrs(&font.Attrs, ev, "style:name")
			// svg:font-face-src and friends are not kept.
			if err := p.skip(ev); err != nil {
				return err
			}
			p.wb.AddFont(font)
		case xmlevent.End:
			if p.depth() < d {
				return nil
			}
		}
	}
}

// readStyleSet reads office:styles or office:automatic-styles.
func (p *parser) readStyleSet(tag string, use model.StyleUse) error {
	d := p.depth()
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return p.eof(tag)
		case xmlevent.Start, xmlevent.Empty:
			if _, ok := model.ValueTypeForFormatTag(ev.Name); ok {
				err = p.readValueFormat(ev, use)
			} else {
				switch {
				case ev.Name == "style:style":
					err = p.readStyle(ev, use)
				case ev.Name == "style:page-layout" && use == model.UseAutomatic:
					err = p.readPageLayout(ev)
				default:
					err = p.skip(ev)
				}
			}
			if err != nil {
				return err
			}
		case xmlevent.End:
			if p.depth() < d {
				return nil
			}
		}
	}
}

// readStyle reads a style:style element and its property groups.
func (p *parser) readStyle(start xmlevent.Event, use model.StyleUse) error {
	st := model.NewStyle("", "", p.origin, use)
	for _, a := range start.Attrs {
		switch a.Name {
		case "style:name":
			st.Name = a.Value
		case "style:family":
			st.Family = model.StyleFor(a.Value)
		case "style:parent-style-name":
			st.Parent = a.Value
		case "style:data-style-name":
			st.ValueFormat = a.Value
		default:
			st.Attrs.Set(a.Name, a.Value)
		}
	}

	if start.Kind == xmlevent.Empty {
		p.wb.AddStyle(st)
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
		case xmlevent.Start, xmlevent.Empty:
			if g, ok := model.PropGroupForTag(ev.Name); ok {
				copyAttrs(st.Props(g), ev)
			}
		case xmlevent.End:
			if p.depth() < d {
				p.wb.AddStyle(st)
				return nil
			}
		}
	}
}

// readValueFormat reads one of the number:*-style elements.
func (p *parser) readValueFormat(start xmlevent.Event, use model.StyleUse) error {
	vt, _ := model.ValueTypeForFormatTag(start.Name)
	vf := model.NewValueFormat("", vt, p.origin, use)
	vf.Name, _ = start.Attr("style:name")
	copyAttrs(&vf.Attrs, start, "style:name")

	if start.Kind == xmlevent.Empty {
		p.wb.AddFormat(vf)
		return nil
	}

	// Parts with character data stay open until their end tag.
	var open *model.FormatPart

	d := p.depth()
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return p.eof(start.Name)
		case xmlevent.Start, xmlevent.Empty:
			pt, ok := model.FormatPartTypeForTag(ev.Name)
			if !ok {
				continue
			}
			part := model.NewFormatPart(pt)
			copyAttrs(&part.Attrs, ev)
			if pt.HasContent() && ev.Kind == xmlevent.Start {
				open = &part
				continue
			}
			vf.PushPart(part)
		case xmlevent.Text:
			if open != nil {
				open.Content += ev.Text
			}
		case xmlevent.End:
			if p.depth() < d {
				p.wb.AddFormat(vf)
				return nil
			}
			if open != nil && ev.Name == open.Type.Tag() {
				vf.PushPart(*open)
				open = nil
			}
		}
	}
}

// readPageLayout reads a style:page-layout element.
func (p *parser) readPageLayout(start xmlevent.Event) error {
	pl := model.NewPageLayout("")
	pl.Name, _ = start.Attr("style:name")
	copyAttrs(&pl.Attrs, start, "style:name")

	if start.Kind == xmlevent.Empty {
		p.addPageLayout(pl)
		return nil
	}

	var inHeader, inFooter bool

	d := p.depth()
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return p.eof(start.Name)
		case xmlevent.Start, xmlevent.Empty:
			switch ev.Name {
			case "style:page-layout-properties":
				copyAttrs(pl.Bag(model.LayoutProps), ev)
			case "style:header-style":
				inHeader = ev.Kind == xmlevent.Start
			case "style:footer-style":
				inFooter = ev.Kind == xmlevent.Start
			case "style:header-footer-properties":
				if inHeader {
					copyAttrs(pl.Bag(model.HeaderProps), ev)
				}
				if inFooter {
					copyAttrs(pl.Bag(model.FooterProps), ev)
				}
			}
		case xmlevent.End:
			if p.depth() < d {
				p.addPageLayout(pl)
				return nil
			}
			switch ev.Name {
			case "style:header-style":
				inHeader = false
			case "style:footer-style":
				inFooter = false
			}
		}
	}
}

// addPageLayout inserts pl, keeping the master page data of a stub created
// earlier under the same name.
func (p *parser) addPageLayout(pl *model.PageLayout) {
	if prev := p.wb.PageLayout(pl.Name); prev != nil {
		pl.MasterPageName = prev.MasterPageName
		for _, r := range model.HFRegions {
			if pl.Region(r) == nil {
				pl.SetRegion(r, prev.Region(r))
			}
		}
	}
	p.wb.AddPageLayout(pl)
}

// readMasterStyles reads office:master-styles.
func (p *parser) readMasterStyles() error {
	d := p.depth()
	for {
		ev, err := p.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlevent.EOF:
			return p.eof("office:master-styles")
		case xmlevent.Start, xmlevent.Empty:
			if ev.Name == "style:master-page" {
				err = p.readMasterPage(ev)
			} else {
				err = p.skip(ev)
			}
			if err != nil {
				return err
			}
		case xmlevent.End:
			if p.depth() < d {
				return nil
			}
		}
	}
}

// readMasterPage reads a style:master-page and attaches its name and header
// and footer regions to the page layout it references.
func (p *parser) readMasterPage(start xmlevent.Event) error {
	name, _ := start.Attr("style:name")
	layoutName, _ := start.Attr("style:page-layout-name")

	var regions [4]*model.HeaderFooter

	if start.Kind == xmlevent.Start {
		d := p.depth()
	loop:
		for {
			ev, err := p.next()
			if err != nil {
				return err
			}
			switch ev.Kind {
			case xmlevent.EOF:
				return p.eof(start.Name)
			case xmlevent.Start, xmlevent.Empty:
				r, ok := model.HFRegionForTag(ev.Name)
				if !ok {
					if err := p.skip(ev); err != nil {
						return err
					}
					continue
				}
				hf, err := p.readHeaderFooter(ev)
				if err != nil {
					return err
				}
				regions[r] = hf
			case xmlevent.End:
				if p.depth() < d {
					break loop
				}
			}
		}
	}

	pl := p.wb.PageLayout(layoutName)
	if pl == nil {
		pl = model.NewPageLayout(layoutName)
		p.wb.AddPageLayout(pl)
	}
	pl.MasterPageName = name
	for r, hf := range regions {
		if hf != nil {
			pl.SetRegion(model.HFRegion(r), hf)
		}
	}
	return nil
}

// readHeaderFooter reads style:header, style:footer and their -left
// variants. The three regions are kept apart; any other child is kept with
// its own tags in Content.
func (p *parser) readHeaderFooter(start xmlevent.Event) (*model.HeaderFooter, error) {
	hf := model.NewHeaderFooter()
	copyAttrs(&hf.Attrs, start)
	if start.Kind == xmlevent.Empty {
		return hf, nil
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
		case xmlevent.Start, xmlevent.Empty:
			switch ev.Name {
			case "style:region-left":
				hf.Left, err = p.readComposit(ev, false)
			case "style:region-center":
				hf.Center, err = p.readComposit(ev, false)
			case "style:region-right":
				hf.Right, err = p.readComposit(ev, false)
			default:
				var cv *model.CompositVec
				cv, err = p.readComposit(ev, true)
				hf.Content.Append(cv)
			}
			if err != nil {
				return nil, err
			}
		case xmlevent.Text:
			// indentation between paragraphs
			if strings.TrimSpace(ev.Text) != "" {
				hf.Content.Text(ev.Text)
			}
		case xmlevent.End:
			if p.depth() < d {
				return hf, nil
			}
		}
	}
}
