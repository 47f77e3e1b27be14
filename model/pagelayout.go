package model

// LayoutBag selects one of the property bags of a PageLayout.
type LayoutBag int

const (
	// LayoutProps is style:page-layout-properties.
	LayoutProps LayoutBag = iota
	// HeaderProps is style:header-footer-properties inside style:header-style.
	HeaderProps
	// FooterProps is style:header-footer-properties inside style:footer-style.
	FooterProps
)

// PageLayout is a style:page-layout together with the master page and the
// header and footer content that refer to it.
type PageLayout struct {
	Name           string
	Attrs          AttrMap // attributes of style:page-layout except style:name
	MasterPageName string

	Header     *HeaderFooter
	HeaderLeft *HeaderFooter
	Footer     *HeaderFooter
	FooterLeft *HeaderFooter

	props, header, footer AttrMap
}

// NewPageLayout creates a page layout.
func NewPageLayout(name string) *PageLayout {
	return &PageLayout{Name: name}
}

// Bag returns the property bag selected by b.
func (pl *PageLayout) Bag(b LayoutBag) *AttrMap {
	switch b {
	case HeaderProps:
		return &pl.header
	case FooterProps:
		return &pl.footer
	default:
		return &pl.props
	}
}

// SetProp stores a page-layout property.
func (pl *PageLayout) SetProp(name, value string) { pl.props.Set(name, value) }

// SetHeaderProp stores a header property.
func (pl *PageLayout) SetHeaderProp(name, value string) { pl.header.Set(name, value) }

// SetFooterProp stores a footer property.
func (pl *PageLayout) SetFooterProp(name, value string) { pl.footer.Set(name, value) }

// HFRegion names the four header/footer slots of a master page.
type HFRegion int

const (
	RegionHeader HFRegion = iota
	RegionHeaderLeft
	RegionFooter
	RegionFooterLeft
)

// HFRegions lists the slots in document order.
var HFRegions = []HFRegion{RegionHeader, RegionHeaderLeft, RegionFooter, RegionFooterLeft}

// Tag returns the qualified element name of the slot.
func (r HFRegion) Tag() string {
	switch r {
	case RegionHeaderLeft:
		return "style:header-left"
	case RegionFooter:
		return "style:footer"
	case RegionFooterLeft:
		return "style:footer-left"
	default:
		return "style:header"
	}
}

// HFRegionForTag maps an element name to its slot.
func HFRegionForTag(tag string) (HFRegion, bool) {
	for _, r := range HFRegions {
		if r.Tag() == tag {
			return r, true
		}
	}
	return 0, false
}

// Region returns the header/footer stored in slot r.
func (pl *PageLayout) Region(r HFRegion) *HeaderFooter {
	switch r {
	case RegionHeaderLeft:
		return pl.HeaderLeft
	case RegionFooter:
		return pl.Footer
	case RegionFooterLeft:
		return pl.FooterLeft
	default:
		return pl.Header
	}
}

// SetRegion stores hf in slot r.
func (pl *PageLayout) SetRegion(r HFRegion, hf *HeaderFooter) {
	switch r {
	case RegionHeaderLeft:
		pl.HeaderLeft = hf
	case RegionFooter:
		pl.Footer = hf
	case RegionFooterLeft:
		pl.FooterLeft = hf
	default:
		pl.Header = hf
	}
}

// HeaderFooter is the content of one header or footer slot. Either the three
// regions or the default content is normally used.
type HeaderFooter struct {
	Attrs   AttrMap // attributes of the slot element, e.g. style:display
	Left    *CompositVec
	Center  *CompositVec
	Right   *CompositVec
	Content CompositVec // non-region children, kept with their own tags
}

// NewHeaderFooter creates an empty header/footer.
func NewHeaderFooter() *HeaderFooter {
	return &HeaderFooter{}
}
