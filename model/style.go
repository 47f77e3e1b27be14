package model

// StyleOrigin names the archive member a style, format or font was declared
// in. The two members are separate name spaces.
type StyleOrigin int

const (
	// OriginContent is content.xml.
	OriginContent StyleOrigin = iota
	// OriginStyles is styles.xml.
	OriginStyles
)

// String returns the string representation of the origin.
func (o StyleOrigin) String() string {
	switch o {
	case OriginContent:
		return "content"
	case OriginStyles:
		return "styles"
	default:
		return "unknown"
	}
}

// StyleUse tells whether a style was declared in office:styles or in
// office:automatic-styles.
type StyleUse int

const (
	// UseNamed is a user visible style from office:styles.
	UseNamed StyleUse = iota
	// UseAutomatic is a generated style from office:automatic-styles.
	UseAutomatic
)

// String returns the string representation of the use.
func (u StyleUse) String() string {
	if u == UseAutomatic {
		return "automatic"
	}
	return "named"
}

// StyleFor is the style:family of a style. The four table families are
// interpreted; any other family is kept verbatim.
type StyleFor string

const (
	FamilyTable       StyleFor = "table"
	FamilyTableColumn StyleFor = "table-column"
	FamilyTableRow    StyleFor = "table-row"
	FamilyTableCell   StyleFor = "table-cell"
)

// PropGroup selects one of the property bags of a Style.
type PropGroup int

const (
	PropsTable PropGroup = iota
	PropsTableColumn
	PropsTableRow
	PropsTableCell
	PropsText
	PropsParagraph

	propGroupCount
)

// PropGroups lists all property groups in the order they are written.
var PropGroups = []PropGroup{
	PropsTable, PropsTableColumn, PropsTableRow, PropsTableCell, PropsParagraph, PropsText,
}

// Tag returns the qualified element name of the property group.
func (g PropGroup) Tag() string {
	switch g {
	case PropsTable:
		return "style:table-properties"
	case PropsTableColumn:
		return "style:table-column-properties"
	case PropsTableRow:
		return "style:table-row-properties"
	case PropsTableCell:
		return "style:table-cell-properties"
	case PropsText:
		return "style:text-properties"
	case PropsParagraph:
		return "style:paragraph-properties"
	default:
		return ""
	}
}

// PropGroupForTag maps a property element name to its group.
func PropGroupForTag(tag string) (PropGroup, bool) {
	for g := PropGroup(0); g < propGroupCount; g++ {
		if g.Tag() == tag {
			return g, true
		}
	}
	return 0, false
}

// Style is a style:style declaration. Parent styles are not resolved; the
// parent name is a back reference a consumer may follow.
type Style struct {
	Name        string
	Family      StyleFor
	Origin      StyleOrigin
	Use         StyleUse
	Parent      string
	ValueFormat string  // style:data-style-name, cell styles only
	Attrs       AttrMap // remaining attributes of style:style

	props [propGroupCount]*AttrMap
}

// NewStyle creates a style.
func NewStyle(name string, family StyleFor, origin StyleOrigin, use StyleUse) *Style {
	return &Style{Name: name, Family: family, Origin: origin, Use: use}
}

// NewCellStyle creates a named table-cell style in styles.xml.
func NewCellStyle(name, valueFormat string) *Style {
	s := NewStyle(name, FamilyTableCell, OriginStyles, UseNamed)
	s.ValueFormat = valueFormat
	return s
}

// Props returns the property bag for g, creating it when needed.
func (s *Style) Props(g PropGroup) *AttrMap {
	if s.props[g] == nil {
		s.props[g] = NewAttrMap()
	}
	return s.props[g]
}

// HasProps reports whether the bag for g holds any property.
func (s *Style) HasProps(g PropGroup) bool {
	return s.props[g].Len() > 0
}

// SetProp stores a property in the bag for g.
func (s *Style) SetProp(g PropGroup, name, value string) {
	s.Props(g).Set(name, value)
}

// Prop returns a property from the bag for g.
func (s *Style) Prop(g PropGroup, name string) (string, bool) {
	return s.props[g].Get(name)
}
