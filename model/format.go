package model

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// FormatPartType identifies one element of a number format.
type FormatPartType int

const (
	PartBoolean FormatPartType = iota
	PartNumber
	PartScientific
	PartDay
	PartMonth
	PartYear
	PartEra
	PartDayOfWeek
	PartWeekOfYear
	PartQuarter
	PartHours
	PartMinutes
	PartSeconds
	PartFraction
	PartAmPm
	PartEmbeddedText
	PartTextContent
	PartCurrencySymbol
	PartText
	PartStyleMap
	PartTextProperties
	PartFillCharacter
)

var partTags = map[FormatPartType]string{
	PartBoolean:        "number:boolean",
	PartNumber:         "number:number",
	PartScientific:     "number:scientific-number",
	PartDay:            "number:day",
	PartMonth:          "number:month",
	PartYear:           "number:year",
	PartEra:            "number:era",
	PartDayOfWeek:      "number:day-of-week",
	PartWeekOfYear:     "number:week-of-year",
	PartQuarter:        "number:quarter",
	PartHours:          "number:hours",
	PartMinutes:        "number:minutes",
	PartSeconds:        "number:seconds",
	PartFraction:       "number:fraction",
	PartAmPm:           "number:am-pm",
	PartEmbeddedText:   "number:embedded-text",
	PartTextContent:    "number:text-content",
	PartCurrencySymbol: "number:currency-symbol",
	PartText:           "number:text",
	PartStyleMap:       "style:map",
	PartTextProperties: "style:text-properties",
	PartFillCharacter:  "number:fill-character",
}

// Tag returns the qualified element name of the part.
func (t FormatPartType) Tag() string {
	return partTags[t]
}

// HasContent reports whether parts of this type carry character data.
func (t FormatPartType) HasContent() bool {
	switch t {
	case PartCurrencySymbol, PartText, PartFillCharacter, PartEmbeddedText:
		return true
	}
	return false
}

// FormatPartTypeForTag maps an element name to its part type.
func FormatPartTypeForTag(tag string) (FormatPartType, bool) {
	for t, name := range partTags {
		if name == tag {
			return t, true
		}
	}
	return 0, false
}

// FormatPart is one element of a ValueFormat in rendering order.
type FormatPart struct {
	Type    FormatPartType
	Attrs   AttrMap
	Content string
}

// NewFormatPart creates a part of the given type.
func NewFormatPart(t FormatPartType) FormatPart {
	return FormatPart{Type: t}
}

// IsLong reports whether the part requests the long form via number:style.
func (p *FormatPart) IsLong() bool {
	v, _ := p.Attrs.Get("number:style")
	return v == "long"
}

// ValueFormat is a number:*-style declaration: a typed formatting rule made
// of ordered parts.
type ValueFormat struct {
	Name      string
	Origin    StyleOrigin
	Use       StyleUse
	ValueType ValueType
	Attrs     AttrMap // attributes of the outer element except style:name
	Parts     []FormatPart
}

// NewValueFormat creates an empty format.
func NewValueFormat(name string, vt ValueType, origin StyleOrigin, use StyleUse) *ValueFormat {
	return &ValueFormat{Name: name, ValueType: vt, Origin: origin, Use: use}
}

// ValueFormatTag returns the element name used for formats of type vt.
func ValueFormatTag(vt ValueType) string {
	switch vt {
	case ValueBoolean:
		return "number:boolean-style"
	case ValueDateTime:
		return "number:date-style"
	case ValueTimeDuration:
		return "number:time-style"
	case ValueCurrency:
		return "number:currency-style"
	case ValuePercentage:
		return "number:percentage-style"
	case ValueText:
		return "number:text-style"
	default:
		return "number:number-style"
	}
}

// ValueTypeForFormatTag maps a number:*-style element name to its value type.
func ValueTypeForFormatTag(tag string) (ValueType, bool) {
	switch tag {
	case "number:boolean-style":
		return ValueBoolean, true
	case "number:date-style":
		return ValueDateTime, true
	case "number:time-style":
		return ValueTimeDuration, true
	case "number:number-style":
		return ValueNumber, true
	case "number:currency-style":
		return ValueCurrency, true
	case "number:percentage-style":
		return ValuePercentage, true
	case "number:text-style":
		return ValueText, true
	}
	return ValueEmpty, false
}

// PushPart appends a part.
func (f *ValueFormat) PushPart(p FormatPart) {
	f.Parts = append(f.Parts, p)
}

// AddText appends a literal text part.
func (f *ValueFormat) AddText(s string) {
	p := NewFormatPart(PartText)
	p.Content = s
	f.PushPart(p)
}

// Locale returns the language tag from number:language and number:country.
// It returns language.Und when no language is declared or it does not parse.
func (f *ValueFormat) Locale() language.Tag {
	lang, ok := f.Attrs.Get("number:language")
	if !ok || lang == "" {
		return language.Und
	}
	if country, ok := f.Attrs.Get("number:country"); ok && country != "" {
		lang += "-" + country
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}

// FormatCode reconstructs a spreadsheet format code such as "YYYY-MM-DD" or
// "#,##0.00" from the parts in order. Style maps, text properties and
// embedded text do not contribute.
func (f *ValueFormat) FormatCode() string {
	var sb strings.Builder
	for i := range f.Parts {
		p := &f.Parts[i]
		switch p.Type {
		case PartBoolean:
			sb.WriteString("BOOLEAN")
		case PartNumber:
			writeNumberCode(&sb, p)
		case PartScientific:
			writeNumberCode(&sb, p)
			sb.WriteString("E+")
			sb.WriteString(strings.Repeat("0", attrInt(p, "number:min-exponent-digits", 2)))
		case PartFraction:
			sb.WriteString(strings.Repeat("#", attrInt(p, "number:min-integer-digits", 1)))
			sb.WriteString(" ")
			sb.WriteString(strings.Repeat("?", attrInt(p, "number:min-numerator-digits", 1)))
			sb.WriteString("/")
			if d, ok := p.Attrs.Get("number:denominator-value"); ok {
				sb.WriteString(d)
			} else {
				sb.WriteString(strings.Repeat("?", attrInt(p, "number:min-denominator-digits", 1)))
			}
		case PartDay:
			sb.WriteString(longShort(p, "DD", "D"))
		case PartMonth:
			if v, _ := p.Attrs.Get("number:textual"); v == "true" {
				sb.WriteString(longShort(p, "MMMM", "MMM"))
			} else {
				sb.WriteString(longShort(p, "MM", "M"))
			}
		case PartYear:
			sb.WriteString(longShort(p, "YYYY", "YY"))
		case PartEra:
			sb.WriteString(longShort(p, "GGG", "G"))
		case PartDayOfWeek:
			sb.WriteString(longShort(p, "NNNN", "NN"))
		case PartWeekOfYear:
			sb.WriteString("WW")
		case PartQuarter:
			sb.WriteString(longShort(p, "QQ", "Q"))
		case PartHours:
			sb.WriteString(longShort(p, "HH", "H"))
		case PartMinutes:
			sb.WriteString(longShort(p, "MM", "M"))
		case PartSeconds:
			sb.WriteString(longShort(p, "SS", "S"))
			if n := attrInt(p, "number:decimal-places", 0); n > 0 {
				sb.WriteString(".")
				sb.WriteString(strings.Repeat("0", n))
			}
		case PartAmPm:
			sb.WriteString("AM/PM")
		case PartTextContent:
			sb.WriteString("@")
		case PartCurrencySymbol:
			sb.WriteString(p.Content)
		case PartText:
			sb.WriteString(quoteLiteral(p.Content))
		case PartFillCharacter:
			if p.Content != "" {
				sb.WriteString("*")
				sb.WriteString(p.Content)
			}
		}
	}
	return sb.String()
}

func writeNumberCode(sb *strings.Builder, p *FormatPart) {
	minInt := attrInt(p, "number:min-integer-digits", 1)
	grouping, _ := p.Attrs.Get("number:grouping")
	if grouping == "true" {
		if minInt < 4 {
			sb.WriteString("#,")
			sb.WriteString(strings.Repeat("#", 3-minInt))
			sb.WriteString(strings.Repeat("0", minInt))
		} else {
			sb.WriteString(groupZeros(minInt))
		}
	} else {
		if minInt == 0 {
			sb.WriteString("#")
		}
		sb.WriteString(strings.Repeat("0", minInt))
	}
	if dp := attrInt(p, "number:decimal-places", 0); dp > 0 {
		sb.WriteString(".")
		sb.WriteString(strings.Repeat("0", dp))
	}
}

// groupZeros renders n zeros with a comma every three digits from the right.
func groupZeros(n int) string {
	var sb strings.Builder
	for i := n; i > 0; i-- {
		sb.WriteByte('0')
		if i > 1 && (i-1)%3 == 0 {
			sb.WriteByte(',')
		}
	}
	return sb.String()
}

func longShort(p *FormatPart, long, short string) string {
	if p.IsLong() {
		return long
	}
	return short
}

func attrInt(p *FormatPart, name string, def int) int {
	v, ok := p.Attrs.Get(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// quoteLiteral leaves separators bare and quotes anything that could be
// mistaken for a format token.
func quoteLiteral(s string) string {
	if s == "" {
		return ""
	}
	bare := true
	for _, r := range s {
		switch r {
		case ' ', '-', '/', ':', '.', ',', '(', ')', '%':
		default:
			bare = false
		}
	}
	if bare {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
