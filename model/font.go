package model

// FontDecl is a style:font-face declaration.
type FontDecl struct {
	Name   string
	Origin StyleOrigin
	Attrs  AttrMap // all attributes except style:name
}

// NewFontDecl creates a font declaration.
func NewFontDecl(name string, origin StyleOrigin) *FontDecl {
	return &FontDecl{Name: name, Origin: origin}
}
