package ods

import (
	"strconv"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"

	"github.com/tsawler/odsheet/model"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// xmlBuf builds one archive member in a pooled buffer. Markup is streamed
// through an unindented xml.Writer: attributes stay in the order they are
// added and an element closed without content is written as an empty tag.
type xmlBuf struct {
	b *bytebufferpool.ByteBuffer
	w *xml.Writer
}

func newXMLBuf() *xmlBuf {
	b := bytebufferpool.Get()
	b.WriteString(xmlHeader)
	return &xmlBuf{b: b, w: xml.NewWriter(b, xml.WriterConfig{})}
}

// release returns the buffer to the pool. The buffer must not be used
// afterwards.
func (x *xmlBuf) release() {
	bytebufferpool.Put(x.b)
	x.b, x.w = nil, nil
}

// bytes returns the member once every element has been ended.
func (x *xmlBuf) bytes() []byte {
	return x.b.B
}

func (x *xmlBuf) start(name string) {
	x.w.OTag(xml.NameString(name))
}

func (x *xmlBuf) attr(name, value string) {
	x.w.Attr(xml.NameString(name), value)
}

// attrIf writes the attribute when value is not empty.
func (x *xmlBuf) attrIf(name, value string) {
	if value != "" {
		x.attr(name, value)
	}
}

// count writes a repeat or span attribute when n is above one.
func (x *xmlBuf) count(name string, n uint32) {
	if n > 1 {
		x.attr(name, strconv.FormatUint(uint64(n), 10))
	}
}

func (x *xmlBuf) attrs(m *model.AttrMap) {
	m.Range(func(name, value string) bool {
		x.attr(name, value)
		return true
	})
}

func (x *xmlBuf) text(s string) {
	if s == "" {
		return
	}
	x.w.Write(s)
}

func (x *xmlBuf) end() {
	x.w.CTag()
}

// empty writes an element with the given attributes and no content.
func (x *xmlBuf) empty(name string, m *model.AttrMap) {
	x.start(name)
	x.attrs(m)
	x.end()
}

// composit replays preserved markup. Closing tokens without a matching
// opening token are dropped and tags left open are closed.
func (x *xmlBuf) composit(cv *model.CompositVec) {
	depth := 0
	for _, c := range cv.Items() {
		switch c.Kind {
		case model.CompositStart:
			x.start(c.Tag.Name)
			x.attrs(&c.Tag.Attrs)
			depth++
		case model.CompositEmpty:
			x.empty(c.Tag.Name, &c.Tag.Attrs)
		case model.CompositText:
			x.text(c.Text)
		case model.CompositEnd:
			if depth > 0 {
				x.end()
				depth--
			}
		}
	}
	for ; depth > 0; depth-- {
		x.end()
	}
}
