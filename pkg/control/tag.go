package control

import (
	"html"
	"strings"
)

// Attr is a single HTML attribute. Attributes with an empty value are skipped
// when rendering, which is how optional and boolean attributes are expressed.
type Attr struct {
	Name  string
	Value string
}

// BoolAttr returns the conventional name="name" form for a boolean attribute
// when on is true, and an omitted attribute otherwise.
func BoolAttr(name string, on bool) Attr {
	if !on {
		return Attr{Name: name}
	}
	return Attr{Name: name, Value: name}
}

// RenderTag renders <tag attrs>content</tag>. Attribute values are escaped;
// content is written verbatim and must already be safe.
func RenderTag(tag string, attrs []Attr, content string) string {
	var b strings.Builder
	writeOpenTag(&b, tag, attrs)
	b.WriteString(content)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return b.String()
}

// RenderVoidTag renders an element without a closing tag, e.g. <input>.
func RenderVoidTag(tag string, attrs []Attr) string {
	var b strings.Builder
	writeOpenTag(&b, tag, attrs)
	return b.String()
}

// Escape is a shorthand for html.EscapeString.
func Escape(s string) string {
	return html.EscapeString(s)
}

func writeOpenTag(b *strings.Builder, tag string, attrs []Attr) {
	b.WriteByte('<')
	b.WriteString(tag)
	for _, attr := range attrs {
		if attr.Name == "" || attr.Value == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
}
