// Package xmlbuilder builds XML documents as explicit element trees and
// serializes them compactly. Attribute order is the order attributes were
// set, and element order is the order children were appended; both are part
// of the package's contract because some ereaders care about the exact byte
// layout of package documents.
package xmlbuilder

import (
	"bytes"
	"strings"
)

// Attr is a single name="value" attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node in the tree. Text and Children may both be set; Text is
// written before any children.
type Element struct {
	Name     string
	Text     string
	Attrs    []Attr
	Children []*Element
}

// NewElement returns an element with the given tag name.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// SetAttr sets an attribute, overwriting the value in place if the name was
// already set so the original position is preserved.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetAttrs sets attributes in the order given.
func (e *Element) SetAttrs(attrs []Attr) *Element {
	for _, a := range attrs {
		e.SetAttr(a.Name, a.Value)
	}
	return e
}

// SetText sets the element's text node.
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// Append adds child as the last child of e and returns child.
func (e *Element) Append(child *Element) *Element {
	e.Children = append(e.Children, child)
	return child
}

// CreateElement creates a named element, optionally with text and attributes,
// and appends it to parent when parent is non-nil.
func CreateElement(parent *Element, name string, text string, attrs ...Attr) *Element {
	el := NewElement(name).SetText(text).SetAttrs(attrs)
	if parent != nil {
		parent.Append(el)
	}
	return el
}

func (e *Element) write(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(a.Value))
		buf.WriteByte('"')
	}
	if e.Text == "" && len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	if e.Text != "" {
		buf.WriteString(EscapeText(e.Text))
	}
	for _, child := range e.Children {
		child.write(buf)
	}
	buf.WriteString("</")
	buf.WriteString(e.Name)
	buf.WriteByte('>')
}

// XML serializes the element without a document declaration.
func (e *Element) XML() []byte {
	var buf bytes.Buffer
	e.write(&buf)
	return buf.Bytes()
}

// Document is an XML document with a single root element.
type Document struct {
	Root *Element
}

// NewDocument returns a document whose root element has the given tag name.
func NewDocument(rootName string) *Document {
	return &Document{Root: NewElement(rootName)}
}

// Bytes serializes the document with an XML declaration and no added
// whitespace.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	d.Root.write(&buf)
	return buf.Bytes()
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeText escapes a string for use as XML character data.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
