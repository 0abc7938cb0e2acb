package xmlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementXML(t *testing.T) {
	t.Parallel()

	t.Run("empty element self-closes", func(t *testing.T) {
		assert.Equal(t, []byte("<test/>"), NewElement("test").XML())
	})

	t.Run("attributes keep insertion order", func(t *testing.T) {
		el := NewElement("test").SetAttr("test1", "abc").SetAttr("test2", "deF")
		assert.Equal(t, []byte(`<test test1="abc" test2="deF"/>`), el.XML())
	})

	t.Run("overwriting an attribute keeps its position", func(t *testing.T) {
		el := NewElement("meta").SetAttr("name", "cover").SetAttr("content", "x")
		el.SetAttr("name", "retitled")
		assert.Equal(t, []byte(`<meta name="retitled" content="x"/>`), el.XML())
	})

	t.Run("text content", func(t *testing.T) {
		el := CreateElement(nil, "sub-element", "This is my text")
		assert.Equal(t, []byte("<sub-element>This is my text</sub-element>"), el.XML())
	})

	t.Run("text and attributes", func(t *testing.T) {
		el := CreateElement(nil, "apple", "Created in 1872.",
			Attr{"colour", "red"}, Attr{"variety", "Red Delicious"})
		assert.Equal(t, []byte(`<apple colour="red" variety="Red Delicious">Created in 1872.</apple>`), el.XML())
	})

	t.Run("text is escaped", func(t *testing.T) {
		el := CreateElement(nil, "t", "a < b & c > d")
		assert.Equal(t, []byte("<t>a &lt; b &amp; c &gt; d</t>"), el.XML())
	})

	t.Run("attribute values escape quotes", func(t *testing.T) {
		el := NewElement("t").SetAttr("title", `say "hi" & go`)
		assert.Equal(t, []byte(`<t title="say &quot;hi&quot; &amp; go"/>`), el.XML())
	})
}

func TestDocumentBytes(t *testing.T) {
	t.Parallel()

	doc := NewDocument("create-element")
	CreateElement(doc.Root, "apple", "")
	expected := `<?xml version="1.0" encoding="utf-8"?><create-element><apple/></create-element>`
	assert.Equal(t, []byte(expected), doc.Bytes())
}
