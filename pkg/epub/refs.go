package epub

import (
	"fmt"

	"github.com/novelbind/novelbind/pkg/xmlbuilder"
)

// Epub3Refs accumulates the <meta refines> refinement elements an EPUB 3
// metadata block carries for its dc:* tags. Each refined tag gets an id in
// the form id-000, id-001, ... allocated per package, so two packages built
// side by side never share a counter.
type Epub3Refs struct {
	counter int
	refs    []*xmlbuilder.Element
}

// NewEpub3Refs returns an empty refinement list.
func NewEpub3Refs() *Epub3Refs {
	return &Epub3Refs{}
}

// NextTagID allocates the id the next refined element should carry.
func (r *Epub3Refs) NextTagID() string {
	id := fmt.Sprintf("id-%03d", r.counter)
	r.counter++
	return id
}

// AddRef records a refinement of the element carrying tagID. Role
// refinements (aut, bkp) use the MARC relator vocabulary and carry its
// scheme attribute.
func (r *Epub3Refs) AddRef(refType, refProperty, tagID string) {
	el := xmlbuilder.NewElement("meta")
	el.SetAttr("property", refProperty)
	el.SetAttr("refines", "#"+tagID)
	if refType == "aut" || refType == "bkp" {
		el.SetAttr("scheme", "marc:relators")
	}
	el.SetText(refType)
	r.refs = append(r.refs, el)
}

// AppendTo adds the collected refinements to the metadata element in the
// order they were recorded.
func (r *Epub3Refs) AppendTo(metadata *xmlbuilder.Element) {
	for _, el := range r.refs {
		metadata.Append(el)
	}
}
