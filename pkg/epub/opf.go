package epub

import (
	"github.com/novelbind/novelbind/pkg/htmlutil"
	"github.com/novelbind/novelbind/pkg/novel"
	"github.com/novelbind/novelbind/pkg/xmlbuilder"
)

const contributorCredit = "novelbind [https://github.com/novelbind/novelbind]"

// generateContainerXML builds META-INF/container.xml, which exists only to
// point readers at the package document.
func generateContainerXML(pkg *Package) ([]byte, error) {
	doc := xmlbuilder.NewDocument("container")
	doc.Root.SetAttr("version", "1.0")
	doc.Root.SetAttr("xmlns", "urn:oasis:names:tc:opendocument:xmlns:container")
	rootfiles := xmlbuilder.CreateElement(doc.Root, "rootfiles", "")
	xmlbuilder.CreateElement(rootfiles, "rootfile", "",
		xmlbuilder.Attr{Name: "full-path", Value: pkg.opfPath()},
		xmlbuilder.Attr{Name: "media-type", Value: "application/oebps-package+xml"},
	)
	return doc.Bytes(), nil
}

// generatePackageOPF builds the package document: metadata, manifest, spine
// and guide, versioned for EPUB 2 or 3 depending on the package options.
func generatePackageOPF(pkg *Package) ([]byte, error) {
	doc := xmlbuilder.NewDocument("package")
	if pkg.IsEpub3() {
		doc.Root.SetAttr("version", "3.0")
	} else {
		doc.Root.SetAttr("version", "2.0")
	}
	doc.Root.SetAttr("xmlns", "http://www.idpf.org/2007/opf")
	doc.Root.SetAttr("unique-identifier", "novelbind-uid")

	doc.Root.Append(opfMetadata(pkg))
	doc.Root.Append(opfManifest(pkg))
	doc.Root.Append(opfSpine(pkg))
	if guide := opfGuide(pkg); guide != nil {
		doc.Root.Append(guide)
	}
	return doc.Bytes(), nil
}

func opfMetadata(pkg *Package) *xmlbuilder.Element {
	n := pkg.Novel
	metadata := xmlbuilder.NewElement("metadata")
	metadata.SetAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	metadata.SetAttr("xmlns:opf", "http://www.idpf.org/2007/opf")

	refs := NewEpub3Refs()

	xmlbuilder.CreateElement(metadata, "dc:identifier", pkg.UID(),
		xmlbuilder.Attr{Name: "id", Value: "novelbind-uid"})

	if n.Title != "" {
		tagID := refs.NextTagID()
		xmlbuilder.CreateElement(metadata, "dc:title", n.Title,
			xmlbuilder.Attr{Name: "id", Value: tagID})
		refs.AddRef("main", "title-type", tagID)
	}

	if n.Author != nil {
		tagID := refs.NextTagID()
		creator := xmlbuilder.CreateElement(metadata, "dc:creator", n.Author.Name)
		if pkg.IsEpub3() {
			creator.SetAttr("id", tagID)
		} else {
			creator.SetAttr("opf:role", "aut")
		}
		refs.AddRef("aut", "role", tagID)
	}

	tagID := refs.NextTagID()
	xmlbuilder.CreateElement(metadata, "dc:contributor", contributorCredit,
		xmlbuilder.Attr{Name: "id", Value: tagID})
	refs.AddRef("bkp", "role", tagID)

	xmlbuilder.CreateElement(metadata, "dc:language", pkg.Options.LanguageCode)

	if n.Summary != "" {
		summary := n.Summary
		if n.SummaryKind == novel.SummaryHTML {
			summary = htmlutil.StripTags(summary)
		}
		xmlbuilder.CreateElement(metadata, "dc:description", summary)
	}

	for _, genre := range n.Genres {
		xmlbuilder.CreateElement(metadata, "dc:subject", genre)
	}

	if pkg.IsEpub3() {
		xmlbuilder.CreateElement(metadata, "dc:identifier", "URL:"+n.URL)
	} else {
		xmlbuilder.CreateElement(metadata, "dc:identifier", n.URL,
			xmlbuilder.Attr{Name: "opf:scheme", Value: "URL"})
	}
	xmlbuilder.CreateElement(metadata, "dc:source", n.URL)

	if pkg.Options.IncludeImages && pkg.CoverImage() != nil {
		// Some broken readers require "name" before "content" here.
		xmlbuilder.CreateElement(metadata, "meta", "",
			xmlbuilder.Attr{Name: "name", Value: "cover"},
			xmlbuilder.Attr{Name: "content", Value: pkg.CoverImage().ID},
		)
	}

	if pkg.IsEpub3() {
		refs.AppendTo(metadata)
	}
	return metadata
}

func opfManifest(pkg *Package) *xmlbuilder.Element {
	manifest := xmlbuilder.NewElement("manifest")
	for _, f := range pkg.files.Files() {
		if !f.InManifest {
			continue
		}
		xmlbuilder.CreateElement(manifest, "item", "",
			xmlbuilder.Attr{Name: "id", Value: f.ID},
			xmlbuilder.Attr{Name: "href", Value: f.Filename},
			xmlbuilder.Attr{Name: "media-type", Value: f.MediaType},
		)
	}
	if pkg.IsEpub3() {
		xmlbuilder.CreateElement(manifest, "item", "",
			xmlbuilder.Attr{Name: "href", Value: "nav.xhtml"},
			xmlbuilder.Attr{Name: "id", Value: "nav"},
			xmlbuilder.Attr{Name: "media-type", Value: "application/xhtml+xml"},
			xmlbuilder.Attr{Name: "properties", Value: "nav"},
		)
	}
	return manifest
}

func opfSpine(pkg *Package) *xmlbuilder.Element {
	spine := xmlbuilder.NewElement("spine")
	spine.SetAttr("toc", "ncx")
	for _, f := range pkg.files.Files() {
		if !f.InSpine {
			continue
		}
		xmlbuilder.CreateElement(spine, "itemref", "",
			xmlbuilder.Attr{Name: "idref", Value: f.ID},
			xmlbuilder.Attr{Name: "linear", Value: "yes"},
		)
	}
	return spine
}

// opfGuide emits the legacy guide block pointing at the cover page. It only
// exists when images are on and a cover page made it into the package.
func opfGuide(pkg *Package) *xmlbuilder.Element {
	if !pkg.Options.IncludeImages || !pkg.files.Has(FileIDCoverPage) {
		return nil
	}
	coverPage, err := pkg.files.Get(FileIDCoverPage)
	if err != nil {
		return nil
	}
	guide := xmlbuilder.NewElement("guide")
	xmlbuilder.CreateElement(guide, "reference", "",
		xmlbuilder.Attr{Name: "type", Value: "cover"},
		xmlbuilder.Attr{Name: "title", Value: "Cover"},
		xmlbuilder.Attr{Name: "href", Value: coverPage.Filename},
	)
	return guide
}
