package epub

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novelbind/novelbind/pkg/xmlbuilder"
)

func TestEpub3RefsTagIDs(t *testing.T) {
	t.Parallel()
	refs := NewEpub3Refs()
	assert.Equal(t, "id-000", refs.NextTagID())
	assert.Equal(t, "id-001", refs.NextTagID())
	assert.Equal(t, "id-002", refs.NextTagID())
}

func TestEpub3RefsRelatorScheme(t *testing.T) {
	t.Parallel()
	refs := NewEpub3Refs()
	refs.AddRef("aut", "prop1", "id-001")
	refs.AddRef("bkp", "prop1", "id-001")
	refs.AddRef("main", "prop1", "id-001")

	metadata := xmlbuilder.NewElement("metadata")
	refs.AppendTo(metadata)

	assert.Equal(t,
		`<metadata>`+
			`<meta property="prop1" refines="#id-001" scheme="marc:relators">aut</meta>`+
			`<meta property="prop1" refines="#id-001" scheme="marc:relators">bkp</meta>`+
			`<meta property="prop1" refines="#id-001">main</meta>`+
			`</metadata>`,
		string(metadata.XML()))
}
