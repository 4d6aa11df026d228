// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package doctemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTemplate() *Template {
	return &Template{
		TemplateID:        "enrollment",
		BaseTemplateID:    "base-${env}",
		IncludedFragments: []string{"frag-a", "common:frag-b"},
		ExcludedSections:  []string{"legal"},
		SectionOverrides:  map[string]string{"cover": "alt-cover.pdf"},
		Sections: []*Section{
			{
				SectionID:    "cover",
				Type:         SectionTypeFormFill,
				TemplatePath: "${region}/cover.pdf",
				Condition:    "${data.hasCover}",
				Order:        1,
				FieldMappings: []FieldMapping{
					{TargetField: "name", SourcePath: "applicant.name"},
				},
			},
			{SectionID: "body", Type: SectionTypeTextTemplate, TemplatePath: "body.ftl", Order: 2},
		},
		HeaderFooter: &HeaderFooterConfig{
			Headers: []*HeaderFooterTemplate{{Content: "Plan ${planYear}", Position: "top-left"}},
			Footers: []*HeaderFooterTemplate{{Content: "Page ${page}", Position: "bottom-center"}},
		},
		Config: map[string]any{
			"pdf":  map[string]any{"compress": true},
			"tags": []any{"a", "b"},
		},
		Metadata: map[string]any{MetadataNamespaceKey: "tenant-a"},
	}
}

func TestClone_IndependentMutation(t *testing.T) {
	original := sampleTemplate()
	cloned := original.Clone()

	require.Equal(t, original, cloned)

	// Mutate every mutable reach of the clone; the original must keep its
	// pre-copy values byte for byte.
	cloned.Sections[0].TemplatePath = "us/cover.pdf"
	cloned.Sections[0].FieldMappings[0].TargetField = "changed"
	cloned.IncludedFragments[0] = "changed"
	cloned.ExcludedSections[0] = "changed"
	cloned.SectionOverrides["cover"] = "changed"
	cloned.HeaderFooter.Headers[0].Content = "changed"
	cloned.Config["pdf"].(map[string]any)["compress"] = false
	cloned.Config["tags"].([]any)[0] = "changed"
	cloned.Metadata[MetadataNamespaceKey] = "tenant-b"

	assert.Equal(t, "${region}/cover.pdf", original.Sections[0].TemplatePath)
	assert.Equal(t, "name", original.Sections[0].FieldMappings[0].TargetField)
	assert.Equal(t, "frag-a", original.IncludedFragments[0])
	assert.Equal(t, "legal", original.ExcludedSections[0])
	assert.Equal(t, "alt-cover.pdf", original.SectionOverrides["cover"])
	assert.Equal(t, "Plan ${planYear}", original.HeaderFooter.Headers[0].Content)
	assert.Equal(t, true, original.Config["pdf"].(map[string]any)["compress"])
	assert.Equal(t, "a", original.Config["tags"].([]any)[0])
	assert.Equal(t, "tenant-a", original.Namespace())
}

func TestClone_Nil(t *testing.T) {
	var tmpl *Template
	assert.Nil(t, tmpl.Clone())

	var hf *HeaderFooterConfig
	assert.Nil(t, hf.Clone())

	minimal := &Template{TemplateID: "x"}
	cloned := minimal.Clone()
	require.NotNil(t, cloned)
	assert.Nil(t, cloned.Sections)
	assert.Nil(t, cloned.HeaderFooter)
	assert.Nil(t, cloned.Metadata)
}

func TestNamespaceMetadata(t *testing.T) {
	tmpl := &Template{}
	assert.Empty(t, tmpl.Namespace())

	tmpl.SetNamespace("tenant-a")
	assert.Equal(t, "tenant-a", tmpl.Namespace())
}

func TestSectionByID(t *testing.T) {
	tmpl := sampleTemplate()
	require.NotNil(t, tmpl.SectionByID("body"))
	assert.Nil(t, tmpl.SectionByID("absent"))
}
