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

// Package doctemplate defines the document template model shared by the
// loader, resolver, caches, and warmer. Instances handed out by the
// structural cache are shared between callers; anything that needs to
// mutate one must call Clone first.
package doctemplate

// MetadataNamespaceKey is the metadata key under which the resolver records
// the namespace a template was loaded from, so that templates resolved
// deeper in a recursive load can recover their tenant context.
const MetadataNamespaceKey = "_namespace"

// SectionType identifies the renderer responsible for a section.
type SectionType string

const (
	SectionTypeFormFill     SectionType = "FORM_FILL"
	SectionTypeTextTemplate SectionType = "TEXT_TEMPLATE"
	SectionTypeSpreadsheet  SectionType = "SPREADSHEET"
)

// Template is a declarative description of one or more renderable sections.
// BaseTemplateID and IncludedFragments may carry ${...} placeholders and
// namespace-prefixed references ("ns:id") until the resolver has run.
type Template struct {
	TemplateID        string              `yaml:"templateId" json:"templateId" mapstructure:"templateId"`
	BaseTemplateID    string              `yaml:"baseTemplateId,omitempty" json:"baseTemplateId,omitempty" mapstructure:"baseTemplateId"`
	IncludedFragments []string            `yaml:"includedFragments,omitempty" json:"includedFragments,omitempty" mapstructure:"includedFragments"`
	ExcludedSections  []string            `yaml:"excludedSections,omitempty" json:"excludedSections,omitempty" mapstructure:"excludedSections"`
	SectionOverrides  map[string]string   `yaml:"sectionOverrides,omitempty" json:"sectionOverrides,omitempty" mapstructure:"sectionOverrides"`
	Sections          []*Section          `yaml:"sections" json:"sections" mapstructure:"sections"`
	HeaderFooter      *HeaderFooterConfig `yaml:"headerFooterConfig,omitempty" json:"headerFooterConfig,omitempty" mapstructure:"headerFooterConfig"`
	Config            map[string]any      `yaml:"config,omitempty" json:"config,omitempty" mapstructure:"config"`
	Metadata          map[string]any      `yaml:"metadata,omitempty" json:"metadata,omitempty" mapstructure:"metadata"`
}

// Section is one renderable unit. TemplatePath and Condition may contain
// ${...} placeholders; Condition is evaluated by the renderer, not here.
type Section struct {
	SectionID     string         `yaml:"sectionId" json:"sectionId" mapstructure:"sectionId"`
	Type          SectionType    `yaml:"type" json:"type" mapstructure:"type"`
	TemplatePath  string         `yaml:"templatePath,omitempty" json:"templatePath,omitempty" mapstructure:"templatePath"`
	MappingType   string         `yaml:"mappingType,omitempty" json:"mappingType,omitempty" mapstructure:"mappingType"`
	ViewModelType string         `yaml:"viewModelType,omitempty" json:"viewModelType,omitempty" mapstructure:"viewModelType"`
	Condition     string         `yaml:"condition,omitempty" json:"condition,omitempty" mapstructure:"condition"`
	Order         int            `yaml:"order" json:"order" mapstructure:"order"`
	FieldMappings []FieldMapping `yaml:"fieldMappings,omitempty" json:"fieldMappings,omitempty" mapstructure:"fieldMappings"`
}

// FieldMapping maps a runtime data path onto a renderer target field.
// The resolver treats these as opaque payload.
type FieldMapping struct {
	TargetField string `yaml:"targetField" json:"targetField" mapstructure:"targetField"`
	SourcePath  string `yaml:"sourcePath" json:"sourcePath" mapstructure:"sourcePath"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"`
}

// HeaderFooterConfig is inherited wholesale from a base template when the
// child supplies none; there is no field-level merge for this sub-object.
type HeaderFooterConfig struct {
	Headers []*HeaderFooterTemplate `yaml:"headers,omitempty" json:"headers,omitempty" mapstructure:"headers"`
	Footers []*HeaderFooterTemplate `yaml:"footers,omitempty" json:"footers,omitempty" mapstructure:"footers"`
}

// HeaderFooterTemplate is one stamped header or footer entry. Content may
// contain ${...} placeholders.
type HeaderFooterTemplate struct {
	Content  string `yaml:"content" json:"content" mapstructure:"content"`
	Position string `yaml:"position,omitempty" json:"position,omitempty" mapstructure:"position"`
}

// Namespace returns the namespace recorded in the template metadata, or ""
// when none has been recorded yet.
func (t *Template) Namespace() string {
	if t.Metadata == nil {
		return ""
	}
	ns, _ := t.Metadata[MetadataNamespaceKey].(string)
	return ns
}

// SetNamespace records the namespace this template was loaded from.
func (t *Template) SetNamespace(ns string) {
	if t.Metadata == nil {
		t.Metadata = make(map[string]any)
	}
	t.Metadata[MetadataNamespaceKey] = ns
}

// SectionByID returns the section with the given ID, or nil.
func (t *Template) SectionByID(id string) *Section {
	for _, s := range t.Sections {
		if s.SectionID == id {
			return s
		}
	}
	return nil
}
