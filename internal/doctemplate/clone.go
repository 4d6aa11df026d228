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

// Clone returns a structural copy sharing no mutable state with the
// receiver. Every caller that wants to interpolate placeholders into a
// template obtained from the structural cache must go through here first;
// interpolation writes section fields in place.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	out := &Template{
		TemplateID:        t.TemplateID,
		BaseTemplateID:    t.BaseTemplateID,
		IncludedFragments: cloneStrings(t.IncludedFragments),
		ExcludedSections:  cloneStrings(t.ExcludedSections),
		SectionOverrides:  cloneStringMap(t.SectionOverrides),
		HeaderFooter:      t.HeaderFooter.Clone(),
		Config:            cloneAnyMap(t.Config),
		Metadata:          cloneAnyMap(t.Metadata),
	}
	if t.Sections != nil {
		out.Sections = make([]*Section, len(t.Sections))
		for i, s := range t.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a copy of the section with its own mapping slice.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := *s
	if s.FieldMappings != nil {
		out.FieldMappings = make([]FieldMapping, len(s.FieldMappings))
		copy(out.FieldMappings, s.FieldMappings)
	}
	return &out
}

// Clone returns a copy with freshly allocated header and footer entries.
func (h *HeaderFooterConfig) Clone() *HeaderFooterConfig {
	if h == nil {
		return nil
	}
	out := &HeaderFooterConfig{}
	if h.Headers != nil {
		out.Headers = make([]*HeaderFooterTemplate, len(h.Headers))
		for i, e := range h.Headers {
			c := *e
			out.Headers[i] = &c
		}
	}
	if h.Footers != nil {
		out.Footers = make([]*HeaderFooterTemplate, len(h.Footers))
		for i, e := range h.Footers {
			c := *e
			out.Footers[i] = &c
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// cloneAnyMap deep-copies nested maps and slices; scalar leaves are copied
// by value. Covers everything the YAML/JSON parsers produce.
func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneAnyMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneAny(e)
		}
		return out
	default:
		return v
	}
}
