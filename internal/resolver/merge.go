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

package resolver

import (
	"sort"

	"github.com/cardinalhq/docgen/internal/doctemplate"
)

// mergeTemplates folds a base (or fragment) template into a child and
// returns the child. Base sections are cloned before use: the base may be a
// shared cached instance and must never be written through.
//
// Rules:
//   - base sections excluded by the child are dropped;
//   - a child section with a matching ID merges field-by-field over the
//     base section (child non-zero fields win);
//   - a legacy sectionOverrides entry replaces only the template path;
//   - remaining base sections are kept verbatim;
//   - child-only sections are appended in declaration order;
//   - the combined list is re-sorted by order, stable across ties;
//   - the base headerFooterConfig is inherited wholesale when the child
//     defines none.
func mergeTemplates(base, child *doctemplate.Template) *doctemplate.Template {
	excluded := make(map[string]struct{}, len(child.ExcludedSections))
	for _, id := range child.ExcludedSections {
		excluded[id] = struct{}{}
	}

	childByID := make(map[string]*doctemplate.Section, len(child.Sections))
	for _, s := range child.Sections {
		childByID[s.SectionID] = s
	}

	merged := make([]*doctemplate.Section, 0, len(base.Sections)+len(child.Sections))
	consumed := make(map[string]struct{})

	for _, baseSection := range base.Sections {
		id := baseSection.SectionID
		if _, drop := excluded[id]; drop {
			continue
		}
		section := baseSection.Clone()
		if childSection, ok := childByID[id]; ok {
			mergeSection(section, childSection)
			consumed[id] = struct{}{}
		} else if override, ok := child.SectionOverrides[id]; ok {
			section.TemplatePath = override
		}
		merged = append(merged, section)
	}

	// Child-only sections, keeping their declared relative order.
	for _, s := range child.Sections {
		if _, done := consumed[s.SectionID]; !done {
			merged = append(merged, s)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Order < merged[j].Order
	})
	child.Sections = merged

	if child.HeaderFooter == nil {
		child.HeaderFooter = base.HeaderFooter.Clone()
	}
	return child
}

// mergeSection overlays child fields onto dst: a set child field wins, an
// unset one inherits the base value already in dst.
func mergeSection(dst, child *doctemplate.Section) {
	if child.Type != "" {
		dst.Type = child.Type
	}
	if child.TemplatePath != "" {
		dst.TemplatePath = child.TemplatePath
	}
	if child.MappingType != "" {
		dst.MappingType = child.MappingType
	}
	if child.ViewModelType != "" {
		dst.ViewModelType = child.ViewModelType
	}
	if child.Condition != "" {
		dst.Condition = child.Condition
	}
	if child.Order != 0 {
		dst.Order = child.Order
	}
	if len(child.FieldMappings) > 0 {
		dst.FieldMappings = make([]doctemplate.FieldMapping, len(child.FieldMappings))
		copy(dst.FieldMappings, child.FieldMappings)
	}
}
