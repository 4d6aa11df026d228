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
	"github.com/cardinalhq/docgen/internal/doctemplate"
	"github.com/cardinalhq/docgen/internal/placeholder"
)

// InterpolateFields substitutes placeholders in the template's section
// templatePath and condition fields and in header/footer content, writing
// resolved values back in place. Only fields that actually contain a token
// are touched. The template must NOT be a shared cached instance: callers
// holding one must interpolate a Clone.
func InterpolateFields(tmpl *doctemplate.Template, variables map[string]any) error {
	for _, section := range tmpl.Sections {
		if err := interpolateField(&section.TemplatePath, variables); err != nil {
			return err
		}
		if err := interpolateField(&section.Condition, variables); err != nil {
			return err
		}
	}
	if hf := tmpl.HeaderFooter; hf != nil {
		for _, entry := range hf.Headers {
			if err := interpolateField(&entry.Content, variables); err != nil {
				return err
			}
		}
		for _, entry := range hf.Footers {
			if err := interpolateField(&entry.Content, variables); err != nil {
				return err
			}
		}
	}
	return nil
}

func interpolateField(field *string, variables map[string]any) error {
	if !placeholder.Contains(*field) {
		return nil
	}
	resolved, err := resolveIdentifier(*field, variables)
	if err != nil {
		return err
	}
	*field = resolved
	return nil
}
