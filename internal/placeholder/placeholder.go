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

// Package placeholder substitutes ${a.b.c} tokens in strings by walking a
// nested variable map. It is pure string manipulation with no state; all
// functions are safe for concurrent use.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

// tokenPattern matches non-overlapping ${...} tokens. The grammar has no
// nesting or escaping.
var tokenPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// UnresolvedError reports the first token in a string that could not be
// resolved against the variable map. Resolution is atomic: earlier tokens
// in the same string are not surfaced partially resolved.
type UnresolvedError struct {
	Path string
	Text string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved placeholder %q in %q", e.Path, e.Text)
}

// Contains reports whether text has at least one ${ token opener.
func Contains(text string) bool {
	return strings.Contains(text, "${")
}

// Resolve replaces every ${path} token in text with the value found by
// walking variables along the dot-separated path. A string without tokens
// is returned unchanged, even when variables is nil or empty. The first
// missing key, non-map intermediate, or nil leaf fails the whole call.
func Resolve(text string, variables map[string]any) (string, error) {
	if !Contains(text) {
		return text, nil
	}

	var firstErr *UnresolvedError
	resolved := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		if firstErr != nil {
			return token
		}
		path := token[2 : len(token)-1]
		val, ok := Lookup(variables, path)
		if !ok {
			firstErr = &UnresolvedError{Path: path, Text: text}
			return token
		}
		return fmt.Sprintf("%v", val)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return resolved, nil
}

// Lookup walks variables along a dot-separated path, one key at a time.
// Only maps are traversable; list indexing is not supported. A nil leaf
// counts as unresolved.
func Lookup(variables map[string]any, path string) (any, bool) {
	if len(variables) == 0 {
		return nil, false
	}
	var current any = variables
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}
