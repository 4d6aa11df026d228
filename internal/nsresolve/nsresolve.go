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

// Package nsresolve maps (namespace, templateId) pairs to storage paths and
// resolves cross-namespace resource references. Pure functions over
// strings; no state, no caching.
package nsresolve

import "strings"

// DefaultNamespace is the tenant scope used when a request supplies none.
const DefaultNamespace = "common-templates"

// commonPrefix is the shorthand reference to the default namespace.
const commonPrefix = "common"

// templatesDir is the conventional folder under each namespace root.
const templatesDir = "templates"

// Normalize maps a missing or empty namespace to the default namespace and
// trims surrounding whitespace otherwise.
func Normalize(ns string) string {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

// TemplatePath returns the storage path for a template within a namespace:
// "{ns}/templates/{templateId}".
func TemplatePath(ns, templateID string) string {
	return Normalize(ns) + "/" + templatesDir + "/" + templateID
}

// ResourcePath resolves a resource reference against the current namespace.
// "common:rest" rewrites to the default namespace root, "{ns}:rest" to that
// namespace's root, and everything else resolves relative to currentNS.
func ResourcePath(path, currentNS string) string {
	if ns, rest, ok := SplitRef(path); ok {
		return TemplatePath(ns, rest)
	}
	return TemplatePath(currentNS, path)
}

// SplitRef parses a namespace-prefixed reference of the form "prefix:rest".
// The "common" prefix maps to the default namespace. Returns ok=false when
// the reference carries no prefix.
func SplitRef(ref string) (ns, rest string, ok bool) {
	idx := strings.Index(ref, ":")
	if idx < 0 {
		return "", ref, false
	}
	prefix := ref[:idx]
	rest = ref[idx+1:]
	if prefix == commonPrefix {
		return DefaultNamespace, rest, true
	}
	return Normalize(prefix), rest, true
}

// FromPath extracts the namespace from a conventional
// "{ns}/templates/..." path, or returns "" when the path does not match
// that shape.
func FromPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 2 && parts[1] == templatesDir {
		return parts[0]
	}
	return ""
}
