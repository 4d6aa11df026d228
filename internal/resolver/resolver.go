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

// Package resolver turns a named, possibly tenant-scoped template
// definition into a fully merged template: placeholder substitution of the
// identifier, base-template inheritance, fragment composition, and circular
// reference detection across the whole recursive load.
package resolver

import (
	"context"

	"github.com/cardinalhq/docgen/internal/doctemplate"
	"github.com/cardinalhq/docgen/internal/logctx"
	"github.com/cardinalhq/docgen/internal/nsresolve"
	"github.com/cardinalhq/docgen/internal/placeholder"
)

// Key identifies a structural cache entry. Namespace is empty for templates
// loaded through the namespace-free overload.
type Key struct {
	Namespace  string
	TemplateID string
}

// StructuralCache stores shared merged templates whose section fields may
// still contain ${...} placeholders. Entries are shared across all callers
// that hit the same key: anything retrieved from here must be treated as
// immutable until a completed Clone.
type StructuralCache interface {
	Get(key Key) (*doctemplate.Template, bool)
	Put(key Key, tmpl *doctemplate.Template)
}

// RawLoader locates and parses a single raw template document. The resolver
// drives all recursion itself.
type RawLoader interface {
	LoadRaw(ctx context.Context, resolvedID string) (*doctemplate.Template, error)
}

// Resolver resolves template graphs. Safe for concurrent use: the cycle
// detection state is scoped to each top-level call, never shared.
type Resolver struct {
	loader RawLoader
	cache  StructuralCache
}

// New creates a Resolver. cache may be nil, which disables structural
// caching entirely.
func New(loader RawLoader, cache StructuralCache) *Resolver {
	return &Resolver{loader: loader, cache: cache}
}

// ShouldUseStructuralCache reports whether a (variables, resolvedID) pair is
// safe to satisfy from the structural cache instead of re-entering the
// variable-aware recursive path. Both conditions must hold: an intent to
// pass variables is treated conservatively as "might matter", and an
// identifier with a remaining placeholder cannot be a valid cache key.
func ShouldUseStructuralCache(variables map[string]any, resolvedID string) bool {
	if resolvedID == "" {
		return false
	}
	return len(variables) == 0 && !placeholder.Contains(resolvedID)
}

// Load resolves a template with no namespace and no variables. The result
// may be a shared cached instance.
func (r *Resolver) Load(ctx context.Context, templateID string) (*doctemplate.Template, error) {
	return r.load(ctx, newLoadState(), templateID)
}

// LoadNamespaced resolves a template within a namespace with no variables.
// The result may be a shared cached instance.
func (r *Resolver) LoadNamespaced(ctx context.Context, namespace, templateID string) (*doctemplate.Template, error) {
	return r.loadNamespaced(ctx, newLoadState(), namespace, templateID)
}

// LoadWithVariables fully resolves a template: identifiers are substituted
// against variables during the recursive load, and, when variables is
// non-empty, section and header/footer placeholder fields are interpolated
// in the merged result. With an empty variable map and a placeholder-free
// identifier this behaves exactly like LoadNamespaced.
func (r *Resolver) LoadWithVariables(ctx context.Context, namespace, templateID string, variables map[string]any) (*doctemplate.Template, error) {
	if ShouldUseStructuralCache(variables, templateID) {
		return r.LoadNamespaced(ctx, namespace, templateID)
	}

	ns := nsresolve.Normalize(namespace)
	ctx = logctx.With(ctx, "namespace", ns, "templateId", templateID)
	path := nsresolve.TemplatePath(ns, templateID)

	tmpl, err := r.loadWithContext(ctx, newLoadState(), path, variables, ns)
	if err != nil {
		return nil, err
	}
	tmpl.SetNamespace(ns)
	if len(variables) > 0 {
		if err := InterpolateFields(tmpl, variables); err != nil {
			return nil, err
		}
	}
	return tmpl, nil
}

// load is the namespace-free structural path, shared by recursive
// base/fragment loads so that cycle detection spans cache-gated hops.
func (r *Resolver) load(ctx context.Context, st *loadState, templateID string) (*doctemplate.Template, error) {
	key := Key{TemplateID: templateID}
	if r.cache != nil {
		if tmpl, ok := r.cache.Get(key); ok {
			return tmpl, nil
		}
	}
	tmpl, err := r.loadPlain(ctx, st, templateID, nil)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Put(key, tmpl)
	}
	return tmpl, nil
}

// loadNamespaced is the namespace-scoped structural path.
func (r *Resolver) loadNamespaced(ctx context.Context, st *loadState, namespace, templateID string) (*doctemplate.Template, error) {
	ns := nsresolve.Normalize(namespace)
	key := Key{Namespace: ns, TemplateID: templateID}
	if r.cache != nil {
		if tmpl, ok := r.cache.Get(key); ok {
			return tmpl, nil
		}
	}

	ctx = logctx.With(ctx, "namespace", ns, "templateId", templateID)
	path := nsresolve.TemplatePath(ns, templateID)
	tmpl, err := r.loadWithContext(ctx, st, path, nil, ns)
	if err != nil {
		return nil, err
	}
	tmpl.SetNamespace(ns)
	if r.cache != nil {
		r.cache.Put(key, tmpl)
	}
	return tmpl, nil
}
