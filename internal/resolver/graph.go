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
	"context"
	"errors"
	"fmt"

	"github.com/cardinalhq/docgen/internal/doctemplate"
	"github.com/cardinalhq/docgen/internal/logctx"
	"github.com/cardinalhq/docgen/internal/nsresolve"
	"github.com/cardinalhq/docgen/internal/placeholder"
)

// loadState tracks the identifiers currently being loaded within one
// logical top-level request. It is threaded explicitly through every
// recursive call, so concurrent requests never observe each other's state
// and the resolver stays correct when a request hops goroutines.
type loadState struct {
	stack []string
	seen  map[string]struct{}
}

func newLoadState() *loadState {
	return &loadState{seen: make(map[string]struct{})}
}

// push registers an identifier as currently loading, failing when it is
// already on the stack.
func (st *loadState) push(resolvedID string) error {
	if _, loading := st.seen[resolvedID]; loading {
		return doctemplate.NewLoadError(doctemplate.ErrCircularReference, resolvedID,
			fmt.Sprintf("circular template reference detected: %q is already being loaded (currently loading: %v)",
				resolvedID, st.stack))
	}
	st.seen[resolvedID] = struct{}{}
	st.stack = append(st.stack, resolvedID)
	return nil
}

func (st *loadState) pop(resolvedID string) {
	delete(st.seen, resolvedID)
	if n := len(st.stack); n > 0 && st.stack[n-1] == resolvedID {
		st.stack = st.stack[:n-1]
	}
}

// loadPlain resolves a template without namespace context: identifier
// placeholder substitution, raw load, then inheritance and fragments, each
// consulted against the cache gate.
func (r *Resolver) loadPlain(ctx context.Context, st *loadState, templateID string, variables map[string]any) (tmpl *doctemplate.Template, err error) {
	resolvedID, err := resolveIdentifier(templateID, variables)
	if err != nil {
		return nil, err
	}
	if err := st.push(resolvedID); err != nil {
		return nil, err
	}
	defer st.pop(resolvedID)

	tmpl, err = r.loader.LoadRaw(ctx, resolvedID)
	if err != nil {
		return nil, err
	}

	if tmpl.BaseTemplateID != "" {
		resolvedBase, err := resolveIdentifier(tmpl.BaseTemplateID, variables)
		if err != nil {
			return nil, err
		}
		var base *doctemplate.Template
		if ShouldUseStructuralCache(variables, resolvedBase) {
			base, err = r.load(ctx, st, resolvedBase)
		} else {
			base, err = r.loadPlain(ctx, st, resolvedBase, variables)
		}
		if err != nil {
			return nil, err
		}
		tmpl = mergeTemplates(base, tmpl)
	}

	for _, fragmentID := range tmpl.IncludedFragments {
		resolvedFragment, err := resolveIdentifier(fragmentID, variables)
		if err != nil {
			return nil, err
		}
		var fragment *doctemplate.Template
		if ShouldUseStructuralCache(variables, resolvedFragment) {
			fragment, err = r.load(ctx, st, resolvedFragment)
		} else {
			fragment, err = r.loadPlain(ctx, st, resolvedFragment, variables)
		}
		if err != nil {
			return nil, err
		}
		tmpl = mergeTemplates(fragment, tmpl)
	}

	return tmpl, nil
}

// loadWithContext resolves a template while maintaining namespace context
// through inheritance and fragment composition. path is a storage path,
// possibly still containing placeholders.
func (r *Resolver) loadWithContext(ctx context.Context, st *loadState, path string, variables map[string]any, contextNS string) (tmpl *doctemplate.Template, err error) {
	resolvedID, err := resolveIdentifier(path, variables)
	if err != nil {
		return nil, err
	}
	if err := st.push(resolvedID); err != nil {
		return nil, err
	}
	defer st.pop(resolvedID)

	logctx.FromContext(ctx).Debug("Loading template", "resolvedId", resolvedID)

	tmpl, err = r.loader.LoadRaw(ctx, resolvedID)
	if err != nil {
		return nil, err
	}

	// Effective namespace for this node: caller context first, then the
	// template's own recorded namespace, then the conventional path shape.
	currentNS := contextNS
	if currentNS == "" {
		currentNS = tmpl.Namespace()
	}
	if currentNS == "" {
		currentNS = nsresolve.FromPath(resolvedID)
	}

	if tmpl.BaseTemplateID != "" {
		base, err := r.loadRelated(ctx, st, tmpl.BaseTemplateID, variables, currentNS)
		if err != nil {
			return nil, err
		}
		tmpl = mergeTemplates(base, tmpl)
	}

	// Fragments act as additional bases: they get the same merge semantics
	// as inheritance, not a bare section append.
	for _, fragmentID := range tmpl.IncludedFragments {
		fragment, err := r.loadRelated(ctx, st, fragmentID, variables, currentNS)
		if err != nil {
			return nil, err
		}
		tmpl = mergeTemplates(fragment, tmpl)
	}

	return tmpl, nil
}

// loadRelated loads a base or fragment reference from within a namespace
// context. The reference may carry a "common:" or "{ns}:" prefix; otherwise
// it resolves relative to the current namespace.
func (r *Resolver) loadRelated(ctx context.Context, st *loadState, ref string, variables map[string]any, currentNS string) (*doctemplate.Template, error) {
	resolvedRef, err := resolveIdentifier(ref, variables)
	if err != nil {
		return nil, err
	}

	effectiveNS := currentNS
	effectiveID := resolvedRef
	refPath := resolvedRef
	if ns, rest, ok := nsresolve.SplitRef(resolvedRef); ok {
		effectiveNS = ns
		effectiveID = rest
		refPath = nsresolve.TemplatePath(ns, rest)
	} else if currentNS != "" {
		refPath = nsresolve.TemplatePath(currentNS, resolvedRef)
	}

	if ShouldUseStructuralCache(variables, resolvedRef) {
		if effectiveNS != "" {
			return r.loadNamespaced(ctx, st, effectiveNS, effectiveID)
		}
		return r.load(ctx, st, effectiveID)
	}
	return r.loadWithContext(ctx, st, refPath, variables, currentNS)
}

// resolveIdentifier substitutes placeholders in a template identifier or
// path, mapping unresolved tokens onto the typed error taxonomy.
func resolveIdentifier(id string, variables map[string]any) (string, error) {
	resolved, err := placeholder.Resolve(id, variables)
	if err != nil {
		var ue *placeholder.UnresolvedError
		if errors.As(err, &ue) {
			return "", doctemplate.WrapLoadError(doctemplate.ErrUnresolvedPlaceholder, ue.Path,
				fmt.Sprintf("unresolved placeholder %q in %q", ue.Path, id), err)
		}
		return "", err
	}
	return resolved, nil
}
