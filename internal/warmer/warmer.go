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

// Package warmer pre-populates the template and resource caches at startup
// so the first real request pays no I/O latency. A single failing entry is
// logged and skipped; the run never aborts.
package warmer

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/docgen/internal/doctemplate"
	"github.com/cardinalhq/docgen/internal/logctx"
	"github.com/cardinalhq/docgen/internal/nsresolve"
	"github.com/cardinalhq/docgen/internal/placeholder"
	"github.com/cardinalhq/docgen/internal/resolver"
)

// resourceConcurrency bounds parallel resource prefetches per template.
const resourceConcurrency = 4

// Scenario is one declarative warming entry: load a template, interpolate
// it with fixed variable values, and prefetch the resources the resolved
// section paths point at.
type Scenario struct {
	Name              string         `mapstructure:"name" yaml:"name"`
	Namespace         string         `mapstructure:"namespace" yaml:"namespace,omitempty"`
	TemplateID        string         `mapstructure:"templateId" yaml:"templateId"`
	Description       string         `mapstructure:"description" yaml:"description,omitempty"`
	Variables         map[string]any `mapstructure:"variables" yaml:"variables,omitempty"`
	InterpolateFields *bool          `mapstructure:"interpolateFields" yaml:"interpolateFields,omitempty"`
}

// interpolate reports whether the scenario wants field interpolation;
// defaults to true when unset.
func (s Scenario) interpolate() bool {
	return s.InterpolateFields == nil || *s.InterpolateFields
}

// label names the scenario in logs.
func (s Scenario) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.TemplateID
}

// Config holds the warming configuration: plain template preloads, per-
// namespace preloads, and variable-bearing scenarios.
type Config struct {
	Enabled           bool                `mapstructure:"enabled"`
	PreloadIDs        []string            `mapstructure:"preload_ids"`
	PreloadNamespaces map[string][]string `mapstructure:"preload_namespaces"`
	Scenarios         []Scenario          `mapstructure:"scenarios"`
}

// DefaultConfig returns the warmer defaults.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// TemplateSource is the slice of the resolver the warmer needs.
type TemplateSource interface {
	Load(ctx context.Context, templateID string) (*doctemplate.Template, error)
	LoadNamespaced(ctx context.Context, namespace, templateID string) (*doctemplate.Template, error)
}

// ResourceCache fetches and caches raw resource bytes by resolved path.
type ResourceCache interface {
	GetBytes(ctx context.Context, path string) ([]byte, error)
}

// Warmer drives the startup cache warming run.
type Warmer struct {
	cfg       Config
	templates TemplateSource
	resources ResourceCache
}

// New creates a Warmer.
func New(cfg Config, templates TemplateSource, resources ResourceCache) *Warmer {
	return &Warmer{cfg: cfg, templates: templates, resources: resources}
}

// Warm runs every configured preload and scenario in order. Failures are
// logged per entry and collected into the returned error; the run itself
// always completes.
func (w *Warmer) Warm(ctx context.Context) error {
	log := logctx.FromContext(ctx)
	if !w.cfg.Enabled {
		log.Info("Template cache warming skipped (disabled)")
		return nil
	}
	if len(w.cfg.PreloadIDs) == 0 && len(w.cfg.PreloadNamespaces) == 0 && len(w.cfg.Scenarios) == 0 {
		log.Info("Template cache warming skipped (nothing configured)")
		return nil
	}

	log.Info("Starting template cache warming")
	start := time.Now()

	var errs *multierror.Error

	for _, templateID := range w.cfg.PreloadIDs {
		if err := w.warmTemplate(ctx, "", templateID); err != nil {
			log.Error("Failed to warm template", "templateId", templateID, "error", err)
			errs = multierror.Append(errs, err)
		}
	}

	for namespace, templateIDs := range w.cfg.PreloadNamespaces {
		for _, templateID := range templateIDs {
			if err := w.warmTemplate(ctx, namespace, templateID); err != nil {
				log.Error("Failed to warm template",
					"namespace", namespace, "templateId", templateID, "error", err)
				errs = multierror.Append(errs, err)
			}
		}
	}

	for _, scenario := range w.cfg.Scenarios {
		if err := w.warmScenario(ctx, scenario); err != nil {
			log.Error("Failed to warm scenario",
				"scenario", scenario.label(), "templateId", scenario.TemplateID, "error", err)
			errs = multierror.Append(errs, err)
		}
	}

	log.Info("Template cache warming completed",
		"duration", time.Since(start), "failures", errs.ErrorOrNil() != nil)
	return errs.ErrorOrNil()
}

// warmTemplate loads one structural template (populating the structural
// cache as a side effect) and prefetches its referenced resources.
func (w *Warmer) warmTemplate(ctx context.Context, namespace, templateID string) error {
	tmpl, err := w.loadStructural(ctx, namespace, templateID)
	if err != nil {
		return err
	}
	logctx.FromContext(ctx).Info("Warmed template",
		"namespace", namespace, "templateId", templateID)
	w.warmResources(ctx, tmpl)
	return nil
}

// warmScenario loads the structural template, deep-copies it, interpolates
// the copy with the scenario variables, and prefetches resources from the
// resolved paths. The shared cache entry must never see the interpolated
// values.
func (w *Warmer) warmScenario(ctx context.Context, scenario Scenario) error {
	structural, err := w.loadStructural(ctx, scenario.Namespace, scenario.TemplateID)
	if err != nil {
		return err
	}

	resolved := structural.Clone()

	if scenario.interpolate() && len(scenario.Variables) > 0 {
		if err := resolver.InterpolateFields(resolved, scenario.Variables); err != nil {
			return err
		}
	}

	w.warmResources(ctx, resolved)

	logctx.FromContext(ctx).Info("Warmed scenario",
		"scenario", scenario.label(),
		"namespace", scenario.Namespace,
		"templateId", scenario.TemplateID)
	return nil
}

func (w *Warmer) loadStructural(ctx context.Context, namespace, templateID string) (*doctemplate.Template, error) {
	if namespace != "" {
		return w.templates.LoadNamespaced(ctx, namespace, templateID)
	}
	return w.templates.Load(ctx, templateID)
}

// warmResources eagerly fetches the bytes of every section whose template
// path is concrete (placeholder-free). A failing resource is logged and
// skipped.
func (w *Warmer) warmResources(ctx context.Context, tmpl *doctemplate.Template) {
	log := logctx.FromContext(ctx)
	ns := tmpl.Namespace()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resourceConcurrency)
	for _, section := range tmpl.Sections {
		path := section.TemplatePath
		if path == "" || placeholder.Contains(path) {
			continue
		}
		resolved := path
		if ns != "" {
			resolved = nsresolve.ResourcePath(path, ns)
		}
		g.Go(func() error {
			if _, err := w.resources.GetBytes(gctx, resolved); err != nil {
				log.Warn("Failed to warm resource", "path", resolved, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
