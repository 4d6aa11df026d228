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

package warmer

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/docgen/internal/doctemplate"
)

type stubSource struct {
	templates map[string]*doctemplate.Template
	loads     []string
}

func sourceKey(namespace, templateID string) string {
	if namespace == "" {
		return templateID
	}
	return namespace + "/" + templateID
}

func (s *stubSource) Load(_ context.Context, templateID string) (*doctemplate.Template, error) {
	return s.get("", templateID)
}

func (s *stubSource) LoadNamespaced(_ context.Context, namespace, templateID string) (*doctemplate.Template, error) {
	return s.get(namespace, templateID)
}

func (s *stubSource) get(namespace, templateID string) (*doctemplate.Template, error) {
	key := sourceKey(namespace, templateID)
	s.loads = append(s.loads, key)
	tmpl, ok := s.templates[key]
	if !ok {
		return nil, doctemplate.NewLoadError(doctemplate.ErrTemplateNotFound, key, "template not found: "+key)
	}
	return tmpl, nil
}

type stubResources struct {
	mu      sync.Mutex
	fetched []string
	fail    map[string]error
}

func (s *stubResources) GetBytes(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[path]; ok {
		return nil, err
	}
	s.fetched = append(s.fetched, path)
	return []byte("data"), nil
}

func (s *stubResources) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.fetched...)
	sort.Strings(out)
	return out
}

func cachedEnrollment() *doctemplate.Template {
	tmpl := &doctemplate.Template{
		TemplateID: "enrollment",
		Sections: []*doctemplate.Section{
			{SectionID: "cover", TemplatePath: "cover.pdf", Order: 1},
			{SectionID: "body", TemplatePath: "${region}/body.ftl", Order: 2},
		},
	}
	tmpl.SetNamespace("tenant-a")
	return tmpl
}

func TestWarm_PreloadStrategies(t *testing.T) {
	source := &stubSource{templates: map[string]*doctemplate.Template{
		"plain": {TemplateID: "plain", Sections: []*doctemplate.Section{
			{SectionID: "s", TemplatePath: "s.pdf", Order: 1},
		}},
		"tenant-a/enrollment": cachedEnrollment(),
	}}
	resources := &stubResources{}

	w := New(Config{
		Enabled:           true,
		PreloadIDs:        []string{"plain"},
		PreloadNamespaces: map[string][]string{"tenant-a": {"enrollment"}},
	}, source, resources)

	require.NoError(t, w.Warm(context.Background()))
	assert.Equal(t, []string{"plain", "tenant-a/enrollment"}, source.loads)
	// Placeholder-bearing paths are skipped; namespaced paths resolve
	// against the template's namespace.
	assert.Equal(t, []string{"s.pdf", "tenant-a/templates/cover.pdf"}, resources.paths())
}

func TestWarm_ScenarioDoesNotMutateCachedTemplate(t *testing.T) {
	cached := cachedEnrollment()
	source := &stubSource{templates: map[string]*doctemplate.Template{
		"tenant-a/enrollment": cached,
	}}
	resources := &stubResources{}

	w := New(Config{
		Enabled: true,
		Scenarios: []Scenario{{
			Name:       "us-prod",
			Namespace:  "tenant-a",
			TemplateID: "enrollment",
			Variables:  map[string]any{"region": "us"},
		}},
	}, source, resources)

	require.NoError(t, w.Warm(context.Background()))

	assert.Equal(t, "${region}/body.ftl", cached.Sections[1].TemplatePath,
		"the shared instance keeps its placeholders after scenario warming")
	assert.Contains(t, resources.paths(), "tenant-a/templates/us/body.ftl",
		"the interpolated copy drives resource prefetch")
}

func TestWarm_ScenarioInterpolationOptOut(t *testing.T) {
	source := &stubSource{templates: map[string]*doctemplate.Template{
		"tenant-a/enrollment": cachedEnrollment(),
	}}
	resources := &stubResources{}
	off := false

	w := New(Config{
		Enabled: true,
		Scenarios: []Scenario{{
			Name:              "structural-only",
			Namespace:         "tenant-a",
			TemplateID:        "enrollment",
			Variables:         map[string]any{"region": "us"},
			InterpolateFields: &off,
		}},
	}, source, resources)

	require.NoError(t, w.Warm(context.Background()))
	assert.Equal(t, []string{"tenant-a/templates/cover.pdf"}, resources.paths(),
		"without interpolation the placeholder path stays skipped")
}

func TestWarm_PartialFailureCompletesRun(t *testing.T) {
	source := &stubSource{templates: map[string]*doctemplate.Template{
		"ok": {TemplateID: "ok", Sections: []*doctemplate.Section{
			{SectionID: "s", TemplatePath: "s.pdf", Order: 1},
		}},
	}}
	resources := &stubResources{}

	w := New(Config{
		Enabled:    true,
		PreloadIDs: []string{"missing", "ok"},
	}, source, resources)

	err := w.Warm(context.Background())
	require.Error(t, err, "the failure is reported")
	assert.Equal(t, []string{"missing", "ok"}, source.loads,
		"the failing entry does not stop the run")
	assert.Equal(t, []string{"s.pdf"}, resources.paths())
}

func TestWarm_ResourceFailureIsSwallowed(t *testing.T) {
	source := &stubSource{templates: map[string]*doctemplate.Template{
		"ok": {TemplateID: "ok", Sections: []*doctemplate.Section{
			{SectionID: "a", TemplatePath: "a.pdf", Order: 1},
			{SectionID: "b", TemplatePath: "b.pdf", Order: 2},
		}},
	}}
	resources := &stubResources{fail: map[string]error{
		"a.pdf": doctemplate.NewLoadError(doctemplate.ErrResourceRead, "a.pdf", "read failed"),
	}}

	w := New(Config{Enabled: true, PreloadIDs: []string{"ok"}}, source, resources)

	require.NoError(t, w.Warm(context.Background()),
		"resource prefetch failures never fail the run")
	assert.Equal(t, []string{"b.pdf"}, resources.paths())
}

func TestWarm_Disabled(t *testing.T) {
	source := &stubSource{templates: map[string]*doctemplate.Template{}}
	w := New(Config{Enabled: false, PreloadIDs: []string{"anything"}}, source, &stubResources{})

	require.NoError(t, w.Warm(context.Background()))
	assert.Empty(t, source.loads)
}

func TestWarm_NothingConfigured(t *testing.T) {
	source := &stubSource{templates: map[string]*doctemplate.Template{}}
	w := New(Config{Enabled: true}, source, &stubResources{})
	require.NoError(t, w.Warm(context.Background()))
	assert.Empty(t, source.loads)
}
