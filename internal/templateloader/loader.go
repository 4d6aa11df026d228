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

// Package templateloader locates and parses raw template documents from
// either local files or a remote config server, and serves the raw resource
// bytes referenced by template sections. Loaded templates have not yet
// undergone merge or interpolation; that is the resolver's job.
package templateloader

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/docgen/internal/doctemplate"
	"github.com/cardinalhq/docgen/internal/logctx"
)

// extensions is the ordered list of recognized template file extensions.
var extensions = []string{".yaml", ".yml", ".json"}

// Loader loads raw templates and resources according to its configured
// source strategy. Safe for concurrent use.
type Loader struct {
	cfg    Config
	client *http.Client
}

// New creates a Loader for the given configuration.
func New(cfg Config) *Loader {
	return &Loader{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
			},
			Timeout: cfg.ReadTimeout,
		},
	}
}

// LoadRaw locates and parses the template document for a fully resolved
// identifier. The identifier may be a bare id ("base-enrollment"), a path
// with extension, or a namespaced path ("tenant-a/templates/base.yaml").
func (l *Loader) LoadRaw(ctx context.Context, resolvedID string) (*doctemplate.Template, error) {
	if l.cfg.Source == SourceRemote {
		return l.loadRawRemote(ctx, resolvedID)
	}
	return l.loadRawLocal(ctx, resolvedID)
}

// ResourceBytes fetches the raw bytes of a resource (PDF, text template) at
// a fully resolved path.
func (l *Loader) ResourceBytes(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, doctemplate.NewLoadError(doctemplate.ErrInvalidPath, path,
			"resource path cannot be empty")
	}
	if l.cfg.Source == SourceRemote {
		return l.fetchRemote(ctx, path)
	}
	full := filepath.Join(l.cfg.LocalDir, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, doctemplate.WrapLoadError(doctemplate.ErrTemplateNotFound, path,
				fmt.Sprintf("resource not found: %s", path), err)
		}
		return nil, doctemplate.WrapLoadError(doctemplate.ErrResourceRead, path,
			fmt.Sprintf("failed to read resource: %s", path), err)
	}
	return data, nil
}

// loadRawLocal searches the ordered candidate paths under LocalDir and
// parses the first one that exists.
func (l *Loader) loadRawLocal(ctx context.Context, resolvedID string) (*doctemplate.Template, error) {
	for _, candidate := range candidatePaths(resolvedID) {
		full := filepath.Join(l.cfg.LocalDir, filepath.FromSlash(candidate))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		logctx.FromContext(ctx).Debug("Loading template from local file",
			"templateId", resolvedID, "path", full)
		return l.parseFile(candidate, full)
	}
	return nil, doctemplate.NewLoadError(doctemplate.ErrTemplateNotFound, resolvedID,
		fmt.Sprintf("template not found for id %q under %s", resolvedID, l.cfg.LocalDir))
}

// candidatePaths returns the ordered locations checked for a template id:
// as given, with the templates/ prefix, and with each known extension
// appended to either form.
func candidatePaths(templateID string) []string {
	candidates := []string{templateID, "templates/" + templateID}
	for _, ext := range extensions {
		candidates = append(candidates, templateID+ext, "templates/"+templateID+ext)
	}
	return candidates
}

// parseFile parses a template file, selecting the format by extension. An
// existing path with an unrecognized extension is a hard error.
func (l *Loader) parseFile(candidate, full string) (*doctemplate.Template, error) {
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, doctemplate.WrapLoadError(doctemplate.ErrResourceRead, candidate,
			fmt.Sprintf("failed to read template file: %s", full), err)
	}
	return parseTemplate(candidate, data)
}

func parseTemplate(path string, data []byte) (*doctemplate.Template, error) {
	var (
		tmpl doctemplate.Template
		err  error
	)
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		err = yaml.Unmarshal(data, &tmpl)
	case strings.HasSuffix(path, ".json"):
		err = json.Unmarshal(data, &tmpl)
	default:
		return nil, doctemplate.NewLoadError(doctemplate.ErrUnsupportedFormat, path,
			fmt.Sprintf("template path %q does not have a supported extension; use .json, .yaml, or .yml", path))
	}
	if err != nil {
		return nil, doctemplate.WrapLoadError(doctemplate.ErrTemplateParse, path,
			fmt.Sprintf("failed to parse template: %s", path), err)
	}
	return &tmpl, nil
}
