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

package templateloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cardinalhq/docgen/internal/doctemplate"
	"github.com/cardinalhq/docgen/internal/logctx"
)

// loadRawRemote fetches a template from the config server, trying the known
// extensions in order. The config server is the single source of truth:
// connectivity failures surface as CONFIG_SERVER_ERROR and never fall back
// to local files, so a tenant can never be served a stale local copy.
func (l *Loader) loadRawRemote(ctx context.Context, resolvedID string) (*doctemplate.Template, error) {
	for _, ext := range extensions {
		if strings.HasSuffix(resolvedID, ext) {
			data, err := l.fetchRemote(ctx, resolvedID)
			if err != nil {
				return nil, err
			}
			return parseTemplate(resolvedID, data)
		}
	}
	for _, ext := range extensions {
		path := resolvedID + ext
		data, err := l.fetchRemote(ctx, path)
		if err != nil {
			if doctemplate.IsKind(err, doctemplate.ErrTemplateNotFound) {
				continue
			}
			return nil, err
		}
		return parseTemplate(path, data)
	}
	return nil, doctemplate.NewLoadError(doctemplate.ErrTemplateNotFound, resolvedID,
		fmt.Sprintf("template not found for id %q on config server at %s", resolvedID, l.cfg.RemoteURI))
}

// fetchRemote retrieves raw bytes through the config server's plain-text
// API: {baseURI}/{application}/{profile}/{label}/{remainderOfPath}.
func (l *Loader) fetchRemote(ctx context.Context, path string) ([]byte, error) {
	url := l.remoteURL(path)
	logctx.FromContext(ctx).Debug("Fetching from config server", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, doctemplate.WrapLoadError(doctemplate.ErrInvalidPath, path,
			fmt.Sprintf("invalid config server URL: %s", url), err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		// Connection refusal and timeouts are the same failure class:
		// the declared source of truth is unreachable.
		return nil, doctemplate.WrapLoadError(doctemplate.ErrConfigServer, path,
			fmt.Sprintf("failed to contact config server at %s", l.cfg.RemoteURI), err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, doctemplate.NewLoadError(doctemplate.ErrTemplateNotFound, path,
			fmt.Sprintf("not found on config server: %s", path))
	case resp.StatusCode != http.StatusOK:
		return nil, doctemplate.NewLoadError(doctemplate.ErrConfigServer, path,
			fmt.Sprintf("config server returned status %d for %s", resp.StatusCode, path))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, doctemplate.WrapLoadError(doctemplate.ErrResourceRead, path,
			fmt.Sprintf("failed to read config server response for %s", path), err)
	}
	if len(data) == 0 {
		return nil, doctemplate.NewLoadError(doctemplate.ErrTemplateNotFound, path,
			fmt.Sprintf("empty response from config server for %s", path))
	}
	return data, nil
}

// remoteURL composes the config server request URL. A path of the
// conventional "{ns}/templates/..." shape uses the namespace as the config
// application and drops the prefix from the remainder; anything else is
// requested under the default application name.
func (l *Loader) remoteURL(path string) string {
	application := l.cfg.Application
	remainder := path
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 2 && parts[0] != "templates" && parts[0] != "" {
		application = parts[0]
		remainder = parts[1]
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimSuffix(l.cfg.RemoteURI, "/"), application, l.cfg.Profile, l.cfg.Label, remainder)
}
