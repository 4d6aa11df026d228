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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/docgen/internal/templateloader"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, templateloader.SourceLocal, cfg.Templates.Source)
	assert.Equal(t, "doc-gen-service", cfg.Templates.Application)
	assert.Equal(t, "default", cfg.Templates.Profile)
	assert.Equal(t, "main", cfg.Templates.Label)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, uint64(1024), cfg.Cache.Capacity)

	assert.True(t, cfg.Warming.Enabled)
	assert.Empty(t, cfg.Warming.Scenarios)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCGEN_TEMPLATES_SOURCE", "remote")
	t.Setenv("DOCGEN_TEMPLATES_REMOTE_URI", "http://config-server:8888")
	t.Setenv("DOCGEN_CACHE_ENABLED", "false")
	t.Setenv("DOCGEN_CACHE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, templateloader.SourceRemote, cfg.Templates.Source)
	assert.Equal(t, "http://config-server:8888", cfg.Templates.RemoteURI)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
}
