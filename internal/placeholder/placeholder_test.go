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

package placeholder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	vars := map[string]any{
		"env": "prod",
		"config": map[string]any{
			"region": "us-east-1",
			"nested": map[string]any{
				"deep": "value",
			},
		},
		"count": 3,
	}

	tests := []struct {
		name     string
		text     string
		vars     map[string]any
		expected string
		errPath  string
	}{
		{
			name:     "single token",
			text:     "base-${env}",
			vars:     vars,
			expected: "base-prod",
		},
		{
			name:     "multiple tokens left to right",
			text:     "${env}/${config.region}.pdf",
			vars:     vars,
			expected: "prod/us-east-1.pdf",
		},
		{
			name:     "deep path",
			text:     "${config.nested.deep}",
			vars:     vars,
			expected: "value",
		},
		{
			name:     "non-string leaf formatted",
			text:     "v${count}",
			vars:     vars,
			expected: "v3",
		},
		{
			name:     "no tokens passes through with nil vars",
			text:     "static/path.pdf",
			vars:     nil,
			expected: "static/path.pdf",
		},
		{
			name:     "no tokens passes through with empty vars",
			text:     "static/path.pdf",
			vars:     map[string]any{},
			expected: "static/path.pdf",
		},
		{
			name:    "missing key",
			text:    "base-${missing}",
			vars:    vars,
			errPath: "missing",
		},
		{
			name:    "missing nested key",
			text:    "${config.absent}",
			vars:    vars,
			errPath: "config.absent",
		},
		{
			name:    "non-map intermediate",
			text:    "${env.deeper}",
			vars:    vars,
			errPath: "env.deeper",
		},
		{
			name:    "token with nil vars",
			text:    "${env}",
			vars:    nil,
			errPath: "env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.text, tt.vars)
			if tt.errPath != "" {
				var ue *UnresolvedError
				require.ErrorAs(t, err, &ue)
				assert.Equal(t, tt.errPath, ue.Path)
				assert.Equal(t, tt.text, ue.Text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.False(t, strings.Contains(got, "${"))
		})
	}
}

func TestResolve_AtomicFailure(t *testing.T) {
	// The first unresolved token fails the whole call; earlier resolved
	// tokens are not surfaced.
	vars := map[string]any{"a": "1"}
	got, err := Resolve("${a}-${b}", vars)
	require.Error(t, err)
	assert.Empty(t, got)
}

func TestResolve_NilLeaf(t *testing.T) {
	vars := map[string]any{"a": nil}
	_, err := Resolve("${a}", vars)
	var ue *UnresolvedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "a", ue.Path)
}

func TestLookup(t *testing.T) {
	vars := map[string]any{
		"a": map[string]any{"b": "x"},
	}

	v, ok := Lookup(vars, "a.b")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = Lookup(vars, "a.b.c")
	assert.False(t, ok, "string leaf is not traversable")

	_, ok = Lookup(nil, "a")
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("x${y}"))
	assert.False(t, Contains("xy"))
	assert.True(t, Contains("${"), "unterminated opener still counts")
}
