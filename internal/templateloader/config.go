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

import "time"

// Source selects where raw templates are loaded from. Exactly one strategy
// is active system-wide; there is no fallback chain between them.
type Source string

const (
	// SourceLocal searches an ordered list of filesystem candidates under
	// the configured root directory.
	SourceLocal Source = "local"
	// SourceRemote fetches templates from a centrally managed config
	// server over HTTP. When active, local files are never consulted.
	SourceRemote Source = "remote"
)

// Config holds the loader settings.
type Config struct {
	Source         Source        `mapstructure:"source"`
	LocalDir       string        `mapstructure:"local_dir"`
	RemoteURI      string        `mapstructure:"remote_uri"`
	Application    string        `mapstructure:"application"`
	Profile        string        `mapstructure:"profile"`
	Label          string        `mapstructure:"label"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
}

// DefaultConfig returns the loader defaults: local loading from the current
// directory, with the config-server identity fields preset for when remote
// mode is switched on.
func DefaultConfig() Config {
	return Config{
		Source:         SourceLocal,
		LocalDir:       ".",
		Application:    "doc-gen-service",
		Profile:        "default",
		Label:          "main",
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    15 * time.Second,
	}
}
