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
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/cardinalhq/docgen/internal/templatecache"
	"github.com/cardinalhq/docgen/internal/templateloader"
	"github.com/cardinalhq/docgen/internal/warmer"
)

// Config aggregates configuration for the application.
// Each field is owned by its respective package.
type Config struct {
	Templates templateloader.Config `mapstructure:"templates"`
	Cache     templatecache.Config  `mapstructure:"cache"`
	Warming   warmer.Config         `mapstructure:"warming"`
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "DOCGEN" and the dot character in
// keys is replaced by an underscore. For example, "templates.remote_uri"
// becomes "DOCGEN_TEMPLATES_REMOTE_URI".
func Load() (*Config, error) {
	cfg := &Config{
		Templates: templateloader.DefaultConfig(),
		Cache:     templatecache.DefaultConfig(),
		Warming:   warmer.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName("docgen")
	v.AddConfigPath(".")
	v.SetEnvPrefix("DOCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Addr().Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
