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

package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/docgen/config"
	"github.com/cardinalhq/docgen/internal/resolver"
	"github.com/cardinalhq/docgen/internal/templatecache"
	"github.com/cardinalhq/docgen/internal/templateloader"
)

var debugLogging bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Resolve document template definitions",
	Long:  `Resolve named, tenant-scoped document template definitions into fully merged templates ready for a rendering pipeline.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugLogging {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "enable debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// buildStack wires the loader, caches, and resolver from configuration.
func buildStack() (*config.Config, *resolver.Resolver, *templatecache.Structural, *templatecache.Resources, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	loader := templateloader.New(cfg.Templates)

	var structural *templatecache.Structural
	if cfg.Cache.Enabled {
		structural = templatecache.NewStructural(cfg.Cache)
	}
	resources := templatecache.NewResources(cfg.Cache, loader.ResourceBytes)

	var cache resolver.StructuralCache
	if structural != nil {
		cache = structural
	}
	return cfg, resolver.New(loader, cache), structural, resources, nil
}
