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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/docgen/internal/warmer"
)

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Run the configured cache warming scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, res, structural, resources, err := buildStack()
		if err != nil {
			return err
		}
		defer func() {
			if structural != nil {
				structural.Close()
			}
			resources.Close()
		}()

		w := warmer.New(cfg.Warming, res, resources)
		if err := w.Warm(cmd.Context()); err != nil {
			// Warming is best-effort: report failures without failing
			// the command.
			slog.Error("Cache warming finished with failures", "error", err)
		}

		stats := map[string]any{"resources": resources.Stats()}
		if structural != nil {
			stats["structural"] = structural.Stats()
		}
		out, err := yaml.Marshal(stats)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(warmupCmd)
}
