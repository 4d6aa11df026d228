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
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	resolveNamespace string
	resolveTemplate  string
	resolveVars      []string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a template and print the merged result",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res, structural, resources, err := buildStack()
		if err != nil {
			return err
		}
		defer func() {
			if structural != nil {
				structural.Close()
			}
			resources.Close()
		}()

		variables, err := parseVars(resolveVars)
		if err != nil {
			return err
		}

		tmpl, err := res.LoadWithVariables(cmd.Context(), resolveNamespace, resolveTemplate, variables)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(tmpl)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveNamespace, "namespace", "", "namespace/tenant of the template")
	resolveCmd.Flags().StringVar(&resolveTemplate, "template", "", "template id to resolve")
	resolveCmd.Flags().StringArrayVar(&resolveVars, "var", nil, "variable in key=value form; dots in the key address nested maps (repeatable)")
	_ = resolveCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(resolveCmd)
}

// parseVars turns key=value pairs into the nested variable map the
// placeholder resolver walks. A key like "config.region" produces nested
// maps along the dots.
func parseVars(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	variables := make(map[string]any)
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		node := variables
		parts := strings.Split(key, ".")
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return variables, nil
}
