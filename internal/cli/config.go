/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cookieconsent/consent-service/internal/system/log"
)

func (a *app) configCommand() *cobra.Command {

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Read, change or export settings",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the configuration export document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.deps.Settings.Export(cmd.Context(), a.deps.License.Current())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting, or every setting when no key is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.deps.Settings.Effective(cmd.Context(), a.deps.License.Current())
			if err != nil {
				return err
			}
			raw := settings.Raw()
			if len(args) == 1 {
				value, ok := raw[args[0]]
				if !ok {
					return fmt.Errorf("unknown setting %q", args[0])
				}
				raw = map[string]interface{}{args[0]: value}
			}
			return a.print(cmd.OutOrStdout(), raw, func(w io.Writer) {
				keys := make([]string, 0, len(raw))
				for key := range raw {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					encoded, _ := json.Marshal(raw[key])
					fmt.Fprintf(w, "%s = %s\n", key, encoded)
				}
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting. The value is parsed as JSON when possible, else taken as a string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var input interface{}
			if err := json.Unmarshal([]byte(args[1]), &input); err != nil {
				input = args[1]
			}
			value, err := a.deps.Settings.Set(cmd.Context(), key, input, a.deps.License.Current())
			if err != nil {
				return err
			}
			a.audit(key, log.TargetTypeSetting, log.ActionUpdateSetting, nil)
			return a.print(cmd.OutOrStdout(), map[string]any{key: value}, func(w io.Writer) {
				encoded, _ := json.Marshal(value)
				fmt.Fprintf(w, "%s = %s\n", key, encoded)
			})
		},
	}

	configCmd.AddCommand(exportCmd, getCmd, setCmd)
	return configCmd
}
