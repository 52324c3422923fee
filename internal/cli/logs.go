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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

func (a *app) logsCommand() *cobra.Command {

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Maintain the consent log",
	}

	var days int
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete consent records older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan := a.deps.License.Current()
			retention := days
			if retention <= 0 {
				settings, err := a.deps.Settings.Effective(cmd.Context(), plan)
				if err != nil {
					return err
				}
				retention = settings.Int(constants.SettingLogRetentionDays)
			}
			result, err := a.deps.ConsentLogs.Prune(cmd.Context(), retention, plan)
			if err != nil {
				return err
			}
			a.audit("consent-logs", log.TargetTypeConsentLog, log.ActionPruneConsentLogs, result)
			return a.print(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %d records older than %d days\n", result.Deleted, result.RetentionDays)
			})
		},
	}
	pruneCmd.Flags().IntVar(&days, "days", 0, "retention in days (defaults to the log_retention_days setting)")

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the consent log as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			rows, err := a.deps.ConsentLogs.ExportCSV(cmd.Context(), out, a.deps.License.Current())
			if err != nil {
				return err
			}
			a.audit("consent-logs", log.TargetTypeConsentLog, log.ActionExportConsentLogs,
				map[string]int{"rows": rows})
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", rows, output)
			}
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	logsCmd.AddCommand(pruneCmd, exportCmd)
	return logsCmd
}
