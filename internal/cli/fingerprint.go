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

	"github.com/spf13/cobra"

	"github.com/cookieconsent/consent-service/internal/system/log"
)

func (a *app) fingerprintCommand() *cobra.Command {

	fingerprintCmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Inspect or lock the consent policy fingerprint",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective and computed fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := a.deps.Fingerprints.Status(cmd.Context(), a.deps.License.Current())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), status, func(w io.Writer) {
				fmt.Fprintf(w, "Effective: %s\n", status.Effective)
				fmt.Fprintf(w, "Computed:  %s\n", status.Computed)
				fmt.Fprintf(w, "Locked:    %t\n", status.Locked)
				if status.Drifted {
					fmt.Fprintln(w, "The live policy has drifted from the locked fingerprint.")
				}
			})
		},
	}

	lockCmd := &cobra.Command{
		Use:   "lock",
		Short: "Freeze the fingerprint at the current computed value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fingerprint, err := a.deps.Fingerprints.Lock(cmd.Context(), a.deps.License.Current())
			if err != nil {
				return err
			}
			a.audit(fingerprint, log.TargetTypeFingerprint, log.ActionLockFingerprint, nil)
			return a.print(cmd.OutOrStdout(), map[string]any{"fingerprint": fingerprint, "locked": true},
				func(w io.Writer) { fmt.Fprintf(w, "Fingerprint locked at %s\n", fingerprint) })
		},
	}

	unlockCmd := &cobra.Command{
		Use:   "unlock",
		Short: "Release the lock so the fingerprint tracks the live policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fingerprint, err := a.deps.Fingerprints.Unlock(cmd.Context(), a.deps.License.Current())
			if err != nil {
				return err
			}
			a.audit(fingerprint, log.TargetTypeFingerprint, log.ActionUnlockFingerprint, nil)
			return a.print(cmd.OutOrStdout(), map[string]any{"fingerprint": fingerprint, "locked": false},
				func(w io.Writer) { fmt.Fprintf(w, "Fingerprint unlocked, now %s\n", fingerprint) })
		},
	}

	fingerprintCmd.AddCommand(showCmd, lockCmd, unlockCmd)
	return fingerprintCmd
}
