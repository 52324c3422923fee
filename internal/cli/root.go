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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/system/managers"
)

const configFile = "repository/conf/deployment.yaml"

// DependencyBuilder wires the services the commands operate on.
type DependencyBuilder func(ctx context.Context, home string) (*managers.Dependencies, error)

type app struct {
	build      DependencyBuilder
	home       string
	jsonOutput bool
	deps       *managers.Dependencies
}

// NewRootCommand returns the consentctl command tree backed by build.
func NewRootCommand(build DependencyBuilder) *cobra.Command {

	a := &app{build: build}
	rootCmd := &cobra.Command{
		Use:   "consentctl",
		Short: "Administer the cookie consent service",
		Long: `consentctl works directly against the consent service storage. It can inspect and lock the
policy fingerprint, prune or export the consent log, and read or change settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := a.build(cmd.Context(), a.home)
			if err != nil {
				return err
			}
			a.deps = deps
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.deps != nil {
				a.deps.Close(cmd.Context())
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.home, "home", "", "consent service home directory (defaults to cwd)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(a.fingerprintCommand(), a.logsCommand(), a.configCommand())
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCommand(loadDependencies)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// loadDependencies reads the same configuration as the server. Logging is kept to warnings so command output
// stays clean.
func loadDependencies(ctx context.Context, home string) (*managers.Dependencies, error) {

	if home == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		home = dir
	}
	if envFiles, err := filepath.Glob(filepath.Join(home, "config", "*.env")); err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}
	cfg, err := config.LoadConfig(home, configFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := config.InitializeRuntime(home, cfg); err != nil {
		return nil, err
	}
	if err := log.InitWithFormat("WARN", cfg.Log.Format); err != nil {
		return nil, err
	}
	return managers.BuildDependencies(ctx, cfg)
}

// print writes v as indented JSON under --json and as text otherwise.
func (a *app) print(out io.Writer, v any, text func(w io.Writer)) error {
	if !a.jsonOutput {
		text(out)
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) audit(targetID, targetType, action string, data any) {
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   "consentctl",
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      targetID,
		TargetType:    targetType,
		ActionID:      action,
		Data:          data,
	})
}
