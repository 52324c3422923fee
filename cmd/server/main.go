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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/system/managers"
	"github.com/cookieconsent/consent-service/internal/system/schedulers"
)

const (
	configFile      = "repository/conf/deployment.yaml"
	shutdownTimeout = 15 * time.Second
)

func main() {
	consentHome := getConsentHome()

	envFiles, err := filepath.Glob(filepath.Join(consentHome, "config", "*.env"))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	consentConfig, err := config.LoadConfig(consentHome, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(consentHome, consentConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := log.InitWithFormat(consentConfig.Log.LogLevel, consentConfig.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := managers.BuildDependencies(ctx, consentConfig)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", log.Error(err))
	}
	defer deps.Close(context.Background())

	go schedulers.StartRetentionScheduler(ctx, deps.Settings, deps.ConsentLogs, deps.License,
		config.ParseDuration(consentConfig.Consent.RetentionSchedule, 24*time.Hour))

	serverAddr := fmt.Sprintf("%s:%d", consentConfig.Addr.Host, consentConfig.Addr.Port)
	handler := managers.WithTrace(managers.WithCORS(consentConfig.Auth.CORSAllowedOrigins,
		initMultiplexer(deps, consentConfig)))

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.String("address", serverAddr), log.Error(err))
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Consent service started", log.String("address", serverAddr))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve requests", log.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down consent service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", log.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer(deps *managers.Dependencies, cfg *config.Config) *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux, deps, cfg)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}

	return mux
}

func getConsentHome() string {

	// Parse project directory from command line arguments.
	projectHomeFlag := flag.String("consentHome", "", "Path to consent service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		return "."
	}
	return dir
}
