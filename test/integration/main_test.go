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

//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/database/provider"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/test/setup"
)

var (
	pg  *setup.TestPostgres
	rdb *setup.TestRedis
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	conf := *config.Default()
	conf.Log.LogLevel = "DEBUG"
	config.OverrideRuntime(conf)
	_ = log.Init("DEBUG")

	var err error
	pg, err = setup.SetupTestPostgres(ctx)
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}
	rdb, err = setup.SetupTestRedis(ctx)
	if err != nil {
		fmt.Println("Failed to start test Redis:", err)
		pg.Terminate()
		os.Exit(1)
	}
	provider.SetTestDB(pg.DB)

	// Run tests
	code := m.Run()

	rdb.Terminate()
	pg.Terminate()
	os.Exit(code)
}

// resetTables empties the tables between tests. The tables may not exist yet on the first run.
func resetTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"consent_settings", "consent_logs"} {
		_, _ = pg.DB.Exec("DELETE FROM " + table)
	}
}
