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

package provider

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/database/client"

	_ "github.com/lib/pq"
)

const dbTypePostgres = "postgres"

// DBConfig represents the local database configuration.
type DBConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
	GetDBType() string
}

// DBProvider is the implementation of DBProviderInterface. All clients share one connection pool.
type DBProvider struct{}

var (
	pool     *sql.DB
	poolErr  error
	poolOnce sync.Once
	poolMu   sync.Mutex
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// GetDBClient returns a database client backed by the shared pool.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	poolMu.Lock()
	defer poolMu.Unlock()
	poolOnce.Do(func() {
		dbConfig := getDBConfig(config.GetRuntime().Config)
		db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
		if err != nil {
			poolErr = fmt.Errorf("failed to connect to database: %v", err)
			return
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			poolErr = fmt.Errorf("failed to ping database: %v", err)
			return
		}
		pool = db
	})
	if poolErr != nil {
		return nil, poolErr
	}
	return client.NewDBClient(pool), nil
}

// GetDBType returns the key used to pick dialect specific queries.
func (d *DBProvider) GetDBType() string {
	return dbTypePostgres
}

// SetTestDB installs an already opened database as the shared pool.
func SetTestDB(db *sql.DB) {
	poolMu.Lock()
	defer poolMu.Unlock()
	poolOnce.Do(func() {})
	pool = db
	poolErr = nil
}

// Close releases the shared pool.
func Close() error {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool == nil {
		return nil
	}
	return pool.Close()
}

func getDBConfig(cfg config.Config) DBConfig {

	var dbConfig DBConfig

	dbConfig.driverName = dbTypePostgres
	dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DataSource.Hostname, cfg.DataSource.Port, cfg.DataSource.Username, cfg.DataSource.Password,
		cfg.DataSource.Name, cfg.DataSource.SSLMode)

	return dbConfig
}
