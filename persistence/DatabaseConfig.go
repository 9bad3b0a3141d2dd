package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv reads DATABASE_DRIVER (default mysql) and DATABASE_ARGS.
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driverType := os.Getenv("DATABASE_DRIVER")
	if driverType == "" {
		driverType = "mysql"
	}
	driverArgs := os.Getenv("DATABASE_ARGS")
	if driverArgs == "" {
		return nil, errors.New("environment variable DATABASE_ARGS is not set")
	}
	return &DatabaseConfig{DriverType: driverType, DriverArgs: driverArgs}, nil
}

// PrepareMysqlDatabase creates the database named in the DSN when it does not exist yet.
func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.LastIndex(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql driver args: " + driverArgs)
	}
	databaseName := driverArgs[idx+1:]
	if paramIdx := strings.Index(databaseName, "?"); paramIdx >= 0 {
		databaseName = databaseName[0:paramIdx]
	}
	if databaseName == "" {
		return errors.New("database name is not found in driver args")
	}

	db, err := sql.Open("mysql", driverArgs[0:idx+1])
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName + " CHARACTER SET utf8mb4")
	return err
}
