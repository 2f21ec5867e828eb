package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"filebulletin/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured database for the given driver type.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS areas (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				tag TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS files (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				area_tag TEXT NOT NULL,
				file_name TEXT NOT NULL,
				size INTEGER NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				sha256 TEXT NOT NULL DEFAULT '',
				crc32 TEXT NOT NULL DEFAULT '',
				md5 TEXT NOT NULL DEFAULT '',
				sha1 TEXT NOT NULL DEFAULT '',
				uploaded_by TEXT NOT NULL DEFAULT '',
				uploaded_at DATETIME NOT NULL,
				FOREIGN KEY(area_tag) REFERENCES areas(tag) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS file_tags (
				file_id INTEGER NOT NULL,
				tag TEXT NOT NULL,
				UNIQUE(file_id, tag),
				FOREIGN KEY(file_id) REFERENCES files(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS bulletins (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				channel TEXT NOT NULL,
				from_name TEXT NOT NULL,
				to_name TEXT NOT NULL,
				subject TEXT NOT NULL,
				body TEXT NOT NULL,
				body_encoding TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_files_area_uploaded ON files(area_tag, uploaded_at)`,
			`CREATE INDEX IF NOT EXISTS idx_bulletins_channel ON bulletins(channel)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS areas (
				id BIGINT PRIMARY KEY AUTO_INCREMENT,
				tag VARCHAR(64) NOT NULL UNIQUE,
				name VARCHAR(255) NOT NULL,
				description TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS files (
				id BIGINT PRIMARY KEY AUTO_INCREMENT,
				area_tag VARCHAR(64) NOT NULL,
				file_name VARCHAR(255) NOT NULL,
				size BIGINT NOT NULL,
				description TEXT,
				sha256 CHAR(64) NOT NULL DEFAULT '',
				crc32 CHAR(8) NOT NULL DEFAULT '',
				md5 CHAR(32) NOT NULL DEFAULT '',
				sha1 CHAR(40) NOT NULL DEFAULT '',
				uploaded_by VARCHAR(255) NOT NULL DEFAULT '',
				uploaded_at DATETIME NOT NULL,
				INDEX idx_files_area_uploaded (area_tag, uploaded_at)
			)`,
			`CREATE TABLE IF NOT EXISTS file_tags (
				file_id BIGINT NOT NULL,
				tag VARCHAR(64) NOT NULL,
				UNIQUE KEY uniq_file_tag (file_id, tag)
			)`,
			`CREATE TABLE IF NOT EXISTS bulletins (
				id BIGINT PRIMARY KEY AUTO_INCREMENT,
				channel VARCHAR(255) NOT NULL,
				from_name VARCHAR(255) NOT NULL,
				to_name VARCHAR(255) NOT NULL,
				subject VARCHAR(255) NOT NULL,
				body MEDIUMTEXT NOT NULL,
				body_encoding VARCHAR(32) NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				INDEX idx_bulletins_channel (channel)
			)`,
		}
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
