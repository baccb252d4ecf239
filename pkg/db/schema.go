package db

import (
	_ "embed"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// EnsureSQLiteSchema enables foreign keys on the connection and creates any
// missing tables. Statements are idempotent.
func EnsureSQLiteSchema(conn *gorm.DB) error {
	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enabling sqlite foreign keys: %w", err)
	}
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("applying sqlite schema: %w", err)
		}
	}
	return nil
}
