package configsqlite

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// Struct is the config-file shape for an sqlite-backed store.
type Struct struct {
	File string `json:"file"`
}

// OpenDB opens the database file (":memory:" when File is empty) and
// applies the embedded schema.
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	dbpath := config.File
	if dbpath == "" {
		dbpath = ":memory:"
	}
	database, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return nil, err
	}
	return database, nil
}
