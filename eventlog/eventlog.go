// Package eventlog records button events and mode transitions to a sqlite
// database.  The device itself keeps no state across power loss; this log
// exists purely so that "it changed modes by itself at 3am" reports can be
// checked against what the buttons actually did.
package eventlog

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const initDatabase = `
CREATE TABLE IF NOT EXISTS button_event (date datetime not null, button text not null, held boolean not null);
CREATE TABLE IF NOT EXISTS mode_change (date datetime not null, mode text not null);
`

type DB struct {
	*sql.DB
}

func Open(filename string) (*DB, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(initDatabase); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// RecordButton logs one conditioned button pulse.
func (db *DB) RecordButton(button string, held bool) error {
	s, err := db.Prepare("insert into button_event values(?, ?, ?)")
	if err != nil {
		return err
	}
	defer s.Close()
	if _, err := s.Exec(time.Now(), button, held); err != nil {
		return err
	}
	return nil
}

// RecordMode logs a mode transition.
func (db *DB) RecordMode(mode string) error {
	s, err := db.Prepare("insert into mode_change values(?, ?)")
	if err != nil {
		return err
	}
	defer s.Close()
	if _, err := s.Exec(time.Now(), mode); err != nil {
		return err
	}
	return nil
}
