package export

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sadopc/timemanager/internal/store"
	_ "modernc.org/sqlite"
)

const sqliteSchemaVersion = 1

const sqliteSchema = `
CREATE TABLE projects (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	weekly_hour_target REAL NOT NULL DEFAULT 0,
	priority           TEXT NOT NULL DEFAULT '',
	color_index        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE charge_code_splits (
	project_id TEXT NOT NULL,
	code       TEXT NOT NULL,
	percentage REAL NOT NULL
);

CREATE TABLE weeks (
	week_key   TEXT PRIMARY KEY,
	start_date TEXT NOT NULL
);

CREATE TABLE blocks (
	id         TEXT NOT NULL,
	week_key   TEXT NOT NULL REFERENCES weeks(week_key),
	project_id TEXT NOT NULL,
	day        TEXT NOT NULL,
	slot_index INTEGER NOT NULL,
	start_time TEXT NOT NULL,
	hours      REAL NOT NULL
);

CREATE INDEX idx_blocks_week    ON blocks(week_key);
CREATE INDEX idx_blocks_project ON blocks(project_id);

CREATE TABLE templates (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE template_blocks (
	template_id TEXT NOT NULL REFERENCES templates(id),
	project_id  TEXT NOT NULL,
	day         TEXT NOT NULL,
	slot_index  INTEGER NOT NULL
);

CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// ToSQLite writes data into a fresh SQLite database at path so planned time
// can be queried with SQL. An existing file at path is replaced. Project ids
// in blocks are not constrained, matching the data file.
func ToSQLite(data store.AppData, grid store.Grid, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove old export: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := insertAll(tx, data, grid); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertAll(tx *sql.Tx, data store.AppData, grid store.Grid) error {
	for _, p := range data.Projects {
		if _, err := tx.Exec(
			`INSERT INTO projects (id, name, weekly_hour_target, priority, color_index) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.WeeklyHourTarget, string(p.Priority), p.ColorIndex,
		); err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
		for _, s := range p.ChargeCodeSplits {
			if _, err := tx.Exec(
				`INSERT INTO charge_code_splits (project_id, code, percentage) VALUES (?, ?, ?)`,
				p.ID, s.Code, s.Percentage,
			); err != nil {
				return fmt.Errorf("insert charge code split: %w", err)
			}
		}
	}

	for _, w := range data.Weeks {
		if _, err := tx.Exec(`INSERT INTO weeks (week_key, start_date) VALUES (?, ?)`, w.WeekKey, w.StartDate); err != nil {
			return fmt.Errorf("insert week %s: %w", w.WeekKey, err)
		}
		for _, b := range w.Blocks {
			if _, err := tx.Exec(
				`INSERT INTO blocks (id, week_key, project_id, day, slot_index, start_time, hours) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				b.ID, w.WeekKey, b.ProjectID, b.Day, b.SlotIndex, grid.SlotLabel(int(b.SlotIndex)), grid.SlotHours(),
			); err != nil {
				return fmt.Errorf("insert block %s: %w", b.ID, err)
			}
		}
	}

	for _, t := range data.Templates {
		if _, err := tx.Exec(`INSERT INTO templates (id, name) VALUES (?, ?)`, t.ID, t.Name); err != nil {
			return fmt.Errorf("insert template %s: %w", t.ID, err)
		}
		for _, b := range t.Blocks {
			if _, err := tx.Exec(
				`INSERT INTO template_blocks (template_id, project_id, day, slot_index) VALUES (?, ?, ?, ?)`,
				t.ID, b.ProjectID, b.Day, b.SlotIndex,
			); err != nil {
				return fmt.Errorf("insert template block: %w", err)
			}
		}
	}

	_, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('weekly_hour_goal', ?)`, fmt.Sprintf("%g", data.WeeklyHourGoal))
	return err
}
