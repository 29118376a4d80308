// Package library implements the local fixture-definition library.
//
// It is a SQLite-backed cache of fixture profiles (manufacturer, model,
// operating modes with channel counts and per-offset channel types),
// seeded with a set of built-in definitions. The planner uses it to
// resolve a FixtureSpec's channel count when the caller didn't provide
// one, and create_fixture uses it to fill channel metadata on the
// upstream mutation. It never influences occupancy — the inventory
// service remains the only source of truth for what is patched.
package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Channel is one control channel of a mode, by offset.
type Channel struct {
	Offset int    `json:"offset"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// Mode is an operating mode of a fixture definition.
type Mode struct {
	Name         string    `json:"name"`
	ChannelCount int       `json:"channelCount"`
	IsDefault    bool      `json:"isDefault"`
	Channels     []Channel `json:"channels,omitempty"`
}

// Definition is a fixture profile.
type Definition struct {
	ID           string `json:"id"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Type         string `json:"type"`
	IsBuiltIn    bool   `json:"isBuiltIn"`
	Modes        []Mode `json:"modes"`
}

// Resolved pairs a definition with the mode selected for a spec.
type Resolved struct {
	Definition Definition
	Mode       Mode
}

// Config holds library store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig places the library database under ~/.lumecue.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".lumecue")}
}

// Store is the fixture-definition library backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens SQLite with WAL
// mode, runs migrations, and seeds the built-in definitions.
func Open(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("library: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "library.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("library: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("library: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("library: migration: %w", err)
	}
	if err := s.seedBuiltins(); err != nil {
		return nil, fmt.Errorf("library: seeding builtins: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS definitions (
			id           TEXT PRIMARY KEY,
			manufacturer TEXT NOT NULL,
			model        TEXT NOT NULL,
			type         TEXT NOT NULL,
			is_built_in  INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_def_make_model
			ON definitions(lower(manufacturer), lower(model));

		CREATE TABLE IF NOT EXISTS modes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			definition_id TEXT    NOT NULL,
			name          TEXT    NOT NULL,
			channel_count INTEGER NOT NULL,
			is_default    INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (definition_id) REFERENCES definitions(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_modes_definition ON modes(definition_id);

		CREATE TABLE IF NOT EXISTS mode_channels (
			mode_id INTEGER NOT NULL,
			offset  INTEGER NOT NULL,
			name    TEXT    NOT NULL,
			type    TEXT    NOT NULL,
			PRIMARY KEY (mode_id, offset),
			FOREIGN KEY (mode_id) REFERENCES modes(id) ON DELETE CASCADE
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// seedBuiltins upserts the bundled definitions. Re-seeding on every
// open keeps existing databases current after upgrades; user-added
// definitions are untouched.
func (s *Store) seedBuiltins() error {
	for _, def := range builtinDefinitions() {
		if err := s.Put(def); err != nil {
			return fmt.Errorf("seeding %s %s: %w", def.Manufacturer, def.Model, err)
		}
	}
	return nil
}

// Put inserts or replaces a definition with all its modes and channels.
func (s *Store) Put(def Definition) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Replace wholesale: a definition's modes are not independently
	// editable, so delete-and-reinsert is simpler than diffing.
	if _, err := tx.Exec(`DELETE FROM definitions WHERE id = ?`, def.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO definitions (id, manufacturer, model, type, is_built_in) VALUES (?, ?, ?, ?, ?)`,
		def.ID, def.Manufacturer, def.Model, def.Type, boolInt(def.IsBuiltIn),
	); err != nil {
		return err
	}

	for _, mode := range def.Modes {
		res, err := tx.Exec(
			`INSERT INTO modes (definition_id, name, channel_count, is_default) VALUES (?, ?, ?, ?)`,
			def.ID, mode.Name, mode.ChannelCount, boolInt(mode.IsDefault),
		)
		if err != nil {
			return err
		}
		modeID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, ch := range mode.Channels {
			if _, err := tx.Exec(
				`INSERT INTO mode_channels (mode_id, offset, name, type) VALUES (?, ?, ?, ?)`,
				modeID, ch.Offset, ch.Name, ch.Type,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Find returns the definition for a manufacturer/model pair, matched
// case-insensitively, or nil when the library doesn't know it.
func (s *Store) Find(manufacturer, model string) (*Definition, error) {
	row := s.db.QueryRow(
		`SELECT id, manufacturer, model, type, is_built_in
		 FROM definitions
		 WHERE lower(manufacturer) = lower(?) AND lower(model) = lower(?)`,
		strings.TrimSpace(manufacturer), strings.TrimSpace(model),
	)

	var def Definition
	var builtIn int
	if err := row.Scan(&def.ID, &def.Manufacturer, &def.Model, &def.Type, &builtIn); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("library: find definition: %w", err)
	}
	def.IsBuiltIn = builtIn != 0

	modes, err := s.loadModes(def.ID)
	if err != nil {
		return nil, err
	}
	def.Modes = modes
	return &def, nil
}

// Resolve selects the mode for a spec: the named mode when given, the
// default mode otherwise. Returns nil (not an error) when the library
// has no matching definition or mode — the caller falls back to its
// own defaults.
func (s *Store) Resolve(manufacturer, model, mode string) (*Resolved, error) {
	def, err := s.Find(manufacturer, model)
	if err != nil || def == nil {
		return nil, err
	}

	if mode == "" {
		for _, m := range def.Modes {
			if m.IsDefault {
				return &Resolved{Definition: *def, Mode: m}, nil
			}
		}
		if len(def.Modes) > 0 {
			return &Resolved{Definition: *def, Mode: def.Modes[0]}, nil
		}
		return nil, nil
	}

	for _, m := range def.Modes {
		if strings.EqualFold(m.Name, mode) {
			return &Resolved{Definition: *def, Mode: m}, nil
		}
	}
	return nil, nil
}

// List returns every definition, optionally filtered by manufacturer,
// ordered by manufacturer then model. Modes are loaded; use Find for a
// single definition.
func (s *Store) List(manufacturer string) ([]Definition, error) {
	query := `SELECT id, manufacturer, model, type, is_built_in FROM definitions`
	var args []any
	if manufacturer != "" {
		query += ` WHERE lower(manufacturer) = lower(?)`
		args = append(args, manufacturer)
	}
	query += ` ORDER BY lower(manufacturer), lower(model)`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("library: list definitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var defs []Definition
	for rows.Next() {
		var def Definition
		var builtIn int
		if err := rows.Scan(&def.ID, &def.Manufacturer, &def.Model, &def.Type, &builtIn); err != nil {
			return nil, err
		}
		def.IsBuiltIn = builtIn != 0
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range defs {
		modes, err := s.loadModes(defs[i].ID)
		if err != nil {
			return nil, err
		}
		defs[i].Modes = modes
	}
	return defs, nil
}

func (s *Store) loadModes(definitionID string) ([]Mode, error) {
	rows, err := s.db.Query(
		`SELECT id, name, channel_count, is_default FROM modes WHERE definition_id = ? ORDER BY id`,
		definitionID,
	)
	if err != nil {
		return nil, fmt.Errorf("library: load modes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type modeRow struct {
		id   int64
		mode Mode
	}
	var modeRows []modeRow
	for rows.Next() {
		var mr modeRow
		var isDefault int
		if err := rows.Scan(&mr.id, &mr.mode.Name, &mr.mode.ChannelCount, &isDefault); err != nil {
			return nil, err
		}
		mr.mode.IsDefault = isDefault != 0
		modeRows = append(modeRows, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	modes := make([]Mode, 0, len(modeRows))
	for _, mr := range modeRows {
		channels, err := s.loadChannels(mr.id)
		if err != nil {
			return nil, err
		}
		mr.mode.Channels = channels
		modes = append(modes, mr.mode)
	}
	return modes, nil
}

func (s *Store) loadChannels(modeID int64) ([]Channel, error) {
	rows, err := s.db.Query(
		`SELECT offset, name, type FROM mode_channels WHERE mode_id = ? ORDER BY offset`,
		modeID,
	)
	if err != nil {
		return nil, fmt.Errorf("library: load channels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var channels []Channel
	for rows.Next() {
		var ch Channel
		if err := rows.Scan(&ch.Offset, &ch.Name, &ch.Type); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
