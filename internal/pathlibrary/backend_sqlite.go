package pathlibrary

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
	"unified-thinking/internal/types"
)

const reasoningPathsSchema = `
CREATE TABLE IF NOT EXISTS reasoning_paths (
    path_id TEXT PRIMARY KEY,
    path_type TEXT NOT NULL,
    description TEXT NOT NULL,
    prompt_template TEXT NOT NULL,
    strategy_id TEXT NOT NULL,
    instance_id TEXT,
    metadata_doc TEXT NOT NULL,
    is_learned INTEGER NOT NULL DEFAULT 0,
    learning_source TEXT,
    effectiveness_score REAL NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS reasoning_paths_strategy_idx ON reasoning_paths(strategy_id);
CREATE INDEX IF NOT EXISTS reasoning_paths_type_idx ON reasoning_paths(path_type);
CREATE INDEX IF NOT EXISTS reasoning_paths_created_idx ON reasoning_paths(created_at);
`

// sqliteBackend persists the library in the embedded relational store named
// in spec §4.1: one table keyed by path_id, metadata serialized as a nested
// JSON document in a single column.
type sqliteBackend struct {
	db *sql.DB
}

// newSQLiteBackend opens (creating if absent) the reasoning_paths database
// at dsn and ensures its schema exists.
func newSQLiteBackend(dsn string) (*sqliteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("pathlibrary: opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pathlibrary: pinging sqlite db: %w", err)
	}
	if _, err := db.Exec(reasoningPathsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pathlibrary: initializing schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Load() (map[string]*types.ReasoningPath, error) {
	rows, err := b.db.Query(`SELECT path_id, path_type, description, prompt_template, strategy_id, instance_id, metadata_doc FROM reasoning_paths`)
	if err != nil {
		return nil, fmt.Errorf("pathlibrary: querying reasoning_paths: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*types.ReasoningPath)
	for rows.Next() {
		var (
			id, pathType, description, promptTemplate, strategyID, metadataDoc string
			instanceID                                                          sql.NullString
		)
		if err := rows.Scan(&id, &pathType, &description, &promptTemplate, &strategyID, &instanceID, &metadataDoc); err != nil {
			return nil, fmt.Errorf("pathlibrary: scanning row: %w", err)
		}

		var meta types.PathMetadata
		if err := json.Unmarshal([]byte(metadataDoc), &meta); err != nil {
			log.Printf("[WARN] pathlibrary: skipping malformed metadata for %s: %v", id, err)
			continue
		}

		out[id] = &types.ReasoningPath{
			PathID:         id,
			PathType:       pathType,
			Description:    description,
			PromptTemplate: promptTemplate,
			StrategyID:     strategyID,
			InstanceID:     instanceID.String,
			Metadata:       meta,
		}
	}
	return out, rows.Err()
}

// Save overwrites the table contents to reflect the given snapshot, inside
// one transaction to keep the write-through persistence atomic.
func (b *sqliteBackend) Save(paths map[string]*types.ReasoningPath) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("pathlibrary: starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op if committed

	if _, err := tx.Exec(`DELETE FROM reasoning_paths`); err != nil {
		return fmt.Errorf("pathlibrary: clearing table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO reasoning_paths
		(path_id, path_type, description, prompt_template, strategy_id, instance_id, metadata_doc, is_learned, learning_source, effectiveness_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("pathlibrary: preparing insert: %w", err)
	}
	defer stmt.Close()

	for id, p := range paths {
		metaDoc, err := json.Marshal(p.Metadata)
		if err != nil {
			return fmt.Errorf("pathlibrary: encoding metadata for %s: %w", id, err)
		}

		isLearned := 0
		if p.Metadata.IsLearned {
			isLearned = 1
		}

		_, err = stmt.Exec(id, p.PathType, p.Description, p.PromptTemplate, p.StrategyID, p.InstanceID,
			string(metaDoc), isLearned, p.Metadata.LearningSource, p.Metadata.EffectivenessScore,
			p.Metadata.CreatedAt.Unix(), time.Now().Unix())
		if err != nil {
			return fmt.Errorf("pathlibrary: inserting %s: %w", id, err)
		}
	}

	return tx.Commit()
}

func (b *sqliteBackend) Close() error { return b.db.Close() }
