// Package filestore is a local, durable Datasource backed by sqlite: one
// row per archive ID holding the encrypted envelope text and a revision
// tag. Adapted from the teacher's internal/store/db.go schema-creation
// pattern, repurposed from the flat vault_fields table to a single
// envelope blob per archive (spec.md §4.10's "local (non-remote)"
// datasource).
package filestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lovincyrus/westley/internal/credentials"
	"github.com/lovincyrus/westley/internal/datasource"
	"github.com/lovincyrus/westley/internal/envelope"
)

const createSchema = `
CREATE TABLE IF NOT EXISTS archive_envelopes (
	archive_id TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	revision   INTEGER NOT NULL DEFAULT 1,
	updated_at TEXT NOT NULL
);
`

// Store wraps a *sql.DB holding one envelope per archive ID.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the sqlite-backed envelope store at path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening filestore: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(createSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Datasource returns a datasource.Datasource bound to archiveID, backed
// by this store's database. It composes an in-memory TextDatasource for
// the encrypt/decrypt dance and only touches sqlite to persist or fetch
// the resulting envelope text.
func (s *Store) Datasource(archiveID string, envCfg envelope.Config) datasource.Datasource {
	return &archiveDatasource{
		store:     s,
		archiveID: archiveID,
		text:      datasource.NewTextDatasource(envCfg),
	}
}

type archiveDatasource struct {
	store     *Store
	archiveID string
	text      *datasource.TextDatasource
}

func (d *archiveDatasource) Load(ctx context.Context, creds credentials.Credentials) ([]string, error) {
	d.text.Clear()

	var content string
	row := d.store.conn.QueryRowContext(ctx,
		`SELECT content FROM archive_envelopes WHERE archive_id = ?`, d.archiveID)
	if err := row.Scan(&content); err != nil {
		if err == sql.ErrNoRows {
			return nil, datasource.ErrNotFound
		}
		return nil, fmt.Errorf("reading envelope row: %w", err)
	}

	d.text.SetContent(content)
	return d.text.Load(ctx, creds)
}

func (d *archiveDatasource) Save(ctx context.Context, history []string, creds credentials.Credentials) error {
	if err := d.text.Save(ctx, history, creds); err != nil {
		return err
	}
	raw, _ := d.text.GetContent()

	_, err := d.store.conn.ExecContext(ctx, `
		INSERT INTO archive_envelopes (archive_id, content, revision, updated_at)
		VALUES (?, ?, 1, datetime('now'))
		ON CONFLICT(archive_id) DO UPDATE SET
			content = excluded.content,
			revision = archive_envelopes.revision + 1,
			updated_at = excluded.updated_at
	`, d.archiveID, raw)
	if err != nil {
		return fmt.Errorf("writing envelope row: %w", err)
	}
	return nil
}

func (d *archiveDatasource) Describe() datasource.Descriptor {
	return datasource.Descriptor{
		Type:   "sqlite",
		Params: map[string]string{"archive_id": d.archiveID},
	}
}
