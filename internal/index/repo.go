package index

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/specpress/internal/apperr"
)

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	DocumentID   string
	FilePath     string
	RelativePath string
	Type         string
	Project      string
	Title        string
	Frontmatter  map[string]any
	Content      string
	HTML         string
	Checksum     string
	ModifiedAt   time.Time
	ImportedAt   time.Time
}

// State is what the importer needs to decide whether a file changed.
type State struct {
	ModifiedAt time.Time
	Checksum   string
}

// ListFilter narrows and orders ListDocuments.
type ListFilter struct {
	Type    string
	Project string
	Limit   int
	Offset  int
	Sort    string // "path" (default), "title" or "modified"
}

// SearchResult represents one search hit.
type SearchResult struct {
	DocumentID string
	Title      string
	Type       string
	Snippet    string
}

// Count is a grouped row count.
type Count struct {
	Name  string
	Count int
}

var sortColumns = map[string]string{
	"":         "relative_path ASC",
	"path":     "relative_path ASC",
	"title":    "title COLLATE NOCASE ASC, relative_path ASC",
	"modified": "modified_at DESC, relative_path ASC",
}

const listColumns = `document_id, file_path, relative_path, type, project, title, frontmatter, checksum, modified_at, imported_at`

// UpsertDocument inserts or replaces a document and its FTS entry within a
// transaction.
func (db *DB) UpsertDocument(r DocumentRow) error {
	fm := r.Frontmatter
	if fm == nil {
		fm = map[string]any{}
	}
	fmJSON, err := json.Marshal(fm)
	if err != nil {
		return fmt.Errorf("index: encode frontmatter: %w", err)
	}
	importedAt := r.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO documents (document_id, file_path, relative_path, type, project, title,
			frontmatter, content, html, checksum, modified_at, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			file_path     = excluded.file_path,
			relative_path = excluded.relative_path,
			type          = excluded.type,
			project       = excluded.project,
			title         = excluded.title,
			frontmatter   = excluded.frontmatter,
			content       = excluded.content,
			html          = excluded.html,
			checksum      = excluded.checksum,
			modified_at   = excluded.modified_at,
			imported_at   = excluded.imported_at
	`, r.DocumentID, r.FilePath, r.RelativePath, r.Type, r.Project, r.Title,
		string(fmJSON), r.Content, r.HTML, r.Checksum, r.ModifiedAt.Unix(), importedAt.Unix())
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, r.DocumentID, r.Title, r.Content); err != nil {
		return err
	}

	return tx.Commit()
}

// GetDocument returns the full row for id, or apperr.ErrNotFound.
func (db *DB) GetDocument(id string) (*DocumentRow, error) {
	row := db.conn.QueryRow(`SELECT `+listColumns+`, content, html FROM documents WHERE document_id = ?`, id)

	var (
		r       DocumentRow
		fmJSON  string
		mod, im int64
	)
	err := row.Scan(&r.DocumentID, &r.FilePath, &r.RelativePath, &r.Type, &r.Project, &r.Title,
		&fmJSON, &r.Checksum, &mod, &im, &r.Content, &r.HTML)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: document %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get document: %w", err)
	}
	r.ModifiedAt = time.Unix(mod, 0)
	r.ImportedAt = time.Unix(im, 0)
	if r.Frontmatter, err = decodeFrontmatter(fmJSON); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetState returns the stored modification time and checksum for id. The
// boolean is false when the document is not indexed.
func (db *DB) GetState(id string) (State, bool, error) {
	var (
		mod int64
		cs  string
	)
	err := db.conn.QueryRow(`SELECT modified_at, checksum FROM documents WHERE document_id = ?`, id).Scan(&mod, &cs)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("index: get state: %w", err)
	}
	return State{ModifiedAt: time.Unix(mod, 0), Checksum: cs}, true, nil
}

// DeleteDocument removes a document and its FTS entry.
func (db *DB) DeleteDocument(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM documents WHERE document_id = ?`, id)
	if err != nil {
		return fmt.Errorf("index: delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("index: document %s: %w", id, apperr.ErrNotFound)
	}
	return tx.Commit()
}

// DeleteByFilePath removes every document imported from path and returns
// their IDs.
func (db *DB) DeleteByFilePath(path string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT document_id FROM documents WHERE file_path = ?`, path)
	if err != nil {
		return nil, fmt.Errorf("index: find by path: %w", err)
	}
	ids, err := scanStrings(rows)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := db.DeleteDocument(id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}
	return ids, nil
}

// ListDocuments returns one page of documents without content or HTML,
// plus the total number matching the filter.
func (db *DB) ListDocuments(f ListFilter) ([]DocumentRow, int, error) {
	order, ok := sortColumns[f.Sort]
	if !ok {
		return nil, 0, fmt.Errorf("index: unknown sort %q", f.Sort)
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := ` WHERE (? = '' OR type = ?) AND (? = '' OR project = ?)`
	args := []any{f.Type, f.Type, f.Project, f.Project}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count documents: %w", err)
	}

	rows, err := db.conn.Query(`SELECT `+listColumns+` FROM documents`+where+
		` ORDER BY `+order+` LIMIT ? OFFSET ?`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var (
			r       DocumentRow
			fmJSON  string
			mod, im int64
		)
		if err := rows.Scan(&r.DocumentID, &r.FilePath, &r.RelativePath, &r.Type, &r.Project, &r.Title,
			&fmJSON, &r.Checksum, &mod, &im); err != nil {
			return nil, 0, err
		}
		r.ModifiedAt = time.Unix(mod, 0)
		r.ImportedAt = time.Unix(im, 0)
		if r.Frontmatter, err = decodeFrontmatter(fmJSON); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// TypeCounts returns the number of documents per type.
func (db *DB) TypeCounts() ([]Count, error) {
	return db.counts(`SELECT type, count(*) FROM documents GROUP BY type ORDER BY type`)
}

// Projects returns the number of documents per non-empty project.
func (db *DB) Projects() ([]Count, error) {
	return db.counts(`SELECT project, count(*) FROM documents WHERE project != '' GROUP BY project ORDER BY project`)
}

func (db *DB) counts(query string) ([]Count, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("index: counts: %w", err)
	}
	defer rows.Close()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllFilePaths maps every indexed source path to its document IDs.
func (db *DB) AllFilePaths() (map[string][]string, error) {
	rows, err := db.conn.Query(`SELECT file_path, document_id FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var p, id string
		if err := rows.Scan(&p, &id); err != nil {
			return nil, err
		}
		out[p] = append(out[p], id)
	}
	return out, rows.Err()
}

// Count returns the number of indexed documents.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// Purge removes every document and returns how many were deleted.
func (db *DB) Purge() (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsPurge(tx); err != nil {
		return 0, err
	}
	res, err := tx.Exec(`DELETE FROM documents`)
	if err != nil {
		return 0, fmt.Errorf("index: purge: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("index: purge commit: %w", err)
	}
	return int(n), nil
}

func decodeFrontmatter(s string) (map[string]any, error) {
	out := map[string]any{}
	if s == "" {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("index: decode frontmatter: %w", err)
	}
	return out, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
