package objstore

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/jd/pkg/types"
)

// CreateDirectory stores an empty directory blob and returns its id.
func (s *Store) CreateDirectory(meta Meta) (string, error) {
	meta.Kind = KindDirectory
	meta.Size = 0
	return s.insert(meta, nil)
}

// Push stores the content read from r as a file blob and returns its id.
func (s *Store) Push(meta Meta, r io.Reader) (string, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return "", types.IOError("reading blob content", err)
	}
	meta.Kind = KindFile
	meta.Size = n
	return s.insert(meta, buf.Bytes())
}

func (s *Store) insert(meta Meta, content []byte) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return "", err
	}

	id := generateID()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := db.Begin()
	if err != nil {
		return "", types.IOError("begin", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO blobs (blob_id, name, blob_type, parent_id, size, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, meta.Name, string(meta.Kind), nullString(meta.Parent), meta.Size, content, now, now,
	)
	if err != nil {
		return "", types.IOError("inserting blob", err)
	}
	if err := writeMeta(tx, id, meta); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", types.IOError("commit", err)
	}
	return id, nil
}

// writeMeta replaces the fields and tags of a blob.
func writeMeta(tx *sql.Tx, id string, meta Meta) error {
	if _, err := tx.Exec("DELETE FROM blob_meta WHERE blob_id = ?", id); err != nil {
		return types.IOError("clearing metadata", err)
	}
	if _, err := tx.Exec("DELETE FROM blob_tags WHERE blob_id = ?", id); err != nil {
		return types.IOError("clearing tags", err)
	}
	for k, v := range meta.Fields {
		if _, err := tx.Exec("INSERT INTO blob_meta (blob_id, key, value) VALUES (?, ?, ?)", id, k, v); err != nil {
			return types.IOError("inserting metadata", err)
		}
	}
	for _, tag := range meta.Tags {
		if _, err := tx.Exec("INSERT OR IGNORE INTO blob_tags (blob_id, tag) VALUES (?, ?)", id, tag); err != nil {
			return types.IOError("inserting tag", err)
		}
	}
	return nil
}

// Query returns the blobs matching q in creation order.
func (s *Store) Query(q Query) ([]Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if q.Kind != "" {
		where = append(where, "b.blob_type = ?")
		args = append(args, string(q.Kind))
	}
	keys := make([]string, 0, len(q.Fields))
	for k := range q.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		where = append(where, "EXISTS (SELECT 1 FROM blob_meta m WHERE m.blob_id = b.blob_id AND m.key = ? AND m.value = ?)")
		args = append(args, k, q.Fields[k])
	}
	for _, tag := range q.Tags {
		where = append(where, "EXISTS (SELECT 1 FROM blob_tags t WHERE t.blob_id = b.blob_id AND t.tag = ?)")
		args = append(args, tag)
	}

	query := "SELECT b.blob_id, b.name, b.blob_type, b.parent_id, b.size FROM blobs b"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.rowid"
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	blobs, err := scanBlobs(db, query, args...)
	if err != nil {
		return nil, err
	}
	// Rows are closed before hydrating; the store holds a single connection.
	for i := range blobs {
		if err := hydrateMeta(db, &blobs[i]); err != nil {
			return nil, err
		}
	}
	return blobs, nil
}

func scanBlobs(db *sql.DB, query string, args ...any) ([]Blob, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, types.IOError("querying blobs", err)
	}
	defer rows.Close()

	var out []Blob
	for rows.Next() {
		var (
			b      Blob
			kind   string
			parent sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Meta.Name, &kind, &parent, &b.Meta.Size); err != nil {
			return nil, types.IOError("scanning blob", err)
		}
		b.Meta.Kind = Kind(kind)
		b.Meta.Parent = parent.String
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, types.IOError("iterating blobs", err)
	}
	return out, nil
}

func hydrateMeta(db *sql.DB, b *Blob) error {
	rows, err := db.Query("SELECT key, value FROM blob_meta WHERE blob_id = ?", b.ID)
	if err != nil {
		return types.IOError("querying metadata", err)
	}
	b.Meta.Fields = make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return types.IOError("scanning metadata", err)
		}
		b.Meta.Fields[k] = v
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return types.IOError("iterating metadata", err)
	}

	rows, err = db.Query("SELECT tag FROM blob_tags WHERE blob_id = ? ORDER BY tag", b.ID)
	if err != nil {
		return types.IOError("querying tags", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return types.IOError("scanning tag", err)
		}
		b.Meta.Tags = append(b.Meta.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return types.IOError("iterating tags", err)
	}
	return nil
}

// UpdateMeta replaces the name, fields and tags of a blob. Kind, parent and
// size are left alone.
func (s *Store) UpdateMeta(id string, meta Meta) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return types.IOError("begin", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE blobs SET name = ?, updated_at = ? WHERE blob_id = ?",
		meta.Name, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return types.IOError("updating blob", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: blob %s", types.ErrNotFound, id)
	}
	if err := writeMeta(tx, id, meta); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return types.IOError("commit", err)
	}
	return nil
}

// Delete removes a blob with its metadata. Deleting an unknown id is not an
// error.
func (s *Store) Delete(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return types.IOError("begin", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM blob_meta WHERE blob_id = ?",
		"DELETE FROM blob_tags WHERE blob_id = ?",
		"DELETE FROM blobs WHERE blob_id = ?",
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return types.IOError("deleting blob", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return types.IOError("commit", err)
	}
	return nil
}

// Content returns the bytes of a file blob.
func (s *Store) Content(id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var content []byte
	err = db.QueryRow("SELECT content FROM blobs WHERE blob_id = ?", id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: blob %s", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, types.IOError("reading blob", err)
	}
	return content, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
