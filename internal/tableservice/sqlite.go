package tableservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SQLiteTable is the TableService implementation used for local
// development. Items are stored as JSON rows in a shared items table,
// partitioned by table name.
type SQLiteTable struct {
	db       *sql.DB
	name     string
	keyAttrs []string
	logger   *logrus.Logger
}

// NewSQLiteTable creates a handle for the named logical table.
func NewSQLiteTable(db *sql.DB, name string, keyAttrs []string, logger *logrus.Logger) *SQLiteTable {
	if len(keyAttrs) == 0 {
		keyAttrs = []string{"id"}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &SQLiteTable{
		db:       db,
		name:     name,
		keyAttrs: keyAttrs,
		logger:   logger,
	}
}

func (t *SQLiteTable) keyString(rec Record) (string, error) {
	if len(rec) == 0 {
		return "", ErrMissingKey
	}
	attrs := append([]string(nil), t.keyAttrs...)
	sort.Strings(attrs)

	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		v, ok := rec[attr]
		if !ok {
			return "", fmt.Errorf("%w: attribute %q not present", ErrInvalidKey, attr)
		}
		parts = append(parts, fmt.Sprintf("%s=%v", attr, v))
	}
	return strings.Join(parts, "|"), nil
}

// Put implements TableService.Put
func (t *SQLiteTable) Put(ctx context.Context, item Record) (Record, error) {
	if len(item) == 0 {
		return nil, NewTableError("Put", t.name, ErrMissingItem)
	}
	ks, err := t.keyString(item)
	if err != nil {
		return nil, NewTableError("Put", t.name, err)
	}
	body, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}

	_, err = t.db.ExecContext(ctx,
		`INSERT INTO items (table_name, item_key, body, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(table_name, item_key)
		 DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		t.name, ks, string(body), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return Record{}, nil
}

// Get implements TableService.Get
func (t *SQLiteTable) Get(ctx context.Context, key Record) (Record, error) {
	ks, err := t.keyString(key)
	if err != nil {
		return nil, NewTableError("Get", t.name, err)
	}

	var body string
	err = t.db.QueryRowContext(ctx,
		`SELECT body FROM items WHERE table_name = ? AND item_key = ?`,
		t.name, ks).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// Update implements TableService.Update. The stored record is merged
// with changes inside a transaction; a missing record is seeded from the
// key attributes, mirroring the managed service's upsert behavior.
func (t *SQLiteTable) Update(ctx context.Context, key Record, changes Record) (Record, error) {
	ks, err := t.keyString(key)
	if err != nil {
		return nil, NewTableError("Update", t.name, err)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item := key.Copy()
	var body string
	err = tx.QueryRowContext(ctx,
		`SELECT body FROM items WHERE table_name = ? AND item_key = ?`,
		t.name, ks).Scan(&body)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// keep the seeded key record
	case err != nil:
		return nil, err
	default:
		if item, err = decodeRecord(body); err != nil {
			return nil, err
		}
	}

	for k, v := range changes {
		item[k] = v
	}
	encoded, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (table_name, item_key, body, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(table_name, item_key)
		 DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		t.name, ks, string(encoded), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete implements TableService.Delete
func (t *SQLiteTable) Delete(ctx context.Context, key Record) (Record, error) {
	ks, err := t.keyString(key)
	if err != nil {
		return nil, NewTableError("Delete", t.name, err)
	}

	prior, err := t.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	_, err = t.db.ExecContext(ctx,
		`DELETE FROM items WHERE table_name = ? AND item_key = ?`,
		t.name, ks)
	if err != nil {
		return nil, err
	}
	return prior, nil
}

// Scan implements TableService.Scan
func (t *SQLiteTable) Scan(ctx context.Context) ([]Record, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT body FROM items WHERE table_name = ?`, t.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(body)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func decodeRecord(body string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SQLiteResolver hands out SQLiteTable handles sharing one database.
type SQLiteResolver struct {
	db       *sql.DB
	keyAttrs []string
	logger   *logrus.Logger
}

// NewSQLiteResolver creates a resolver over the given database handle.
func NewSQLiteResolver(db *sql.DB, keyAttrs []string, logger *logrus.Logger) *SQLiteResolver {
	return &SQLiteResolver{
		db:       db,
		keyAttrs: keyAttrs,
		logger:   logger,
	}
}

// Resolve implements Resolver.Resolve
func (r *SQLiteResolver) Resolve(tableName string) TableService {
	return NewSQLiteTable(r.db, tableName, r.keyAttrs, r.logger)
}

// Close implements Closer.Close
func (r *SQLiteResolver) Close() error {
	return r.db.Close()
}
