package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
)

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// MaxSQLIDLength is the longest id, in bytes, the SQL repository stores.
const MaxSQLIDLength = 1024

// OpenMySQL opens and pings a MySQL database.
//
// DSN format: "user:pass@tcp(127.0.0.1:3306)/taskdef?parseTime=true"
func OpenMySQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	return db, nil
}

// SQL is a Repository backed by one MySQL table per entity kind.
//
//	CREATE TABLE <table> (id VARBINARY(1024) PRIMARY KEY, body MEDIUMBLOB, updated_at TIMESTAMP)
//
// Ids are compared byte for byte, so ids differing only in case or
// trailing spaces are distinct rows.
type SQL[M any] struct {
	db     *sql.DB
	table  string
	entity string
	codec  Codec[M]
}

// NewSQL creates a repository on db, creating the table when missing.
// The caller owns db.
func NewSQL[M any](ctx context.Context, db *sql.DB, table, entity string, codec Codec[M]) (*SQL[M], error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if codec == nil {
		codec = JSONCodec[M]{}
	}

	r := &SQL[M]{db: db, table: table, entity: entity, codec: codec}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQL[M]) migrate(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + r.table + ` (
    id VARBINARY(` + strconv.Itoa(MaxSQLIDLength) + `) PRIMARY KEY,
    body MEDIUMBLOB NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table, err)
	}
	return nil
}

// Save implements Repository. Ids longer than MaxSQLIDLength are rejected
// with ErrInvalidKey.
func (r *SQL[M]) Save(ctx context.Context, id string, m M) error {
	if id == "" {
		return ErrInvalidKey
	}
	if len(id) > MaxSQLIDLength {
		return fmt.Errorf("%w: %s id is %d bytes, limit is %d", ErrInvalidKey, r.entity, len(id), MaxSQLIDLength)
	}

	data, err := r.codec.Marshal(m)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO `+r.table+` (id, body) VALUES(?, ?)
    ON DUPLICATE KEY UPDATE body=VALUES(body)`, id, data)
	if err != nil {
		return fmt.Errorf("failed to save %s %s: %w", r.entity, id, err)
	}
	return nil
}

// Load implements Repository.
func (r *SQL[M]) Load(ctx context.Context, id string) (M, error) {
	var zero M
	var data []byte
	if len(id) > MaxSQLIDLength {
		return zero, &NotFoundError{Entity: r.entity, ID: id}
	}

	err := r.db.QueryRowContext(ctx, `SELECT body FROM `+r.table+` WHERE id=?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, &NotFoundError{Entity: r.entity, ID: id}
		}
		return zero, fmt.Errorf("failed to load %s %s: %w", r.entity, id, err)
	}

	return r.codec.Unmarshal(data)
}

// LoadAll implements Repository.
func (r *SQL[M]) LoadAll(ctx context.Context) ([]M, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, body FROM `+r.table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s entries: %w", r.entity, err)
	}
	defer rows.Close()

	out := make([]M, 0)
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.entity, err)
		}
		m, err := r.codec.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s %s: %w", r.entity, id, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", r.entity, err)
	}
	return out, nil
}

// Delete implements Repository.
func (r *SQL[M]) Delete(ctx context.Context, id string) error {
	if len(id) > MaxSQLIDLength {
		return &NotFoundError{Entity: r.entity, ID: id}
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.entity, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.entity, id, err)
	}
	if n == 0 {
		return &NotFoundError{Entity: r.entity, ID: id}
	}
	return nil
}

// DeleteAll implements Repository.
func (r *SQL[M]) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table); err != nil {
		return fmt.Errorf("failed to delete %s entries: %w", r.entity, err)
	}
	return nil
}
