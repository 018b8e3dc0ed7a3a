// Package sqlengine implements the SQL protocol §6 describes as opaque to
// the core: register a named engine from a URL, execute a statement
// ignoring rows, execute a query and get back row-mappings in column
// order. Grounded on everydev1618-govega/serve/store_sqlite.go: a blank
// import registers the pure-Go SQLite driver, sql.Open takes the driver
// name plus a DSN, and queries are parameterized rather than
// string-interpolated.
package sqlengine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/proteinlang/protein/pkg/node"
)

// Engine is the concrete node.SQLEngine handle bound to a frame by
// `.def_sql`.
type Engine struct {
	db *sql.DB
}

// Open registers a named engine from a URL. URLs of the form
// "sqlite:PATH" or "sqlite://PATH" (including the special path ":memory:")
// are supported, matching the govega reference's own DSN convention.
func Open(url string) (*Engine, error) {
	dsn := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite://"), "sqlite:")
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		// in-memory databases do not support WAL; that is not fatal.
		_ = err
	}
	return &Engine{db: db}, nil
}

func toDriverArgs(args []node.Node) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		out[i] = toDriverValue(a)
	}
	return out
}

func toDriverValue(n node.Node) interface{} {
	switch n.Kind() {
	case node.KindNull:
		return nil
	case node.KindBool:
		return n.AsBool()
	case node.KindInt:
		return n.AsInt()
	case node.KindFloat:
		return n.AsFloat()
	case node.KindString:
		return n.AsString()
	case node.KindTimestamp:
		return n.AsTimestamp()
	default:
		return n.String()
	}
}

// Exec executes a statement, discarding any rows it might return. ctx
// allows the call to be interrupted (e.g. on Ctrl-C) without the process
// blocking indefinitely on a slow driver.
func (e *Engine) Exec(ctx context.Context, statement string, args []node.Node) error {
	_, err := e.db.ExecContext(ctx, statement, toDriverArgs(args)...)
	return err
}

// Query executes a statement and returns one Mapping Node per row, with
// keys in the column order the driver reports.
func (e *Engine) Query(ctx context.Context, query string, args []node.Node) ([]node.Node, error) {
	rows, err := e.db.QueryContext(ctx, query, toDriverArgs(args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []node.Node
	for rows.Next() {
		scanTargets := make([]interface{}, len(cols))
		scanValues := make([]interface{}, len(cols))
		for i := range scanTargets {
			scanTargets[i] = &scanValues[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}
		m := node.NewMapping()
		for i, col := range cols {
			m.Set(col, fromDriverValue(scanValues[i]))
		}
		out = append(out, node.NewMappingNode(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func fromDriverValue(v interface{}) node.Node {
	switch t := v.(type) {
	case nil:
		return node.Null
	case bool:
		return node.NewBool(t)
	case int64:
		return node.NewInt(t)
	case float64:
		return node.NewFloat(t)
	case string:
		return node.NewString(t)
	case []byte:
		return node.NewString(string(t))
	default:
		return node.NewString(fmt.Sprintf("%v", t))
	}
}

// Close disposes the underlying database handle.
func (e *Engine) Close() error {
	return e.db.Close()
}
