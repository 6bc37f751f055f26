// Package sqlite loads record collections out of SQLite databases so they can
// be queried by the engine. It only reads: rows are scanned into records and
// every transformation then runs in memory.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/asaidimu/go-lego/core/query"
	"github.com/asaidimu/go-lego/core/record"
)

// LoaderOptions controls how scanned column values are turned into record
// values.
type LoaderOptions struct {
	// TablePrefix is prepended to every table name passed to Load.
	TablePrefix string
	// ConvertBytes turns []byte column values into strings.
	ConvertBytes bool
	// BoolColumns are stored as integers and read back as bool.
	BoolColumns []string
	// JSONColumns hold JSON text that is decoded into Go values.
	JSONColumns []string
}

// DefaultLoaderOptions returns the options used when none are given.
func DefaultLoaderOptions() *LoaderOptions {
	return &LoaderOptions{
		ConvertBytes: true,
	}
}

// Loader reads tables and SELECT results into record collections.
type Loader struct {
	db      *sql.DB
	logger  *zap.Logger
	options *LoaderOptions
	bools   map[string]struct{}
	jsons   map[string]struct{}
}

// NewLoader creates a Loader over db.
func NewLoader(db *sql.DB, logger *zap.Logger, options *LoaderOptions) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = DefaultLoaderOptions()
	}
	return &Loader{
		db:      db,
		logger:  logger,
		options: options,
		bools:   toSet(options.BoolColumns),
		jsons:   toSet(options.JSONColumns),
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// quoteIdentifier properly quotes an identifier for SQLite.
func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Load reads the given columns of every row of table, in rowid order. With no
// columns every column is read.
func (l *Loader) Load(ctx context.Context, table string, columns ...string) (record.Collection, error) {
	if table == "" {
		return nil, fmt.Errorf("table name can't be empty")
	}

	selectFields := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = quoteIdentifier(col)
		}
		selectFields = strings.Join(quoted, ", ")
	}

	statement := fmt.Sprintf("SELECT %s FROM %s", selectFields, quoteIdentifier(l.options.TablePrefix+table))
	return l.LoadQuery(ctx, statement)
}

// LoadQuery runs a SELECT statement and reads its rows.
func (l *Loader) LoadQuery(ctx context.Context, statement string, args ...any) (record.Collection, error) {
	l.logger.Debug("Executing SQL SELECT", zap.String("sql", statement), zap.Any("params", args))

	rows, err := l.db.QueryContext(ctx, statement, args...)
	if err != nil {
		l.logger.Error("Failed to execute SELECT query", zap.Error(err), zap.String("sql", statement))
		return nil, fmt.Errorf("failed to execute select query: %w", err)
	}
	defer rows.Close()

	collection, err := l.readRows(rows)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded rows", zap.Int("count", len(collection)))
	return collection, nil
}

// Table returns a query.Source that loads table each time it is asked for its
// collection.
func (l *Loader) Table(table string, columns ...string) query.Source {
	return &tableSource{loader: l, table: table, columns: columns}
}

type tableSource struct {
	loader  *Loader
	table   string
	columns []string
}

func (s *tableSource) Collection(ctx context.Context) (record.Collection, error) {
	return s.loader.Load(ctx, s.table, s.columns...)
}

// readRows reads all rows from a *sql.Rows object and converts them into
// records.
func (l *Loader) readRows(rows *sql.Rows) (record.Collection, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := record.Collection{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(record.Record, len(columns))
		for i, col := range columns {
			row[col] = l.convert(col, values[i])
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return results, nil
}

// convert maps a raw driver value onto the value stored in the record.
func (l *Loader) convert(col string, val any) any {
	if val == nil {
		return nil
	}

	if _, ok := l.bools[col]; ok {
		switch v := val.(type) {
		case int64:
			return v != 0
		case bool:
			return v
		}
		return val
	}

	if _, ok := l.jsons[col]; ok {
		var raw []byte
		switch v := val.(type) {
		case []byte:
			raw = v
		case string:
			raw = []byte(v)
		}
		if raw != nil {
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err == nil {
				return decoded
			}
			l.logger.Warn("Column is not valid JSON, using raw value", zap.String("column", col))
		}
		return val
	}

	if b, ok := val.([]byte); ok && l.options.ConvertBytes {
		return string(b)
	}
	return val
}
