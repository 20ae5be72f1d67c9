package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// QueryParams narrows and orders the rows returned by a query.
type QueryParams struct {
	// Where is a condition without the WHERE keyword, for example
	// "Time > ? AND Node = ?".
	Where string

	// Args fill the placeholders of Where.
	Args []any

	// Limit caps the number of rows. Zero means no cap.
	Limit int

	// Offset skips rows. It only applies together with Limit.
	Offset int

	// OrderBy is the ordering without the ORDER BY keywords, for example
	// "Time DESC".
	OrderBy string
}

// DataReader reads the tables written by a DataRecorder.
type DataReader interface {
	// MapTable associates a table with the struct type of its rows. A table
	// must be mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables in alphabetical order.
	ListTables() []string

	// Query returns the matching rows as pointers to the mapped struct type,
	// together with the number of matching rows regardless of Limit.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the database.
	Close() error
}

type sqliteReader struct {
	*sql.DB

	rowTypes map[string]reflect.Type
}

// NewReader opens a database file for reading.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB creates a DataReader on an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		DB:       db,
		rowTypes: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	if !tableNameRegexp.MatchString(tableName) {
		panic(fmt.Sprintf("invalid table name %q", tableName))
	}

	t := reflect.TypeOf(sampleEntry)
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("table %s: rows must be structs, got %s",
			tableName, t.Kind()))
	}

	r.rowTypes[tableName] = t
}

func (r *sqliteReader) ListTables() []string {
	tables := make([]string, 0, len(r.rowTypes))
	for table := range r.rowTypes {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	return tables
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	rowType, ok := r.rowTypes[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	from := fromClause(tableName, params.Where)

	var total int
	err := r.QueryRowContext(ctx, "SELECT COUNT(*)"+from, params.Args...).
		Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rows of %s: %w",
			tableName, err)
	}

	rows, err := r.QueryContext(ctx,
		"SELECT *"+from+pageClause(params), params.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer rows.Close()

	results, err := scanRows(rows, rowType)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows of %s: %w",
			tableName, err)
	}

	return results, total, nil
}

func fromClause(tableName, where string) string {
	clause := " FROM " + tableName
	if where != "" {
		clause += " WHERE " + where
	}

	return clause
}

func pageClause(params QueryParams) string {
	var b strings.Builder

	if params.OrderBy != "" {
		b.WriteString(" ORDER BY " + params.OrderBy)
	}

	if params.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", params.Limit)

		if params.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", params.Offset)
		}
	}

	return b.String()
}

// scanRows fills one struct per row, matching columns to fields by name.
// Columns without a field are discarded.
func scanRows(rows *sql.Rows, rowType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []any
	for rows.Next() {
		row := reflect.New(rowType)
		targets := make([]any, len(columns))

		for i, column := range columns {
			field := row.Elem().FieldByName(column)
			if !field.IsValid() || !field.CanSet() {
				var discard any
				targets[i] = &discard

				continue
			}

			targets[i] = field.Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, row.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.DB.Close()
}
