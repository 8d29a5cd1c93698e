package storage

import (
	"fmt"
	"time"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
)

// RowSet holds the materialized result of a row-returning statement.
//
// Column values keep the engine's native representation (int64, float64,
// string, []byte, or nil for SQLite). Typed accessors on Row perform strict
// decoding: a mismatch fails with a DECODE error naming the column, never a
// silent coercion.
type RowSet struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// NewRowSet builds a row set from raw column names and values.
func NewRowSet(columns []string, rows [][]any) *RowSet {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}
	return &RowSet{columns: columns, index: index, rows: rows}
}

// Columns returns the column names in result order.
func (rs *RowSet) Columns() []string {
	return rs.columns
}

// Len reports the number of rows.
func (rs *RowSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rows)
}

// Row returns a decoding view over row i.
func (rs *RowSet) Row(i int) Row {
	return Row{set: rs, i: i}
}

// Row is a decoding view over one result row.
type Row struct {
	set *RowSet
	i   int
}

func (r Row) value(column string) (any, error) {
	if r.set == nil {
		return nil, apperrors.New(apperrors.CodeDecode, "row set is not configured")
	}
	idx, ok := r.set.index[column]
	if !ok {
		return nil, decodeErr(column, "column is not present in the result")
	}
	if r.i < 0 || r.i >= len(r.set.rows) {
		return nil, decodeErr(column, fmt.Sprintf("row %d is out of range", r.i))
	}
	return r.set.rows[r.i][idx], nil
}

// Int decodes column as a non-null integer.
func (r Row) Int(column string) (int64, error) {
	value, err := r.value(column)
	if err != nil {
		return 0, err
	}
	n, ok := value.(int64)
	if !ok {
		return 0, decodeErr(column, fmt.Sprintf("expected integer, got %T", value))
	}
	return n, nil
}

// Text decodes column as a non-null string.
func (r Row) Text(column string) (string, error) {
	value, err := r.value(column)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", decodeErr(column, fmt.Sprintf("expected text, got %T", value))
}

// Float decodes column as a non-null float.
func (r Row) Float(column string) (float64, error) {
	value, err := r.value(column)
	if err != nil {
		return 0, err
	}
	f, ok := value.(float64)
	if !ok {
		return 0, decodeErr(column, fmt.Sprintf("expected float, got %T", value))
	}
	return f, nil
}

// Blob decodes column as a non-null byte payload.
func (r Row) Blob(column string) ([]byte, error) {
	value, err := r.value(column)
	if err != nil {
		return nil, err
	}
	b, ok := value.([]byte)
	if !ok {
		return nil, decodeErr(column, fmt.Sprintf("expected blob, got %T", value))
	}
	return b, nil
}

// NullBlob decodes column as a byte payload, mapping NULL to nil.
func (r Row) NullBlob(column string) ([]byte, error) {
	value, err := r.value(column)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil, decodeErr(column, fmt.Sprintf("expected blob or null, got %T", value))
	}
	return b, nil
}

// NullInt decodes column as an integer, mapping NULL to zero with ok=false.
func (r Row) NullInt(column string) (int64, bool, error) {
	value, err := r.value(column)
	if err != nil {
		return 0, false, err
	}
	if value == nil {
		return 0, false, nil
	}
	n, ok := value.(int64)
	if !ok {
		return 0, false, decodeErr(column, fmt.Sprintf("expected integer or null, got %T", value))
	}
	return n, true, nil
}

// Time decodes column as a UTC timestamp persisted in millisecond precision.
func (r Row) Time(column string) (time.Time, error) {
	millis, err := r.Int(column)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis).UTC(), nil
}

func decodeErr(column, detail string) error {
	return apperrors.WithMetadata(
		apperrors.CodeDecode,
		fmt.Sprintf("decode column %s: %s", column, detail),
		map[string]string{"column": column},
	)
}
