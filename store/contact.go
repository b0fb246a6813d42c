package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/huandu/go-sqlbuilder"
)

const photoColumn = "data15"

// RawContact is one raw contact with its data rows.
type RawContact struct {
	ID          int64  `db:"id"`
	AccountName string `db:"account_name"`
	AccountType string `db:"account_type"`
	Data        []DataRow
}

// DataRow is one typed field row. Columns holds the non-null data1..data14
// values as text; Blob holds data15.
type DataRow struct {
	ID       int64
	MimeType string
	Columns  map[string]string
	Blob     []byte
}

// Value returns the text stored in column.
func (r DataRow) Value(column string) (string, bool) {
	v, ok := r.Columns[column]
	return v, ok
}

// Rows returns the data rows with the given mimetype.
func (c *RawContact) Rows(mimeType string) []DataRow {
	var out []DataRow
	for _, row := range c.Data {
		if row.MimeType == mimeType {
			out = append(out, row)
		}
	}
	return out
}

// Contact loads the raw contact with the given id and its data rows in
// insertion order.
func (s *Store) Contact(ctx context.Context, id int64) (*RawContact, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("id", "COALESCE(account_name, '') AS account_name", "COALESCE(account_type, '') AS account_type")
	sb.From("raw_contacts")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var contact RawContact
	if err := s.db.GetContext(ctx, &contact, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: raw contact %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("store: loading raw contact %d: %w", id, err)
	}

	rows, err := s.dataRows(ctx, id)
	if err != nil {
		return nil, err
	}
	contact.Data = rows
	return &contact, nil
}

func (s *Store) dataRows(ctx context.Context, rawContactID int64) ([]DataRow, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(append([]string{"id", "mimetype"}, dataColumns()...)...)
	sb.From("data")
	sb.Where(sb.Equal("raw_contact_id", rawContactID))
	sb.OrderBy("id")

	query, args := sb.Build()
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: loading data rows: %w", err)
	}
	defer rows.Close()

	var out []DataRow
	for rows.Next() {
		raw := make(map[string]any)
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("store: scanning data row: %w", err)
		}
		out = append(out, toDataRow(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating data rows: %w", err)
	}
	return out, nil
}

func toDataRow(raw map[string]any) DataRow {
	row := DataRow{Columns: make(map[string]string)}
	if id, ok := raw["id"].(int64); ok {
		row.ID = id
	}
	row.MimeType = text(raw["mimetype"])
	for _, col := range dataColumns() {
		value := raw[col]
		if value == nil {
			continue
		}
		if col == photoColumn {
			if b, ok := value.([]byte); ok {
				row.Blob = b
			}
			continue
		}
		row.Columns[col] = text(value)
	}
	return row
}

func text(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
