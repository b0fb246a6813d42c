package contactops

import "context"

// OpType is the kind of store operation.
type OpType string

const (
	// OpInsert creates a row.
	OpInsert OpType = "insert"
	// OpUpdate modifies the rows matched by a Selection.
	OpUpdate OpType = "update"
)

// Table names a store table.
type Table string

const (
	// TableRawContacts holds one root row per contact and account.
	TableRawContacts Table = "raw_contacts"
	// TableData holds the typed field rows of a contact.
	TableData Table = "data"
)

// BackReference fills Column with the id produced by the operation at Index
// of the same batch.
type BackReference struct {
	Column string
	Index  int
}

// Selection picks the data rows of one raw contact with one kind.
type Selection struct {
	RawContactID int64
	MimeType     Kind
}

// Operation is one step of an atomic store batch.
type Operation struct {
	Type          OpType
	Table         Table
	Values        Values
	BackReference *BackReference
	Selection     *Selection
}

// OperationResult reports the outcome of one operation. ID is set for
// inserts, Count is the number of rows written.
type OperationResult struct {
	ID    int64
	Count int64
}

// Account identifies the address book a contact is created in.
type Account struct {
	Name string
	Type string
}

// Executor applies a batch atomically. Either every operation is applied
// and one result per operation is returned, or nothing is applied.
type Executor interface {
	ApplyBatch(ctx context.Context, ops []Operation) ([]OperationResult, error)
}

// AssetFetcher retrieves remote photo bytes re-encoded as JPEG.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// InsertResult describes an applied insert batch.
type InsertResult struct {
	RawContactID int64
	Operations   []Operation
	Results      []OperationResult
}

// UpdateResult describes an applied update batch.
type UpdateResult struct {
	RawContactID int64
	Operations   []Operation
	Results      []OperationResult
	RowsAffected int64
}
