package contactops

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/spachava753/cardsync/card"
)

const (
	// DefaultPhotoFetchLimit bounds concurrent photo fetches per contact.
	DefaultPhotoFetchLimit = 4
	// DefaultPhotoFetchTimeout bounds a single photo fetch.
	DefaultPhotoFetchTimeout = 30 * time.Second
)

// Converter turns card documents into store batches.
type Converter struct {
	logger            ectologger.Logger
	fetcher           AssetFetcher
	photoFetchLimit   int
	photoFetchTimeout time.Duration
}

// Option configures a Converter.
type Option func(*Converter)

// WithAssetFetcher sets the fetcher used for photos referenced by URL.
// Without one, remote photos are skipped.
func WithAssetFetcher(fetcher AssetFetcher) Option {
	return func(c *Converter) {
		c.fetcher = fetcher
	}
}

// WithPhotoFetchLimit bounds concurrent photo fetches. Values below one are
// ignored.
func WithPhotoFetchLimit(limit int) Option {
	return func(c *Converter) {
		if limit >= 1 {
			c.photoFetchLimit = limit
		}
	}
}

// WithPhotoFetchTimeout bounds each photo fetch. Non-positive values are
// ignored.
func WithPhotoFetchTimeout(timeout time.Duration) Option {
	return func(c *Converter) {
		if timeout > 0 {
			c.photoFetchTimeout = timeout
		}
	}
}

// NewConverter creates a Converter.
func NewConverter(logger ectologger.Logger, opts ...Option) *Converter {
	c := &Converter{
		logger:            logger,
		photoFetchLimit:   DefaultPhotoFetchLimit,
		photoFetchTimeout: DefaultPhotoFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildInsert returns the batch creating doc as a new raw contact of
// account. The first operation creates the raw contact; every following
// operation attaches one field row to it by back-reference.
func (c *Converter) BuildInsert(ctx context.Context, account Account, doc *card.Document) ([]Operation, error) {
	if doc == nil {
		return nil, validationError("document is required")
	}

	var root Values
	if account.Name != "" {
		root.set(ColumnAccountName, account.Name)
	}
	if account.Type != "" {
		root.set(ColumnAccountType, account.Type)
	}

	records := c.collect(ctx, doc)
	ops := make([]Operation, 0, len(records)+1)
	ops = append(ops, Operation{Type: OpInsert, Table: TableRawContacts, Values: root})
	for _, values := range records {
		ops = append(ops, Operation{
			Type:          OpInsert,
			Table:         TableData,
			Values:        values,
			BackReference: &BackReference{Column: ColumnRawContactID, Index: 0},
		})
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"account_name": account.Name,
		"operations":   len(ops),
	}).Debug("Built insert batch")
	return ops, nil
}

// BuildUpdate returns the batch overwriting the fields of an existing raw
// contact. Each operation selects the rows of rawContactID with the
// record's kind; the kind is moved from the values into the selection.
func (c *Converter) BuildUpdate(ctx context.Context, doc *card.Document, rawContactID int64) ([]Operation, error) {
	if doc == nil {
		return nil, validationError("document is required")
	}
	if rawContactID <= 0 {
		return nil, validationError("invalid raw contact id %d", rawContactID)
	}

	records := c.collect(ctx, doc)
	ops := make([]Operation, 0, len(records))
	for _, values := range records {
		kind, _ := values.remove(ColumnMimeType)
		mimeType, _ := kind.(string)
		ops = append(ops, Operation{
			Type:   OpUpdate,
			Table:  TableData,
			Values: values,
			Selection: &Selection{
				RawContactID: rawContactID,
				MimeType:     Kind(mimeType),
			},
		})
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"raw_contact_id": rawContactID,
		"operations":     len(ops),
	}).Debug("Built update batch")
	return ops, nil
}

// InsertContact builds the insert batch for doc and applies it through exec.
func (c *Converter) InsertContact(ctx context.Context, exec Executor, account Account, doc *card.Document) (InsertResult, error) {
	if exec == nil {
		return InsertResult{}, validationError("executor is required")
	}
	ops, err := c.BuildInsert(ctx, account, doc)
	if err != nil {
		return InsertResult{}, err
	}

	results, err := exec.ApplyBatch(ctx, ops)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("Failed to apply insert batch")
		return InsertResult{}, &Error{Code: ErrorCodeStoreTransaction, Message: "insert batch rejected", Err: err}
	}

	out := InsertResult{Operations: ops, Results: results}
	if len(results) > 0 {
		out.RawContactID = results[0].ID
	}
	c.logger.WithContext(ctx).WithFields(map[string]any{
		"raw_contact_id": out.RawContactID,
		"fields":         len(ops) - 1,
	}).Info("Inserted contact")
	return out, nil
}

// UpdateContact builds the update batch for doc and applies it through exec.
// Kinds the raw contact has no row for are not detected here; the store
// reports zero affected rows for them.
func (c *Converter) UpdateContact(ctx context.Context, exec Executor, doc *card.Document, rawContactID int64) (UpdateResult, error) {
	if exec == nil {
		return UpdateResult{}, validationError("executor is required")
	}
	ops, err := c.BuildUpdate(ctx, doc, rawContactID)
	if err != nil {
		return UpdateResult{}, err
	}

	results, err := exec.ApplyBatch(ctx, ops)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("raw_contact_id", rawContactID).Error("Failed to apply update batch")
		return UpdateResult{}, &Error{Code: ErrorCodeStoreTransaction, Message: "update batch rejected", Err: err}
	}

	out := UpdateResult{RawContactID: rawContactID, Operations: ops, Results: results}
	for _, r := range results {
		out.RowsAffected += r.Count
	}
	c.logger.WithContext(ctx).WithFields(map[string]any{
		"raw_contact_id": rawContactID,
		"rows_affected":  out.RowsAffected,
	}).Info("Updated contact")
	return out, nil
}
