package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/spachava753/cardsync/contactops"
)

var _ contactops.Executor = (*Store)(nil)

var tableColumns = map[contactops.Table]map[string]struct{}{
	contactops.TableRawContacts: columnSet(contactops.ColumnAccountName, contactops.ColumnAccountType),
	contactops.TableData:        columnSet(append([]string{contactops.ColumnRawContactID, contactops.ColumnMimeType}, dataColumns()...)...),
}

func dataColumns() []string {
	cols := make([]string, 0, 15)
	for i := 1; i <= 15; i++ {
		cols = append(cols, "data"+strconv.Itoa(i))
	}
	return cols
}

func columnSet(cols ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		set[col] = struct{}{}
	}
	return set
}

// ApplyBatch applies ops in one transaction and returns one result per
// operation. On any error nothing is applied.
func (s *Store) ApplyBatch(ctx context.Context, ops []contactops.Operation) (results []contactops.OperationResult, err error) {
	log := s.logger.WithContext(ctx).WithField("operations", len(ops))

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to begin transaction")
		return nil, fmt.Errorf("store: beginning transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Failed to roll back batch")
		}
	}()

	results = make([]contactops.OperationResult, 0, len(ops))
	for i, op := range ops {
		var res contactops.OperationResult
		res, err = s.apply(ctx, tx, op, results)
		if err != nil {
			log.WithError(err).WithField("index", i).Error("Batch operation failed")
			return nil, fmt.Errorf("store: operation %d: %w", i, err)
		}
		results = append(results, res)
	}

	if err = tx.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit batch")
		return nil, fmt.Errorf("store: committing batch: %w", err)
	}
	log.Debug("Applied batch")
	return results, nil
}

func (s *Store) apply(ctx context.Context, tx *sqlx.Tx, op contactops.Operation, prior []contactops.OperationResult) (contactops.OperationResult, error) {
	allowed, ok := tableColumns[op.Table]
	if !ok {
		return contactops.OperationResult{}, fmt.Errorf("%w: unknown table %q", ErrInvalidOperation, op.Table)
	}
	cols, args, err := columnValues(op.Values, allowed)
	if err != nil {
		return contactops.OperationResult{}, err
	}

	switch op.Type {
	case contactops.OpInsert:
		if ref := op.BackReference; ref != nil {
			if _, ok := allowed[ref.Column]; !ok {
				return contactops.OperationResult{}, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, op.Table, ref.Column)
			}
			if ref.Index < 0 || ref.Index >= len(prior) || prior[ref.Index].ID == 0 {
				return contactops.OperationResult{}, fmt.Errorf("%w: index %d", ErrBackReference, ref.Index)
			}
			cols, args = setColumn(cols, args, ref.Column, prior[ref.Index].ID)
		}
		return insert(ctx, tx, op.Table, cols, args)
	case contactops.OpUpdate:
		if op.Selection == nil {
			return contactops.OperationResult{}, fmt.Errorf("%w: update without selection", ErrInvalidOperation)
		}
		return update(ctx, tx, op.Table, cols, args, *op.Selection)
	default:
		return contactops.OperationResult{}, fmt.Errorf("%w: type %q", ErrInvalidOperation, op.Type)
	}
}

func columnValues(values contactops.Values, allowed map[string]struct{}) ([]string, []any, error) {
	keys := values.Keys()
	cols := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for _, key := range keys {
		if _, ok := allowed[key]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
		}
		value, _ := values.Get(key)
		cols = append(cols, key)
		args = append(args, value)
	}
	return cols, args, nil
}

func setColumn(cols []string, args []any, col string, value any) ([]string, []any) {
	for i, c := range cols {
		if c == col {
			args[i] = value
			return cols, args
		}
	}
	return append(cols, col), append(args, value)
}

func insert(ctx context.Context, tx *sqlx.Tx, table contactops.Table, cols []string, args []any) (contactops.OperationResult, error) {
	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", table)
	} else {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertInto(string(table))
		ib.Cols(cols...)
		ib.Values(args...)
		query, args = ib.Build()
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return contactops.OperationResult{}, fmt.Errorf("inserting into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return contactops.OperationResult{}, fmt.Errorf("reading inserted id: %w", err)
	}
	return contactops.OperationResult{ID: id, Count: 1}, nil
}

func update(ctx context.Context, tx *sqlx.Tx, table contactops.Table, cols []string, args []any, sel contactops.Selection) (contactops.OperationResult, error) {
	if len(cols) == 0 {
		return contactops.OperationResult{}, nil
	}
	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update(string(table))
	assignments := make([]string, 0, len(cols))
	for i, col := range cols {
		assignments = append(assignments, ub.Assign(col, args[i]))
	}
	ub.Set(assignments...)
	ub.Where(
		ub.Equal(contactops.ColumnRawContactID, sel.RawContactID),
		ub.Equal(contactops.ColumnMimeType, string(sel.MimeType)),
	)

	query, qargs := ub.Build()
	res, err := tx.ExecContext(ctx, query, qargs...)
	if err != nil {
		return contactops.OperationResult{}, fmt.Errorf("updating %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return contactops.OperationResult{}, fmt.Errorf("reading affected rows: %w", err)
	}
	return contactops.OperationResult{Count: n}, nil
}
