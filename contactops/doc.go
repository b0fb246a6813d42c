// Package contactops converts a decoded vCard into an ordered batch of
// address-book store operations.
//
// A conversion runs a fixed sequence of field extractors over a
// card.Document. Each extractor produces candidate records; records that
// received no value are dropped. The remaining records become data rows:
//
//	card.Document -> extractors -> Record -> Values -> []Operation -> Executor
//
// # Extractors
//
// Extractors run in this order, and batch order follows it: name, nickname,
// phones, emails, addresses, ims, custom fields, grouped properties,
// birthdays, websites, notes, photos, organization.
//
// Grouped properties recover attributes that Apple clients split across
// two properties sharing a group tag, for example:
//
//	item1.X-ABDATE:2020-01-01
//	item1.X-ABLABEL:_$!<Anniversary>!$_
//
// An extractor that fails contributes nothing; the others still run.
//
// # Batches
//
// BuildInsert emits a raw contact insert carrying the Account first, then one
// data insert per record referencing it through a BackReference. BuildUpdate
// emits one data update per record, selected by raw contact id and kind.
// InsertContact and UpdateContact apply the batch through an Executor, such
// as store.Store, and report a rejected batch as an *Error with
// ErrorCodeStoreTransaction.
//
// # Photos
//
// Photos referenced by URL are fetched through the configured AssetFetcher
// with bounded concurrency. The photo extractor waits for every fetch before
// emitting its records. A failed fetch is logged and the photo row is
// dropped.
package contactops
