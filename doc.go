// Package cardsync is a lightweight index for the vCard to contact store
// packages in this module.
//
// This root package is documentation-only. Import specific subpackages to use
// concrete helpers.
//
// Available subpackages:
//   - github.com/spachava753/cardsync/card
//     Decoded vCard documents with typed, never-failing accessors.
//   - github.com/spachava753/cardsync/mappings
//     vCard type labels to Android contact type codes.
//   - github.com/spachava753/cardsync/contactops
//     Card to store batch conversion (InsertContact, UpdateContact).
//   - github.com/spachava753/cardsync/assets
//     Remote photo download and JPEG re-encoding.
//   - github.com/spachava753/cardsync/store
//     SQLite contact store that applies batches atomically.
//   - github.com/spachava753/cardsync/config
//     Environment configuration and logger construction.
//
// Typical flow:
//
//	card.Decode -> contactops.Converter.InsertContact -> store.Store
//
// Discovery workflow for agents:
//   - Run: go doc github.com/spachava753/cardsync
//   - Then drill in with:
//     go doc github.com/spachava753/cardsync/contactops
//     go doc github.com/spachava753/cardsync/card
//     go doc github.com/spachava753/cardsync/store
package cardsync
