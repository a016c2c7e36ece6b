// Package core provides the business logic for spreadsheet reconciliation.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web server, the CLI and tests drive it the same way.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Source kinds: the two fixed exports being reconciled, ALTERDATA and
//     SANTRI, each with a static [SourceProfile] (required columns, column
//     mapping, banner rows to skip).
//   - Normalization: [Normalize] maps a [RawTable] read from disk to a
//     [CanonicalTable] of (document_id, counterparty, amount) rows.
//   - Reconciliation: [Compare] matches rows across two canonical tables with
//     bag semantics and reports what is left on each side.
//   - Service: the controller owning the latest table of each source and the
//     last [ComparisonResult].
//
// # Load Flow
//
//  1. A shell calls [Service.Load] with a kind and a file path
//  2. The [TableReader] detects the format and decodes a RawTable
//  3. [ValidateColumns] checks the required columns for the kind
//  4. The table is normalized and replaces the slot for that kind
//  5. Any previous comparison result is discarded
//
// A failed load leaves every slot and the last result untouched.
//
// # Concurrency
//
// Loads and comparisons never overlap. They pass through a one-slot [Gate];
// a caller that cannot enter within the configured wait gets
// [ErrOperationBusy]. Work that has entered the gate runs to completion.
//
// # Error Handling
//
// Failures are typed ([UnsupportedFormatError], [DecodeFailureError],
// [MissingColumnsError]) or sentinel errors. [MapError] turns any of them into
// a coded [UserMessage] for display.
package core
