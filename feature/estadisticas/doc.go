// Package estadisticas implements the statistics ingestion feature.
//
// It synchronizes judicial case statistics published across many
// loosely-structured spreadsheets into the normalized relational store,
// reconciling each extracted record under the (dependencia, periodo)
// uniqueness invariant so repeated runs never create duplicates.
//
// # Pipeline
//
//   - Discovery: lists the workbook's sheets and classifies each by probing
//     its header row against two marker sets (reference table vs consolidated).
//   - Parsing: consolidated sheets resolve columns by fuzzy header matching,
//     one statistic per row; reference tables address other spreadsheets by
//     id, each fetched through the rate-limited client and run through the
//     detailed single-document parser with its section-marker heuristics.
//   - Normalization: periods are validated as YYYYMM, dependency names are
//     canonicalized, entity types inferred by keyword.
//   - Reconciliation: idempotent create-or-update against the store.
//
// The whole pipeline is deliberately single-threaded: the binding constraint
// is the external API quota, not throughput. Per-record and per-sheet
// failures are collected into the run result; only credential or workbook
// access failures abort a run.
//
// # Components
//
//   - Service: orchestrates a run and exposes the single-sheet convenience path.
//   - Reconciler: enforces the uniqueness invariant.
//   - Handler: exposes sync operations over HTTP.
//   - Feature: registers the feature with the application loader.
package estadisticas
