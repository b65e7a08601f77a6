// Package diag defines the diagnostic model shared by the loader, the
// driver and the CLI.
//
// # Purpose
//
//   - Provide deterministic data structures for problems found while reading
//     an input module, translating it, or writing the result.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag performs no formatting or IO. Rendering lives in cmd/llvm-ads;
// deciding whether a run failed is the driver's job (Bag.HasErrors).
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Warning (output written, binding incomplete) or Error
//     (no output for the input).
//   - Code: numeric identifier grouped by phase (LDR load, TYP types,
//     OUT output) with a stable string form.
//   - Message: short, actionable text.
//   - Subject: the input path, optionally followed by the entity concerned.
//   - Notes: optional extra context.
//
// # Emitting diagnostics
//
// Producers receive a diag.Reporter. BagReporter aggregates into a Bag;
// DedupReporter drops repeats, which the loader relies on when the same
// construct occurs in many signatures.
package diag
