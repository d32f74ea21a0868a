// Package catalog registers chart files and resolves score submissions against them.
//
// Every write runs inside one storage transaction supplied by a [Backend]:
//   - [Catalog.Reconcile] finds or creates the song for a chart header and creates the chart,
//     rejecting a fingerprint that is already registered with [shared.ErrDuplicateFingerprint]
//   - [Catalog.DeleteChart] removes a chart and its song when no other chart references it
//   - [Catalog.SubmitScore] attaches a play to the registered chart with the submitted fingerprint,
//     or keeps it as a partial score when no such chart exists
//
// Concurrent submissions of the same content produce exactly one chart. The storage layer's unique
// constraints are the final arbiter; their violations are translated back into the error taxonomy of
// package shared.
package catalog
