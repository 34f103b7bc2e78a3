// Package fiscal is the computation engine of a small-business bookkeeping
// dashboard with Mexican tax compliance features.
//
// Every function in this package is a pure computation over an in-memory
// list of transactions: nothing is persisted, nothing is fetched, and nothing
// is shared between calls. The engine covers:
//   - Tax: progressive ISR over a bracket table, flat-rate IVA, monthly or
//     quarterly provisional payments with the cumulative subtraction method,
//     and bracket table validation.
//   - Reconciliation: transfer matching across accounts and fuzzy duplicate
//     detection, both greedy.
//   - Analytics: cash-flow forecast by least squares regression, a weighted
//     financial health score with recommendations, and IQR outlier detection.
//
// Monetary values are exact decimals (see Money) rounded to the currency
// fraction after each named operation.
//
// The components are independent of each other, Analyze runs them
// concurrently over the same snapshot.
package fiscal
