// Package event defines the canonical event model and the normalization and
// ordering rules applied to scraped records.
//
// Raw records arrive from source fetchers with no guarantees: fields may be
// missing, padded or unparseable. The Normalizer turns each record into an
// immutable Event or a DropReason explaining why it was filtered out.
// Sort establishes the deterministic display order: month-long events first,
// then chronological, with lexicographic tie-breaks.
package event
