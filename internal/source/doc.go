// Package source implements the per-site fetch collaborators that produce
// raw event records for the pipeline.
//
// Each configured source selects one of a closed set of fetcher variants by
// its type tag: "cards" (paginated card grid), "bloglist" (single-page agenda
// list), "weekagenda" (week view with a next-week link) and "llm" (extraction
// through an OpenAI-compatible chat endpoint). All variants share the Fetcher
// contract: a call returns the page's records plus an opaque cursor for the
// next page, empty when there are no more pages.
package source
