// Package retrieve assembles candidate update records for a structured query.
//
// The local dataset is always consulted. When external retrieval is requested
// and the query names products, up to three documentation lookups and one
// tenant lookup run concurrently on a shared ants worker pool, each bounded by
// its own timeout. A failed or slow backend contributes nothing; the others
// are unaffected.
//
// Results are merged local first, then documentation, then tenant data, and
// deduplicated on the first fifty characters of the lowercased title.
package retrieve
