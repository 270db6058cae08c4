// Package reindex realigns the stored update dataset with the product
// catalog, in batches with progress reporting and retried writes.
package reindex
