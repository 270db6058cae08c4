// Package ingest imports YAML seed files into the local update dataset.
//
// Seed records are normalized before storage: missing IDs are derived from
// product and title, the source defaults to Message Center and the product
// family is filled from the catalog. Records that still fail validation are
// skipped and counted. Each imported file is checkpointed by content digest
// so a re-run only touches files that changed.
package ingest
