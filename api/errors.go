package api

import "errors"

var (
	// ErrSearcherRequired is returned when a Handler is built without a searcher.
	ErrSearcherRequired = errors.New("searcher is required")

	// ErrCatalogRequired is returned when a Handler is built without a catalog.
	ErrCatalogRequired = errors.New("catalog is required")
)
