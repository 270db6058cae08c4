package catalog

import "errors"

var (
	// ErrDuplicateProduct is returned when two catalog entries share an ID.
	ErrDuplicateProduct = errors.New("duplicate product id")

	// ErrInvalidCatalog is returned when a catalog document cannot be decoded.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
