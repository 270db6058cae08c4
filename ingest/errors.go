package ingest

import "errors"

var (
	// ErrUpdateRepositoryRequired is returned when an update repository is not provided.
	ErrUpdateRepositoryRequired = errors.New("update repository required")

	// ErrCheckpointRepositoryRequired is returned when a checkpoint repository is not provided.
	ErrCheckpointRepositoryRequired = errors.New("checkpoint repository required")

	// ErrCatalogRequired is returned when a product catalog is not provided.
	ErrCatalogRequired = errors.New("product catalog required")

	// ErrInvalidSeed is returned when a seed file cannot be decoded.
	ErrInvalidSeed = errors.New("invalid seed file")
)
