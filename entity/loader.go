package entity

import (
	"context"
)

type LoaderFactories map[string]LoaderFactory

// LoaderFactory enables sinks to be handled as plug-ins to Passage.
// A factory is registered with the Passage API RegisterLoaderType() for a sink
// type to be available for dataset specs.
type LoaderFactory interface {
	// SinkId returns the sink ID for which the loader is implemented
	SinkId() string

	// NewLoader creates a new loader entity
	NewLoader(ctx context.Context, c Config) (Loader, error)

	// Close is called by Passage after the client has called Shutdown()
	Close() error
}

// Loader is the interface required for dataset sink implementations.
// A Loader receives the complete cleaned table in a single BatchLoad call and is
// expected to write it out in one shot, header included, with no partial output
// left behind on error where the underlying storage permits.
type Loader interface {

	// BatchLoad writes all cleaned rows. If successful the resource ID of the
	// written table (e.g. the output file path) is returned.
	// If input 'data' is nil or empty, an error is to be returned.
	BatchLoad(ctx context.Context, data []*Transformed) (string, error)

	// Called by the Executor when the run has finished
	Shutdown()
}
