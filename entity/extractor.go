package entity

import (
	"context"
	"fmt"
	"time"
)

type ExtractorFactories map[string]ExtractorFactory

// ExtractorFactory enables sources to be handled as plug-ins to Passage.
// A factory is registered with the Passage API RegisterExtractorType() for a source
// type to be available for dataset specs.
type ExtractorFactory interface {
	// SourceId returns the source ID for which the extractor is implemented
	SourceId() string

	// NewExtractor creates a new extractor entity
	NewExtractor(ctx context.Context, c Config) (Extractor, error)

	// Close is called by Passage after the client has called Shutdown()
	Close() error
}

// Extractor is the interface required for dataset source implementations.
// The Extractor implementation is given its Spec in the entity Config at
// construction.
type Extractor interface {

	// BatchExtract reads the full source table and reports all its rows in a single
	// call to reportRows, preserving input row order. The whole table is handled in
	// one batch so that a downstream failure aborts the run before anything is
	// written. Extraction failures (e.g. missing input file) are returned in err.
	BatchExtract(ctx context.Context, reportRows ProcessRowsFunc, err *error)
}

// ProcessRowsFunc is the type of func that an Extractor calls with the extracted
// rows for downstream processing (transform + load).
//
// It is important for the Extractor to properly handle the returned RowProcessingResult.
//
//	RowProcessingResult.Status values:
//		ExecutorStatusSuccessful --> run completed, output written
//		ExecutorStatusError --> run failed, no output written
type ProcessRowsFunc func(context.Context, []Row) RowProcessingResult

// Row is one raw input record, serialized as a JSON object with one member per
// non-empty input cell. A missing/null cell is represented by field absence.
type Row struct {
	Data []byte
	Ts   time.Time
}

func (r Row) String() string {
	return fmt.Sprintf("ts: %v, data: %s", r.Ts, string(r.Data))
}

type ExecutorStatus int

const (
	ExecutorStatusInvalid ExecutorStatus = iota
	ExecutorStatusSuccessful
	ExecutorStatusError
)

type RowProcessingResult struct {
	Status ExecutorStatus

	// ResourceId identifies where the cleaned table was written, as reported by
	// the sink (e.g. the output file path).
	ResourceId string

	Error error
}
