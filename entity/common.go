package entity

// Native stream entity types (sources, sinks or both)
type EntityType string

const (
	EntityInvalid EntityType = "invalid"
	EntityVoid    EntityType = "void"
	EntityInline  EntityType = "inline"
)

var ReservedEntityNames = map[string]bool{
	string(EntityInvalid): true,
	string(EntityVoid):    true,
	string(EntityInline):  true,
}

// Config is the Entity Config to use with Entity factories
type Config struct {
	Spec       *Spec
	ID         string
	NotifyChan NotifyChan
	Log        bool
}

// Metrics provided by the engine of a dataset run. Accessible from the Passage API
// with Metrics().
type Metrics struct {

	// Total number of rows reported by the Extractor, regardless of the outcome
	// of downstream processing.
	RowsExtracted int64

	// Total number of rows silently discarded by the transform row filter
	RowsDropped int64

	// Total time spent transforming extracted rows
	TransformTimeMicros int64

	// Total amount of row data processed (as sent from the Extractor)
	BytesProcessed int64

	// Total number of cleaned rows written by the sink
	RowsLoaded int64

	// Total time spent ingesting cleaned rows in the sink
	SinkProcessingTimeMicros int64

	// Total number of successful calls to the Loader's BatchLoad method
	SinkOperations int64
}

func (m *Metrics) Reset() {
	m.RowsExtracted = 0
	m.RowsDropped = 0
	m.TransformTimeMicros = 0
	m.BytesProcessed = 0
	m.RowsLoaded = 0
	m.SinkProcessingTimeMicros = 0
	m.SinkOperations = 0
}
