package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/teltech/logger"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/pkg/notify"
)

// Executor runs one dataset to completion, from Source to Transform to Sink, as
// specified by a single dataset spec. A run either completes with all surviving
// rows written to the sink in one shot, or fails before anything is written.
// Rows discarded by the spec's exclusion filters are counted, not treated as
// errors.
type Executor struct {
	config           Config
	stream           *Stream
	id               string
	notifier         *notify.Notifier
	transformMetrics ProcessingMetrics
	sinkMetrics      ProcessingMetrics
}

// Row processing metrics. Using int64 is safe here; a batch table run is many
// orders of magnitude below any of these limits.
type ProcessingMetrics struct {
	Rows           int64
	Dropped        int64
	DurationMicros int64
	Bytes          int64
	Operations     int64
}

func (p ProcessingMetrics) String() string {
	out, _ := json.Marshal(p)
	return string(out)
}

func NewExecutor(config Config, stream *Stream) *Executor {

	if stream == nil {
		return nil
	}

	e := &Executor{
		config: config,
		stream: stream,
		id:     stream.Instance(),
	}

	var log *logger.Log
	if config.Log {
		log = logger.New()
	}
	e.notifier = notify.New(config.NotifyChan, log, 2, "executor", e.id, e.StreamId())

	if e.valid() {
		return e
	}
	return nil
}

func (e *Executor) valid() bool {
	if e.stream == nil {
		return false
	}
	return e.stream.Spec() != nil &&
		e.stream.Extractor() != nil &&
		e.stream.Transformer() != nil &&
		e.stream.Loader() != nil
}

func (e *Executor) StreamId() string {
	return e.stream.Spec().Id()
}

func (e *Executor) Stream() *Stream {
	return e.stream
}

func (e *Executor) Metrics() entity.Metrics {
	return entity.Metrics{
		RowsExtracted:            atomic.LoadInt64(&e.transformMetrics.Rows),
		RowsDropped:              atomic.LoadInt64(&e.transformMetrics.Dropped),
		TransformTimeMicros:      atomic.LoadInt64(&e.transformMetrics.DurationMicros),
		BytesProcessed:           atomic.LoadInt64(&e.transformMetrics.Bytes),
		RowsLoaded:               atomic.LoadInt64(&e.sinkMetrics.Rows),
		SinkProcessingTimeMicros: atomic.LoadInt64(&e.sinkMetrics.DurationMicros),
		SinkOperations:           atomic.LoadInt64(&e.sinkMetrics.Operations),
	}
}

// Run executes the dataset cleaning to completion. It returns when the source
// table has been extracted, transformed and written to the sink, or on the first
// error, which aborts the run with no output written.
func (e *Executor) Run(ctx context.Context) error {

	e.notifier.Notify(entity.NotifyLevelInfo, "starting up, with spec: %s", string(e.stream.Spec().JSON()))

	var err error
	e.stream.Extractor().BatchExtract(ctx, e.ProcessRows, &err)

	e.stream.Loader().Shutdown()

	if err != nil {
		e.notifier.Notify(entity.NotifyLevelError, "run failed with error: %v", err)
		return fmt.Errorf("stream %s: %w", e.StreamId(), err)
	}
	e.notifier.Notify(entity.NotifyLevelInfo, "run completed, metrics: transform: %s, sink: %s",
		e.transformMetrics.String(), e.sinkMetrics.String())
	return nil
}

// ProcessRows is called by the stream's Extractor with the full batch of input
// rows. Each row is transformed in input order; a transform (or hook) error
// aborts processing before the sink is touched.
func (e *Executor) ProcessRows(ctx context.Context, rows []entity.Row) entity.RowProcessingResult {

	cleaned := make([]*entity.Transformed, 0, len(rows))
	start := time.Now()

	for _, row := range rows {
		atomic.AddInt64(&e.transformMetrics.Rows, 1)
		atomic.AddInt64(&e.transformMetrics.Bytes, int64(len(row.Data)))

		data := row.Data
		switch e.preTransformHook(ctx, &data) {
		case entity.HookActionSkip:
			atomic.AddInt64(&e.transformMetrics.Dropped, 1)
			continue
		case entity.HookActionError:
			return e.failedResult(fmt.Errorf("pre-transform hook rejected row: %s", string(data)))
		}

		if e.stream.Spec().Ops.LogRowData {
			e.notifier.Notify(entity.NotifyLevelDebug, "transforming row: %s", row.String())
		}

		output, err := e.stream.Transformer().Transform(ctx, data)
		if err != nil {
			return e.failedResult(err)
		}
		if output == nil {
			atomic.AddInt64(&e.transformMetrics.Dropped, 1)
			continue
		}
		cleaned = append(cleaned, output...)
	}

	switch e.postTransformHook(ctx, &cleaned) {
	case entity.HookActionError:
		return e.failedResult(fmt.Errorf("post-transform hook rejected cleaned rows"))
	}

	atomic.AddInt64(&e.transformMetrics.DurationMicros, time.Since(start).Microseconds())

	if len(cleaned) == 0 {
		e.notifier.Notify(entity.NotifyLevelWarn, "all %d rows dropped, nothing to load", len(rows))
		return entity.RowProcessingResult{Status: entity.ExecutorStatusSuccessful}
	}

	start = time.Now()
	resourceId, err := e.stream.Loader().BatchLoad(ctx, cleaned)
	if err != nil {
		return e.failedResult(err)
	}

	atomic.AddInt64(&e.sinkMetrics.Rows, int64(len(cleaned)))
	atomic.AddInt64(&e.sinkMetrics.DurationMicros, time.Since(start).Microseconds())
	atomic.AddInt64(&e.sinkMetrics.Operations, 1)

	return entity.RowProcessingResult{
		Status:     entity.ExecutorStatusSuccessful,
		ResourceId: resourceId,
	}
}

func (e *Executor) preTransformHook(ctx context.Context, data *[]byte) entity.HookAction {
	if e.config.PreTransformHookFunc == nil {
		return entity.HookActionProceed
	}
	return e.config.PreTransformHookFunc(ctx, e.stream.Spec(), data)
}

func (e *Executor) postTransformHook(ctx context.Context, cleaned *[]*entity.Transformed) entity.HookAction {
	if e.config.PostTransformHookFunc == nil {
		return entity.HookActionProceed
	}
	return e.config.PostTransformHookFunc(ctx, e.stream.Spec(), cleaned)
}

func (e *Executor) failedResult(err error) entity.RowProcessingResult {
	return entity.RowProcessingResult{
		Status: entity.ExecutorStatusError,
		Error:  err,
	}
}
