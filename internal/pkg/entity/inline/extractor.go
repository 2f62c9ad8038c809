// Package inline provides the native "inline" source type, where the table rows
// are carried directly in the dataset spec. It is mainly useful for tests and for
// programmatic one-off runs without input files.
package inline

import (
	"context"
	"errors"
	"time"

	"github.com/pvallin/passage/entity"
)

const sourceTypeId = string(entity.EntityInline)

type ExtractorFactory struct{}

func NewExtractorFactory() entity.ExtractorFactory {
	return &ExtractorFactory{}
}

func (ef *ExtractorFactory) SourceId() string {
	return sourceTypeId
}

func (ef *ExtractorFactory) NewExtractor(ctx context.Context, c entity.Config) (entity.Extractor, error) {
	return newExtractor(c), nil
}

func (ef *ExtractorFactory) Close() error {
	return nil
}

type extractor struct {
	c entity.Config
}

func newExtractor(c entity.Config) *extractor {
	return &extractor{c: c}
}

func (e *extractor) BatchExtract(ctx context.Context, reportRows entity.ProcessRowsFunc, err *error) {

	specRows := e.c.Spec.Source.Config.Rows
	if len(specRows) == 0 {
		*err = errors.New("no rows provided in inline source config")
		return
	}

	ts := time.Now()
	rows := make([]entity.Row, len(specRows))
	for i, data := range specRows {
		rows[i] = entity.Row{Data: data, Ts: ts}
	}

	result := reportRows(ctx, rows)
	if result.Error != nil {
		*err = result.Error
	}
}
