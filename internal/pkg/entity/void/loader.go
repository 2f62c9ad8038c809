// Package void provides the native "void" sink type, discarding all cleaned rows
// (optionally logging them). It is mainly useful for tests, where its properties
// can also simulate sink errors.
package void

import (
	"context"
	"errors"
	"strconv"

	"github.com/teltech/logger"

	"github.com/pvallin/passage/entity"
)

var log *logger.Log

func init() {
	log = logger.New()
}

const sinkTypeId = string(entity.EntityVoid)

type LoaderFactory struct{}

func NewLoaderFactory() entity.LoaderFactory {
	return &LoaderFactory{}
}

func (lf *LoaderFactory) SinkId() string {
	return sinkTypeId
}

func (lf *LoaderFactory) NewLoader(ctx context.Context, c entity.Config) (entity.Loader, error) {
	return newLoader(c), nil
}

func (lf *LoaderFactory) Close() error {
	return nil
}

type loader struct {
	spec         *entity.Spec
	props        map[string]string
	maxErrors    int
	numberErrors int
}

func newLoader(c entity.Config) *loader {
	l := &loader{
		spec:      c.Spec,
		props:     make(map[string]string),
		maxErrors: 1 << 30,
	}

	if c.Spec != nil && c.Spec.Sink.Config != nil {
		for _, prop := range c.Spec.Sink.Config.Properties {
			l.props[prop.Key] = prop.Value
		}
		if value, ok := l.props["maxErrors"]; ok {
			l.maxErrors, _ = strconv.Atoi(value)
		}
	}

	return l
}

func (l *loader) BatchLoad(ctx context.Context, data []*entity.Transformed) (string, error) {

	resourceId := "<noResourceId>"

	if len(data) == 0 {
		return resourceId, errors.New("batchLoad called without data to load")
	}

	if l.spec.Ops.LogRowData || l.props["logRowData"] == "true" {
		for _, cleaned := range data {
			log.Infof("received cleaned row in void.loader: %s", cleaned.String())
		}
	}

	if _, ok := l.props["simulateError"]; ok && l.numberErrors < l.maxErrors {
		l.numberErrors++
		return resourceId, errors.New("void loader simulating sink error")
	}

	return resourceId, nil
}

func (l *loader) Shutdown() {}
