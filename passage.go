// Package passage cleans tabular datasets as specified by declarative Dataset Specs,
// from Source to Transform to Sink. Each registered spec governs one table run,
// executed as a single batch so that a transform failure aborts the run before any
// output is written.
package passage

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/internal/service"
)

// Error values returned by the Passage API.
// Many of these errors will also contain additional details about the error.
// Error matching can still be done with 'if errors.Is(err, ErrInvalidStreamId)' etc.
// due to error wrapping.
var (
	ErrConfigNotInitialized   = errors.New("passage.Config need to be created with NewConfig()")
	ErrPassageNotInitialized  = errors.New("passage not initialized")
	ErrSpecAlreadyExists      = errors.New("stream ID already registered")
	ErrInvalidStreamSpec      = errors.New("dataset Spec is not valid")
	ErrInvalidStreamId        = errors.New("invalid Stream ID")
	ErrInvalidEntityId        = errors.New("invalid source/sink ID")
	ErrInternalDataProcessing = errors.New("internal data processing error")
)

type Passage struct {
	service *service.Service
}

// New creates and configures Passage's internal services based on the provided
// config, which needs to be initially created with NewConfig().
func New(ctx context.Context, config *Config) (*Passage, error) {
	if config == nil || config.extractors == nil || config.loaders == nil {
		return nil, ErrConfigNotInitialized
	}
	p := &Passage{}
	var err error
	p.service, err = service.New(ctx, preProcessConfig(config))
	return p, err
}

// RegisterStream validates the dataset spec and prepares its stream for execution.
// If successful, the generated ID of the stream is returned. The stream is run by
// the next call to Run().
func (p *Passage) RegisterStream(ctx context.Context, specData []byte) (id string, err error) {
	if p.service == nil {
		return id, ErrPassageNotInitialized
	}

	spec, err := entity.NewSpec(specData)
	if err != nil {
		return id, errWithDetails(ErrInvalidStreamSpec, err)
	}

	if _, exists := p.service.Specs()[spec.Id()]; exists {
		return spec.Id(), ErrSpecAlreadyExists
	}

	id, err = p.service.RegisterStream(ctx, spec)
	if err != nil {
		return id, errWithDetails(ErrInvalidStreamSpec, err)
	}
	return id, nil
}

// Run executes all registered streams sequentially, each one to completion, in
// registration order. It returns when all streams have completed, or on the first
// stream failure, in which case that stream has written no output.
func (p *Passage) Run(ctx context.Context) error {
	if p.service == nil {
		return ErrPassageNotInitialized
	}
	if err := p.service.Run(ctx); err != nil {
		return errWithDetails(ErrInternalDataProcessing, err)
	}
	return nil
}

// Metrics returns the processing metrics per registered stream ID.
func (p *Passage) Metrics() map[string]entity.Metrics {
	if p.service == nil {
		return nil
	}
	return p.service.Metrics()
}

// NotifyChannel returns the channel for operational notification events, as an
// alternative to native logging. See OpsConfig.Log.
func (p *Passage) NotifyChannel() (entity.NotifyChan, error) {
	if p.service == nil {
		return nil, ErrPassageNotInitialized
	}
	return p.service.NotifyChannel(), nil
}

// Shutdown releases all resources held by registered sources and sinks. It should
// be called when the app is terminating.
func (p *Passage) Shutdown(ctx context.Context) error {
	if p.service == nil {
		return ErrPassageNotInitialized
	}
	return p.service.Config().Close()
}

// EnrichRow is a convenience function that could be used for row enrichment purposes
// inside a hook function as specified in passage.Config.Hooks.
// It's a wrapper on the sjson package. See doc at https://github.com/tidwall/sjson.
func EnrichRow(row []byte, path string, value any) ([]byte, error) {
	return sjson.SetBytes(row, path, value)
}

func errWithDetails(err error, errDetails error) error {
	return fmt.Errorf("%w, details: %v", err, errDetails)
}
