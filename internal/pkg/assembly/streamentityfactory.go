package assembly

import (
	"context"
	"fmt"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/entity/transform"
	"github.com/pvallin/passage/internal/pkg/engine"
)

// StreamEntityFactory creates stream entities based on the dataset spec config and is
// a singleton, created by the Service, and operated by the StreamBuilder (also a
// singleton) when assembling a dataset stream.
type StreamEntityFactory struct {
	config Config
}

func NewStreamEntityFactory(config Config) *StreamEntityFactory {
	return &StreamEntityFactory{config: config}
}

func (s *StreamEntityFactory) CreateExtractor(ctx context.Context, spec *entity.Spec, instanceId string) (entity.Extractor, error) {

	factory, ok := s.config.Extractors[string(spec.Source.Type)]
	if !ok {
		return nil, fmt.Errorf("no extractor factory registered for source type '%s', spec: %s", spec.Source.Type, spec.JSON())
	}
	return factory.NewExtractor(ctx, s.entityConfig(spec, instanceId))
}

func (s *StreamEntityFactory) CreateTransformer(ctx context.Context, spec *entity.Spec) (engine.Transformer, error) {
	return transform.NewTransformer(spec), nil
}

func (s *StreamEntityFactory) CreateLoader(ctx context.Context, spec *entity.Spec, instanceId string) (entity.Loader, error) {

	factory, ok := s.config.Loaders[string(spec.Sink.Type)]
	if !ok {
		return nil, fmt.Errorf("no loader factory registered for sink type '%s', spec: %s", spec.Sink.Type, spec.JSON())
	}
	return factory.NewLoader(ctx, s.entityConfig(spec, instanceId))
}

func (s *StreamEntityFactory) entityConfig(spec *entity.Spec, instanceId string) entity.Config {
	return entity.Config{
		Spec:       spec,
		ID:         instanceId,
		NotifyChan: s.config.NotifyChan,
		Log:        s.config.Log,
	}
}
