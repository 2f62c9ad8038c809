package engine

import (
	"context"

	"github.com/pvallin/passage/entity"
)

// Transformer is the interface required for row transformer implementations.
// The returned slice is nil (with a nil error) for rows discarded by the spec's
// exclusion filters.
type Transformer interface {
	Transform(ctx context.Context, row []byte) ([]*entity.Transformed, error)
}

// Stream bundles the entities cleaning one dataset, as specified by a single
// dataset spec.
type Stream struct {
	spec        *entity.Spec
	extractor   entity.Extractor
	transformer Transformer
	loader      entity.Loader
	instance    string
}

func NewStream(
	spec *entity.Spec,
	instance string,
	extractor entity.Extractor,
	transformer Transformer,
	loader entity.Loader) *Stream {

	return &Stream{
		spec:        spec,
		instance:    instance,
		extractor:   extractor,
		transformer: transformer,
		loader:      loader,
	}
}

func (s *Stream) Spec() *entity.Spec {
	return s.spec
}

func (s *Stream) Instance() string {
	return s.instance
}

func (s *Stream) Extractor() entity.Extractor {
	return s.extractor
}

func (s *Stream) Transformer() Transformer {
	return s.transformer
}

func (s *Stream) Loader() entity.Loader {
	return s.loader
}
