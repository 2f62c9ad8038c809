package assembly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/internal/pkg/entity/inline"
	"github.com/pvallin/passage/internal/pkg/entity/void"
)

var inlineToVoidSpec = []byte(`
{
   "namespace": "ptest",
   "streamIdSuffix": "assembly",
   "version": 1,
   "description": "Minimal stream for entity factory tests",
   "source": {
      "type": "inline",
      "config": {
         "rows": [
            { "PassengerId": "1" }
         ]
      }
   },
   "transform": {
      "extractFields": [
         { "fields": [{ "id": "PassengerId", "type": "integer" }] }
      ]
   },
   "sink": {
      "type": "void"
   }
}
`)

func TestStreamEntityFactory(t *testing.T) {

	ctx := context.Background()
	config := Config{
		Extractors: entity.ExtractorFactories{
			"inline": inline.NewExtractorFactory(),
		},
		Loaders: entity.LoaderFactories{
			"void": void.NewLoaderFactory(),
		},
	}
	sef := NewStreamEntityFactory(config)

	spec, err := entity.NewSpec(inlineToVoidSpec)
	require.NoError(t, err)

	extractor, err := sef.CreateExtractor(ctx, spec, "instance1")
	assert.NoError(t, err)
	assert.NotNil(t, extractor)

	transformer, err := sef.CreateTransformer(ctx, spec)
	assert.NoError(t, err)
	assert.NotNil(t, transformer)

	loader, err := sef.CreateLoader(ctx, spec, "instance1")
	assert.NoError(t, err)
	assert.NotNil(t, loader)

	assert.NoError(t, config.Close())
}

func TestStreamEntityFactoryUnknownTypes(t *testing.T) {

	ctx := context.Background()
	sef := NewStreamEntityFactory(Config{
		Extractors: make(entity.ExtractorFactories),
		Loaders:    make(entity.LoaderFactories),
	})

	spec, err := entity.NewSpec(inlineToVoidSpec)
	require.NoError(t, err)

	_, err = sef.CreateExtractor(ctx, spec, "instance1")
	assert.Error(t, err)

	_, err = sef.CreateLoader(ctx, spec, "instance1")
	assert.Error(t, err)
}
