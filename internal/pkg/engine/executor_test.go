package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/entity/transform"
	"github.com/pvallin/passage/internal/pkg/entity/inline"
	"github.com/pvallin/passage/internal/pkg/entity/void"
)

var executorSpec = []byte(`
{
	"namespace": "ptest",
	"streamIdSuffix": "executor",
	"version": 1,
	"description": "Small cleaning stream for executor tests",
	"source": {
		"type": "inline",
		"config": {
			"rows": [
				{ "PassengerId": "1", "Name": "Braund, Mr. Owen Harris", "Age": "22", "Embarked": "S" },
				{ "PassengerId": "2", "Name": "Heikkinen, Miss. Laina", "Embarked": "S" },
				{ "PassengerId": "3", "Name": "Dooley, Mr. Patrick", "Age": "32" }
			]
		}
	},
	"transform": {
		"excludeRowsWith": [
			{ "key": "Embarked", "valueIsEmpty": true }
		],
		"extractFields": [
			{
				"fields": [
					{ "id": "PassengerId", "type": "integer" },
					{ "id": "Age", "type": "float", "missingValue": -1 }
				]
			}
		],
		"tokenLookup": [
			{
				"id": "Title",
				"field": "Name",
				"groups": {
					"Mr": ["Mr"],
					"Miss": ["Miss"]
				}
			}
		]
	},
	"sink": {
		"type": "void"
	}
}`)

func newTestStream(t *testing.T, specData []byte) *Stream {
	t.Helper()
	spec, err := entity.NewSpec(specData)
	require.NoError(t, err)

	config := entity.Config{Spec: spec, ID: "executortest"}
	extractor, err := inline.NewExtractorFactory().NewExtractor(context.Background(), config)
	require.NoError(t, err)
	loader, err := void.NewLoaderFactory().NewLoader(context.Background(), config)
	require.NoError(t, err)

	return NewStream(spec, "coyote", extractor, transform.NewTransformer(spec), loader)
}

func TestExecutorRun(t *testing.T) {
	executor := NewExecutor(Config{}, newTestStream(t, executorSpec))
	require.NotNil(t, executor)
	assert.Equal(t, "ptest-executor", executor.StreamId())

	err := executor.Run(context.Background())
	require.NoError(t, err)

	metrics := executor.Metrics()
	assert.Equal(t, int64(3), metrics.RowsExtracted)
	assert.Equal(t, int64(1), metrics.RowsDropped)
	assert.Equal(t, int64(2), metrics.RowsLoaded)
	assert.Equal(t, int64(1), metrics.SinkOperations)
}

func TestExecutorAbortsOnTransformError(t *testing.T) {
	specData := []byte(`
{
	"namespace": "ptest",
	"streamIdSuffix": "badtitle",
	"version": 1,
	"description": "Run with an unrecognized honorific",
	"source": {
		"type": "inline",
		"config": {
			"rows": [
				{ "PassengerId": "1", "Name": "Nemo, Captain-General. Unknown" }
			]
		}
	},
	"transform": {
		"extractFields": [
			{ "fields": [{ "id": "PassengerId", "type": "integer" }] }
		],
		"tokenLookup": [
			{
				"id": "Title",
				"field": "Name",
				"groups": { "Mr": ["Mr"] }
			}
		]
	},
	"sink": {
		"type": "void"
	}
}`)
	executor := NewExecutor(Config{}, newTestStream(t, specData))
	require.NotNil(t, executor)

	err := executor.Run(context.Background())
	require.Error(t, err)

	metrics := executor.Metrics()
	assert.Equal(t, int64(0), metrics.RowsLoaded)
	assert.Equal(t, int64(0), metrics.SinkOperations)
}

func TestExecutorHooks(t *testing.T) {
	var skipConfig = Config{
		PreTransformHookFunc: func(ctx context.Context, spec *entity.Spec, row *[]byte) entity.HookAction {
			return entity.HookActionSkip
		},
	}
	executor := NewExecutor(skipConfig, newTestStream(t, executorSpec))
	require.NotNil(t, executor)

	err := executor.Run(context.Background())
	require.NoError(t, err)

	metrics := executor.Metrics()
	assert.Equal(t, int64(3), metrics.RowsExtracted)
	assert.Equal(t, int64(3), metrics.RowsDropped)
	assert.Equal(t, int64(0), metrics.RowsLoaded)

	var rejectConfig = Config{
		PostTransformHookFunc: func(ctx context.Context, spec *entity.Spec, cleaned *[]*entity.Transformed) entity.HookAction {
			return entity.HookActionError
		},
	}
	executor = NewExecutor(rejectConfig, newTestStream(t, executorSpec))
	require.NotNil(t, executor)

	err = executor.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(0), executor.Metrics().RowsLoaded)
}

func TestExecutorInvalidStream(t *testing.T) {
	assert.Nil(t, NewExecutor(Config{}, nil))
}
