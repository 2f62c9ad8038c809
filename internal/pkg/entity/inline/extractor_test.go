package inline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pvallin/passage/entity"
)

func TestExtractor(t *testing.T) {

	spec, err := entity.NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "inline",
	   "description": "Inline rows",
	   "version": 1,
	   "source": {
	      "type": "inline",
	      "config": {
	         "rows": [
	            {"PassengerId": "1", "Embarked": "S"},
	            {"PassengerId": "2", "Embarked": "C"}
	         ]
	      }
	   },
	   "transform": {},
	   "sink": {"type": "void"}
	}`))
	require.NoError(t, err)

	ef := NewExtractorFactory()
	assert.Equal(t, "inline", ef.SourceId())

	e, err := ef.NewExtractor(context.Background(), entity.Config{Spec: spec, ID: "someId"})
	require.NoError(t, err)

	var (
		extractErr error
		reported   []entity.Row
	)
	e.BatchExtract(context.Background(), func(ctx context.Context, rows []entity.Row) entity.RowProcessingResult {
		reported = rows
		return entity.RowProcessingResult{Status: entity.ExecutorStatusSuccessful}
	}, &extractErr)

	assert.NoError(t, extractErr)
	require.Len(t, reported, 2)
	assert.Equal(t, "S", gjson.GetBytes(reported[0].Data, "Embarked").String())
	assert.Equal(t, "2", gjson.GetBytes(reported[1].Data, "PassengerId").String())
}

func TestExtractorNoRows(t *testing.T) {

	spec, err := entity.NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "norows",
	   "description": "Inline source without rows",
	   "version": 1,
	   "source": {"type": "inline"},
	   "transform": {},
	   "sink": {"type": "void"}
	}`))
	require.NoError(t, err)

	e := newExtractor(entity.Config{Spec: spec})

	var extractErr error
	e.BatchExtract(context.Background(), func(ctx context.Context, rows []entity.Row) entity.RowProcessingResult {
		return entity.RowProcessingResult{Status: entity.ExecutorStatusSuccessful}
	}, &extractErr)
	assert.Error(t, extractErr)
}
