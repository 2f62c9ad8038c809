package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvallin/passage/entity"
)

// The cleaned tables are written back to the input locations, so each embedded
// spec must use the same path for source and sink.
func TestEmbeddedSpecs(t *testing.T) {

	train, err := entity.NewSpec(trainSpec)
	require.NoError(t, err)
	assert.Equal(t, "train.csv", train.Source.Config.Path)
	assert.Equal(t, "train.csv", train.Sink.Config.Path)
	assert.Contains(t, train.Source.Config.Columns, "Survived")
	assert.Equal(t,
		[]string{"PassengerId", "Embarked", "Pclass", "Deck", "Fare", "Title", "Sex", "Age", "Relatives", "Survived"},
		train.Sink.Config.Columns)

	test, err := entity.NewSpec(testSpec)
	require.NoError(t, err)
	assert.Equal(t, "test.csv", test.Source.Config.Path)
	assert.Equal(t, "test.csv", test.Sink.Config.Path)
	assert.NotContains(t, test.Source.Config.Columns, "Survived")
	assert.Equal(t,
		[]string{"PassengerId", "Embarked", "Pclass", "Deck", "Fare", "Title", "Sex", "Age", "Relatives"},
		test.Sink.Config.Columns)
}
