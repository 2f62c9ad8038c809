package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validSpec = []byte(`
{
   "namespace": "manifest",
   "streamIdSuffix": "test",
   "description": "Passenger manifest cleaning, test set",
   "version": 1,
   "source": {
      "type": "csvfile",
      "config": {
         "path": "test.csv",
         "columns": ["PassengerId", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Fare", "Cabin", "Embarked"]
      }
   },
   "transform": {
      "excludeRowsWith": [
         {
            "key": "Embarked",
            "valueIsEmpty": true
         }
      ],
      "tokenLookup": [
         {
            "id": "Title",
            "field": "Name",
            "groups": {
               "Mr": ["Mr", "Sir"],
               "Mrs": ["Mrs", "Mme"]
            }
         }
      ]
   },
   "sink": {
      "type": "csvfile",
      "config": {
         "path": "test.csv",
         "columns": ["PassengerId", "Embarked", "Title"]
      }
   }
}`)

func TestNewSpec(t *testing.T) {

	spec, err := NewSpec(validSpec)
	require.NoError(t, err)
	require.NotNil(t, spec)

	assert.Equal(t, "manifest-test", spec.Id())
	assert.False(t, spec.IsDisabled())
	assert.Equal(t, EntityType("csvfile"), spec.Source.Type)
	assert.Equal(t, "test.csv", spec.Source.Config.Path)
	assert.Len(t, spec.Source.Config.Columns, 10)
	require.NotNil(t, spec.Sink.Config)
	assert.Equal(t, []string{"PassengerId", "Embarked", "Title"}, spec.Sink.Config.Columns)

	require.Len(t, spec.Transform.ExcludeRowsWith, 1)
	require.NotNil(t, spec.Transform.ExcludeRowsWith[0].ValueIsEmpty)
	assert.True(t, *spec.Transform.ExcludeRowsWith[0].ValueIsEmpty)

	// Spec JSON round-trip keeps the id
	spec2, err := NewSpec(spec.JSON())
	assert.NoError(t, err)
	assert.Equal(t, spec.Id(), spec2.Id())
}

func TestNewSpecInvalid(t *testing.T) {

	_, err := NewSpec(nil)
	assert.Error(t, err)

	_, err = NewSpec([]byte(`{"huh": true}`))
	assert.Error(t, err)

	// Missing required sink section
	_, err = NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "broken",
	   "description": "missing sink",
	   "version": 1,
	   "source": {"type": "inline"},
	   "transform": {}
	}`))
	assert.Error(t, err)
}

func TestSpecValidateTokenCollision(t *testing.T) {

	// The same token in two groups makes the lookup order dependent and is rejected
	_, err := NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "collision",
	   "description": "token collision",
	   "version": 1,
	   "source": {"type": "inline"},
	   "transform": {
	      "tokenLookup": [
	         {
	            "id": "Title",
	            "field": "Name",
	            "groups": {
	               "Mr": ["Mr", "Sir"],
	               "Mrs": ["Sir"]
	            }
	         }
	      ]
	   },
	   "sink": {"type": "void"}
	}`))
	assert.Error(t, err)
}

func TestSpecValidateIncompletePasses(t *testing.T) {

	_, err := NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "nosum",
	   "description": "sumFields without operands",
	   "version": 1,
	   "source": {"type": "inline"},
	   "transform": {
	      "sumFields": [{"id": "Relatives"}]
	   },
	   "sink": {"type": "void"}
	}`))
	assert.Error(t, err)

	_, err = NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "nolabels",
	   "description": "relabel without labels",
	   "version": 1,
	   "source": {"type": "inline"},
	   "transform": {
	      "relabel": [{"id": "Pclass", "field": "Pclass"}]
	   },
	   "sink": {"type": "void"}
	}`))
	assert.Error(t, err)
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "Age", Field{Id: "Age"}.Path())
	assert.Equal(t, "raw.age", Field{Id: "Age", JsonPath: "raw.age"}.Path())
}
