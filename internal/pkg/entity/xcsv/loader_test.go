package xcsv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvallin/passage/entity"
)

func sinkSpec(t *testing.T, path string) *entity.Spec {
	spec, err := entity.NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "train",
	   "description": "Passenger manifest cleaning, training set",
	   "version": 1,
	   "source": {"type": "inline"},
	   "transform": {},
	   "sink": {
	      "type": "csvfile",
	      "config": {
	         "path": ` + strconvQuote(path) + `,
	         "columns": ["PassengerId", "Embarked", "Pclass", "Deck", "Fare", "Title", "Sex", "Age", "Relatives", "Survived"]
	      }
	   }
	}`))
	require.NoError(t, err)
	return spec
}

func TestLoader(t *testing.T) {

	path := filepath.Join(t.TempDir(), "train.csv")

	lf := NewLoaderFactory()
	assert.Equal(t, "csvfile", lf.SinkId())

	l, err := lf.NewLoader(context.Background(), entity.Config{Spec: sinkSpec(t, path), ID: "someInstance"})
	require.NoError(t, err)

	row1 := entity.NewTransformed()
	row1.Data["PassengerId"] = int64(1)
	row1.Data["Embarked"] = "Southampton"
	row1.Data["Pclass"] = "third"
	row1.Data["Deck"] = "Unknown"
	row1.Data["Fare"] = 7.25
	row1.Data["Title"] = "Mr"
	row1.Data["Sex"] = "male"
	row1.Data["Age"] = 22.0
	row1.Data["Relatives"] = int64(1)
	row1.Data["Survived"] = int64(0)

	// Second row with a sentinel-filled age and an undefined class label
	row2 := entity.NewTransformed()
	row2.Data["PassengerId"] = int64(6)
	row2.Data["Embarked"] = "Queenstown"
	row2.Data["Deck"] = "Unknown"
	row2.Data["Fare"] = 8.4583
	row2.Data["Title"] = "Mr"
	row2.Data["Sex"] = "male"
	row2.Data["Age"] = -1.0
	row2.Data["Relatives"] = int64(0)
	row2.Data["Survived"] = int64(0)

	resourceId, err := l.BatchLoad(context.Background(), []*entity.Transformed{row1, row2})
	assert.NoError(t, err)
	assert.Equal(t, path, resourceId)

	written, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "PassengerId,Embarked,Pclass,Deck,Fare,Title,Sex,Age,Relatives,Survived\n" +
		"1,Southampton,third,Unknown,7.25,Mr,male,22,1,0\n" +
		"6,Queenstown,,Unknown,8.4583,Mr,male,-1,0,0\n"
	assert.Equal(t, expected, string(written))
}

func TestLoaderEmptyData(t *testing.T) {

	path := filepath.Join(t.TempDir(), "train.csv")
	l, err := newLoader(entity.Config{Spec: sinkSpec(t, path), ID: "someInstance"})
	require.NoError(t, err)

	_, err = l.BatchLoad(context.Background(), nil)
	assert.Error(t, err)

	_, err = l.BatchLoad(context.Background(), []*entity.Transformed{nil})
	assert.Error(t, err)

	// Nothing should have been written
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoaderConfigValidation(t *testing.T) {

	spec, err := entity.NewSpec([]byte(`
	{
	   "namespace": "manifest",
	   "streamIdSuffix": "nosinkconf",
	   "description": "csvfile sink without config",
	   "version": 1,
	   "source": {"type": "inline"},
	   "transform": {},
	   "sink": {"type": "csvfile"}
	}`))
	require.NoError(t, err)

	_, err = NewLoaderFactory().NewLoader(context.Background(), entity.Config{Spec: spec})
	assert.Error(t, err)
}

func TestRenderValue(t *testing.T) {
	assert.Equal(t, "", renderValue(nil))
	assert.Equal(t, "Mr", renderValue("Mr"))
	assert.Equal(t, "42", renderValue(int64(42)))
	assert.Equal(t, "-1", renderValue(-1.0))
	assert.Equal(t, "7.25", renderValue(7.25))
	assert.Equal(t, "true", renderValue(true))
}
