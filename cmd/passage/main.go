// Command passage cleans the passenger manifest datasets in the current working
// directory: train.csv (with the survival label) and test.csv (without), writing
// each cleaned table back to the same location. The whole input table is
// extracted before the output file is created, so overwriting in place is safe.
// The cleaning behavior is fully specified by the two embedded dataset specs;
// there are no flags or environment options to configure.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pvallin/passage"
	"github.com/pvallin/passage/internal/pkg/entity/xcsv"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "passage: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {

	config := passage.NewConfig()
	if err := config.RegisterExtractorType(xcsv.NewExtractorFactory()); err != nil {
		return err
	}
	if err := config.RegisterLoaderType(xcsv.NewLoaderFactory()); err != nil {
		return err
	}

	p, err := passage.New(ctx, config)
	if err != nil {
		return err
	}
	defer p.Shutdown(ctx)

	for _, spec := range [][]byte{trainSpec, testSpec} {
		if _, err := p.RegisterStream(ctx, spec); err != nil {
			return err
		}
	}

	if err := p.Run(ctx); err != nil {
		return err
	}

	for id, m := range p.Metrics() {
		fmt.Printf("%s: %d rows in, %d dropped, %d written\n",
			id, m.RowsExtracted, m.RowsDropped, m.RowsLoaded)
	}
	return nil
}

// The two dataset specs differ only in input/output paths and the presence of
// the survival label, which the test set does not carry.

var trainSpec = []byte(`
{
   "namespace": "manifest",
   "streamIdSuffix": "train",
   "description": "Passenger manifest cleaning, training set",
   "version": 1,
   "source": {
      "type": "csvfile",
      "config": {
         "path": "train.csv",
         "columns": ["PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Fare", "Cabin", "Embarked"]
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
               { "id": "Survived", "type": "integer" },
               { "id": "Sex" },
               { "id": "Age", "type": "float", "missingValue": -1 },
               { "id": "Fare", "type": "float", "missingValue": -1 }
            ]
         }
      ],
      "sumFields": [
         { "id": "Relatives", "operands": ["SibSp", "Parch"] }
      ],
      "tokenLookup": [
         {
            "id": "Title",
            "field": "Name",
            "groups": {
               "Mr": ["Mr", "Sir", "Don", "Dona", "Lady"],
               "Miss": ["Miss", "Mlle"],
               "Mrs": ["Mrs", "Mme", "Countess", "Ms"],
               "Master": ["Master", "Jonkheer"],
               "Other": ["Dr", "Rev", "Col", "Major", "Capt"]
            }
         }
      ],
      "firstChar": [
         { "id": "Deck", "field": "Cabin", "fallback": "Unknown" }
      ],
      "relabel": [
         {
            "id": "Pclass",
            "field": "Pclass",
            "labels": { "1": "first", "2": "second", "3": "third" }
         },
         {
            "id": "Embarked",
            "field": "Embarked",
            "labels": { "C": "Cherbourg", "Q": "Queenstown", "S": "Southampton" }
         }
      ]
   },
   "sink": {
      "type": "csvfile",
      "config": {
         "path": "train.csv",
         "columns": ["PassengerId", "Embarked", "Pclass", "Deck", "Fare", "Title", "Sex", "Age", "Relatives", "Survived"]
      }
   }
}`)

var testSpec = []byte(`
{
   "namespace": "manifest",
   "streamIdSuffix": "test",
   "description": "Passenger manifest cleaning, test set (no survival label)",
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
         { "key": "Embarked", "valueIsEmpty": true }
      ],
      "extractFields": [
         {
            "fields": [
               { "id": "PassengerId", "type": "integer" },
               { "id": "Sex" },
               { "id": "Age", "type": "float", "missingValue": -1 },
               { "id": "Fare", "type": "float", "missingValue": -1 }
            ]
         }
      ],
      "sumFields": [
         { "id": "Relatives", "operands": ["SibSp", "Parch"] }
      ],
      "tokenLookup": [
         {
            "id": "Title",
            "field": "Name",
            "groups": {
               "Mr": ["Mr", "Sir", "Don", "Dona", "Lady"],
               "Miss": ["Miss", "Mlle"],
               "Mrs": ["Mrs", "Mme", "Countess", "Ms"],
               "Master": ["Master", "Jonkheer"],
               "Other": ["Dr", "Rev", "Col", "Major", "Capt"]
            }
         }
      ],
      "firstChar": [
         { "id": "Deck", "field": "Cabin", "fallback": "Unknown" }
      ],
      "relabel": [
         {
            "id": "Pclass",
            "field": "Pclass",
            "labels": { "1": "first", "2": "second", "3": "third" }
         },
         {
            "id": "Embarked",
            "field": "Embarked",
            "labels": { "C": "Cherbourg", "Q": "Queenstown", "S": "Southampton" }
         }
      ]
   },
   "sink": {
      "type": "csvfile",
      "config": {
         "path": "test.csv",
         "columns": ["PassengerId", "Embarked", "Pclass", "Deck", "Fare", "Title", "Sex", "Age", "Relatives"]
      }
   }
}`)
