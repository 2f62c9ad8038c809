package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Spec implements the Passage Dataset Spec and specifies how a single dataset should
// be cleaned from Source to Transform to Sink. One spec governs one table run.
// The Namespace + StreamIdSuffix combination must be unique (forming a Stream ID).
type Spec struct {
	// Main metadata (required)
	Namespace      string `json:"namespace"`
	StreamIdSuffix string `json:"streamIdSuffix"`
	Description    string `json:"description"`
	Version        int    `json:"version"`

	// Operational config (optional)
	Disabled bool `json:"disabled"`
	Ops      Ops  `json:"ops"`

	// Stream entity config (required)
	Source    Source    `json:"source"`
	Transform Transform `json:"transform"`
	Sink      Sink      `json:"sink"`
}

// NewSpec creates a new Spec from JSON and validates both against the JSON schema and
// the transformation logic on the created spec.
func NewSpec(specData []byte) (*Spec, error) {
	var spec Spec
	if len(specData) == 0 {
		return nil, errors.New("no spec data provided")
	}

	if err := validateRawJson(specData); err != nil {
		return nil, err
	}

	err := json.Unmarshal(specData, &spec)
	if err == nil {
		err = spec.Validate()
	}
	return &spec, err
}

func (s *Spec) Id() string {
	return s.Namespace + "-" + s.StreamIdSuffix
}

func (s *Spec) IsDisabled() bool {
	return s.Disabled
}

type Ops struct {
	// LogRowData is useful for enabling granular row level debugging dynamically for
	// a specific dataset without code changes, by registering a spec version with this
	// field set to true.
	LogRowData bool `json:"logRowData"`

	// CustomProperties can be used to configure processing in any type of custom
	// source/sink entity.
	CustomProperties map[string]string `json:"customProperties,omitempty"`
}

// Source spec
type Source struct {
	Type   EntityType   `json:"type"`
	Config SourceConfig `json:"config"`
}

type SourceConfig struct {
	// Path is the location of the input table for file based sources.
	Path string `json:"path,omitempty"`

	// Columns is the explicit column allow-list applied on read. Input columns not
	// in this list are ignored. Listed columns missing from the input header are
	// skipped silently (e.g. a survival label column absent from a test set).
	Columns []string `json:"columns,omitempty"`

	// Rows provides the table rows directly in the spec, as one JSON object per row.
	// Only regarded by the "inline" source type.
	Rows []json.RawMessage `json:"rows,omitempty"`

	// Properties holds direct low-level entity properties
	Properties []Property `json:"properties,omitempty"`
}

type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Transform spec.
// The transformation passes are applied to each row in a fixed order:
//
//	excludeRowsWith -> extractFields -> sumFields -> tokenLookup -> firstChar -> relabel
//
// Input fields not referenced by an output-producing pass are dropped from the
// cleaned row by construction.
type Transform struct {
	// ExcludeRowsWith is checked first to silently discard rows matching conditions
	// from all other transformations. Multiple filter objects are handled as OR
	// type of filters.
	ExcludeRowsWith []ExcludeRowsWith `json:"excludeRowsWith,omitempty"`

	// ExtractFields picks out pass-through fields from the input row, with optional
	// type coercion and missing-value fill.
	ExtractFields []ExtractFields `json:"extractFields,omitempty"`

	// SumFields derives a new integer field as the arithmetic sum of its operands.
	SumFields []SumFields `json:"sumFields,omitempty"`

	// TokenLookup parses the honorific token from a name field and maps it through
	// a fixed group table.
	TokenLookup []TokenLookup `json:"tokenLookup,omitempty"`

	// FirstChar reduces a field to its first non-whitespace character, with a
	// fallback label for missing or non-string values.
	FirstChar []FirstChar `json:"firstChar,omitempty"`

	// Relabel maps categorical codes to labels.
	Relabel []Relabel `json:"relabel,omitempty"`
}

func (t *Transform) Validate() error {
	for _, tl := range t.TokenLookup {
		if err := tl.Validate(); err != nil {
			return err
		}
	}
	for _, sf := range t.SumFields {
		if sf.Id == "" || len(sf.Operands) == 0 {
			return errors.New("sumFields requires an id and at least one operand")
		}
	}
	for _, rl := range t.Relabel {
		if rl.Id == "" || rl.Field == "" || len(rl.Labels) == 0 {
			return errors.New("relabel requires an id, a field and a non-empty label map")
		}
	}
	for _, fc := range t.FirstChar {
		if fc.Id == "" || fc.Field == "" {
			return errors.New("firstChar requires an id and a field")
		}
	}
	return nil
}

// ExcludeRowsWith specifies if certain rows should be dropped directly, without
// further processing. If ValueIsEmpty is set to true and the field is missing or
// empty, the row is excluded. If the field value matches any of the values in the
// Values array the row is excluded as well (blacklist option).
// The Key string is on JSON path syntax according to github.com/tidwall/gjson.
type ExcludeRowsWith struct {
	Key          string   `json:"key"`
	Values       []string `json:"values,omitempty"`
	ValueIsEmpty *bool    `json:"valueIsEmpty,omitempty"`
}

// ExtractFields creates root level ID fields in the cleaned row, with values
// retrieved from a json path expression from the input row.
type ExtractFields struct {
	Fields []Field `json:"fields,omitempty"`
}

type Field struct {
	Id string `json:"id"`

	// JsonPath defines which field in the row that should be extracted, using
	// github.com/tidwall/gjson syntax. If empty the field named by Id is used.
	JsonPath string `json:"jsonPath,omitempty"`

	// Type can be "string" (default), "integer", "float" or "boolean".
	Type string `json:"type,omitempty"`

	// MissingValue, if present, is stored (coerced to Type) when the field is
	// missing from the input row, keeping the output field numeric instead of
	// introducing a separate missing indicator. If omitted, a missing field
	// produces no output value (the output cell stays empty).
	MissingValue *float64 `json:"missingValue,omitempty"`
}

func (f Field) Path() string {
	if f.JsonPath != "" {
		return f.JsonPath
	}
	return f.Id
}

// SumFields derives a new field with the arithmetic sum of the operand fields.
// Operand fields are read from the input row and are not themselves extracted,
// so they are dropped from the cleaned row.
type SumFields struct {
	Id       string   `json:"id"`
	Operands []string `json:"operands"`
}

// TokenLookup parses the honorific from a full-name field: the whitespace-delimited
// token immediately preceding the first period, with any trailing period stripped.
// The token is then mapped through Groups into its group name. An unrecognized
// token, or a name the token cannot be parsed from, is a hard error aborting the
// run. The name field itself is not extracted and thus dropped from the output.
type TokenLookup struct {
	Id     string              `json:"id"`
	Field  string              `json:"field"`
	Groups map[string][]string `json:"groups"`
}

func (tl TokenLookup) Validate() error {
	if tl.Id == "" || tl.Field == "" || len(tl.Groups) == 0 {
		return errors.New("tokenLookup requires an id, a field and a non-empty group table")
	}
	// A token mapped into two groups would make the lookup order dependent.
	seen := make(map[string]string)
	for group, tokens := range tl.Groups {
		for _, token := range tokens {
			if other, ok := seen[token]; ok && other != group {
				return fmt.Errorf("token %q mapped to both group %q and %q", token, other, group)
			}
			seen[token] = group
		}
	}
	return nil
}

// FirstChar takes the first character of the field value after stripping leading
// whitespace. A missing or non-string value yields the Fallback label instead.
type FirstChar struct {
	Id       string `json:"id"`
	Field    string `json:"field"`
	Fallback string `json:"fallback,omitempty"`
}

// Relabel maps the categorical code found in Field through Labels and stores the
// result under Id. A non-missing code without an entry in Labels yields no output
// value, leaving the output cell empty.
type Relabel struct {
	Id     string            `json:"id"`
	Field  string            `json:"field"`
	Labels map[string]string `json:"labels"`
}

// Sink spec
type Sink struct {
	Type   EntityType  `json:"type"`
	Config *SinkConfig `json:"config,omitempty"`
}

type SinkConfig struct {
	// Path is the location of the output table for file based sinks.
	Path string `json:"path,omitempty"`

	// Columns is the fixed ordered output column list. Each column value is taken
	// from the cleaned row by the same id. Ids missing from a cleaned row are
	// written as empty cells.
	Columns []string `json:"columns,omitempty"`

	// Direct low-level entity properties, e.g. for the void sink
	Properties []Property `json:"properties,omitempty"`
}

// Dataset spec JSON schema validation is handled by NewSpec() using validateRawJson()
// against the spec json schema. This method covers the validation the schema cannot
// express, such as token group collision checks.
func (s *Spec) Validate() error {
	return s.Transform.Validate()
}

func (s *Spec) JSON() []byte {
	specData, _ := json.Marshal(s)
	return specData
}

func validateRawJson(specData []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(specSchema)
	documentLoader := gojsonschema.NewBytesLoader(specData)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		specErrors := ""
		for _, desc := range result.Errors() {
			specErrors += " - " + desc.String()
		}
		err = errors.New(specErrors)
	}
	return err
}

var specSchema = []byte(`
{
  "$schema": "http://json-schema.org/draft-07/schema",
  "type": "object",
  "required": [
    "namespace",
    "streamIdSuffix",
    "version",
    "description",
    "source",
    "transform",
    "sink"
  ],
  "properties": {
    "namespace": {
      "type": "string",
      "minLength": 1
    },
    "streamIdSuffix": {
      "type": "string",
      "minLength": 1
    },
    "version": {
      "type": "integer"
    },
    "description": {
      "type": "string",
      "minLength": 1
    },
    "disabled": {
      "type": "boolean"
    },
    "ops": {
      "type": "object",
      "properties": {
        "logRowData": {
          "type": "boolean"
        },
        "customProperties": {
          "anyOf": [
            {
              "type": "object",
              "additionalProperties": {
                "type": "string"
              }
            },
            {
              "type": "null"
            }
          ]
        }
      },
      "additionalProperties": false
    },
    "source": {
      "type": "object",
      "required": [
        "type"
      ],
      "properties": {
        "type": {
          "type": "string",
          "minLength": 1
        }
      }
    },
    "transform": {
      "type": "object"
    },
    "sink": {
      "type": "object",
      "required": [
        "type"
      ],
      "properties": {
        "type": {
          "type": "string",
          "minLength": 1
        }
      }
    }
  },
  "additionalProperties": false
}
`)
