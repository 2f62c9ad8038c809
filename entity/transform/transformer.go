package transform

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pvallin/passage/entity"

	"github.com/tidwall/gjson"
)

// Default Transformer implementation (stateless, immutable).
// It applies the transformation passes of a dataset spec to one row at a time, in
// fixed order, preserving input row order across a run since each row maps to at
// most one output row.
type Transformer struct {
	spec   *entity.Spec
	tokens []map[string]string // token -> group, one inverted table per TokenLookup
}

func NewTransformer(spec *entity.Spec) *Transformer {
	var t Transformer

	t.spec = spec
	for _, tl := range spec.Transform.TokenLookup {
		t.tokens = append(t.tokens, invertGroups(tl.Groups))
	}

	return &t
}

// invertGroups turns the spec's group table (group -> member tokens) into the
// lookup direction used per row (token -> group). Collisions are rejected already
// by Spec.Validate().
func invertGroups(groups map[string][]string) map[string]string {
	inverted := make(map[string]string)
	for group, tokens := range groups {
		for _, token := range tokens {
			inverted[token] = group
		}
	}
	return inverted
}

// Transform returns the cleaned row based on the input row data and the
// transformation rules in the Spec, where keys are "id" fields from the Transform
// spec and values are the transformation results.
// If Transform() succeeded but the row was discarded by an exclusion filter, the
// return values are nil, nil (i.e., not regarded as an error).
func (t *Transformer) Transform(ctx context.Context, row []byte) ([]*entity.Transformed, error) {

	if len(t.spec.Transform.ExcludeRowsWith) > 0 {
		if t.shouldExclude(row) {
			return nil, nil
		}
	}

	cleaned := entity.NewTransformed()

	for _, fieldExtraction := range t.spec.Transform.ExtractFields {
		extractFields(fieldExtraction, row, cleaned)
	}

	for _, sum := range t.spec.Transform.SumFields {
		sumFields(sum, row, cleaned)
	}

	for i, tl := range t.spec.Transform.TokenLookup {
		if err := tokenLookup(tl, t.tokens[i], row, cleaned); err != nil {
			return nil, err
		}
	}

	for _, fc := range t.spec.Transform.FirstChar {
		firstChar(fc, row, cleaned)
	}

	for _, rl := range t.spec.Transform.Relabel {
		relabel(rl, row, cleaned)
	}

	return []*entity.Transformed{cleaned}, nil
}

func (t *Transformer) shouldExclude(row []byte) (exclude bool) {

	for _, filter := range t.spec.Transform.ExcludeRowsWith {

		valueToCheck := gjson.GetBytes(row, filter.Key)
		if !valueToCheck.Exists() {
			if excludeIfEmpty(filter.ValueIsEmpty) {
				return true
			}
			continue
		}
		value := valueToCheck.String()

		if excludeIfEmpty(filter.ValueIsEmpty) && value == "" {
			return true
		}
		if excludeIfInBlacklist(value, filter.Values) {
			return true
		}
	}
	return
}

func excludeIfEmpty(filterValueIsEmpty *bool) bool {
	if filterValueIsEmpty != nil {
		if *filterValueIsEmpty {
			return true
		}
	}
	return false
}

func excludeIfInBlacklist(value string, filterValues []string) bool {
	for _, excludeIfValue := range filterValues {
		if value == excludeIfValue {
			return true
		}
	}
	return false
}

func extractFields(fieldExtraction entity.ExtractFields, row []byte, cleaned *entity.Transformed) {

	for _, field := range fieldExtraction.Fields {
		value := gjson.GetBytes(row, field.Path())

		if !value.Exists() {
			if field.MissingValue != nil {
				cleaned.Data[field.Id] = coerceMissing(field.Type, *field.MissingValue)
			}
			continue
		}

		switch field.Type {
		case "bool", "boolean":
			cleaned.Data[field.Id] = value.Bool()
		case "int", "integer":
			cleaned.Data[field.Id] = value.Int()
		case "float", "number":
			cleaned.Data[field.Id] = value.Float()
		default:
			cleaned.Data[field.Id] = value.String()
		}
	}
}

func coerceMissing(fieldType string, missingValue float64) any {
	switch fieldType {
	case "int", "integer":
		return int64(missingValue)
	default:
		return missingValue
	}
}

// sumFields stores the arithmetic sum of the operand fields. Operands missing from
// the row count as zero.
func sumFields(spec entity.SumFields, row []byte, cleaned *entity.Transformed) {
	var sum int64
	for _, operand := range spec.Operands {
		sum += gjson.GetBytes(row, operand).Int()
	}
	cleaned.Data[spec.Id] = sum
}

// tokenLookup parses the honorific token from the name field and maps it through
// the inverted group table. This is the one pass that can fail on malformed input:
// a name without a parsable token, or a token absent from the table, aborts the
// run rather than silently defaulting a group.
func tokenLookup(spec entity.TokenLookup, groups map[string]string, row []byte, cleaned *entity.Transformed) error {

	value := gjson.GetBytes(row, spec.Field)
	if !value.Exists() {
		return fmt.Errorf("tokenLookup field %q missing from row: %s", spec.Field, string(row))
	}

	token, err := honorificToken(value.String())
	if err != nil {
		return fmt.Errorf("%v, in row: %s", err, string(row))
	}

	group, ok := groups[token]
	if !ok {
		return fmt.Errorf("unrecognized token %q in field %q, in row: %s", token, spec.Field, string(row))
	}

	cleaned.Data[spec.Id] = group
	return nil
}

// honorificToken extracts the whitespace-delimited token immediately preceding the
// first period of the name, with any trailing period stripped.
func honorificToken(name string) (string, error) {
	before, _, found := strings.Cut(name, ".")
	if !found {
		return "", fmt.Errorf("no period found in name %q", name)
	}
	tokens := strings.Fields(before)
	if len(tokens) == 0 {
		return "", fmt.Errorf("no token preceding the first period in name %q", name)
	}
	return strings.TrimSuffix(tokens[len(tokens)-1], "."), nil
}

// firstChar reduces the field to its first character after stripping leading
// whitespace. Missing values and non-string values yield the fallback label.
func firstChar(spec entity.FirstChar, row []byte, cleaned *entity.Transformed) {

	value := gjson.GetBytes(row, spec.Field)
	if !value.Exists() || value.Type != gjson.String {
		cleaned.Data[spec.Id] = spec.Fallback
		return
	}

	stripped := strings.TrimLeftFunc(value.String(), unicode.IsSpace)
	if stripped == "" {
		cleaned.Data[spec.Id] = spec.Fallback
		return
	}
	cleaned.Data[spec.Id] = string([]rune(stripped)[:1])
}

// relabel maps the categorical code through the label table. A code without an
// entry produces no output value, so out-of-range class and embarkation codes end
// up as empty output cells.
func relabel(spec entity.Relabel, row []byte, cleaned *entity.Transformed) {

	value := gjson.GetBytes(row, spec.Field)
	if !value.Exists() {
		return
	}
	if label, ok := spec.Labels[value.String()]; ok {
		cleaned.Data[spec.Id] = label
	}
}
