// Package transform provides the default table Transformer, applying the ordered
// row-cleaning passes of a dataset spec: row exclusion filters, pass-through field
// extraction with missing-value fill, derived sums, honorific token lookup,
// first-character reduction and categorical relabeling.
package transform
