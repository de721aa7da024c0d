package scanner

import "strings"

// Field names a logical value read from an objects table.
type Field string

const (
	FieldName           Field = "name"
	FieldClassification Field = "classification"
	FieldRA             Field = "ra"
	FieldDec            Field = "dec"
	FieldRedshift       Field = "redshift"
)

// ColumnRule resolves a field to a concrete header. Candidates are tried in
// order; when none is present, the first header containing Substring wins.
type ColumnRule struct {
	Field      Field
	Candidates []string
	Substring  string
}

// AstronoteColumns is the fallback policy for the columns of astronote tables,
// whose names differ between notes.
var AstronoteColumns = []ColumnRule{
	{Field: FieldName, Candidates: []string{"Name", "TNS Name", "Obj. Name"}},
	{Field: FieldClassification, Candidates: []string{"Reported Obj-Type", "TNS Obj-Type", "Candidate type"}},
	{Field: FieldRA, Candidates: []string{"TNS RA", "Reported RA"}},
	{Field: FieldDec, Candidates: []string{"TNS DEC", "Reported DEC"}},
	{Field: FieldRedshift, Substring: "Redshift"},
}

// FirstPresent returns the first candidate found among headers.
func FirstPresent(headers []string, candidates []string) (string, bool) {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	for _, c := range candidates {
		if _, ok := present[c]; ok {
			return c, true
		}
	}
	return "", false
}

// FirstContaining returns the first header, in table order, containing substr.
func FirstContaining(headers []string, substr string) (string, bool) {
	if substr == "" {
		return "", false
	}
	for _, h := range headers {
		if strings.Contains(h, substr) {
			return h, true
		}
	}
	return "", false
}

// Resolve applies a single rule to headers.
func (r ColumnRule) Resolve(headers []string) (string, bool) {
	if col, ok := FirstPresent(headers, r.Candidates); ok {
		return col, true
	}
	return FirstContaining(headers, r.Substring)
}

// Columns maps each field to the header chosen for one table. Unresolved
// fields are absent.
type Columns map[Field]string

// ResolveColumns applies every rule to the headers of one table.
func ResolveColumns(rules []ColumnRule, headers []string) Columns {
	cols := make(Columns, len(rules))
	for _, rule := range rules {
		if col, ok := rule.Resolve(headers); ok {
			cols[rule.Field] = col
		}
	}
	return cols
}

// Value reads a field from a row; missing columns yield "".
func (c Columns) Value(row map[string]string, field Field) string {
	col, ok := c[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[col])
}
