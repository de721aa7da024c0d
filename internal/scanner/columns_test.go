package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func subsets(items []string) [][]string {
	var out [][]string
	for mask := 0; mask < 1<<len(items); mask++ {
		var set []string
		for i, item := range items {
			if mask&(1<<i) != 0 {
				set = append(set, item)
			}
		}
		out = append(out, set)
	}
	return out
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i := range in {
		out[len(in)-1-i] = in[i]
	}
	return out
}

func TestRulesPreferPriorityOrderForEverySubset(t *testing.T) {
	t.Parallel()

	for _, rule := range AstronoteColumns {
		if len(rule.Candidates) == 0 {
			continue
		}
		for _, present := range subsets(rule.Candidates) {
			// header order must not influence the choice
			for _, headers := range [][]string{present, reversed(present), append([]string{"Discovery Date"}, reversed(present)...)} {
				got, ok := rule.Resolve(headers)
				if len(present) == 0 {
					require.False(t, ok, "field %s headers %v", rule.Field, headers)
					continue
				}
				require.True(t, ok)
				require.Equal(t, present[0], got, "field %s headers %v", rule.Field, headers)
			}
		}
	}
}

func TestRedshiftRuleMatchesSubstring(t *testing.T) {
	t.Parallel()

	cols := ResolveColumns(AstronoteColumns, []string{"Name", "Host Redshift", "Redshift", "TNS Obj-Type"})
	require.Equal(t, "Host Redshift", cols[FieldRedshift])
	require.Equal(t, "TNS Obj-Type", cols[FieldClassification])

	cols = ResolveColumns(AstronoteColumns, []string{"Name", "redshift"})
	_, ok := cols[FieldRedshift]
	require.False(t, ok)
}

func TestColumnsValue(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Reported Obj-Type", "TNS Obj-Type", "Reported RA", "Reported DEC"}
	cols := ResolveColumns(AstronoteColumns, headers)
	row := map[string]string{
		"Name":              " 2024abc ",
		"Reported Obj-Type": "TDE",
		"TNS Obj-Type":      "SN Ia",
		"Reported RA":       "10:00:00.00",
		"Reported DEC":      "+20:00:00.0",
	}

	require.Equal(t, "2024abc", cols.Value(row, FieldName))
	require.Equal(t, "TDE", cols.Value(row, FieldClassification))
	require.Equal(t, "10:00:00.00", cols.Value(row, FieldRA))
	require.Equal(t, "+20:00:00.0", cols.Value(row, FieldDec))
	require.Equal(t, "", cols.Value(row, FieldRedshift))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, err := reg.Resolve("tns")
	require.Error(t, err)

	reg.Register(stubLayout{})
	layout, err := reg.Resolve("tns")
	require.NoError(t, err)
	require.Equal(t, "tns", layout.Name())
}
