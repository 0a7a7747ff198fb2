package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every entry must be internally consistent: the dispatch path trusts
// the table blindly, so a broken entry would surface as a silent miss.
func TestTableConsistency(t *testing.T) {
	for typ, rule := range Table() {
		t.Run(string(typ), func(t *testing.T) {
			assert.Equal(t, typ, rule.Type)
			assert.NotEmpty(t, rule.Action)
			assert.NotEmpty(t, rule.Priority)
			assert.NotEmpty(t, rule.Reason)

			// either a category sub-result or the flat list, never both
			if rule.FlatCategory != "" {
				assert.Empty(t, rule.Category)
			} else {
				assert.NotEmpty(t, rule.Category)
			}

			// a rule with no groups must at least carry a threshold
			if len(rule.Groups) == 0 {
				require.NotNil(t, rule.Threshold)
			}
			for _, g := range rule.Groups {
				assert.NotEmpty(t, g.Name)
				assert.NotEmpty(t, g.Patterns, "group %s", g.Name)
			}
			for _, name := range rule.Require {
				_, ok := rule.group(name)
				assert.True(t, ok, "Require references unknown group %s", name)
			}
			for _, f := range rule.Extract {
				_, ok := rule.group(f.Group)
				assert.True(t, ok, "Extract references unknown group %s", f.Group)
			}
			if rule.Threshold != nil {
				assert.Contains(t, []string{">=", "<="}, rule.Threshold.Op)
				assert.NotEmpty(t, rule.Threshold.ConfigKey)
			}
		})
	}
}

func TestOrderCoversTable(t *testing.T) {
	assert.Len(t, Order, len(Table()))
	seen := map[string]bool{}
	for _, typ := range Order {
		_, ok := Lookup(typ)
		assert.True(t, ok, "Order entry %s missing from table", typ)
		assert.False(t, seen[string(typ)], "duplicate Order entry %s", typ)
		seen[string(typ)] = true
	}
}

func TestLookupUnknownType(t *testing.T) {
	_, ok := Lookup("made_up_trigger_type")
	assert.False(t, ok)
}
