package market_test

import (
	"testing"

	"github.com/darkkaiser/market-watcher/internal/service/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSnapshot_Names verifies that plugin names are returned in sorted order.
func TestSnapshot_Names(t *testing.T) {
	snapshot := market.Snapshot{
		"charlie": entry("charlie", "1.0.0"),
		"alpha":   entry("alpha", "1.0.0"),
		"bravo":   entry("bravo", "1.0.0"),
	}

	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, snapshot.Names())
}

// TestStore_FirstReplaceHasNoPrevious verifies that the first stored snapshot
// acts as the seed: no previous snapshot is reported.
func TestStore_FirstReplaceHasNoPrevious(t *testing.T) {
	store := market.NewStore()

	_, seeded := store.Current()
	assert.False(t, seeded)

	prev, hadPrev := store.Replace(market.Snapshot{"a": entry("a", "1.0.0")})

	assert.False(t, hadPrev)
	assert.Nil(t, prev)

	cur, seeded := store.Current()
	require.True(t, seeded)
	assert.Equal(t, "1.0.0", cur["a"].Version)
}

// TestStore_ReplaceReturnsPrevious verifies that subsequent replacements return
// the previous snapshot for diffing.
func TestStore_ReplaceReturnsPrevious(t *testing.T) {
	store := market.NewStore()

	first := market.Snapshot{"a": entry("a", "1.0.0")}
	second := market.Snapshot{"a": entry("a", "2.0.0")}

	store.Replace(first)
	prev, hadPrev := store.Replace(second)

	require.True(t, hadPrev)
	assert.Equal(t, "1.0.0", prev["a"].Version)

	cur, _ := store.Current()
	assert.Equal(t, "2.0.0", cur["a"].Version)
}
