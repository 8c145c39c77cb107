package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizePair(t *testing.T) {
	lo, hi := normalizePair(7, 2)
	assert.Equal(t, uint(2), lo)
	assert.Equal(t, uint(7), hi)

	// Both orderings of a pair must produce the same key, or the
	// unique index cannot deduplicate threads.
	lo2, hi2 := normalizePair(2, 7)
	assert.Equal(t, lo, lo2)
	assert.Equal(t, hi, hi2)
}

func TestNormalizePairDistinctPerPeer(t *testing.T) {
	// Pairs sharing one member must map to distinct keys: user 1
	// holds one thread per peer, not one thread total.
	aLo, aHi := normalizePair(1, 2)
	bLo, bHi := normalizePair(1, 3)
	assert.NotEqual(t, [2]uint{aLo, aHi}, [2]uint{bLo, bHi})

	cLo, cHi := normalizePair(3, 1)
	assert.Equal(t, [2]uint{bLo, bHi}, [2]uint{cLo, cHi})
}

func TestPairIndexModel(t *testing.T) {
	model := pairIndexModel()

	// The index must sit on the scalar pair fields. A unique index
	// over the participant_ids array is multikey: its keys are the
	// individual elements, so two threads sharing any single
	// participant would collide.
	require.IsType(t, bson.D{}, model.Keys)
	keys := model.Keys.(bson.D)
	require.Len(t, keys, 2)
	assert.Equal(t, "participant_lo", keys[0].Key)
	assert.Equal(t, "participant_hi", keys[1].Key)

	require.NotNil(t, model.Options)
	require.NotNil(t, model.Options.Unique)
	assert.True(t, *model.Options.Unique)
}
