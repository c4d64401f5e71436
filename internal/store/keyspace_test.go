package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	k := NewKeyspace()
	k.Set("k", StringValue("v"))

	v, ok := k.Get("k")
	require.True(t, ok)
	assert.Equal(t, StringValue("v"), v)
}

func TestGetMissingKey(t *testing.T) {
	k := NewKeyspace()
	_, ok := k.Get("missing")
	assert.False(t, ok)
}

func TestSetWithTTLZeroExpiresImmediately(t *testing.T) {
	k := NewKeyspace()
	k.SetWithTTL("k", StringValue("v"), 0)

	_, ok := k.Get("k")
	assert.False(t, ok, "SET ... EX 0 must behave as an immediate expiry")
}

func TestSetWithTTLFuture(t *testing.T) {
	k := NewKeyspace()
	k.SetWithTTL("k", StringValue("v"), 60)

	v, ok := k.Get("k")
	require.True(t, ok)
	assert.Equal(t, StringValue("v"), v)

	secs, hasTTL := k.TTL("k")
	require.True(t, hasTTL)
	assert.InDelta(t, 60, secs, 2)
}

func TestTTLOnKeyWithNoExpiration(t *testing.T) {
	k := NewKeyspace()
	k.Set("k", StringValue("v"))

	secs, hasTTL := k.TTL("k")
	assert.False(t, hasTTL)
	assert.EqualValues(t, -1, secs)
}

func TestTTLOnMissingKey(t *testing.T) {
	k := NewKeyspace()
	secs, hasTTL := k.TTL("missing")
	assert.False(t, hasTTL)
	assert.EqualValues(t, -2, secs)
}

func TestPersistRemovesTTL(t *testing.T) {
	k := NewKeyspace()
	k.SetWithTTL("k", StringValue("v"), 60)

	assert.True(t, k.Persist("k"))
	_, hasTTL := k.TTL("k")
	assert.False(t, hasTTL)

	assert.False(t, k.Persist("k"), "persisting a key with no TTL reports false")
}

func TestExpireAtOnMissingKey(t *testing.T) {
	k := NewKeyspace()
	assert.False(t, k.ExpireAt("missing", 10))
}

func TestKeysIsLiteralMembershipNotGlob(t *testing.T) {
	k := NewKeyspace()
	k.Set("alpha", StringValue("1"))
	k.Set("beta", StringValue("2"))

	got := k.Keys([]string{"alpha", "gamma", "beta", "a*"})
	assert.Equal(t, []string{"alpha", "beta"}, got, "a* is a literal candidate, not a glob pattern")
}

func TestMGetMixesPresentAndMissing(t *testing.T) {
	k := NewKeyspace()
	k.Set("a", StringValue("1"))

	got := k.MGet([]string{"a", "b"})
	require.Len(t, got, 2)
	assert.Equal(t, StringValue("1"), got[0])
	assert.Nil(t, got[1])
}

func TestEraseReportsPriorPresence(t *testing.T) {
	k := NewKeyspace()
	k.Set("a", StringValue("1"))

	assert.True(t, k.Erase("a"))
	assert.False(t, k.Erase("a"))
}

func TestSizeReflectsLiveKeys(t *testing.T) {
	k := NewKeyspace()
	assert.Equal(t, 0, k.Size())
	k.Set("a", StringValue("1"))
	k.Set("b", StringValue("2"))
	assert.Equal(t, 2, k.Size())
}

func TestFlushRemovesEverything(t *testing.T) {
	k := NewKeyspace()
	k.Set("a", StringValue("1"))
	k.Set("b", StringValue("2"))

	k.Flush()
	assert.Equal(t, 0, k.Size())
}

func TestFlushAsyncLeavesKeyspaceEmptyImmediately(t *testing.T) {
	k := NewKeyspace()
	k.Set("a", StringValue("1"))

	k.FlushAsync()
	assert.Equal(t, 0, k.Size())

	// Give the detached drain goroutine a moment so -race builds see it
	// complete within the test's lifetime; the keyspace itself is already
	// empty before this sleep.
	time.Sleep(10 * time.Millisecond)
}

func TestGetOrCreateHashCreatesOnFirstAccess(t *testing.T) {
	k := NewKeyspace()
	h, wrongType := k.GetOrCreateHash("h")
	require.False(t, wrongType)
	h["f"] = []byte("v")

	h2, wrongType := k.GetOrCreateHash("h")
	require.False(t, wrongType)
	assert.Equal(t, []byte("v"), h2["f"])
}

func TestGetOrCreateHashRejectsWrongType(t *testing.T) {
	k := NewKeyspace()
	k.Set("s", StringValue("v"))

	_, wrongType := k.GetOrCreateHash("s")
	assert.True(t, wrongType)
}

func TestGetOrCreateListPersistsAcrossCalls(t *testing.T) {
	k := NewKeyspace()
	l, wrongType := k.GetOrCreateList("l")
	require.False(t, wrongType)
	l.PushHead([]byte("a"))

	l2, wrongType := k.GetOrCreateList("l")
	require.False(t, wrongType)
	assert.Equal(t, 1, l2.Len())
}

func TestGetOrCreateSortedSetPersistsAcrossCalls(t *testing.T) {
	k := NewKeyspace()
	s, wrongType := k.GetOrCreateSortedSet("z")
	require.False(t, wrongType)
	s.InsertOrAssign("m", 1.5)

	s2, wrongType := k.GetOrCreateSortedSet("z")
	require.False(t, wrongType)
	sc, ok := s2.Score("m")
	require.True(t, ok)
	assert.Equal(t, 1.5, sc)
}
