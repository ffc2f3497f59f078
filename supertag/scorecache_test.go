package supertag

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCacheMemory(t *testing.T) {
	c := newScoreCache("", "test-model")
	buf := newScoreBuffer(1, 2)
	copy(buf.Row(0), []float32{0.3, 0.7})

	key := c.key([]string{"dogs", "run"})
	_, ok := c.get(key)
	assert.False(t, ok)

	c.put(key, buf)
	got, ok := c.get(key)
	require.True(t, ok)
	assert.Equal(t, buf.Row(0), got.Row(0))

	// Cached entries are cloned both ways.
	got.Row(0)[0] = 99
	again, _ := c.get(key)
	assert.InDelta(t, 0.3, again.Score(0, 0), 1e-6)
}

func TestScoreCacheDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := newScoreCache(dir, "test-model")
	buf := newScoreBuffer(2, 3)
	copy(buf.Row(0), []float32{0.1, 0.2, 0.3})
	copy(buf.Row(1), []float32{0.4, 0.5, 0.6})

	key := c.key([]string{"dogs", "run"})
	require.NoError(t, c.save(key, buf))

	fresh := newScoreCache(dir, "test-model")
	got, ok, err := fresh.load(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, buf.Row(0), got.Row(0))
	assert.Equal(t, buf.Row(1), got.Row(1))
}

func TestScoreCacheKeyDependsOnModelAndTokens(t *testing.T) {
	a := newScoreCache("", "model-a")
	b := newScoreCache("", "model-b")

	assert.NotEqual(t, a.key([]string{"dogs"}), b.key([]string{"dogs"}))
	assert.NotEqual(t, a.key([]string{"dogs", "run"}), a.key([]string{"dogs run"}))
}

func TestScoreCacheRejectsCorruptHeader(t *testing.T) {
	dir := t.TempDir()
	c := newScoreCache(dir, "test-model")
	key := c.key([]string{"dogs"})

	// Header claims enormous dimensions; the payload holds two floats.
	data := make([]byte, 8+8)
	binary.LittleEndian.PutUint32(data[:4], 0xffffffff)
	binary.LittleEndian.PutUint32(data[4:8], 0xffffffff)
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+".bin"), data, 0o644))

	buf, ok, err := c.load(key)
	assert.Nil(t, buf)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestScoreCacheLoadMissing(t *testing.T) {
	c := newScoreCache(t.TempDir(), "test-model")
	_, ok, err := c.load(c.key([]string{"nope"}))
	require.NoError(t, err)
	assert.False(t, ok)
}
