package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(i int) Record {
	return Record{
		SourceText:     fmt.Sprintf("source %d", i),
		TargetText:     fmt.Sprintf("target %d", i),
		SourceLanguage: "en-GB",
		TargetLanguage: "es-ES",
	}
}

func TestCache_AddIsMostRecentFirst(t *testing.T) {
	c := NewCache(DefaultCapacity)
	require.NoError(t, c.Add(record(1)))
	require.NoError(t, c.Add(record(2)))

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "source 2", entries[0].SourceText)
	assert.Equal(t, "source 1", entries[1].SourceText)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestCache_EvictsOldestBeyondCapacity(t *testing.T) {
	c := NewCache(DefaultCapacity)
	for i := 1; i <= 6; i++ {
		require.NoError(t, c.Add(record(i)))
		assert.LessOrEqual(t, c.Len(), DefaultCapacity)
	}

	entries := c.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "source 6", entries[0].SourceText)
	for _, e := range entries {
		assert.NotEqual(t, "source 1", e.SourceText)
	}
	assert.Equal(t, "source 2", entries[4].SourceText)
}

func TestCache_RejectsIncompleteRecords(t *testing.T) {
	c := NewCache(DefaultCapacity)

	for _, r := range []Record{
		{TargetText: "b", SourceLanguage: "en", TargetLanguage: "es"},
		{SourceText: "a", SourceLanguage: "en", TargetLanguage: "es"},
		{SourceText: "a", TargetText: "b", TargetLanguage: "es"},
		{SourceText: "a", TargetText: "b", SourceLanguage: "en"},
	} {
		assert.ErrorIs(t, c.Add(r), ErrIncompleteRecord)
	}
	assert.Equal(t, 0, c.Len())
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(DefaultCapacity)
	require.NoError(t, c.Add(record(1)))
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Entries())
}

func TestCache_EntriesIsACopy(t *testing.T) {
	c := NewCache(DefaultCapacity)
	require.NoError(t, c.Add(record(1)))

	entries := c.Entries()
	entries[0].TargetText = "mutated"
	assert.Equal(t, "target 1", c.Entries()[0].TargetText)
}

func TestCache_NonPositiveCapacityUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewCache(0).Capacity())
}

func TestCache_ConcurrentAdds(t *testing.T) {
	c := NewCache(DefaultCapacity)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Add(record(i))
			_ = c.Entries()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, DefaultCapacity, c.Len())
}
