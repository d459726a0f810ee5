package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	name, ok := Name("en-GB")
	assert.True(t, ok)
	assert.Equal(t, "English", name)

	_, ok = Name("xx-XX")
	assert.False(t, ok)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("es-ES"))
	assert.True(t, IsSupported("ja-JP"))
	assert.False(t, IsSupported(""))
	assert.False(t, IsSupported("es"))
}

func TestAll_SortedByName(t *testing.T) {
	all := All()
	assert.Len(t, all, Count())
	assert.Equal(t, 97, Count())
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}
	assert.Equal(t, "Albanian", all[0].Name)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	assert.NotEqual(t, "changed", All()[0].Name)
}
