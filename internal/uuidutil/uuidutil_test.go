package uuidutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFullUUID(t *testing.T) {
	full := ToFullUUID("1826")
	assert.Len(t, full, 36)
	assert.Equal(t, "00001826-0000-1000-8000-00805f9b34fb", full)
	assert.Equal(t, full[4:8], "1826")
}

func TestToFullUUIDPadsAndLowercases(t *testing.T) {
	assert.Equal(t, "0000fe01-0000-1000-8000-00805f9b34fb", ToFullUUID("FE01"))
	assert.Equal(t, "00000001-0000-1000-8000-00805f9b34fb", ToFullUUID("1"))
}

func TestMatchesShortToLong(t *testing.T) {
	assert.True(t, Matches("1826", "00001826-0000-1000-8000-00805f9b34fb"))
	assert.True(t, Matches("00001826-0000-1000-8000-00805f9b34fb", "1826"))
}

func TestMatchesIsCaseInsensitive(t *testing.T) {
	assert.True(t, Matches("1826", "00001826-0000-1000-8000-00805F9B34FB"))
}

func TestMatchesRejectsSubstringAtWrongPosition(t *testing.T) {
	// "1826" appears in this string, but not at positions 4..8.
	assert.False(t, Matches("1826", "0000fe00-0000-1826-8000-00805f9b34fb"))
	assert.False(t, Matches("1826", "ab1826cd"))
}

func TestMatchesTwoLongForms(t *testing.T) {
	assert.True(t, Matches("00001826-0000-1000-8000-00805f9b34fb", "00001826-0000-1000-8000-00805f9b34fb"))
	assert.False(t, Matches("00001826-0000-1000-8000-00805f9b34fb", "0000fe00-0000-1000-8000-00805f9b34fb"))
}

func TestMatchesServiceDetectionFixtures(t *testing.T) {
	assert.True(t, Matches("1826", "00001826-0000-1000-8000-00805f9b34fb"))
	assert.False(t, Matches("1826", "0000fe00-0000-1000-8000-00805f9b34fb"))
	assert.False(t, Matches("1826", "ab1826cd"))
}
