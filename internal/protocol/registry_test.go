package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFTMSByServiceUUID(t *testing.T) {
	c := Detect([]string{"00001826-0000-1000-8000-00805f9b34fb"})
	assert.Equal(t, "ftms", c.Name())
}

func TestDetectStandardFallback(t *testing.T) {
	c := Detect([]string{"0000fe00-0000-1000-8000-00805f9b34fb"})
	assert.Equal(t, "standard", c.Name())
}

func TestDetectRejectsSubstringAtWrongPosition(t *testing.T) {
	c := Detect([]string{"ab1826cd"})
	assert.Equal(t, "standard", c.Name())
}

func TestRegistryMemoizesSingletons(t *testing.T) {
	a := StandardCodec()
	b := StandardCodec()
	assert.Same(t, a, b)

	x := FTMSCodec()
	y := FTMSCodec()
	assert.Same(t, x, y)
}
